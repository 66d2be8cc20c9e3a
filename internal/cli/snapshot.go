package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdeck/pkg/cache"
	"github.com/matzehuels/stackdeck/pkg/stack"
)

// snapshotCommand creates the snapshot command with its subcommands.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snapshots"},
		Short:   "Manage saved decks",
		Long:    `List, show and delete the decks saved by play --name or the HTTP service.`,
	}

	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved decks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSnapshots(cmd.Context(), func(ctx context.Context, snaps *cache.Snapshots) error {
				names, err := snaps.List(ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					printInfo("No saved decks")
					return nil
				}

				rows := make([][]string, 0, len(names))
				for _, name := range names {
					snap, err := snaps.Load(ctx, name)
					if err != nil {
						c.Logger.Warn("skipping unreadable snapshot", "name", name, "error", err)
						continue
					}
					rows = append(rows, []string{name, strconv.Itoa(len(snap.Stack.Order)), topOf(snap.Stack)})
				}
				fmt.Println(snapshotTable(rows))
				printSummary(fmt.Sprintf("%d saved", len(rows)))
				return nil
			})
		},
	}
}

func (c *CLI) snapshotShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved deck from top to bottom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSnapshots(cmd.Context(), func(ctx context.Context, snaps *cache.Snapshots) error {
				snap, err := snaps.Load(ctx, args[0])
				if err != nil {
					return err
				}
				printKeyValue("Name", args[0])
				printKeyValue("Baseline", strconv.Itoa(snap.Stack.Baseline))
				if snap.LastFan != nil {
					printKeyValue("Last fan", fmt.Sprintf("%s %g°", snap.LastFan.Direction, snap.LastFan.Range))
				}
				printNewline()
				printStack(byRank(snap.Stack), snap.Stack.Ranks)
				printNewline()
				printNextStep("Play it", "stackdeck play --name "+args[0])
				return nil
			})
		},
	}
}

func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>...",
		Aliases: []string{"rm"},
		Short:   "Delete saved decks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSnapshots(cmd.Context(), func(ctx context.Context, snaps *cache.Snapshots) error {
				for _, name := range args {
					if err := snaps.Delete(ctx, name); err != nil {
						return err
					}
					printSuccess("Deleted %s", StyleHighlight.Render(name))
				}
				return nil
			})
		},
	}
}

// withSnapshots opens the configured store for the duration of fn.
func (c *CLI) withSnapshots(ctx context.Context, fn func(context.Context, *cache.Snapshots) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	snaps, err := c.openSnapshots(ctx, cfg)
	if err != nil {
		return err
	}
	defer snaps.Close()
	return fn(ctx, snaps)
}

// byRank returns the snapshot's ids from top to bottom.
func byRank(s stack.Snapshot) []string {
	ids := append([]string(nil), s.Order...)
	sort.SliceStable(ids, func(i, j int) bool { return s.Ranks[ids[i]] > s.Ranks[ids[j]] })
	return ids
}

func topOf(s stack.Snapshot) string {
	if ids := byRank(s); len(ids) > 0 {
		return ids[0]
	}
	return "-"
}

func snapshotTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Items", "Top").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 2:
				return styleTop
			}
			return StyleValue
		}).
		Render()
}
