package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/cache"
	"github.com/matzehuels/stackdeck/pkg/config"
	"github.com/matzehuels/stackdeck/pkg/deck"
	"github.com/matzehuels/stackdeck/pkg/errors"
)

// playCommand creates the interactive terminal deck.
func (c *CLI) playCommand() *cobra.Command {
	var (
		name    string
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "play [items...]",
		Short: "Play with a deck in the terminal",
		Long: `Play with a deck in the terminal.

Items default to the [deck] items of the config file. With --name, the deck
is restored from the snapshot of that name (if any) and saved back on quit,
so its order and last fan survive between runs.

Key bindings come from the [keys] table of the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd.Context(), args, name, noStore)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "snapshot name to restore from and save to")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not read or write snapshots")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, items []string, name string, noStore bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var snaps *cache.Snapshots
	if name != "" && !noStore {
		if snaps, err = c.openSnapshots(ctx, cfg); err != nil {
			return err
		}
		defer snaps.Close()
	}

	clock := anim.NewVirtualClock()
	surface := anim.NewMemorySurface(clock)
	surface.SetItemWidth(cfg.Deck.ItemWidth)

	d, err := c.buildDeck(ctx, cfg, surface, clock, items, snaps, name)
	if err != nil {
		return err
	}

	m := NewPlayModel(d, surface, clock, cfg.Keys)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}

	// let in-flight animations land before saving
	clock.RunUntilIdle(cfg.Deck.OperationTimeout)

	if snaps != nil {
		if err := snaps.Save(ctx, name, d.Snapshot()); err != nil {
			return err
		}
		printSuccess("Saved deck %s", StyleHighlight.Render(name))
	}
	printStack(d.ByRank(), d.Ranks())
	return nil
}

// buildDeck creates a deck from the snapshot called name when it exists,
// and from items (or the configured items) otherwise.
func (c *CLI) buildDeck(ctx context.Context, cfg *config.Config, surface anim.Surface, sched anim.Scheduler,
	items []string, snaps *cache.Snapshots, name string) (*deck.Deck, error) {
	opts := cfg.DeckOptions(c.Logger)

	if snaps != nil && len(items) == 0 {
		snap, err := snaps.Load(ctx, name)
		switch {
		case err == nil:
			c.Logger.Debug("restoring deck", "name", name, "items", len(snap.Stack.Order))
			return deck.FromSnapshot(surface, sched, snap, opts)
		case !errors.Is(err, errors.ErrCodeNotFound):
			return nil, err
		}
	}

	if len(items) == 0 {
		items = cfg.Deck.Items
	}
	return deck.New(surface, sched, items, opts)
}
