package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdeck/pkg/config"
	"github.com/matzehuels/stackdeck/pkg/fan"
)

// layoutCommand creates the layout command that prints fan placements.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		set    []string
		asJSON bool
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "layout [items...]",
		Short: "Print the fan placement of every item",
		Long: `Print the fan placement of every item.

Items are listed top first and default to the [deck] items of the config
file. Fan settings come from the [fan] table and can be overridden with
--set key=value (range, direction, translation, center, scatter, rotate,
origin.x, origin.y, origin.minX, origin.maxX, speed, easing).`,
		Example: `  stackdeck layout A B C --set range=60 --set direction=left
  stackdeck layout --json --set scatter=true --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			placements, err := computeLayout(cfg, args, set, seed)
			if err != nil {
				return err
			}
			if asJSON {
				return writeLayoutJSON(cmd.OutOrStdout(), placements)
			}
			fmt.Fprintln(cmd.OutOrStdout(), layoutTable(placements))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "fan setting as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for scattered fans")

	return cmd
}

// computeLayout resolves the fan request over the configured defaults and
// lays out items top first.
func computeLayout(cfg *config.Config, items, set []string, seed uint64) ([]fan.Placement, error) {
	if len(items) == 0 {
		items = cfg.Deck.Items
	}
	req, err := fan.ParseArgs(set)
	if err != nil {
		return nil, err
	}
	settings := fan.Resolve(req, cfg.FanSettings())
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	slots := make([]fan.Slot, len(items))
	for i, id := range items {
		slots[i] = fan.Slot{ID: id, Position: i}
	}
	return fan.Compute(slots, settings, fan.NewRNG(seed))
}

type placementJSON struct {
	ID              string  `json:"id"`
	Position        int     `json:"position"`
	Translation     float64 `json:"translation"`
	Step            float64 `json:"step"`
	Transform       string  `json:"transform"`
	TransformOrigin string  `json:"transform_origin,omitempty"`
}

func writeLayoutJSON(w io.Writer, placements []fan.Placement) error {
	out := make([]placementJSON, len(placements))
	for i, p := range placements {
		out[i] = placementJSON{
			ID:          p.ID,
			Position:    p.Position,
			Translation: p.Translation,
			Step:        p.Step,
			Transform:   p.Transform(),
		}
		if p.HasOrigin {
			out[i].TransformOrigin = p.TransformOrigin()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func layoutTable(placements []fan.Placement) string {
	rows := make([][]string, len(placements))
	for i, p := range placements {
		origin := "-"
		if p.HasOrigin {
			origin = p.TransformOrigin()
		}
		rows[i] = []string{strconv.Itoa(p.Position), p.ID, p.Transform(), origin}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Pos", "Item", "Transform", "Origin").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == 0 && col == 1:
				return styleTop
			case col == 2:
				return StyleHighlight
			}
			return StyleValue
		}).
		Render()
}
