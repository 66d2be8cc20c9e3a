package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdeck/pkg/config"
	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/fan"
	"github.com/matzehuels/stackdeck/pkg/render"
	"github.com/matzehuels/stackdeck/pkg/render/order"
	"github.com/matzehuels/stackdeck/pkg/render/preview"
	"github.com/matzehuels/stackdeck/pkg/stack"
)

const (
	kindFan   = "fan"   // fanned-out cards
	kindOrder = "order" // stacking-order diagram
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	kind     string   // fan or order
	output   string   // output file path
	format   string   // svg, png or pdf
	scale    float64  // PNG scale factor
	detailed bool     // ranks in the order diagram
	from     string   // snapshot to render instead of items
	set      []string // fan overrides as key=value
	seed     uint64   // scatter seed
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{kind: kindFan, format: render.FormatSVG, scale: 2, seed: 1}

	cmd := &cobra.Command{
		Use:   "render [items...]",
		Short: "Render a fan preview or the stacking order",
		Long: `Render a fan preview or the stacking order of a deck.

The fan kind draws every card at its fan placement. The order kind draws
the items from top to bottom as a Graphviz diagram. PNG and PDF output
need rsvg-convert on the PATH.`,
		Example: `  stackdeck render A B C D -o fan.svg
  stackdeck render --from mydeck --kind order --detailed -o order.png --format png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", opts.kind, "what to draw: fan or order")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default deck.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png or pdf")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ranks and fan decoration in the order diagram")
	cmd.Flags().StringVar(&opts.from, "from", "", "render the saved deck of this name")
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "fan setting as key=value (repeatable)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "seed for scattered fans")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, items []string, opts renderOpts) error {
	prog := newProgress(c.Logger)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, last, err := c.loadStack(ctx, cfg, items, opts.from)
	if err != nil {
		return err
	}

	var out []byte
	switch opts.kind {
	case kindFan:
		out, err = renderFan(cfg, st, last, opts)
	case kindOrder:
		dot := order.ToDOT(itemValues(st), order.Options{Detailed: opts.detailed})
		c.Logger.Debug("generated DOT", "bytes", len(dot))
		sp := startSpinner(ctx, c.status, "Laying out stacking order")
		out, err = order.Render(ctx, dot, opts.format, opts.scale)
		sp.stop()
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown kind %q: must be fan or order", opts.kind)
	}
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = "deck." + opts.format
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	prog.done("Rendered " + opts.kind)
	printFile(path)
	return nil
}

// loadStack returns the stack to draw and the fan last applied to it. A
// named snapshot wins over items, which in turn default to the configured
// items.
func (c *CLI) loadStack(ctx context.Context, cfg *config.Config, items []string, from string) (*stack.Stack, *fan.Settings, error) {
	if from != "" {
		snaps, err := c.openSnapshots(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		defer snaps.Close()

		snap, err := snaps.Load(ctx, from)
		if err != nil {
			return nil, nil, err
		}
		st, err := stack.FromSnapshot(snap.Stack)
		return st, snap.LastFan, err
	}
	if len(items) == 0 {
		items = cfg.Deck.Items
	}
	st, err := stack.New(items, cfg.Deck.Baseline)
	return st, nil, err
}

func renderFan(cfg *config.Config, st *stack.Stack, last *fan.Settings, opts renderOpts) ([]byte, error) {
	defaults := cfg.FanSettings()
	if last != nil {
		defaults = *last
	}
	req, err := fan.ParseArgs(opts.set)
	if err != nil {
		return nil, err
	}
	settings := fan.Resolve(req, defaults)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	ids := st.IDs()
	slots := make([]fan.Slot, len(ids))
	for i, id := range ids {
		slots[i] = fan.Slot{ID: id, Position: st.Position(id)}
	}
	placements, err := fan.Compute(slots, settings, fan.NewRNG(opts.seed))
	if err != nil {
		return nil, err
	}

	top := ""
	if it := st.Top(); it != nil {
		top = it.ID
	}
	w := cfg.Deck.ItemWidth
	svg := preview.RenderSVG(placements, preview.WithItemSize(w, w*1.4), preview.WithHighlight(top))
	return render.Convert(svg, opts.format, opts.scale)
}

func itemValues(st *stack.Stack) []stack.Item {
	items := st.Items()
	out := make([]stack.Item, len(items))
	for i, it := range items {
		out[i] = *it
	}
	return out
}
