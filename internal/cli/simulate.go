package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/deck"
	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/fan"
)

// simulateCommand creates the virtual-clock script runner.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		items         []string
		seed          uint64
		noTransitions bool
	)

	cmd := &cobra.Command{
		Use:   "simulate [script]",
		Short: "Run a script of deck operations on a virtual clock",
		Long: `Run a script of deck operations on a virtual clock.

Each line of the script is a deck method with its arguments, or a clock
directive. Operations issued without a wait between them start at the same
virtual instant, so queueing and rejection behave exactly as they would
under fast input. Every rank change is printed with its virtual timestamp.

Methods:
  next [fade]          previous [fade]      (aliases: prev)
  fan [key=value...]   close
  add ids...           remove ids...        merge ids...
  moveToFront id       (alias: front)
  orderBy              getTop               (alias: top)

Directives:
  wait <duration>      advance the clock (e.g. 100ms)
  settle               run until no animation is pending
  show                 print the current order
  # comment

The script is read from the file argument, or from stdin when it is
omitted or "-".`,
		Example: `  printf 'next\nfan range=120\nsettle\nshow\n' | stackdeck simulate --items A,B,C,D`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := io.Reader(os.Stdin)
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				in = f
			}
			return c.runSimulate(cmd.OutOrStdout(), in, items, seed, noTransitions)
		},
	}

	cmd.Flags().StringSliceVar(&items, "items", nil, "item ids, first on top (default: config [deck] items)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for scattered fans")
	cmd.Flags().BoolVar(&noTransitions, "no-transitions", false, "simulate a host without transition support")

	return cmd
}

func (c *CLI) runSimulate(w io.Writer, script io.Reader, items []string, seed uint64, noTransitions bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		items = cfg.Deck.Items
	}

	opts := cfg.DeckOptions(c.Logger)
	opts.RNG = fan.NewRNG(seed)
	if noTransitions {
		opts.Capabilities = &anim.Capabilities{}
	}

	sim, err := newSimulation(w, items, opts)
	if err != nil {
		return err
	}
	return sim.run(script)
}

// =============================================================================
// Simulation
// =============================================================================

// aliases maps script shorthands to Invoke method names.
var aliases = map[string]string{
	"prev":  "previous",
	"front": "moveToFront",
	"top":   "getTop",
}

// simulation runs a deck on a virtual clock and traces it to w.
type simulation struct {
	w     io.Writer
	deck  *deck.Deck
	clock *anim.VirtualClock
	limit time.Duration
}

func newSimulation(w io.Writer, items []string, opts deck.Options) (*simulation, error) {
	clock := anim.NewVirtualClock()
	surface := anim.NewMemorySurface(clock)
	if opts.ItemWidth > 0 {
		surface.SetItemWidth(opts.ItemWidth)
	}
	d, err := deck.New(surface, clock, items, opts)
	if err != nil {
		return nil, err
	}
	s := &simulation{w: w, deck: d, clock: clock, limit: time.Hour}
	d.On(func() { s.trace("order  %s", strings.Join(d.ByRank(), " ")) })
	s.trace("start  %s", strings.Join(d.ByRank(), " "))
	return s, nil
}

func (s *simulation) trace(format string, args ...any) {
	fmt.Fprintf(s.w, "%7s  %s\n", fmt.Sprintf("%dms", s.clock.Now().Milliseconds()), fmt.Sprintf(format, args...))
}

// run executes the script, then lets the deck settle.
func (s *simulation) run(script io.Reader) error {
	sc := bufio.NewScanner(script)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := s.exec(strings.Fields(text)); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	s.clock.RunUntilIdle(s.limit)
	s.trace("done   closed=%t", s.deck.Closed())
	return nil
}

func (s *simulation) exec(fields []string) error {
	name, rest := fields[0], fields[1:]
	switch name {
	case "wait":
		if len(rest) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "wait takes one duration")
		}
		d, err := time.ParseDuration(rest[0])
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "wait")
		}
		s.clock.Advance(d)
		return nil
	case "settle":
		s.clock.RunUntilIdle(s.limit)
		return nil
	case "show":
		s.trace("show   %s", strings.Join(s.deck.ByRank(), " "))
		return nil
	}

	if m, ok := aliases[name]; ok {
		name = m
	}
	args := make([]any, len(rest))
	for i, a := range rest {
		args[i] = a
	}
	s.trace("%-6s %s", name, strings.Join(rest, " "))

	result, err := deck.Invoke(s.deck, name, args...)
	if err != nil {
		// usage errors are reported and skipped, like the engine does
		s.trace("error  %s", errors.UserMessage(err))
		return nil
	}
	if result != nil {
		s.trace("result %v", result)
	}
	return nil
}
