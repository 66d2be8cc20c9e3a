package deck

import (
	"slices"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/fan"
	"github.com/matzehuels/stackdeck/pkg/stack"
)

// Snapshot is the persistent state of a deck.
type Snapshot struct {
	Stack   stack.Snapshot `json:"stack"`
	LastFan *fan.Settings  `json:"last_fan,omitempty"`
}

// Snapshot captures the rank assignment and the last fan.
func (d *Deck) Snapshot() Snapshot {
	return Snapshot{Stack: d.stack.Snapshot(), LastFan: d.LastFan()}
}

// Restore replaces the rank assignment with snap. The snapshot must list
// exactly the deck's items, and the deck must be idle. The deck is left
// closed.
func (d *Deck) Restore(snap Snapshot) error {
	if d.destroyed {
		return errors.New(errors.ErrCodeNotInitialized, "deck destroyed")
	}
	if d.disp.Animating() {
		return errors.New(errors.ErrCodeInvalidInput, "cannot restore while animating")
	}
	st, err := stack.FromSnapshot(snap.Stack)
	if err != nil {
		return err
	}
	have, want := d.stack.IDs(), st.IDs()
	slices.Sort(have)
	slices.Sort(want)
	if !slices.Equal(have, want) {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot items do not match the deck")
	}
	d.stack = st
	d.lastFan = nil
	if snap.LastFan != nil {
		s := *snap.LastFan
		d.lastFan = &s
	}
	d.stackUpdated()
	return nil
}

// FromSnapshot creates a deck whose items and ranks come from snap.
func FromSnapshot(surface anim.Surface, sched anim.Scheduler, snap Snapshot, opts Options) (*Deck, error) {
	if opts.Baseline == 0 {
		opts.Baseline = snap.Stack.Baseline
	}
	d, err := New(surface, sched, snap.Stack.Order, opts)
	if err != nil {
		return nil, err
	}
	if err := d.Restore(snap); err != nil {
		return nil, err
	}
	return d, nil
}
