package deck

import "github.com/matzehuels/stackdeck/pkg/anim"

// HandleTrigger steps the deck when name matches the configured next or
// previous trigger. It reports whether the trigger was bound.
func (d *Deck) HandleTrigger(name string) bool {
	if d.destroyed || name == "" {
		return false
	}
	switch name {
	case d.opts.NextTrigger:
		d.Next(false)
	case d.opts.PrevTrigger:
		d.Previous(false)
	default:
		return false
	}
	return true
}

// HandleClick brings a clicked item to the front. Clicks are ignored while
// an operation is in flight, and when default events are not bound.
func (d *Deck) HandleClick(id string) bool {
	if d.destroyed || !*d.opts.BindDefaultEvents || d.disp.Animating() {
		return false
	}
	d.MoveToFront(id)
	return true
}

// Destroy collapses the deck, drops queued work and subscriptions, resets
// transitions and clears the rank projection. Every later call is a logged
// no-op.
func (d *Deck) Destroy() {
	if d.destroyed {
		return
	}
	ids := d.all()
	d.disp.Reset()
	d.dropInflight()
	d.driver.ResetTransition(ids)
	d.surface.SetStyle(ids, anim.Style{"transform": "none", "transform-origin": "50% 50%", "z-index": "0"})
	d.closed = true
	d.lastFan = nil
	d.subs = nil
	d.transforms = make(map[string]string)
	d.destroyed = true
	d.logger.Debug("deck destroyed", "items", len(ids))
}
