package deck

import (
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/dispatch"
	"github.com/matzehuels/stackdeck/pkg/fan"
	"github.com/matzehuels/stackdeck/pkg/stack"
)

// =============================================================================
// Navigation
// =============================================================================

// Next brings the bottom-most item to the top. With fade, the item fades
// out and back in instead of sliding.
func (d *Deck) Next(fade bool) {
	if d.usable("next") {
		d.disp.Dispatch(d.navigateOp(stack.Next, fade))
	}
}

// Previous sends the top item to the bottom.
func (d *Deck) Previous(fade bool) {
	if d.usable("previous") {
		d.disp.Dispatch(d.navigateOp(stack.Prev, fade))
	}
}

func (d *Deck) navigateOp(dir stack.Direction, fade bool) dispatch.Operation {
	return dispatch.Operation{
		Kind:          dispatch.KindNavigate,
		NeedsMultiple: true,
		Run:           func(done func()) { d.navigate(dir, fade, done) },
	}
}

func (d *Deck) navigate(dir stack.Direction, fade bool, done func()) {
	d.closed = false

	moving := d.stack.Bottom()
	if dir == stack.Prev {
		moving = d.stack.Top()
	}
	ids := []string{moving.ID}

	width := d.opts.ItemWidth
	if m, ok := d.surface.(anim.Measurer); ok {
		if w := m.OuterWidth(moving.ID); w > 0 {
			width = w
		}
	}
	offset, angle := width+navigateGap, navigateAngle
	if dir == stack.Prev {
		offset, angle = -offset, -angle
	}

	prop := "transform"
	out := anim.Style{"transform": fmt.Sprintf("translate(%gpx) rotate(%gdeg)", offset, angle)}
	back := anim.Style{"transform": "translate(0px) rotate(0deg)"}
	if fade {
		prop = "opacity"
		out = anim.Style{"opacity": "0"}
		back = anim.Style{"opacity": "1"}
	} else {
		d.setTransform(ids, out["transform"])
	}

	d.driver.SetTransition(ids, anim.Timing{Property: prop, Speed: d.opts.Speed, Easing: d.opts.Easing})
	d.apply(ids, out, d.guard(func() {
		d.stack.Step(dir)
		d.stackUpdated()
		if !fade {
			d.setTransform(ids, back["transform"])
		}
		d.apply(ids, back, d.guard(func() {
			d.closed = true
			done()
		}), false)
	}), false)
}

// =============================================================================
// Fan and close
// =============================================================================

// Fan opens the deck. Nil or zero fields in cfg fall back to the fan
// defaults in Options.
func (d *Deck) Fan(cfg *fan.Config) {
	if !d.usable("fan") {
		return
	}
	var c fan.Config
	if cfg != nil {
		c = *cfg
	}
	s := fan.Resolve(c, *d.opts.Fan)
	if err := s.Validate(); err != nil {
		d.logger.Warn("fan ignored", "err", err)
		return
	}
	d.disp.Dispatch(d.fanOp(s))
}

func (d *Deck) fanOp(s fan.Settings) dispatch.Operation {
	return dispatch.Operation{
		Kind:          dispatch.KindFan,
		NeedsMultiple: true,
		Run:           func(done func()) { d.fan(s, done) },
	}
}

func (d *Deck) fan(s fan.Settings, done func()) {
	items := d.stack.Items()
	slots := make([]fan.Slot, len(items))
	for i, it := range items {
		slots[i] = fan.Slot{ID: it.ID, Position: d.stack.Position(it.ID)}
	}
	placements, err := fan.Compute(slots, s, d.opts.RNG)
	if err != nil {
		d.logger.Warn("fan skipped", "err", err)
		done()
		return
	}

	d.closed = false
	d.lastFan = &s

	for _, p := range placements {
		if p.HasOrigin {
			d.surface.SetStyle([]string{p.ID}, anim.Style{"transform-origin": p.TransformOrigin()})
		}
	}
	d.driver.SetTransition(d.all(), anim.Timing{Property: "transform", Speed: s.Speed, Easing: s.Easing})

	remaining := len(placements)
	for _, p := range placements {
		if it, ok := d.stack.Get(p.ID); ok {
			it.Translation = p.Translation
			it.Step = p.Step
		}
		ids := []string{p.ID}
		transform := p.Transform()
		unchanged := fan.SameTransform(d.transforms[p.ID], transform)
		d.setTransform(ids, transform)
		d.apply(ids, anim.Style{"transform": transform}, d.guard(func() {
			remaining--
			if remaining == 0 {
				done()
			}
		}), unchanged)
	}
}

// Close collapses an open deck. It is ignored while an operation is in
// flight, and forgets the last fan so it will not be re-applied.
func (d *Deck) Close() {
	if !d.usable("close") {
		return
	}
	if d.disp.Animating() {
		d.logger.Debug("close ignored while animating")
		return
	}
	d.lastFan = nil
	d.disp.Dispatch(dispatch.Operation{
		Kind:        dispatch.KindClose,
		SkipPrepare: true,
		Run:         func(done func()) { d.close(nil, done) },
	})
}

// close animates every item except skip back into the pile, then resets
// transitions and origins before calling then.
func (d *Deck) close(skip []string, then func()) {
	ids := slices.DeleteFunc(d.all(), func(id string) bool { return slices.Contains(skip, id) })
	force := d.closed || len(ids) == 0 || d.allCollapsed(ids)
	d.setTransform(ids, "none")
	d.apply(ids, anim.Style{"transform": "none"}, d.guard(func() {
		d.closed = true
		d.driver.ResetTransition(ids)
		d.after(anim.DefaultFlushDelay, d.guard(func() {
			d.surface.SetStyle(ids, anim.Style{"transform-origin": "50% 50%"})
			if then != nil {
				then()
			}
		}))
	}), force)
}

func (d *Deck) allCollapsed(ids []string) bool {
	for _, id := range ids {
		if !fan.IsIdentity(d.transforms[id]) {
			return false
		}
	}
	return true
}

// =============================================================================
// Promote
// =============================================================================

// MoveToFront brings id to the top of the deck.
func (d *Deck) MoveToFront(id string) {
	if !d.usable("moveToFront") {
		return
	}
	if !d.stack.Contains(id) {
		d.logger.Warn("moveToFront ignored", "item", id, "reason", "not in deck")
		return
	}
	d.disp.Dispatch(dispatch.Operation{
		Kind: dispatch.KindPromote,
		Run:  func(done func()) { d.promote(id, done) },
	})
}

func (d *Deck) promote(id string, done func()) {
	if !d.stack.Contains(id) || d.stack.IsTop(id) {
		done()
		return
	}
	ids := []string{id}
	d.driver.ResetTransition(ids)
	d.surface.SetStyle(ids, anim.Style{
		"transform-origin": "50% 50%",
		"opacity":          "0",
		"transform":        promoteTransform,
	})
	d.setTransform(ids, promoteTransform)
	if _, err := d.stack.Promote(id); err != nil {
		d.logger.Warn("promote failed", "item", id, "err", err)
		done()
		return
	}
	d.stackUpdated()

	d.after(d.opts.Speed/2, d.guard(func() {
		d.driver.SetTransition(ids, anim.Timing{Property: "all", Speed: d.opts.Speed, Easing: "ease-in"})
		d.setTransform(ids, "none")
		d.apply(ids, anim.Style{"transform": "none", "opacity": "1"}, d.guard(func() {
			d.driver.ResetTransition(ids)
			done()
		}), false)
	}))
}

// =============================================================================
// Add, remove, merge
// =============================================================================

// Add appends ids to the deck with the default enter animation. onDone
// runs once the items have settled, or right away when nothing is added.
func (d *Deck) Add(ids []string, onDone func()) { d.AddWith(ids, "", onDone) }

// AddWith is Add with a custom enter transform.
func (d *Deck) AddWith(ids []string, transform string, onDone func()) {
	if !d.usable("add") {
		return
	}
	ids = slices.Clone(ids)
	d.disp.Dispatch(dispatch.Operation{
		Kind:        dispatch.KindAdd,
		SkipPrepare: true,
		Run:         func(done func()) { d.add(ids, transform, done) },
		OnDone:      onDone,
	})
}

func (d *Deck) add(ids []string, transform string, done func()) {
	added, err := d.stack.Insert(ids...)
	if err != nil {
		d.logger.Warn("add ignored", "err", err)
	}
	if len(added) == 0 {
		done()
		return
	}
	if transform == "" {
		transform = d.opts.EnterTransform
	}

	d.surface.Mount(added)
	d.surface.SetStyle(added, anim.Style{"opacity": "0", "transform": transform})
	d.setTransform(added, transform)
	d.stackUpdated()

	remaining := len(added)
	for i, id := range slices.Backward(added) {
		el := []string{id}
		delay := time.Duration(len(added)-1-i) * itemStagger
		d.driver.SetTransition(el, anim.Timing{Property: "all", Speed: itemSpeed, Easing: itemEasing, Delay: delay})
		d.setTransform(el, "none")
		d.apply(el, anim.Style{"transform": "none", "opacity": "1"}, d.guard(func() {
			d.driver.ResetTransition(el)
			remaining--
			if remaining == 0 {
				done()
			}
		}), false)
	}
}

// Remove takes ids out of the deck with the default exit animation.
// Unknown ids are ignored; onDone runs once the items are gone, or right
// away when nothing is removed.
func (d *Deck) Remove(ids []string, onDone func()) { d.RemoveWith(ids, "", onDone) }

// RemoveWith is Remove with a custom exit transform.
func (d *Deck) RemoveWith(ids []string, transform string, onDone func()) {
	if !d.usable("remove") {
		return
	}
	ids = slices.Clone(ids)
	d.disp.Dispatch(dispatch.Operation{
		Kind:        dispatch.KindRemove,
		SkipPrepare: true,
		Run:         func(done func()) { d.remove(ids, transform, done) },
		OnDone:      onDone,
	})
}

func (d *Deck) remove(ids []string, transform string, done func()) {
	var targets []string
	for _, id := range ids {
		if d.stack.Contains(id) && !slices.Contains(targets, id) {
			targets = append(targets, id)
		}
	}
	if len(targets) == 0 {
		done()
		return
	}
	if transform == "" {
		transform = d.opts.EnterTransform
	}

	d.surface.SetStyle(targets, anim.Style{"opacity": "1", "z-index": removeZIndex})
	d.surface.SetStyle(targets, anim.Style{"transform": transform})
	d.setTransform(targets, transform)

	remaining := len(targets)
	for i, id := range targets {
		el := []string{id}
		d.driver.SetTransition(el, anim.Timing{Property: "all", Speed: itemSpeed, Easing: itemEasing, Delay: time.Duration(i) * itemStagger})
		d.apply(el, anim.Style{"opacity": "0"}, d.guard(func() {
			d.driver.ResetTransition(el)
			d.surface.Unmount(el)
			delete(d.transforms, id)
			remaining--
			if remaining == 0 {
				d.stack.Remove(targets...)
				d.stackUpdated()
				done()
			}
		}), false)
	}
}

// Merge makes the deck hold exactly ids: items missing from ids are
// removed, then new ids are added. onDone runs after the add settles.
func (d *Deck) Merge(ids []string, onDone func()) {
	if !d.usable("merge") {
		return
	}
	current := d.all()
	var drop, add []string
	for _, id := range current {
		if !slices.Contains(ids, id) {
			drop = append(drop, id)
		}
	}
	for _, id := range ids {
		if !slices.Contains(current, id) && !slices.Contains(add, id) {
			add = append(add, id)
		}
	}
	d.logger.Debug("merge", "remove", len(drop), "add", len(add))
	d.Remove(drop, nil)
	d.Add(add, onDone)
}

// =============================================================================
// Reorder
// =============================================================================

// OrderBy re-sorts the document order with cmp and re-ranks the deck, so
// the first item after sorting ends on top. A nil cmp sorts by the numeric
// suffix of the item ids; if any id has none, the order is left alone.
func (d *Deck) OrderBy(cmp func(a, b *stack.Item) int) {
	if !d.usable("orderBy") {
		return
	}
	d.disp.Dispatch(dispatch.Operation{
		Kind: dispatch.KindReorder,
		Run: func(done func()) {
			if cmp == nil {
				if err := d.stack.OrderByNumericSuffix(); err != nil {
					d.logger.Warn("orderBy ignored", "err", err)
					done()
					return
				}
			} else {
				d.stack.OrderBy(cmp)
			}
			d.stackUpdated()
			done()
		},
	})
}
