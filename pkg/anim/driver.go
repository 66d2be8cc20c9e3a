package anim

import "time"

// DefaultFlushDelay separates a style reset from the style change that
// follows it, so the reset reaches the render layer first.
const DefaultFlushDelay = 25 * time.Millisecond

// Driver applies style changes through a Surface and reports completion.
type Driver struct {
	surface  Surface
	sched    Scheduler
	caps     Capabilities
	defaults Timing
	flush    time.Duration
}

// NewDriver creates a driver. defaults supplies the speed and easing used
// when a transition leaves them unset.
func NewDriver(surface Surface, sched Scheduler, caps Capabilities, defaults Timing) *Driver {
	return &Driver{
		surface:  surface,
		sched:    sched,
		caps:     caps,
		defaults: defaults,
		flush:    DefaultFlushDelay,
	}
}

// Surface returns the driven surface.
func (d *Driver) Surface() Surface { return d.surface }

// Scheduler returns the scheduler used for delayed work.
func (d *Driver) Scheduler() Scheduler { return d.sched }

// Supported reports whether transitions animate.
func (d *Driver) Supported() bool { return d.caps.Transitions }

// SetTransition configures the transition on ids. It does nothing when
// transitions are unsupported. Property defaults to "all"; speed and easing
// default to the driver defaults.
func (d *Driver) SetTransition(ids []string, t Timing) {
	if !d.caps.Transitions {
		return
	}
	if t.Property == "" {
		t.Property = "all"
	}
	if t.Speed == 0 {
		t.Speed = d.defaults.Speed
	}
	if t.Easing == "" {
		t.Easing = d.defaults.Easing
	}
	d.surface.SetTransition(ids, t)
}

// ResetTransition removes any transition from ids.
func (d *Driver) ResetTransition(ids []string) {
	d.surface.ResetTransition(ids)
}

// After runs fn after delay on the driver's scheduler.
// The returned func cancels fn if it has not run yet.
func (d *Driver) After(delay time.Duration, fn func()) (cancel func()) {
	stop := d.sched.AfterFunc(delay, fn)
	return func() { stop() }
}

// Apply changes style on ids and calls onComplete when the change settles.
//
// Without transition support the style applies synchronously and
// onComplete runs before Apply returns. Otherwise onComplete fires on the
// first completion signal from ids, at most once, after its listener has
// been unregistered. With force, onComplete runs immediately. The style
// itself lands after the flush delay.
//
// The returned func unregisters a pending completion listener so that
// onComplete never runs; it is safe to call more than once.
func (d *Driver) Apply(ids []string, style Style, onComplete func(), force bool) (cancel func()) {
	cancel = func() {}
	if !d.caps.Transitions {
		d.surface.SetStyle(ids, style)
		if onComplete != nil {
			onComplete()
		}
		return cancel
	}

	if onComplete != nil {
		var off func()
		fired := false
		complete := func() {
			if fired {
				return
			}
			fired = true
			if off != nil {
				off()
			}
			onComplete()
		}
		off = d.surface.OnTransitionEnd(ids, d.caps.Signal(TransitionEnd), func(string) { complete() })
		cancel = func() {
			if fired {
				return
			}
			fired = true
			off()
		}
		if force {
			complete()
		}
	}

	d.sched.AfterFunc(d.flush, func() {
		d.surface.SetStyle(ids, style)
	})
	return cancel
}
