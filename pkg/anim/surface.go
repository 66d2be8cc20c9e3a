package anim

import (
	"fmt"
	"time"
)

// TransitionEnd is the abstract name of the transition-completion signal.
const TransitionEnd = "transitionend"

// Style is a set of visual property assignments, e.g. "transform" or
// "opacity". The z-index projection of ranks travels as "z-index".
type Style map[string]string

// Timing describes a transition: which property animates, for how long,
// with which easing curve, after which delay.
type Timing struct {
	Property string
	Speed    time.Duration
	Easing   string
	Delay    time.Duration
}

// String renders the timing as a CSS transition value.
func (t Timing) String() string {
	return fmt.Sprintf("%s %dms %s %dms", t.Property, t.Speed.Milliseconds(), t.Easing, t.Delay.Milliseconds())
}

// Declarations returns the vendor-prefixed transition declarations a CSS
// host needs for t.
func (t Timing) Declarations() Style {
	out := make(Style, len(vendorPrefixes)+1)
	for _, prefix := range vendorPrefixes {
		prop := t.Property
		if prop == "transform" {
			prop = prefix + "transform"
		}
		out[prefix+"transition"] = Timing{Property: prop, Speed: t.Speed, Easing: t.Easing, Delay: t.Delay}.String()
	}
	out["transition"] = t.String()
	return out
}

var vendorPrefixes = []string{"-webkit-", "-moz-", "-ms-", "-o-"}

// Surface is the render layer a deck animates.
type Surface interface {
	// Mount attaches new elements; Unmount detaches them.
	Mount(ids []string)
	Unmount(ids []string)

	// SetStyle applies style to every element in ids.
	SetStyle(ids []string, style Style)

	// SetTransition and ResetTransition configure how subsequent style
	// changes animate.
	SetTransition(ids []string, t Timing)
	ResetTransition(ids []string)

	// OnTransitionEnd registers fn for completion signals named signal on
	// any element in ids. The returned func unregisters it.
	OnTransitionEnd(ids []string, signal string, fn func(id string)) (off func())
}

// Measurer is implemented by surfaces that know element sizes.
type Measurer interface {
	OuterWidth(id string) float64
}

// Capabilities is supplied by the host.
type Capabilities struct {
	// Transitions reports whether animated transitions are supported.
	Transitions bool
	// Signals maps abstract signal names to the host's concrete names.
	Signals map[string]string
}

// DefaultCapabilities assumes transition support with standard names.
func DefaultCapabilities() Capabilities {
	return Capabilities{Transitions: true}
}

// Signal returns the concrete name for an abstract signal.
func (c Capabilities) Signal(name string) string {
	if concrete, ok := c.Signals[name]; ok && concrete != "" {
		return concrete
	}
	return name
}
