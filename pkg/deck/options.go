package deck

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/fan"
	"github.com/matzehuels/stackdeck/pkg/stack"
)

const (
	DefaultSpeed            = 300 * time.Millisecond
	DefaultEasing           = "ease-in-out"
	DefaultItemWidth        = 200.0
	DefaultOperationTimeout = 10 * time.Second

	// DefaultEnterTransform is the transform new items animate in from,
	// and removed items animate out to.
	DefaultEnterTransform = "scale(1.8) translate(200px) rotate(15deg)"

	// Item add/remove animation.
	itemSpeed   = 500 * time.Millisecond
	itemEasing  = "ease-out"
	itemStagger = 200 * time.Millisecond

	// navigateGap is the extra horizontal distance, beyond the item width,
	// that a navigating item slides out.
	navigateGap   = 15.0
	navigateAngle = 5.0

	promoteTransform = "scale(2) translate(100px) rotate(20deg)"
	removeZIndex     = "3000"
)

// Options configures a Deck. Zero values select the defaults.
type Options struct {
	// NextTrigger and PrevTrigger name host controls that step the deck
	// (see HandleTrigger). Empty means no binding.
	NextTrigger string `json:"next_trigger,omitempty"`
	PrevTrigger string `json:"prev_trigger,omitempty"`

	Speed  time.Duration `json:"speed,omitempty"`
	Easing string        `json:"easing,omitempty"`

	// ReFanAfterClose re-applies the last fan after a navigation settles.
	ReFanAfterClose bool `json:"refan_after_close,omitempty"`

	// BindDefaultEvents enables click-to-front (see HandleClick).
	// Nil means true.
	BindDefaultEvents *bool `json:"bind_default_events,omitempty"`

	Baseline  int     `json:"baseline,omitempty"`
	ItemWidth float64 `json:"item_width,omitempty"`

	// OperationTimeout forces completion of an operation whose completion
	// signal never arrives. Negative disables it.
	OperationTimeout time.Duration `json:"operation_timeout,omitempty"`

	// Fan holds the defaults unset fan request fields resolve against.
	Fan *fan.Settings `json:"fan,omitempty"`

	// EnterTransform overrides DefaultEnterTransform.
	EnterTransform string `json:"enter_transform,omitempty"`

	// Runtime options (not serialized)
	Capabilities *anim.Capabilities `json:"-"`
	Logger       *log.Logger        `json:"-"`
	RNG          fan.RNG            `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Speed == 0 {
		o.Speed = DefaultSpeed
	}
	if o.Easing == "" {
		o.Easing = DefaultEasing
	}
	if o.BindDefaultEvents == nil {
		o.BindDefaultEvents = fan.Bool(true)
	}
	if o.Baseline == 0 {
		o.Baseline = stack.DefaultBaseline
	}
	if o.ItemWidth == 0 {
		o.ItemWidth = DefaultItemWidth
	}
	if o.OperationTimeout == 0 {
		o.OperationTimeout = DefaultOperationTimeout
	}
	if o.Fan == nil {
		s := fan.DefaultSettings()
		o.Fan = &s
	}
	if err := o.Fan.Validate(); err != nil {
		return err
	}
	if o.EnterTransform == "" {
		o.EnterTransform = DefaultEnterTransform
	}
	if o.Capabilities == nil {
		c := anim.DefaultCapabilities()
		o.Capabilities = &c
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.RNG == nil {
		o.RNG = fan.NewRNG(uint64(time.Now().UnixNano()))
	}
	o.validated = true
	return nil
}
