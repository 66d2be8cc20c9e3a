package deck

import (
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/dispatch"
	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/fan"
	"github.com/matzehuels/stackdeck/pkg/observability"
	"github.com/matzehuels/stackdeck/pkg/stack"
)

// SubscriptionID identifies a stack-updated subscription.
type SubscriptionID uint64

type subscription struct {
	id SubscriptionID
	fn func()
}

// Deck is one managed stack of items.
type Deck struct {
	opts    Options
	logger  *log.Logger
	surface anim.Surface
	driver  *anim.Driver
	disp    *dispatch.Dispatcher
	stack   *stack.Stack

	closed    bool
	lastFan   *fan.Settings
	destroyed bool

	subs    []subscription
	nextSub SubscriptionID

	// transforms caches the last transform written per item, so a fan
	// whose target equals the current transform completes without waiting
	// for a signal that will never come.
	transforms map[string]string

	// epoch advances when an operation is abandoned; callbacks wrapped
	// under an older epoch do nothing.
	epoch    uint64
	inflight map[uint64]func()
	nextKey  uint64
}

// New creates a deck over ids (document order, first on top), mounts them
// on surface and projects their initial ranks.
func New(surface anim.Surface, sched anim.Scheduler, ids []string, opts Options) (*Deck, error) {
	if surface == nil || sched == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "deck needs a surface and a scheduler")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	st, err := stack.New(ids, opts.Baseline)
	if err != nil {
		return nil, err
	}

	d := &Deck{
		opts:       opts,
		logger:     opts.Logger,
		surface:    surface,
		stack:      st,
		closed:     true,
		transforms: make(map[string]string),
		inflight:   make(map[uint64]func()),
	}
	d.driver = anim.NewDriver(surface, sched, *opts.Capabilities, anim.Timing{Speed: opts.Speed, Easing: opts.Easing})

	timeout := opts.OperationTimeout
	if timeout < 0 {
		timeout = 0
	}
	d.disp = dispatch.New(d, sched, dispatch.WithTimeout(timeout), dispatch.WithLogger(opts.Logger))

	surface.Mount(st.IDs())
	d.project()
	d.logger.Debug("deck created", "items", st.Len(), "baseline", st.Baseline())
	return d, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Len returns the number of items.
func (d *Deck) Len() int { return d.stack.Len() }

// IDs returns the item ids in document order.
func (d *Deck) IDs() []string { return d.stack.IDs() }

// Ranks returns a copy of the rank assignment.
func (d *Deck) Ranks() map[string]int { return d.stack.Ranks() }

// ByRank returns the item ids from top to bottom.
func (d *Deck) ByRank() []string {
	items := d.stack.ByRank()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// Item returns a copy of one item, including its saved fan decoration.
func (d *Deck) Item(id string) (stack.Item, bool) {
	it, ok := d.stack.Get(id)
	if !ok {
		return stack.Item{}, false
	}
	return *it, true
}

// Top returns the id of the item on top, or "" for an empty deck.
func (d *Deck) Top() string {
	if d.destroyed {
		return ""
	}
	if it := d.stack.Top(); it != nil {
		return it.ID
	}
	return ""
}

// Closed reports whether the deck is collapsed into a pile.
func (d *Deck) Closed() bool { return d.closed }

// Animating reports whether an operation is in flight.
func (d *Deck) Animating() bool { return d.disp.Animating() }

// Pending returns the number of queued operations.
func (d *Deck) Pending() int { return d.disp.Pending() }

// LastFan returns the settings of the last fan, or nil.
func (d *Deck) LastFan() *fan.Settings {
	if d.lastFan == nil {
		return nil
	}
	s := *d.lastFan
	return &s
}

// Options returns the resolved options.
func (d *Deck) Options() Options { return d.opts }

// Destroyed reports whether Destroy has been called.
func (d *Deck) Destroyed() bool { return d.destroyed }

// =============================================================================
// Dispatcher host
// =============================================================================

// Allow implements dispatch.Host.
func (d *Deck) Allow() bool { return d.stack.Len() > 1 }

// Prepare implements dispatch.Host: an open deck closes before the
// operation runs.
func (d *Deck) Prepare(then func()) {
	if d.closed {
		then()
		return
	}
	d.close(nil, then)
}

// FollowUp implements dispatch.Host: with ReFanAfterClose, a settled
// navigation re-applies the last fan. An explicit Close clears the last
// fan, so it never re-fans.
func (d *Deck) FollowUp(op dispatch.Operation) *dispatch.Operation {
	if !d.opts.ReFanAfterClose || d.lastFan == nil || !d.Allow() {
		return nil
	}
	if op.Kind != dispatch.KindNavigate {
		return nil
	}
	next := d.fanOp(*d.lastFan)
	return &next
}

// =============================================================================
// Rank projection and notification
// =============================================================================

// project writes every rank to the surface as z-index.
func (d *Deck) project() {
	for _, it := range d.stack.Items() {
		d.surface.SetStyle([]string{it.ID}, anim.Style{"z-index": strconv.Itoa(it.Rank)})
	}
}

// stackUpdated projects ranks and notifies subscribers synchronously.
func (d *Deck) stackUpdated() {
	d.project()
	if err := d.stack.Validate(); err != nil {
		d.logger.Error("rank assignment corrupted", "err", err)
	}
	observability.Deck().OnStackUpdated(d.stack.Len())
	for _, s := range append([]subscription(nil), d.subs...) {
		s.fn()
	}
}

// On subscribes fn to the stack-updated signal, which fires after every
// rank reassignment.
func (d *Deck) On(fn func()) SubscriptionID {
	if d.destroyed || fn == nil {
		return 0
	}
	d.nextSub++
	d.subs = append(d.subs, subscription{id: d.nextSub, fn: fn})
	return d.nextSub
}

// Off removes a subscription. Unknown ids are ignored.
func (d *Deck) Off(id SubscriptionID) {
	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

func (d *Deck) usable(method string) bool {
	if d.destroyed {
		d.logger.Warn("deck used after destroy", "method", method)
		return false
	}
	return true
}

// Abandon implements dispatch.Host: the timed-out operation's listeners
// and timers are dropped and its remaining steps become no-ops.
func (d *Deck) Abandon(op dispatch.Operation) {
	d.logger.Debug("abandoning operation", "kind", op.Kind, "listeners", len(d.inflight))
	d.dropInflight()
}

func (d *Deck) dropInflight() {
	d.epoch++
	for key, cancel := range d.inflight {
		delete(d.inflight, key)
		if cancel != nil {
			cancel()
		}
	}
}

// guard wraps a deferred step so it does nothing once the deck is
// destroyed or the operation that created it has been abandoned.
func (d *Deck) guard(fn func()) func() {
	epoch := d.epoch
	return func() {
		if !d.destroyed && epoch == d.epoch {
			fn()
		}
	}
}

// apply is Driver.Apply with the completion listener tracked until it
// fires, so Abandon can unregister it.
func (d *Deck) apply(ids []string, style anim.Style, onComplete func(), force bool) {
	key := d.track()
	cancel := d.driver.Apply(ids, style, func() {
		delete(d.inflight, key)
		if onComplete != nil {
			onComplete()
		}
	}, force)
	if _, ok := d.inflight[key]; ok {
		d.inflight[key] = cancel
	}
}

// after is Driver.After with the timer tracked until it runs.
func (d *Deck) after(delay time.Duration, fn func()) {
	key := d.track()
	d.inflight[key] = d.driver.After(delay, func() {
		delete(d.inflight, key)
		fn()
	})
}

func (d *Deck) track() uint64 {
	d.nextKey++
	d.inflight[d.nextKey] = nil
	return d.nextKey
}

func (d *Deck) all() []string { return d.stack.IDs() }

func (d *Deck) setTransform(ids []string, transform string) {
	for _, id := range ids {
		d.transforms[id] = transform
	}
}
