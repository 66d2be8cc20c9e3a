// Package dispatch serializes deck operations.
//
// A [Dispatcher] is a two-state machine. While [Idle], a dispatched
// operation starts at once and the dispatcher becomes [Animating]. While
// Animating, further dispatches wait in a FIFO queue. When the running
// operation calls its done func, the caller's completion callback runs,
// the host may inject a follow-up operation, and the queue drains one
// operation at a time until it is empty.
//
// The dispatcher is not safe for concurrent use. Like the deck it serves,
// it belongs to a single goroutine (see anim.Loop).
package dispatch

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/observability"
)

// State is the dispatcher state.
type State int

const (
	Idle State = iota
	Animating
)

func (s State) String() string {
	if s == Animating {
		return "animating"
	}
	return "idle"
}

// Outcome reports what Dispatch did with an operation.
type Outcome int

const (
	Started Outcome = iota
	Queued
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Started:
		return "started"
	case Queued:
		return "queued"
	default:
		return "rejected"
	}
}

// Kind names an operation for logs and metrics.
type Kind string

const (
	KindNavigate Kind = "navigate"
	KindFan      Kind = "fan"
	KindClose    Kind = "close"
	KindAdd      Kind = "add"
	KindRemove   Kind = "remove"
	KindPromote  Kind = "promote"
	KindReorder  Kind = "reorder"
)

// Operation is one unit of serialized work.
type Operation struct {
	Kind Kind

	// NeedsMultiple operations are rejected when the host holds one item
	// or none.
	NeedsMultiple bool

	// SkipPrepare runs the operation without the host's prepare step.
	SkipPrepare bool

	// Run performs the operation and must eventually call done.
	Run func(done func())

	// OnDone runs after the operation completes, before anything else
	// starts.
	OnDone func()
}

// Host is the deck side of the dispatcher.
type Host interface {
	// Allow reports whether operations that need several items may run.
	Allow() bool

	// Prepare runs then once the host is ready, closing an open deck first.
	Prepare(then func())

	// FollowUp returns an operation to run right after op, ahead of the
	// queue, or nil.
	FollowUp(op Operation) *Operation

	// Abandon runs when op is forced to complete by the timeout, before
	// anything else starts. Callbacks op registered must not run later.
	Abandon(op Operation)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout forces an operation to complete when its done func has not
// been called after d. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(dp *Dispatcher) { dp.timeout = d }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(dp *Dispatcher) {
		if l != nil {
			dp.logger = l
		}
	}
}

// Dispatcher serializes operations for one host.
type Dispatcher struct {
	host    Host
	sched   anim.Scheduler
	timeout time.Duration
	logger  *log.Logger

	state   State
	queue   []Operation
	gen     uint64
	started time.Time
}

// New creates an idle dispatcher. sched is used for timeouts.
func New(host Host, sched anim.Scheduler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		host:   host,
		sched:  sched,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current state.
func (d *Dispatcher) State() State { return d.state }

// Animating reports whether an operation is in flight.
func (d *Dispatcher) Animating() bool { return d.state == Animating }

// Pending returns the number of queued operations.
func (d *Dispatcher) Pending() int { return len(d.queue) }

// Dispatch submits op.
func (d *Dispatcher) Dispatch(op Operation) Outcome {
	out := d.admit(op)
	observability.Deck().OnDispatch(string(op.Kind), out.String())
	d.logger.Debug("dispatch", "kind", op.Kind, "outcome", out, "pending", len(d.queue))
	return out
}

func (d *Dispatcher) admit(op Operation) Outcome {
	if op.NeedsMultiple && !d.host.Allow() {
		return Rejected
	}
	if d.state == Animating {
		d.queue = append(d.queue, op)
		return Queued
	}
	d.start(op)
	return Started
}

// Reset drops queued operations and returns to Idle. Completion of the
// operation in flight, if any, is ignored afterwards.
func (d *Dispatcher) Reset() {
	d.gen++
	d.queue = nil
	d.state = Idle
}

func (d *Dispatcher) start(op Operation) {
	d.gen++
	gen := d.gen
	d.state = Animating
	d.started = time.Now()

	finished := false
	var stop func() bool
	done := func() {
		if finished || gen != d.gen {
			return
		}
		finished = true
		if stop != nil {
			stop()
		}
		d.finish(op)
	}

	if d.timeout > 0 && d.sched != nil {
		stop = d.sched.AfterFunc(d.timeout, func() {
			if finished || gen != d.gen {
				return
			}
			d.logger.Warn("operation timed out, forcing completion", "kind", op.Kind, "timeout", d.timeout)
			observability.Deck().OnTimeout(string(op.Kind))
			d.host.Abandon(op)
			done()
		})
	}

	if op.SkipPrepare {
		op.Run(done)
		return
	}
	d.host.Prepare(func() {
		if gen != d.gen {
			return
		}
		op.Run(done)
	})
}

func (d *Dispatcher) finish(op Operation) {
	observability.Deck().OnOperationComplete(string(op.Kind), time.Since(d.started))
	gen := d.gen
	if op.OnDone != nil {
		op.OnDone()
	}
	if gen != d.gen {
		// reset or restarted from the callback
		return
	}
	if next := d.host.FollowUp(op); next != nil {
		d.queue = append([]Operation{*next}, d.queue...)
	}
	d.drain()
}

func (d *Dispatcher) drain() {
	for len(d.queue) > 0 {
		op := d.queue[0]
		d.queue = d.queue[1:]
		if op.NeedsMultiple && !d.host.Allow() {
			d.logger.Debug("dropping queued operation", "kind", op.Kind)
			observability.Deck().OnDispatch(string(op.Kind), Rejected.String())
			continue
		}
		d.start(op)
		return
	}
	d.state = Idle
}
