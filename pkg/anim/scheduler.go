package anim

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/matzehuels/stackdeck/pkg/errors"
)

// Scheduler runs callbacks after a delay. All callbacks of one scheduler
// run on the same logical thread, never concurrently with each other.
type Scheduler interface {
	// AfterFunc runs fn after d. The returned func cancels it and reports
	// whether the cancellation stopped a pending call.
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// =============================================================================
// Loop
// =============================================================================

// Loop runs posted work on a single goroutine in real time.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Run processes posted work until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.stopped) })
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
		for {
			l.mu.Lock()
			if len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			fn := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()
			fn()
			if ctx.Err() != nil {
				return
			}
		}
	}
}

// Post queues fn. It never blocks, so it is safe to call from work running
// on the loop itself. It returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return errors.New(errors.ErrCodeNotInitialized, "loop stopped")
	}
	select {
	case <-done:
		return nil
	case <-l.stopped:
		return errors.New(errors.ErrCodeNotInitialized, "loop stopped")
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "waiting for loop")
	}
}

// AfterFunc posts fn to the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, func() { l.Post(fn) })
	return t.Stop
}

// =============================================================================
// VirtualClock
// =============================================================================

// VirtualClock is a deterministic Scheduler driven by Advance. Timers due at
// the same instant run in the order they were scheduled.
type VirtualClock struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
}

// NewVirtualClock returns a clock at time zero.
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

// Now returns the elapsed virtual time.
func (c *VirtualClock) Now() time.Duration { return c.now }

// Pending returns the number of scheduled timers.
func (c *VirtualClock) Pending() int { return len(c.timers) }

// AfterFunc schedules fn at Now()+d.
func (c *VirtualClock) AfterFunc(d time.Duration, fn func()) func() bool {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &timer{due: c.now + d, seq: c.seq, fn: fn}
	heap.Push(&c.timers, t)
	return func() bool {
		if t.index < 0 {
			return false
		}
		heap.Remove(&c.timers, t.index)
		return true
	}
}

// Advance moves the clock forward by d, running every timer that falls due,
// including timers scheduled by the callbacks themselves.
func (c *VirtualClock) Advance(d time.Duration) {
	end := c.now + d
	for len(c.timers) > 0 && c.timers[0].due <= end {
		t := heap.Pop(&c.timers).(*timer)
		c.now = t.due
		t.fn()
	}
	c.now = end
}

// RunUntilIdle runs timers until none are left or limit virtual time has
// elapsed. It returns the virtual time consumed.
func (c *VirtualClock) RunUntilIdle(limit time.Duration) time.Duration {
	start := c.now
	end := start + limit
	for len(c.timers) > 0 && c.timers[0].due <= end {
		t := heap.Pop(&c.timers).(*timer)
		c.now = t.due
		t.fn()
	}
	return c.now - start
}

type timer struct {
	due   time.Duration
	seq   uint64
	fn    func()
	index int
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
