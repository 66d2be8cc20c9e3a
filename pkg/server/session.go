package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/deck"
	"github.com/matzehuels/stackdeck/pkg/fan"
)

// waitInterval is how often a waiting request polls for idleness.
const waitInterval = 10 * time.Millisecond

// session is one live deck and the goroutine that owns it.
type session struct {
	id      string
	created time.Time
	loop    *anim.Loop
	surface *anim.MemorySurface
	deck    *deck.Deck
	stop    context.CancelFunc
}

// start launches a loop and builds the deck on it with build.
func (s *Server) start(ctx context.Context, build func(anim.Surface, anim.Scheduler) (*deck.Deck, error)) (*session, error) {
	if err := s.reserve(); err != nil {
		return nil, err
	}

	loopCtx, stop := context.WithCancel(s.ctx)
	ss := &session{
		id:      uuid.NewString(),
		created: time.Now(),
		loop:    anim.NewLoop(),
		stop:    stop,
	}
	ss.surface = anim.NewMemorySurface(ss.loop)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ss.loop.Run(loopCtx)
	}()

	var buildErr error
	err := ss.loop.Do(ctx, func() {
		ss.deck, buildErr = build(ss.surface, ss.loop)
	})
	if err == nil {
		err = buildErr
	}
	if err == nil {
		err = s.register(ss)
	}
	if err != nil {
		stop()
		return nil, err
	}
	s.logger.Debug("deck created", "id", ss.id, "items", ss.deck.Len())
	return ss, nil
}

// do runs fn on the deck's loop.
func (ss *session) do(ctx context.Context, fn func(d *deck.Deck)) error {
	return ss.loop.Do(ctx, func() { fn(ss.deck) })
}

// waitIdle blocks until the deck has no running or queued operation.
func (ss *session) waitIdle(ctx context.Context) error {
	t := time.NewTicker(waitInterval)
	defer t.Stop()
	for {
		var idle bool
		if err := ss.do(ctx, func(d *deck.Deck) { idle = !d.Animating() && d.Pending() == 0 }); err != nil {
			return err
		}
		if idle {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (ss *session) close(ctx context.Context) {
	_ = ss.do(ctx, func(d *deck.Deck) { d.Destroy() })
	ss.stop()
}

// ItemState is one item in a deck state response.
type ItemState struct {
	ID        string `json:"id"`
	Rank      int    `json:"rank"`
	Transform string `json:"transform,omitempty"`
	Opacity   string `json:"opacity,omitempty"`
}

// State is the JSON view of a deck.
type State struct {
	ID        string        `json:"id"`
	Items     []ItemState   `json:"items"` // top to bottom
	Top       string        `json:"top"`
	Closed    bool          `json:"closed"`
	Animating bool          `json:"animating"`
	Pending   int           `json:"pending"`
	LastFan   *fan.Settings `json:"last_fan,omitempty"`
	Created   time.Time     `json:"created"`
}

// state must run on the loop.
func (ss *session) state() State {
	d := ss.deck
	st := State{
		ID:        ss.id,
		Top:       d.Top(),
		Closed:    d.Closed(),
		Animating: d.Animating(),
		Pending:   d.Pending(),
		LastFan:   d.LastFan(),
		Created:   ss.created,
	}
	for _, id := range d.ByRank() {
		it, _ := d.Item(id)
		st.Items = append(st.Items, ItemState{
			ID:        id,
			Rank:      it.Rank,
			Transform: ss.surface.StyleOf(id, "transform"),
			Opacity:   ss.surface.StyleOf(id, "opacity"),
		})
	}
	return st
}
