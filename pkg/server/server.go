// Package server exposes decks over HTTP.
//
// Every deck lives in its own [anim.Loop] goroutine with an in-memory
// surface, so animations advance in real time and handlers reach the deck
// only through [anim.Loop.Do]. Methods are invoked by name through
// [deck.Invoke], the same command surface the CLI uses.
//
// # Routes
//
//	GET    /healthz
//	GET    /metrics                         (when a metrics handler is set)
//	GET    /api/decks                       list deck ids
//	POST   /api/decks                       {"items": [...]} creates a deck
//	GET    /api/decks/{id}[?wait=1]         deck state, optionally once idle
//	DELETE /api/decks/{id}                  destroy
//	POST   /api/decks/{id}/invoke           {"method": "...", "args": [...]}
//	GET    /api/decks/{id}/preview.svg      fan preview
//	GET    /api/snapshots                   list snapshot names
//	PUT    /api/snapshots/{name}            {"deck": id} saves a snapshot
//	POST   /api/snapshots/{name}/restore    creates a deck from a snapshot
//	DELETE /api/snapshots/{name}
package server

import (
	"context"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stackdeck/pkg/cache"
	"github.com/matzehuels/stackdeck/pkg/deck"
	"github.com/matzehuels/stackdeck/pkg/errors"
)

const (
	DefaultMaxDecks       = 1024
	DefaultRequestTimeout = 30 * time.Second
	maxBodyBytes          = 1 << 20
)

// Config configures a Server. Zero values select the defaults.
type Config struct {
	// MaxDecks caps the number of live decks.
	MaxDecks int

	// Options returns the options for each new deck. It is called once per
	// deck so per-deck state such as the RNG is never shared.
	Options func() deck.Options

	// Snapshots stores named snapshots. Nil disables the snapshot routes.
	Snapshots *cache.Snapshots

	// Metrics is mounted on /metrics when set.
	Metrics http.Handler

	RequestTimeout time.Duration
	Logger         *log.Logger
}

// Server owns the live decks.
type Server struct {
	cfg    Config
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.RWMutex
	decks map[string]*session
}

// New creates a server.
func New(cfg Config) *Server {
	if cfg.MaxDecks <= 0 {
		cfg.MaxDecks = DefaultMaxDecks
	}
	if cfg.Options == nil {
		cfg.Options = func() deck.Options { return deck.Options{} }
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		ctx:    ctx,
		cancel: cancel,
		decks:  make(map[string]*session),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealthz)
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", s.handleListDecks)
			r.Post("/", s.handleCreateDeck)
			r.Route("/{deckID}", func(r chi.Router) {
				r.Get("/", s.handleGetDeck)
				r.Delete("/", s.handleDeleteDeck)
				r.Post("/invoke", s.handleInvoke)
				r.Get("/preview.svg", s.handlePreview)
			})
		})
		r.Route("/snapshots", func(r chi.Router) {
			r.Use(s.requireSnapshots)
			r.Get("/", s.handleListSnapshots)
			r.Put("/{name}", s.handleSaveSnapshot)
			r.Post("/{name}/restore", s.handleRestoreSnapshot)
			r.Delete("/{name}", s.handleDeleteSnapshot)
		})
	})
	return r
}

// Len returns the number of live decks.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decks)
}

// IDs returns the live deck ids, sorted.
func (s *Server) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.decks))
	for id := range s.decks {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Close destroys every deck and stops their loops.
func (s *Server) Close() error {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.decks))
	for _, ss := range s.decks {
		sessions = append(sessions, ss)
	}
	s.decks = make(map[string]*session)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, ss := range sessions {
		ss.close(ctx)
	}
	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Server) lookup(id string) (*session, error) {
	s.mu.RLock()
	ss, ok := s.decks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "deck %s not found", id)
	}
	return ss, nil
}

// reserve claims a slot for a new deck.
func (s *Server) reserve() error {
	s.mu.RLock()
	n := len(s.decks)
	s.mu.RUnlock()
	if n >= s.cfg.MaxDecks {
		return errTooManyDecks
	}
	return nil
}

func (s *Server) register(ss *session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.decks) >= s.cfg.MaxDecks {
		return errTooManyDecks
	}
	s.decks[ss.id] = ss
	return nil
}

func (s *Server) unregister(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.decks[id]
	delete(s.decks, id)
	return ss, ok
}
