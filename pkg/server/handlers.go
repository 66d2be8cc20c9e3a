package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/deck"
	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/fan"
	"github.com/matzehuels/stackdeck/pkg/render/preview"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "decks": s.Len()})
}

// =============================================================================
// Decks
// =============================================================================

type createRequest struct {
	Items []string `json:"items"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"decks": s.IDs()})
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	ss, err := s.start(r.Context(), func(surface anim.Surface, sched anim.Scheduler) (*deck.Deck, error) {
		return deck.New(surface, sched, req.Items, s.cfg.Options())
	})
	if err != nil {
		respondError(w, err)
		return
	}
	s.respondState(w, r, ss, http.StatusCreated)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	ss, err := s.lookup(chi.URLParam(r, "deckID"))
	if err != nil {
		respondError(w, err)
		return
	}
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		if err := ss.waitIdle(r.Context()); err != nil {
			respondError(w, errors.Wrap(errors.ErrCodeTimeout, err, "waiting for deck %s", ss.id))
			return
		}
	}
	s.respondState(w, r, ss, http.StatusOK)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	ss, ok := s.unregister(chi.URLParam(r, "deckID"))
	if !ok {
		respondError(w, errors.New(errors.ErrCodeNotFound, "deck %s not found", chi.URLParam(r, "deckID")))
		return
	}
	ss.close(r.Context())
	s.logger.Debug("deck destroyed", "id", ss.id)
	w.WriteHeader(http.StatusNoContent)
}

type invokeRequest struct {
	Method string `json:"method"`
	Args   []any  `json:"args,omitempty"`
}

type invokeResponse struct {
	Result any   `json:"result,omitempty"`
	State  State `json:"state"`
}

// callbackMethods take Go funcs and cannot be called over HTTP.
var callbackMethods = map[string]bool{"on": true, "off": true}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	ss, err := s.lookup(chi.URLParam(r, "deckID"))
	if err != nil {
		respondError(w, err)
		return
	}
	var req invokeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if callbackMethods[req.Method] {
		respondError(w, errors.New(errors.ErrCodeUnknownMethod, "method %q is not available over HTTP", req.Method))
		return
	}

	var (
		resp      invokeResponse
		invokeErr error
	)
	err = ss.do(r.Context(), func(d *deck.Deck) {
		resp.Result, invokeErr = deck.Invoke(d, req.Method, normalizeArgs(req.Args)...)
		resp.State = ss.state()
	})
	if err == nil {
		err = invokeErr
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// normalizeArgs turns JSON string arrays into []string.
func normalizeArgs(args []any) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		list, ok := a.([]any)
		if !ok {
			out = append(out, a)
			continue
		}
		strs := make([]string, 0, len(list))
		for _, v := range list {
			str, ok := v.(string)
			if !ok {
				return append(out, a)
			}
			strs = append(strs, str)
		}
		out = append(out, strs)
	}
	return out
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ss, err := s.lookup(chi.URLParam(r, "deckID"))
	if err != nil {
		respondError(w, err)
		return
	}

	var (
		svg     []byte
		drawErr error
	)
	err = ss.do(r.Context(), func(d *deck.Deck) {
		settings := d.LastFan()
		if settings == nil {
			settings = d.Options().Fan
		}
		ids := d.ByRank()
		slots := make([]fan.Slot, len(ids))
		for i, id := range ids {
			slots[i] = fan.Slot{ID: id, Position: i}
		}
		var placements []fan.Placement
		placements, drawErr = fan.Compute(slots, *settings, nil)
		if drawErr == nil {
			width := d.Options().ItemWidth
			svg = preview.RenderSVG(placements,
				preview.WithItemSize(width, width*1.4),
				preview.WithHighlight(d.Top()))
		}
	})
	if err == nil {
		err = drawErr
	}
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(svg)
}

func (s *Server) respondState(w http.ResponseWriter, r *http.Request, ss *session, status int) {
	var st State
	if err := ss.do(r.Context(), func(*deck.Deck) { st = ss.state() }); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, status, st)
}

// =============================================================================
// Snapshots
// =============================================================================

type saveRequest struct {
	Deck string `json:"deck"`
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	names, err := s.cfg.Snapshots.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"snapshots": names})
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req saveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	ss, err := s.lookup(req.Deck)
	if err != nil {
		respondError(w, err)
		return
	}
	var snap deck.Snapshot
	if err := ss.do(r.Context(), func(d *deck.Deck) { snap = d.Snapshot() }); err != nil {
		respondError(w, err)
		return
	}
	if err := s.cfg.Snapshots.Save(r.Context(), name, snap); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"name": name, "snapshot": snap})
}

func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cfg.Snapshots.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respondError(w, err)
		return
	}
	ss, err := s.start(r.Context(), func(surface anim.Surface, sched anim.Scheduler) (*deck.Deck, error) {
		return deck.FromSnapshot(surface, sched, snap, s.cfg.Options())
	})
	if err != nil {
		respondError(w, err)
		return
	}
	s.respondState(w, r, ss, http.StatusCreated)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Snapshots.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
