// internal/httpserver/routes_api.go
//
// HTTP routes for the board API.
// Exposes these endpoints under /api:
//   - GET  /api/board                              → current board (titles + cell grid)
//   - POST /api/clues/{cycle}/{row}/{col}/reveal   → advance one clue hidden → question → answer
//   - POST /api/restart                            → deal a fresh board
//   - GET  /api/history?limit=N                    → recently dealt boards (when enabled)
//
// Clicks carry the cycle id of the board they were made on, so a click from a
// page that predates a restart is refused instead of landing on the new board.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/internal/game"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// mountAPI registers all /api routes.
func (s *Server) mountAPI() {
	s.r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)
		r.Use(s.cors)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))
			r.Get("/board", s.handleBoard)
			r.Post("/clues/{cycle}/{row}/{col}/reveal", s.handleReveal)
			r.Get("/history", s.handleHistory)
		})

		// A deal may outlive the request timeout; it is bounded by cycleTimeout.
		r.Post("/restart", s.handleRestart)
	})
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.ctrl.View())
}

// revealRes is the payload for POST /api/clues/.../reveal.
type revealRes struct {
	Text  string `json:"text"`
	State string `json:"state"` // "question" | "answer"
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	row, errRow := strconv.Atoi(chi.URLParam(r, "row"))
	col, errCol := strconv.Atoi(chi.URLParam(r, "col"))
	if errRow != nil || errCol != nil {
		writeError(w, http.StatusBadRequest, "bad_position")
		return
	}

	text, state, err := s.ctrl.Reveal(r.Context(), chi.URLParam(r, "cycle"), row, col)
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(revealRes{Text: text, State: state.String()})
}

// handleRestart runs one deal cycle and answers with the new board.
// The cycle is detached from the request so a closed tab does not abort it.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.cycleTimeout)
	defer cancel()

	if err := s.ctrl.Restart(ctx); err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(s.ctrl.View())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history_disabled")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	deals, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(deals)
}

// ------------------------------- errors ------------------------------------

type errorRes struct {
	Error string `json:"error"`
}

// writeError writes {"error": code} with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorRes{Error: code})
}

// writeGameError maps controller errors onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrStaleCycle):
		writeError(w, http.StatusConflict, "stale_cycle")
	case errors.Is(err, game.ErrNoCell):
		writeError(w, http.StatusNotFound, "no_cell")
	case errors.Is(err, game.ErrCycleInProgress):
		writeError(w, http.StatusConflict, "deal_in_progress")
	case errors.Is(err, game.ErrMalformedRecord):
		writeError(w, http.StatusBadGateway, "malformed_record")
	case errors.Is(err, game.ErrProviderUnavailable):
		writeError(w, http.StatusBadGateway, "provider_unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "deal_timeout")
	default:
		log.Error().Err(err).Msg("unexpected game error")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}
