// Package web exposes an optional read-only HTTP surface for operators:
// liveness and session statistics. It never touches game sessions.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/mkrenn/hangman/internal/store"
	"github.com/mkrenn/hangman/internal/util"
)

// Server bundles the router and the optional results store.
type Server struct {
	r  *chi.Mux
	st *store.Store
}

// New constructs the stats server. st may be nil when the results store is
// disabled; /stats then reports counters only.
func New(st *store.Store) *Server {
	s := &Server{r: chi.NewRouter(), st: st}

	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(5 * time.Second))

	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/stats", s.handleStats)

	return s
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	type payload struct {
		Sessions util.Snapshot `json:"sessions"`
		Results  *store.Totals `json:"results,omitempty"`
	}
	out := payload{Sessions: util.Stats.Snap()}

	if s.st != nil {
		t, err := s.st.TotalsFor(r.Context())
		if err != nil {
			log.Warn().Err(err).Msg("stats totals query failed")
		} else {
			out.Results = &t
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Debug().Err(err).Msg("stats encode failed")
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.r }

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("stats listener up")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
