// Package inspect exposes a completed run's event log over HTTP for ad
// hoc inspection — optional tooling around the kernel, not something the
// kernel itself depends on.
package inspect

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/lloyds-sim/internal/events"
)

// Server serves a single completed run's log and summary.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
}

// Summary is the small JSON roll-up GET /summary returns.
type Summary struct {
	Entries       int `json:"entries"`
	PolicyBound   int `json:"policy_bound"`
	ClaimSettled  int `json:"claim_settled"`
	Insolvencies  int `json:"insolvencies"`
	DynamicEntries int `json:"dynamic_entries"`
}

func summarize(eventLog *events.Log) Summary {
	var s Summary
	s.Entries = eventLog.Len()
	for _, e := range eventLog.Entries() {
		switch e.Event.Kind() {
		case events.KindPolicyBound:
			s.PolicyBound++
		case events.KindClaimSettled:
			s.ClaimSettled++
		case events.KindInsurerInsolvent:
			s.Insolvencies++
		case events.KindInsurerEntered:
			s.DynamicEntries++
		}
	}
	return s
}

// New builds a router exposing /events and /summary for the given log
// and wires chi's request logger plus permissive CORS, matching the
// teacher's internal/server.New wiring.
func New(log zerolog.Logger, eventLog *events.Log, port int) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/events", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		enc := json.NewEncoder(w)
		for _, e := range eventLog.Entries() {
			if err := enc.Encode(e); err != nil {
				log.Error().Err(err).Msg("inspect: failed to encode event")
				return
			}
		}
	})
	r.Get("/summary", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(summarize(eventLog))
	})

	return &Server{
		router: r,
		log:    log,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// ListenAndServe blocks serving the inspection endpoints.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("inspect: serving completed run")
	return s.server.ListenAndServe()
}
