// Package server drives a game session on a fixed tick and bridges it to
// browser viewers over websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/arpg/internal/config"
	"github.com/zeusync/arpg/internal/core/events/bus"
	"github.com/zeusync/arpg/internal/core/observability/log"
	"github.com/zeusync/arpg/internal/game"
)

type Server struct {
	cfg    config.Server
	logger log.Log

	bus    bus.EventBus
	events bus.Subscription
	queue  *CommandQueue
	hub    *Hub
	runner *Runner
	http   *http.Server
}

// NewServer bridges g to viewers. Every event on the game bus is relayed to
// them until the server shuts down.
func NewServer(cfg config.Server, g *game.Game, logger log.Log) (*Server, error) {
	logger = log.OrNop(logger)
	queue := NewCommandQueue(cfg.MaxCommands)
	hub := NewHub(cfg, queue, logger)
	events, err := g.Bus().Subscribe("", hub.Forward)
	if err != nil {
		return nil, fmt.Errorf("subscribe viewers: %w", err)
	}
	s := &Server{
		cfg:    cfg,
		logger: logger.With(log.String("component", "server")),
		bus:    g.Bus(),
		events: events,
		queue:  queue,
		hub:    hub,
		runner: NewRunner(g, hub, queue, cfg.TickInterval(), logger),
	}
	s.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.Handler(),
	}
	return s, nil
}

func (s *Server) Runner() *Runner { return s.runner }

// Handler routes /ws, /state, /metrics and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.hub)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.auth.Authorize(r); err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	msg := s.runner.Latest()
	if msg == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		s.logger.Warn("state encode failed", log.Error(err))
	}
}

// Metrics is the body served on /metrics.
type Metrics struct {
	Frame   uint64              `json:"frame"`
	Viewers int                 `json:"viewers"`
	Queued  int                 `json:"queued"`
	Bus     bus.EventBusMetrics `json:"bus"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.auth.Authorize(r); err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	m := Metrics{
		Viewers: s.hub.Len(),
		Queued:  s.queue.Len(),
		Bus:     s.bus.GetMetrics(),
	}
	if latest := s.runner.Latest(); latest != nil {
		m.Frame = latest.Frame
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(m); err != nil {
		s.logger.Warn("metrics encode failed", log.Error(err))
	}
}

// Run serves viewers and steps the simulation until ctx is done, then shuts
// the listener down within ShutdownWait.
func (s *Server) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return s.runner.Run(ctx)
	})
	group.Go(func() error {
		s.logger.Info("listening", log.String("addr", s.cfg.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownWait)
		defer cancel()
		_ = s.bus.Unsubscribe(s.events)
		s.hub.Close()
		return s.http.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
