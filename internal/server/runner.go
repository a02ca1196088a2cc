package server

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/zeusync/arpg/internal/core/observability/log"
	"github.com/zeusync/arpg/internal/game"
)

// FrameMessage is the per-tick state pushed to viewers and served on /state.
type FrameMessage struct {
	Type     string             `json:"type"`
	Frame    uint64             `json:"frame"`
	Active   int                `json:"active"`
	Focus    [3]float64         `json:"focus"`
	Eye      [3]float64         `json:"eye"`
	Digest   string             `json:"digest"`
	Entities []game.RenderState `json:"entities"`
}

// Runner owns the simulation goroutine. Viewer commands reach the game only
// through the queue, between frames.
type Runner struct {
	game   *game.Game
	hub    *Hub
	queue  *CommandQueue
	tick   time.Duration
	logger log.Log

	latest atomic.Pointer[FrameMessage]
}

func NewRunner(g *game.Game, hub *Hub, queue *CommandQueue, tick time.Duration, logger log.Log) *Runner {
	return &Runner{
		game:   g,
		hub:    hub,
		queue:  queue,
		tick:   tick,
		logger: log.OrNop(logger).With(log.String("component", "runner")),
	}
}

// Run steps the game on a fixed tick until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	dt := r.tick.Seconds()
	r.logger.Info("simulation started", log.Duration("tick", r.tick))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("simulation stopped", log.Uint64("frame", r.game.Frame()))
			return nil
		case <-ticker.C:
			r.Tick(dt)
		}
	}
}

// Tick applies queued commands, advances one frame and publishes the result.
func (r *Runner) Tick(dt float64) *FrameMessage {
	for _, cmd := range r.queue.Drain() {
		r.logger.Debug("viewer command",
			log.String("session", cmd.Session),
			log.String("action", cmd.Action),
		)
		cmd.Apply(r.game)
	}

	if err := r.game.Step(dt); err != nil {
		r.logger.Warn("frame failed", log.Uint64("frame", r.game.Frame()), log.Error(err))
	}

	msg := r.snapshot()
	r.latest.Store(msg)
	if r.hub != nil {
		if _, err := r.hub.Broadcast(msg); err != nil {
			r.logger.Error("broadcast failed", log.Error(err))
		}
	}
	return msg
}

// Latest is the most recent frame, nil before the first tick.
func (r *Runner) Latest() *FrameMessage {
	return r.latest.Load()
}

func (r *Runner) snapshot() *FrameMessage {
	focus, eye := r.game.Focus(), r.game.CameraEye()
	return &FrameMessage{
		Type:     MessageFrame,
		Frame:    r.game.Frame(),
		Active:   r.game.ActiveIndex(),
		Focus:    [3]float64{focus.X, focus.Y, focus.Z},
		Eye:      [3]float64{eye.X, eye.Y, eye.Z},
		Digest:   strconv.FormatUint(r.game.Digest(), 16),
		Entities: r.game.Snapshot(),
	}
}
