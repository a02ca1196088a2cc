package server

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/zeusync/arpg/internal/core/systems/physics"
	"github.com/zeusync/arpg/internal/game"
)

// Viewer command actions.
const (
	ActionMove    = "move"
	ActionStop    = "stop"
	ActionCycle   = "cycle"
	ActionSelect  = "select"
	ActionPerform = "perform"
)

// Command is an input request from a viewer. Move carries a ground point,
// select carries a zero-based party index and perform names a timed action.
type Command struct {
	Action   string  `json:"action"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Z        float64 `json:"z,omitempty"`
	Index    int     `json:"index,omitempty"`
	Name     string  `json:"name,omitempty"`
	Duration float64 `json:"duration,omitempty"`

	Session string `json:"-"`
}

// DecodeCommand parses and validates one command frame.
func DecodeCommand(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Command{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	switch c.Action {
	case ActionStop, ActionCycle, ActionSelect:
	case ActionMove:
		for _, v := range []float64{c.X, c.Y, c.Z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Command{}, fmt.Errorf("%w: move target is not finite", ErrInvalidMessage)
			}
		}
	case ActionPerform:
		if c.Name == "" {
			return Command{}, fmt.Errorf("%w: perform needs a name", ErrInvalidMessage)
		}
		if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
			return Command{}, fmt.Errorf("%w: perform duration must be positive", ErrInvalidMessage)
		}
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, c.Action)
	}
	return c, nil
}

// Apply feeds the command into the session. It must run on the simulation goroutine.
func (c Command) Apply(g *game.Game) {
	switch c.Action {
	case ActionMove:
		g.MoveActive(physics.V3(c.X, c.Y, c.Z))
	case ActionStop:
		g.StopActive()
	case ActionCycle:
		g.CycleActive()
	case ActionSelect:
		g.SelectMember(c.Index)
	case ActionPerform:
		g.PerformActive(c.Name, c.Duration)
	}
}

// CommandQueue hands commands from viewer goroutines to the simulation loop.
// The zero value has no cap.
type CommandQueue struct {
	mu    sync.Mutex
	items []Command
	limit int
}

// NewCommandQueue holds at most limit commands between drains.
func NewCommandQueue(limit int) *CommandQueue {
	return &CommandQueue{limit: limit}
}

// Push queues c, or returns ErrQueueFull when the cap is reached.
func (q *CommandQueue) Push(c Command) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.limit > 0 && len(q.items) >= q.limit {
		return ErrQueueFull
	}
	q.items = append(q.items, c)
	return nil
}

// Drain takes every queued command in arrival order.
func (q *CommandQueue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
