package npc

import (
	"errors"

	"github.com/zeusync/arpg/internal/core/models"
)

var (
	ErrUnknownNode = errors.New("unknown node")
	ErrInvalidTree = errors.New("invalid behavior tree")
)

// Status represents the execution result of a behavior node tick.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusRunning:
		return "running"
	default:
		return "unknown"
	}
}

// TickContext is what a node sees during one tick: the live obstacle space,
// the mob being driven, the read-only party roster and the agent's blackboard.
type TickContext struct {
	Space   models.Space
	Self    *models.Entity
	Party   []*models.Entity
	DT      float64
	BB      *Blackboard
	Shooter *Shooter
}

// BehaviorNode is the fundamental interface for behavior tree nodes.
// Shared node instances keep per-agent state in the blackboard, never in fields.
type BehaviorNode interface {
	Tick(t TickContext) Status
	Name() string
}

// Action performs side effects on the driven mob.
type Action interface {
	BehaviorNode
}

// Condition evaluates to success or failure without side effects.
type Condition interface {
	BehaviorNode
}

// Decorator wraps a single child node and changes its result.
type Decorator interface {
	BehaviorNode
	SetChild(child BehaviorNode)
}

// Composite node manages multiple children.
type Composite interface {
	BehaviorNode
	SetChildren(children ...BehaviorNode)
}
