package systems

import (
	"github.com/zeusync/arpg/internal/core/events/bus"
	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/movement"
)

// BrainSystem lets every AI-driven mob decide its intent for the frame.
type BrainSystem struct{}

func (BrainSystem) Name() string       { return "brain" }
func (BrainSystem) Priority() Priority { return PriorityHigh }

func (BrainSystem) Update(f *Frame) error {
	eachMob(f, func(e *models.Entity) {
		if e.Brain != nil {
			e.Brain.Think(f.World, e, f.Party, f.DT)
		}
	})
	return nil
}

// MotionSystem advances the mob state machine. Mobs later in the order see the
// positions already written by earlier ones. Arrivals and blocks are published
// together once every mob has moved.
type MotionSystem struct {
	Tuning movement.Tuning
}

func NewMotionSystem(t movement.Tuning) *MotionSystem {
	return &MotionSystem{Tuning: t}
}

func (*MotionSystem) Name() string       { return "motion" }
func (*MotionSystem) Priority() Priority { return PriorityNormal }

func (s *MotionSystem) Update(f *Frame) error {
	var events []bus.Event
	eachMob(f, func(e *models.Entity) {
		var eventType string
		switch movement.Update(f.World, e, f.DT, s.Tuning) {
		case movement.TransitionArrived:
			eventType = bus.EventMobArrived
		case movement.TransitionBlocked:
			eventType = bus.EventMobBlocked
		default:
			return
		}
		events = append(events, f.Event(eventType, s.Name(), entityEvent(e)))
	})
	return f.PublishBatch(events)
}

// ActionSystem ticks timed actions and clears the finished ones.
type ActionSystem struct{}

func (ActionSystem) Name() string       { return "action" }
func (ActionSystem) Priority() Priority { return PriorityLow }

func (s ActionSystem) Update(f *Frame) error {
	var events []bus.Event
	for _, e := range f.Entities {
		if e.Action == nil || !e.Action.Advance(f.DT) {
			continue
		}
		ev := entityEvent(e)
		ev.Action = e.Action.Name
		e.Action = nil
		events = append(events, f.Event(bus.EventActionDone, s.Name(), ev))
	}
	return f.PublishBatch(events)
}
