package systems

import (
	"time"

	"github.com/zeusync/arpg/internal/core/events/bus"
	"github.com/zeusync/arpg/internal/core/models"
)

// System is one stage of the frame pipeline.
type System interface {
	Name() string
	Priority() Priority
	Update(f *Frame) error
}

// Priority defines execution order. Higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// World is the entity store a pipeline runs against. Mutations requested
// between BeginPass and EndPass are applied when the pass ends.
type World interface {
	models.Space
	Entities() []*models.Entity
	BeginPass()
	EndPass()
}

// Frame is the per-step context handed to every system.
type Frame struct {
	Number uint64
	DT     float64
	World  World
	// Entities is the iteration order for this frame, snapshotted once.
	Entities []*models.Entity
	// Party is the read-only player roster.
	Party []*models.Entity
	Bus   bus.EventBus
}

// Event builds an event stamped with the frame number.
func (f *Frame) Event(eventType, source string, data any) bus.Event {
	return bus.NewEvent(eventType, source, f.Number, data)
}

// PublishBatch delivers events in order. A frame without a bus drops them.
func (f *Frame) PublishBatch(events []bus.Event) error {
	if f.Bus == nil || len(events) == 0 {
		return nil
	}
	return f.Bus.PublishBatch(events...)
}

// EntityEvent is the payload of entity and mob events.
type EntityEvent struct {
	ID       models.EntityID `json:"id"`
	Kind     models.Kind     `json:"kind"`
	Position [3]float64      `json:"position"`
	// Action names the finished action for entity.action_done.
	Action string `json:"action,omitempty"`
}

func entityEvent(e *models.Entity) EntityEvent {
	return EntityEvent{
		ID:       e.ID,
		Kind:     e.Kind,
		Position: [3]float64{e.Position.X, e.Position.Y, e.Position.Z},
	}
}

// Metrics provides runtime metrics for a system.
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	MinExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
	EntitiesProcessed    uint64
}

func (m *Metrics) record(start time.Time, took time.Duration, entities int, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += took
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if took > m.MaxExecutionTime {
		m.MaxExecutionTime = took
	}
	if m.ExecutionCount == 1 || took < m.MinExecutionTime {
		m.MinExecutionTime = took
	}
	m.LastExecutionTime = start
	m.EntitiesProcessed += uint64(entities)
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}
