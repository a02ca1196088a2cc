package movement

import (
	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/systems/physics"
)

// State is the mob movement state.
type State uint8

const (
	StateIdle State = iota
	StateMoving
)

func (s State) String() string {
	if s == StateMoving {
		return "moving"
	}
	return "idle"
}

// Transition reports what an Update changed.
type Transition uint8

const (
	TransitionNone Transition = iota
	TransitionArrived
	TransitionBlocked
)

func (t Transition) String() string {
	switch t {
	case TransitionArrived:
		return "arrived"
	case TransitionBlocked:
		return "blocked"
	default:
		return "none"
	}
}

// StateOf returns the movement state of e.
func StateOf(e *models.Entity) State {
	if e.Mob != nil && e.Mob.Moving {
		return StateMoving
	}
	return StateIdle
}

// MoveTo sets a new target and starts moving.
func MoveTo(e *models.Entity, target physics.Vec3) {
	if e.Mob == nil || !target.IsFinite() {
		return
	}
	e.Mob.Target = target
	e.Mob.Moving = true
	e.Mob.Progress = models.Progress{}
}

// Stop drops the current intent immediately. The position is left untouched.
func Stop(e *models.Entity) {
	if e.Mob == nil {
		return
	}
	e.Mob.Moving = false
}

// Update advances one mob by dt: step toward the target, resolve collisions,
// then apply separation whatever the state. space may be nil, in which case
// nothing blocks the mob.
func Update(space models.Space, e *models.Entity, dt float64, t Tuning) Transition {
	m := e.Mob
	if m == nil || !e.Active {
		return TransitionNone
	}
	before := e.Position
	transition := TransitionNone

	if m.Moving {
		transition = step(space, e, dt, t)
	}
	Separate(space, e, dt, t)

	if !e.Position.IsFinite() {
		e.Position = before
		m.Moving = false
	}
	return transition
}

func step(space models.Space, e *models.Entity, dt float64, t Tuning) Transition {
	m := e.Mob
	toTarget := m.Target.Sub(e.Position)
	dist := toTarget.Length()
	if dist <= t.ArrivalEpsilon {
		e.Position = m.Target
		m.Moving = false
		return TransitionArrived
	}
	if dt <= 0 {
		return TransitionNone
	}

	travel := m.Speed * dt
	desired := m.Target
	if travel < dist {
		desired = e.Position.Add(toTarget.Scale(travel / dist))
	}

	resolved := Resolve(space, e, desired, t)
	moved := resolved.Sub(e.Position).Length()
	e.Position = resolved

	if desired == m.Target && resolved == desired {
		m.Moving = false
		return TransitionArrived
	}
	if !t.StopWhenBlocked {
		return TransitionNone
	}
	if (travel > t.Epsilon && moved < t.Epsilon) || stalled(e, dt, t) {
		m.Moving = false
		return TransitionBlocked
	}
	return TransitionNone
}

// stalled reports whether the mob has spent StallTimeout neither getting
// ArrivalEpsilon closer to its target nor drifting that far from where the
// current window opened.
func stalled(e *models.Entity, dt float64, t Tuning) bool {
	m := e.Mob
	p := &m.Progress
	remaining := m.Target.Distance(e.Position)
	if p.Closest == 0 || remaining < p.Closest-t.ArrivalEpsilon || e.Position.Distance(p.Anchor) > t.ArrivalEpsilon {
		p.Closest, p.Anchor, p.Stalled = remaining, e.Position, 0
		return false
	}
	p.Stalled += dt
	return t.StallTimeout > 0 && p.Stalled >= t.StallTimeout
}
