package systems

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arpg/internal/core/events/bus"
	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/movement"
	"github.com/zeusync/arpg/internal/core/observability/log"
	"github.com/zeusync/arpg/internal/core/systems/physics"
	"github.com/zeusync/arpg/internal/core/world"
)

type stubSystem struct {
	name     string
	priority Priority
	err      error
	run      func(f *Frame)
	calls    *[]string
}

func (s stubSystem) Name() string       { return s.name }
func (s stubSystem) Priority() Priority { return s.priority }

func (s stubSystem) Update(f *Frame) error {
	if s.calls != nil {
		*s.calls = append(*s.calls, s.name)
	}
	if s.run != nil {
		s.run(f)
	}
	return s.err
}

func spawnMob(t *testing.T, reg *world.Registry, kind models.Kind, pos physics.Vec3, speed float64) *models.Entity {
	t.Helper()
	e := models.NewEntity(kind, pos)
	e.Mob = models.NewMob(speed, 0.5)
	_, err := reg.Add(e)
	require.NoError(t, err)
	return e
}

func TestPipelineOrder(t *testing.T) {
	var calls []string
	p, err := NewPipeline(nil,
		stubSystem{name: "late", priority: PriorityLow, calls: &calls},
		stubSystem{name: "first", priority: PriorityHighest, calls: &calls},
		stubSystem{name: "mid-a", priority: PriorityNormal, calls: &calls},
		stubSystem{name: "mid-b", priority: PriorityNormal, calls: &calls},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "mid-a", "mid-b", "late"}, p.Order())
	require.NoError(t, p.Step(&Frame{DT: 0.1}))
	assert.Equal(t, p.Order(), calls)

	assert.ErrorIs(t, p.Register(stubSystem{name: "late"}), ErrDuplicateSystem)
}

func TestPipelineKeepsRunningAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	var calls []string
	p, err := NewPipeline(log.NewNop(),
		stubSystem{name: "broken", priority: PriorityHigh, err: boom, calls: &calls},
		stubSystem{name: "healthy", priority: PriorityLow, calls: &calls},
	)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, p.Step(&Frame{DT: 0.1}), boom)
	}
	assert.Equal(t, uint64(3), p.Frame())
	assert.Len(t, calls, 6)

	m, ok := p.Metrics("broken")
	require.True(t, ok)
	assert.Equal(t, uint64(3), m.ExecutionCount)
	assert.Equal(t, uint64(3), m.ErrorCount)
	assert.ErrorIs(t, m.LastError, boom)
	assert.LessOrEqual(t, m.MinExecutionTime, m.MaxExecutionTime)

	m, ok = p.Metrics("healthy")
	require.True(t, ok)
	assert.Zero(t, m.ErrorCount)

	_, ok = p.Metrics("missing")
	assert.False(t, ok)
}

func TestPipelineDefersRegistryMutations(t *testing.T) {
	reg := world.NewRegistry(nil)
	a := spawnMob(t, reg, models.KindPlayer, physics.V3(0, 0, 0), 5)
	handleA, _ := reg.HandleOf(a)

	var seen int
	spawner := stubSystem{name: "spawner", priority: PriorityHigh, run: func(f *Frame) {
		e := models.NewEntity(models.KindProp, physics.V3(5, 0, 5))
		_, err := reg.Add(e)
		require.NoError(t, err)
		require.NoError(t, reg.Remove(handleA))
	}}
	counter := stubSystem{name: "counter", priority: PriorityLow, run: func(f *Frame) {
		seen = len(f.Entities)
	}}
	p, err := NewPipeline(nil, spawner, counter)
	require.NoError(t, err)

	require.NoError(t, p.Step(&Frame{DT: 0.1, World: reg}))

	assert.Equal(t, 1, seen, "frame order is fixed when the frame starts")
	assert.Equal(t, 1, reg.Len())
	assert.False(t, reg.Contains(handleA))
	assert.False(t, reg.InPass())
}

func TestSimulationSystemsPublishEvents(t *testing.T) {
	reg := world.NewRegistry(nil)
	walker := spawnMob(t, reg, models.KindPlayer, physics.V3(0, 0, 0), 5)
	caster := models.NewEntity(models.KindProp, physics.V3(3, 0, 3))
	caster.StartAction("emote", 0.15)
	_, err := reg.Add(caster)
	require.NoError(t, err)

	eb := bus.New()
	var events []bus.Event
	_, err = eb.Subscribe("", func(e bus.Event) error {
		events = append(events, e)
		return nil
	})
	require.NoError(t, err)

	p, err := NewPipeline(nil, BrainSystem{}, NewMotionSystem(movement.DefaultTuning()), ActionSystem{})
	require.NoError(t, err)
	assert.Equal(t, []string{"brain", "motion", "action"}, p.Order())

	movement.MoveTo(walker, physics.V3(0.4, 0, 0))
	require.NoError(t, p.Step(&Frame{DT: 0.1, World: reg, Bus: eb}))
	require.NoError(t, p.Step(&Frame{DT: 0.1, World: reg, Bus: eb}))

	require.Len(t, events, 2)
	assert.Equal(t, bus.EventMobArrived, events[0].Type())
	assert.Equal(t, uint64(1), events[0].Frame())
	assert.Equal(t, walker.ID, events[0].Data().(EntityEvent).ID)

	assert.Equal(t, bus.EventActionDone, events[1].Type())
	assert.Equal(t, uint64(2), events[1].Frame())
	assert.Equal(t, "emote", events[1].Data().(EntityEvent).Action)
	assert.Nil(t, caster.Action)
}

func TestMotionEventsFollowTheWholeMove(t *testing.T) {
	reg := world.NewRegistry(nil)
	a := spawnMob(t, reg, models.KindPlayer, physics.V3(0, 0, 0), 5)
	b := spawnMob(t, reg, models.KindPlayer, physics.V3(0, 0, 5), 5)
	movement.MoveTo(a, physics.V3(0.4, 0, 0))
	movement.MoveTo(b, physics.V3(0.4, 0, 5))

	eb := bus.New()
	var seen []physics.Vec3
	_, err := eb.Subscribe(bus.EventMobArrived, func(bus.Event) error {
		seen = append(seen, b.Position)
		return nil
	})
	require.NoError(t, err)

	p, err := NewPipeline(nil, NewMotionSystem(movement.DefaultTuning()))
	require.NoError(t, err)
	require.NoError(t, p.Step(&Frame{DT: 0.1, World: reg, Bus: eb}))

	require.Len(t, seen, 2)
	assert.Equal(t, physics.V3(0.4, 0, 5), seen[0], "handlers run after every mob has moved")
}

func TestMotionSystemPublishesBlocked(t *testing.T) {
	reg := world.NewRegistry(nil)
	a := spawnMob(t, reg, models.KindPlayer, physics.V3(-0.8, 0, 0), 5)
	b := spawnMob(t, reg, models.KindPlayer, physics.V3(0.8, 0, 0), 5)
	movement.MoveTo(a, physics.V3(5, 0, 0))
	movement.MoveTo(b, physics.V3(-5, 0, 0))

	eb := bus.New()
	var blocked []models.EntityID
	_, err := eb.Subscribe(bus.EventMobBlocked, func(e bus.Event) error {
		blocked = append(blocked, e.Data().(EntityEvent).ID)
		return nil
	})
	require.NoError(t, err)

	p, err := NewPipeline(nil, NewMotionSystem(movement.DefaultTuning()))
	require.NoError(t, err)
	require.NoError(t, p.Step(&Frame{DT: 0.1, World: reg, Bus: eb}))

	// insertion order decides who gets through
	assert.Equal(t, []models.EntityID{b.ID}, blocked)
	assert.Equal(t, movement.StateMoving, movement.StateOf(a))
}

type fixedBrain struct{ target physics.Vec3 }

func (b fixedBrain) Think(_ models.Space, self *models.Entity, party []*models.Entity, _ float64) {
	if len(party) > 0 {
		movement.MoveTo(self, b.target)
	}
}

func TestBrainSystemSeesParty(t *testing.T) {
	reg := world.NewRegistry(nil)
	player := spawnMob(t, reg, models.KindPlayer, physics.V3(9, 0, 9), 5)
	enemy := spawnMob(t, reg, models.KindEnemy, physics.V3(0, 0, 0), 3)
	enemy.Brain = fixedBrain{target: physics.V3(1, 0, 0)}

	p, err := NewPipeline(nil, BrainSystem{})
	require.NoError(t, err)

	require.NoError(t, p.Step(&Frame{DT: 0.1, World: reg}))
	assert.Equal(t, movement.StateIdle, movement.StateOf(enemy))

	require.NoError(t, p.Step(&Frame{DT: 0.1, World: reg, Party: []*models.Entity{player}}))
	assert.Equal(t, movement.StateMoving, movement.StateOf(enemy))
}
