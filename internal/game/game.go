// Package game owns one simulation session: the entity registry, the party
// roster and the frame pipeline, plus the input and render surfaces around them.
package game

import (
	"fmt"

	"github.com/zeusync/arpg/internal/config"
	"github.com/zeusync/arpg/internal/core/events/bus"
	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/movement"
	"github.com/zeusync/arpg/internal/core/npc"
	"github.com/zeusync/arpg/internal/core/observability/log"
	"github.com/zeusync/arpg/internal/core/systems"
	"github.com/zeusync/arpg/internal/core/systems/physics"
	"github.com/zeusync/arpg/internal/core/world"
)

// CameraOffset places the overhead camera relative to the focus point.
var CameraOffset = physics.V3(0, 15, 15)

// Game is not safe for concurrent use. One goroutine drives input, Step and
// Snapshot in turn.
type Game struct {
	cfg      config.Config
	logger   log.Log
	bus      bus.EventBus
	registry *world.Registry
	pipeline *systems.Pipeline

	party  []world.Handle
	active int

	// shared by every shooter, nodes keep no per-agent state
	shooterTree *npc.Tree
}

// New builds an empty session. A nil bus gets a private one.
func New(cfg config.Config, logger log.Log, eb bus.EventBus) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = log.OrNop(logger)
	if eb == nil {
		eb = bus.New()
	}

	pipeline, err := systems.NewPipeline(logger,
		systems.BrainSystem{},
		systems.NewMotionSystem(cfg.Movement),
		systems.ActionSystem{},
	)
	if err != nil {
		return nil, err
	}

	var tree *npc.Tree
	if cfg.Shooter.TreeFile != "" {
		if tree, err = npc.LoadShooterTree(cfg.Shooter.TreeFile); err != nil {
			return nil, fmt.Errorf("load shooter tree: %w", err)
		}
	}

	return &Game{
		cfg:         cfg,
		logger:      logger.With(log.String("component", "game")),
		bus:         eb,
		registry:    world.NewRegistry(logger),
		pipeline:    pipeline,
		shooterTree: tree,
	}, nil
}

func (g *Game) Registry() *world.Registry { return g.registry }
func (g *Game) Bus() bus.EventBus         { return g.bus }

// Frame is the number of completed steps.
func (g *Game) Frame() uint64 { return g.pipeline.Frame() }

// Step runs one frame: AI, then motion, then timed actions. Spawns and
// removals requested during the frame take effect after it.
func (g *Game) Step(dt float64) error {
	return g.pipeline.Step(&systems.Frame{
		DT:    dt,
		World: g.registry,
		Party: g.Party(),
		Bus:   g.bus,
	})
}

// SpawnPlayer adds a party member. The first member becomes active.
func (g *Game) SpawnPlayer(pos, color physics.Vec3) (world.Handle, error) {
	e := models.NewEntity(models.KindPlayer, pos)
	e.Color = color
	e.Mob = models.NewMob(g.cfg.Demo.PlayerSpeed, g.cfg.Demo.Radius)

	h, err := g.add(e)
	if err != nil {
		return h, err
	}
	g.party = append(g.party, h)
	return h, nil
}

// SpawnEnemy adds a basic shooter.
func (g *Game) SpawnEnemy(pos physics.Vec3) (world.Handle, error) {
	e := models.NewEntity(models.KindEnemy, pos)
	e.Color = physics.V3(0.8, 0.4, 0.1)
	e.Mob = models.NewMob(g.cfg.Demo.EnemySpeed, g.cfg.Demo.Radius)
	e.Brain = npc.NewShooter(g.shooterTree, g.cfg.Shooter, g.cfg.Movement, g.cfg.Steering, g.cfg.Waypoint)
	return g.add(e)
}

// SpawnProp adds static scenery. Props are rendered but never block mobs.
func (g *Game) SpawnProp(pos, scale, color physics.Vec3) (world.Handle, error) {
	e := models.NewEntity(models.KindProp, pos)
	e.Scale = scale
	e.Color = color
	return g.add(e)
}

func (g *Game) add(e *models.Entity) (world.Handle, error) {
	h, err := g.registry.Add(e)
	if err != nil {
		return h, err
	}
	_ = g.bus.Publish(bus.NewEvent(bus.EventEntitySpawned, "game", g.Frame(), h))
	return h, nil
}

// Remove deletes an entity and drops it from the party.
func (g *Game) Remove(h world.Handle) error {
	if err := g.registry.Remove(h); err != nil {
		return err
	}
	for i, p := range g.party {
		if p != h {
			continue
		}
		g.party = append(g.party[:i], g.party[i+1:]...)
		switch {
		case len(g.party) == 0:
			g.active = 0
		case g.active > i || g.active >= len(g.party):
			g.active = (g.active - 1 + len(g.party)) % len(g.party)
		}
		break
	}
	_ = g.bus.Publish(bus.NewEvent(bus.EventEntityRemoved, "game", g.Frame(), h))
	return nil
}

// Party resolves the roster in order. The slice is a fresh read-only view.
func (g *Game) Party() []*models.Entity {
	out := make([]*models.Entity, 0, len(g.party))
	for _, h := range g.party {
		if e, ok := g.registry.Get(h); ok {
			out = append(out, e)
		}
	}
	return out
}

// Active is the member receiving input, nil with an empty party.
func (g *Game) Active() *models.Entity {
	if len(g.party) == 0 {
		return nil
	}
	e, _ := g.registry.Get(g.party[g.active])
	return e
}

func (g *Game) ActiveIndex() int { return g.active }

// CycleActive moves control to the next party member, wrapping around.
func (g *Game) CycleActive() {
	if len(g.party) == 0 {
		return
	}
	g.setActive((g.active + 1) % len(g.party))
}

// SelectMember activates member i. Out-of-range indices are ignored.
func (g *Game) SelectMember(i int) bool {
	if i < 0 || i >= len(g.party) {
		return false
	}
	g.setActive(i)
	return true
}

func (g *Game) setActive(i int) {
	g.active = i
	g.logger.Info("party member selected",
		log.Int("index", i+1),
		log.Int("party_size", len(g.party)),
	)
	_ = g.bus.Publish(bus.NewEvent(bus.EventPartySwitched, "game", g.Frame(), i))
}

// MoveActive orders the active member to walk to p.
func (g *Game) MoveActive(p physics.Vec3) {
	if e := g.Active(); e != nil {
		movement.MoveTo(e, p)
	}
}

// StopActive cancels the active member's motion immediately.
func (g *Game) StopActive() {
	if e := g.Active(); e != nil {
		movement.Stop(e)
	}
}

// PerformActive starts a timed action on the active member. It finishes with
// an entity.action_done event once duration seconds of frames have run.
func (g *Game) PerformActive(name string, duration float64) {
	if e := g.Active(); e != nil {
		e.StartAction(name, duration)
	}
}

// Focus is the camera target: the active member, or the origin.
func (g *Game) Focus() physics.Vec3 {
	if e := g.Active(); e != nil {
		return e.Position
	}
	return physics.Vec3{}
}

// CameraEye is where the overhead camera sits for the current focus.
func (g *Game) CameraEye() physics.Vec3 {
	return g.Focus().Add(CameraOffset)
}
