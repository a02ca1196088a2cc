package game

import (
	"math"

	"github.com/zeusync/arpg/internal/config"
	"github.com/zeusync/arpg/internal/core/events/bus"
	"github.com/zeusync/arpg/internal/core/observability/log"
	"github.com/zeusync/arpg/internal/core/systems/physics"
)

type member struct {
	pos, color physics.Vec3
}

// demoParty is the three-member party, first one active.
var demoParty = []member{
	{physics.V3(0, 0, 0), physics.V3(0.9, 0.2, 0.2)},
	{physics.V3(2, 0, 0), physics.V3(0.2, 0.9, 0.2)},
	{physics.V3(-2, 0, 0), physics.V3(0.2, 0.2, 0.9)},
}

// NewDemo builds the default scene: the party at the origin, shooters evenly
// spread on a ring around it and props on a half-size ring in between.
func NewDemo(cfg config.Config, logger log.Log, eb bus.EventBus) (*Game, error) {
	g, err := New(cfg, logger, eb)
	if err != nil {
		return nil, err
	}

	for _, m := range demoParty {
		if _, err = g.SpawnPlayer(m.pos, m.color); err != nil {
			return nil, err
		}
	}

	d := cfg.Demo
	for i := 0; i < d.Enemies; i++ {
		if _, err = g.SpawnEnemy(onRing(i, d.Enemies, d.EnemyRing, 0)); err != nil {
			return nil, err
		}
	}
	for i := 0; i < d.Props; i++ {
		pos := onRing(i, d.Props, d.EnemyRing/2, 0.5)
		if _, err = g.SpawnProp(pos, physics.V3(1, 2, 1), physics.V3(0.45, 0.45, 0.5)); err != nil {
			return nil, err
		}
	}

	g.logger.Info("demo scene ready",
		log.Int("party", len(g.party)),
		log.Int("enemies", d.Enemies),
		log.Int("props", d.Props),
	)
	return g, nil
}

// onRing returns point i of n evenly spaced on the ground circle, rotated by
// phase fractions of a slot.
func onRing(i, n int, radius, phase float64) physics.Vec3 {
	a := 2 * math.Pi * (float64(i) + phase) / float64(n)
	return physics.V3(radius*math.Cos(a), 0, radius*math.Sin(a))
}
