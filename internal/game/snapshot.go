package game

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/movement"
	"github.com/zeusync/arpg/internal/core/systems/physics"
	"github.com/zeusync/arpg/internal/core/world"
)

// RenderState is the read-only view of one entity handed to a renderer.
type RenderState struct {
	Handle   world.Handle    `json:"-"`
	ID       models.EntityID `json:"id"`
	Kind     string          `json:"kind"`
	Position [3]float64      `json:"position"`
	Rotation [3]float64      `json:"rotation"`
	Scale    [3]float64      `json:"scale"`
	Color    [3]float64      `json:"color"`
	Active   bool            `json:"active"`
	Moving   bool            `json:"moving"`
	Action   string          `json:"action,omitempty"`
}

func vec(v physics.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// Snapshot lists every entity in registry order.
func (g *Game) Snapshot() []RenderState {
	out := make([]RenderState, 0, g.registry.Len())
	g.registry.EachHandle(func(h world.Handle, e *models.Entity) bool {
		rs := RenderState{
			Handle:   h,
			ID:       e.ID,
			Kind:     e.Kind.String(),
			Position: vec(e.Position),
			Rotation: vec(e.Rotation),
			Scale:    vec(e.Scale),
			Color:    vec(e.Color),
			Active:   e.Active,
			Moving:   movement.StateOf(e) == movement.StateMoving,
		}
		if e.Action != nil {
			rs.Action = e.Action.Name
		}
		out = append(out, rs)
		return true
	})
	return out
}

// Digest hashes the ordered simulation state. Two sessions fed the same
// inputs produce the same digest frame by frame.
func (g *Game) Digest() uint64 {
	d := xxhash.New()
	var buf [8]byte
	putU := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	putV := func(v physics.Vec3) {
		putU(math.Float64bits(v.X))
		putU(math.Float64bits(v.Y))
		putU(math.Float64bits(v.Z))
	}

	putU(g.Frame())
	putU(uint64(g.active))
	g.registry.Each(func(e *models.Entity) bool {
		putU(uint64(e.ID))
		putU(uint64(e.Kind))
		putV(e.Position)
		if e.Mob != nil {
			putV(e.Mob.Target)
			if e.Mob.Moving {
				putU(1)
			} else {
				putU(0)
			}
		}
		return true
	})
	return d.Sum64()
}
