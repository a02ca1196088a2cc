package movement

import (
	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/systems/physics"
)

// Separate applies the soft push-apart for one frame and returns the applied
// displacement. Contributions are averaged over the mobs within the buffered
// preferred distance, so a mob in a crowd is not flung. No collision check is
// made; light co-penetration relaxes over the following frames.
func Separate(space models.Space, self *models.Entity, dt float64, t Tuning) physics.Vec3 {
	if self.Mob == nil || dt <= 0 {
		return physics.Vec3{}
	}

	var acc physics.Vec3
	n := 0
	eachObstacle(space, self, func(o *models.Entity) bool {
		preferred := (self.Mob.Radius + o.Mob.Radius) * t.SeparationBuffer
		away := self.Position.Sub(o.Position)
		d := away.Length()
		if d >= preferred {
			return true
		}
		dir, ok := away.Normalize(t.Epsilon)
		if !ok {
			dir = splitAxis(self, o)
		}
		acc = acc.Add(dir.Scale((preferred - d) / preferred))
		n++
		return true
	})
	if n == 0 {
		return physics.Vec3{}
	}

	push := acc.Scale(t.SeparationSpeed * dt / float64(n))
	if !push.IsFinite() {
		return physics.Vec3{}
	}
	self.Position = self.Position.Add(push)
	return push
}

// splitAxis picks opposite directions for two mobs sharing a center so the pair
// always separates.
func splitAxis(self, other *models.Entity) physics.Vec3 {
	if self.ID < other.ID {
		return physics.Right.Neg()
	}
	return physics.Right
}
