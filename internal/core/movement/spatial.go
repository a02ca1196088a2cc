package movement

import (
	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/systems/physics"
)

// Overlap is an obstacle found by Overlaps with its center distance.
type Overlap struct {
	Obstacle *models.Entity
	Distance float64
}

// eachObstacle visits every active mob other than self. A nil space has no obstacles.
func eachObstacle(space models.Space, self *models.Entity, fn func(o *models.Entity) bool) {
	if space == nil {
		return
	}
	space.Each(func(o *models.Entity) bool {
		if o == self || !o.IsObstacle() {
			return true
		}
		return fn(o)
	})
}

// IsPointBlocked reports whether point lies within radius+minClearance of any
// other active mob.
func IsPointBlocked(space models.Space, self *models.Entity, point physics.Vec3, minClearance float64) bool {
	blocked := false
	eachObstacle(space, self, func(o *models.Entity) bool {
		if o.Position.Distance(point) < o.Mob.Radius+minClearance {
			blocked = true
			return false
		}
		return true
	})
	return blocked
}

// Overlaps lists the mobs self would penetrate at position at, in space order.
func Overlaps(space models.Space, self *models.Entity, at physics.Vec3) []Overlap {
	var out []Overlap
	r := self.Radius()
	eachObstacle(space, self, func(o *models.Entity) bool {
		d := o.Position.Distance(at)
		if d < r+o.Mob.Radius {
			out = append(out, Overlap{Obstacle: o, Distance: d})
		}
		return true
	})
	return out
}
