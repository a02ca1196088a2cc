package movement

import (
	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/systems/physics"
)

// Resolve turns the position self wants to reach this frame into one that does
// not penetrate other mobs.
//
// For each obstacle overlapping the desired position, in query order, the
// intended movement is projected onto the plane perpendicular to the normal
// from the obstacle through the current position, damped by friction and
// applied from the current position. If that still penetrates, the mover is
// pushed out along the line from the obstacle center to exactly the sum of
// radii. Later obstacles work on the already-slid movement.
func Resolve(space models.Space, self *models.Entity, desired physics.Vec3, t Tuning) physics.Vec3 {
	if self.Mob == nil {
		return desired
	}
	overlaps := Overlaps(space, self, desired)
	if len(overlaps) == 0 {
		return desired
	}

	current := self.Position
	intended := desired.Sub(current)
	fallback := intended.NormalizeOr(t.Epsilon, physics.Right)

	resolved := desired
	movement := intended
	for i, ov := range overlaps {
		o := ov.Obstacle
		minSep := self.Mob.Radius + o.Mob.Radius
		if i > 0 && resolved.Distance(o.Position) >= minSep {
			continue
		}

		normal := current.Sub(o.Position).NormalizeOr(t.Epsilon, fallback)
		slide := movement.Sub(normal.Scale(movement.Dot(normal)))
		tentative := current.Add(slide.Scale(t.Friction))

		away := tentative.Sub(o.Position)
		if away.Length() < minSep {
			dir := away.NormalizeOr(t.Epsilon, fallback)
			tentative = o.Position.Add(dir.Scale(minSep))
		}

		resolved = tentative
		movement = resolved.Sub(current)
	}
	return resolved
}
