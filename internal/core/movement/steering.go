package movement

import (
	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/systems/physics"
)

// Steer returns a unit direction for this frame that heads for target while
// dodging nearby mobs, or the zero vector when self is already at target.
//
// This is a reactive heuristic. Near symmetric obstacle layouts it oscillates.
func Steer(space models.Space, self *models.Entity, target physics.Vec3, avoidanceRadius float64, t SteeringTuning) physics.Vec3 {
	toTarget := target.Sub(self.Position)
	dist := toTarget.Length()
	if dist < t.Tolerance {
		return physics.Vec3{}
	}
	seek := toTarget.Scale(1 / dist)
	if self.Mob == nil {
		return seek
	}
	if avoidanceRadius <= 0 {
		avoidanceRadius = t.AvoidanceRadius
	}

	predicted := self.Position.Add(seek.Scale(self.Mob.Speed * t.Lookahead))

	var avoidance physics.Vec3
	triggered := false
	eachObstacle(space, self, func(o *models.Entity) bool {
		// the mob standing on the target is what we are heading for, not in the way
		if o.Position.Distance(target) < o.Mob.Radius {
			return true
		}

		effective := self.Mob.Radius + o.Mob.Radius + t.Buffer
		dCur := self.Position.Distance(o.Position)
		dPred := predicted.Distance(o.Position)
		if dCur > effective && dPred > effective {
			return true
		}
		triggered = true

		obsDir := o.Position.Sub(self.Position).NormalizeOr(t.Tolerance, seek)
		dodge := dodgeSide(self.Position, seek, o.Position, obsDir, effective, t.Tolerance)
		weight := physics.Clamp01(1 - dCur/avoidanceRadius)

		contribution := dodge.Scale(t.DodgeWeight).Add(obsDir.Neg().Scale(t.RepulsionWeight))
		avoidance = avoidance.Add(contribution.Scale(weight))
		return true
	})

	final := seek
	if triggered {
		final = seek.Scale(t.SeekWeight).Add(avoidance.ClampLength(t.AvoidanceCap))
	}
	if n, ok := final.Normalize(t.Tolerance); ok {
		return n
	}
	return seek
}

// dodgeSide returns the ground-plane perpendicular to obsDir that leaves more
// room around the obstacle. Each side is sampled one effective radius ahead
// along seek and one effective radius sideways. Ties go to the left.
func dodgeSide(pos, seek, obstacle, obsDir physics.Vec3, effective, eps float64) physics.Vec3 {
	perp := physics.Up.Cross(obsDir).NormalizeOr(eps, physics.Right)
	left, right := perp, perp.Neg()

	ahead := pos.Add(seek.Scale(effective))
	clearLeft := ahead.Add(left.Scale(effective)).Distance(obstacle)
	clearRight := ahead.Add(right.Scale(effective)).Distance(obstacle)
	if clearRight > clearLeft {
		return right
	}
	return left
}
