package movement

import (
	"math"

	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/systems/physics"
)

// Searcher finds intermediate waypoints on shrinking rings around a mover.
// It is greedy and never backtracks: the first ring with any acceptable point
// wins, even if a smaller ring holds a better one.
type Searcher struct {
	tuning WaypointTuning
	eps    float64

	// ring offsets on the unit circle, cached per sample count
	cos, sin []float64
}

// NewSearcher builds a searcher. eps guards degenerate directions. Invalid
// tuning falls back to the defaults so the search always terminates.
func NewSearcher(t WaypointTuning, eps float64) *Searcher {
	if t.Validate() != nil {
		t = DefaultWaypointTuning()
	}
	if eps <= 0 {
		eps = DefaultTuning().Epsilon
	}
	s := &Searcher{tuning: t, eps: eps}
	s.cos = make([]float64, t.Samples)
	s.sin = make([]float64, t.Samples)
	for i := 0; i < t.Samples; i++ {
		a := 2 * math.Pi * float64(i) / float64(t.Samples)
		s.cos[i], s.sin[i] = math.Cos(a), math.Sin(a)
	}
	return s
}

// FindIntermediateWaypoint returns a point to walk to on the way to target.
// targetRadius is the radius of whatever occupies the target, zero for a bare
// point. The mover's own position comes back when it is already there.
func (s *Searcher) FindIntermediateWaypoint(space models.Space, self *models.Entity, target physics.Vec3, targetRadius float64) physics.Vec3 {
	pos := self.Position
	radius := self.Radius()

	toTarget := target.Sub(pos)
	dist := toTarget.Length()
	if dist <= radius+targetRadius+s.tuning.GoalEpsilon {
		return pos
	}
	dir := toTarget.Scale(1 / dist)

	forward := toTarget.Flatten().NormalizeOr(s.eps, physics.Right)
	side := physics.Up.Cross(forward)
	clearance := radius * s.tuning.ClearanceFactor

	searchRadius := s.tuning.SearchRadius
	backward := false
	for {
		if p, ok := s.bestOnRing(space, self, pos, target, dir, forward, side, searchRadius, clearance, backward); ok {
			return p
		}

		searchRadius *= s.tuning.Shrink
		if !backward && searchRadius < s.tuning.BackwardThreshold {
			backward = true
			searchRadius = s.tuning.SearchRadius
			continue
		}
		if backward && searchRadius < math.Max(radius, s.eps) {
			break
		}
	}

	// exhausted: a direct step the collision pass will police next frame
	return pos.Add(dir.Scale(radius))
}

func (s *Searcher) bestOnRing(
	space models.Space,
	self *models.Entity,
	pos, target, dir, forward, side physics.Vec3,
	ringRadius, clearance float64,
	backward bool,
) (physics.Vec3, bool) {
	var best physics.Vec3
	bestScore := math.Inf(1)
	found := false

	for i := range s.cos {
		offset := forward.Scale(s.cos[i] * ringRadius).Add(side.Scale(s.sin[i] * ringRadius))
		p := pos.Add(offset)
		if IsPointBlocked(space, self, p, clearance) {
			continue
		}
		if !backward && offset.Dot(dir) <= s.eps {
			continue
		}
		if score := p.Distance(target); score < bestScore {
			best, bestScore, found = p, score, true
		}
	}
	return best, found
}
