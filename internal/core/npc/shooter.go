package npc

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/movement"
	"github.com/zeusync/arpg/internal/core/systems/physics"
)

var ErrInvalidShooter = errors.New("invalid shooter tuning")

// Strategy selects how a shooter closes in on its target.
type Strategy string

const (
	StrategySteer    Strategy = "steer"
	StrategyWaypoint Strategy = "waypoint"
)

// Tuning configures the basic shooter brain.
type Tuning struct {
	EngageDistance  float64  `json:"engage_distance" yaml:"engage_distance"`
	RetreatDistance float64  `json:"retreat_distance" yaml:"retreat_distance"`
	Strategy        Strategy `json:"strategy" yaml:"strategy"`
	// Horizon is how many seconds of travel one advance order covers.
	Horizon float64 `json:"horizon" yaml:"horizon"`
	// TreeFile optionally replaces the built-in decision tree.
	TreeFile string `json:"tree_file,omitempty" yaml:"tree_file,omitempty"`
}

func DefaultShooterTuning() Tuning {
	return Tuning{
		EngageDistance:  2.0,
		RetreatDistance: 1.5,
		Strategy:        StrategySteer,
		Horizon:         0.5,
	}
}

func (t Tuning) Validate() error {
	switch {
	case t.EngageDistance <= 0:
		return fmt.Errorf("%w: engage_distance must be positive", ErrInvalidShooter)
	case t.RetreatDistance < 0 || t.RetreatDistance >= t.EngageDistance:
		return fmt.Errorf("%w: retreat_distance must be within [0,engage_distance)", ErrInvalidShooter)
	case t.Horizon <= 0:
		return fmt.Errorf("%w: horizon must be positive", ErrInvalidShooter)
	case t.Strategy != StrategySteer && t.Strategy != StrategyWaypoint:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidShooter, t.Strategy)
	}
	return nil
}

// Shooter is the basic ranged enemy brain: keep the nearest party member at
// the engagement distance, back off when it gets too close.
type Shooter struct {
	tree     *Tree
	bb       *Blackboard
	tuning   Tuning
	motion   movement.Tuning
	steering movement.SteeringTuning
	searcher *movement.Searcher
}

// NewShooter builds a shooter brain. A nil tree uses DefaultShooterTree.
func NewShooter(tree *Tree, t Tuning, motion movement.Tuning, steering movement.SteeringTuning, waypoint movement.WaypointTuning) *Shooter {
	if tree == nil {
		tree = DefaultShooterTree()
	}
	return &Shooter{
		tree:     tree,
		bb:       NewBlackboard(),
		tuning:   t,
		motion:   motion,
		steering: steering,
		searcher: movement.NewSearcher(waypoint, motion.Epsilon),
	}
}

func (s *Shooter) Blackboard() *Blackboard { return s.bb }

// Think implements models.Brain.
func (s *Shooter) Think(space models.Space, self *models.Entity, party []*models.Entity, dt float64) {
	if self.Mob == nil {
		return
	}
	s.tree.Tick(TickContext{
		Space:   space,
		Self:    self,
		Party:   party,
		DT:      dt,
		BB:      s.bb,
		Shooter: s,
	})
}

// Nearest returns the closest active party member, or nil. Ties keep roster order.
func Nearest(self *models.Entity, party []*models.Entity) (*models.Entity, float64) {
	var (
		best     *models.Entity
		bestDist = math.Inf(1)
	)
	for _, p := range party {
		if p == nil || p == self || !p.Active {
			continue
		}
		if d := self.Position.Distance(p.Position); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist
}

func (s *Shooter) selectTarget(t TickContext) Status {
	target, dist := Nearest(t.Self, t.Party)
	if target == nil {
		t.BB.Delete(KeyTarget)
		t.BB.Delete(KeyDistance)
		return StatusFailure
	}
	t.BB.Set(KeyTarget, target)
	t.BB.Set(KeyDistance, dist)
	return StatusSuccess
}

func (s *Shooter) tooClose(t TickContext) bool {
	d, ok := t.BB.Float(KeyDistance)
	return ok && d < s.tuning.RetreatDistance
}

func (s *Shooter) tooFar(t TickContext) bool {
	d, ok := t.BB.Float(KeyDistance)
	return ok && d > s.tuning.EngageDistance+s.motion.ArrivalEpsilon
}

func (s *Shooter) hold(t TickContext) Status {
	movement.Stop(t.Self)
	return StatusSuccess
}

// retreat backs off to the engagement ring along the line from the target.
func (s *Shooter) retreat(t TickContext) Status {
	target := t.BB.Entity(KeyTarget)
	if target == nil {
		return StatusFailure
	}
	away := t.Self.Position.Sub(target.Position).Flatten().NormalizeOr(s.motion.Epsilon, physics.Right)
	movement.MoveTo(t.Self, target.Position.Add(away.Scale(s.tuning.EngageDistance)))
	return StatusRunning
}

// advance orders a step toward the target that never crosses the engagement ring.
func (s *Shooter) advance(t TickContext) Status {
	target := t.BB.Entity(KeyTarget)
	dist, ok := t.BB.Float(KeyDistance)
	if target == nil || !ok {
		return StatusFailure
	}
	self := t.Self

	var (
		dir   physics.Vec3
		reach = self.Mob.Speed * s.tuning.Horizon
	)
	switch s.tuning.Strategy {
	case StrategyWaypoint:
		wp := s.searcher.FindIntermediateWaypoint(t.Space, self, target.Position, target.Radius())
		offset := wp.Sub(self.Position)
		n, ok := offset.Normalize(s.motion.Epsilon)
		if !ok {
			return s.hold(t)
		}
		dir, reach = n, math.Min(reach, offset.Length())
	default:
		dir = movement.Steer(t.Space, self, target.Position, s.steering.AvoidanceRadius, s.steering)
		if dir.IsZero() {
			return s.hold(t)
		}
	}

	step := math.Min(dist-s.tuning.EngageDistance, reach)
	if step <= 0 {
		return s.hold(t)
	}
	movement.MoveTo(self, self.Position.Add(dir.Scale(step)))
	return StatusRunning
}

// RegisterShooterNodes registers the shooter's conditions and actions so tree
// files can reference them. They act on TickContext.Shooter.
func RegisterShooterNodes(r *Registry) {
	conditions := map[string]func(s *Shooter, t TickContext) bool{
		"HasTarget": func(s *Shooter, t TickContext) bool { return s.selectTarget(t) == StatusSuccess },
		"TooClose":  (*Shooter).tooClose,
		"TooFar":    (*Shooter).tooFar,
	}
	for name, fn := range conditions {
		r.RegisterCondition(name, func(map[string]any) (Condition, error) {
			return NewCondition(name, func(t TickContext) bool {
				return t.Shooter != nil && fn(t.Shooter, t)
			}), nil
		})
	}

	actions := map[string]func(s *Shooter, t TickContext) Status{
		"Hold":    (*Shooter).hold,
		"Retreat": (*Shooter).retreat,
		"Advance": (*Shooter).advance,
	}
	for name, fn := range actions {
		r.RegisterAction(name, func(map[string]any) (Action, error) {
			return NewAction(name, func(t TickContext) Status {
				if t.Shooter == nil {
					return StatusFailure
				}
				return fn(t.Shooter, t)
			}), nil
		})
	}
}

// DefaultShooterTree is the built-in decision tree:
//
//	no target   -> hold
//	too close   -> retreat
//	too far     -> advance
//	otherwise   -> hold
func DefaultShooterTree() *Tree {
	reg := NewRegistry()
	RegisterShooterNodes(reg)

	must := func(n BehaviorNode, err error) BehaviorNode {
		if err != nil {
			panic(err)
		}
		return n
	}
	cond := func(name string) BehaviorNode { return must(reg.NewCondition(name, nil)) }
	act := func(name string) BehaviorNode { return must(reg.NewAction(name, nil)) }

	return NewTree(NewSelector("shooter",
		NewSequence("idle", NewInverter("no_target", cond("HasTarget")), act("Hold")),
		NewSequence("back_off", cond("TooClose"), act("Retreat")),
		NewSequence("close_in", cond("TooFar"), act("Advance")),
		act("Hold"),
	))
}

// LoadShooterTree builds a tree file with the generic and shooter nodes registered.
func LoadShooterTree(path string) (*Tree, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	RegisterBuiltins(reg)
	RegisterShooterNodes(reg)
	return cfg.Build(reg)
}
