package movement

import (
	"errors"
	"fmt"
)

var ErrInvalidTuning = errors.New("invalid movement tuning")

// Tuning holds the policy constants of the mob state machine, the collision
// resolver and the separation pass.
type Tuning struct {
	ArrivalEpsilon   float64 `json:"arrival_epsilon" yaml:"arrival_epsilon"`
	Epsilon          float64 `json:"epsilon" yaml:"epsilon"`
	Friction         float64 `json:"friction" yaml:"friction"`
	SeparationBuffer float64 `json:"separation_buffer" yaml:"separation_buffer"`
	SeparationSpeed  float64 `json:"separation_speed" yaml:"separation_speed"`
	StopWhenBlocked  bool    `json:"stop_when_blocked" yaml:"stop_when_blocked"`
	// StallTimeout is how long, in seconds, a moving mob may go without progress
	// before it counts as blocked. Zero disables the check.
	StallTimeout     float64 `json:"stall_timeout" yaml:"stall_timeout"`
}

// DefaultTuning returns the shipped movement constants.
func DefaultTuning() Tuning {
	return Tuning{
		ArrivalEpsilon:   0.1,
		Epsilon:          1e-3,
		Friction:         0.7,
		SeparationBuffer: 1.2,
		SeparationSpeed:  1.5,
		StopWhenBlocked:  true,
		StallTimeout:     0.5,
	}
}

func (t Tuning) Validate() error {
	switch {
	case t.ArrivalEpsilon <= 0:
		return fmt.Errorf("%w: arrival_epsilon must be positive", ErrInvalidTuning)
	case t.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon must be positive", ErrInvalidTuning)
	case t.Friction < 0 || t.Friction > 1:
		return fmt.Errorf("%w: friction must be within [0,1]", ErrInvalidTuning)
	case t.SeparationBuffer < 1:
		return fmt.Errorf("%w: separation_buffer must be at least 1", ErrInvalidTuning)
	case t.SeparationSpeed < 0:
		return fmt.Errorf("%w: separation_speed must not be negative", ErrInvalidTuning)
	case t.StallTimeout < 0:
		return fmt.Errorf("%w: stall_timeout must not be negative", ErrInvalidTuning)
	}
	return nil
}

// SteeringTuning configures the seek/avoid blend.
type SteeringTuning struct {
	Tolerance       float64 `json:"tolerance" yaml:"tolerance"`
	Lookahead       float64 `json:"lookahead" yaml:"lookahead"`
	Buffer          float64 `json:"buffer" yaml:"buffer"`
	AvoidanceRadius float64 `json:"avoidance_radius" yaml:"avoidance_radius"`
	SeekWeight      float64 `json:"seek_weight" yaml:"seek_weight"`
	DodgeWeight     float64 `json:"dodge_weight" yaml:"dodge_weight"`
	RepulsionWeight float64 `json:"repulsion_weight" yaml:"repulsion_weight"`
	AvoidanceCap    float64 `json:"avoidance_cap" yaml:"avoidance_cap"`
}

func DefaultSteeringTuning() SteeringTuning {
	return SteeringTuning{
		Tolerance:       0.01,
		Lookahead:       0.5,
		Buffer:          0.5,
		AvoidanceRadius: 4,
		SeekWeight:      0.3,
		DodgeWeight:     1,
		RepulsionWeight: 0.25,
		AvoidanceCap:    3,
	}
}

func (t SteeringTuning) Validate() error {
	switch {
	case t.Tolerance <= 0:
		return fmt.Errorf("%w: steering tolerance must be positive", ErrInvalidTuning)
	case t.Lookahead < 0:
		return fmt.Errorf("%w: steering lookahead must not be negative", ErrInvalidTuning)
	case t.AvoidanceRadius <= 0:
		return fmt.Errorf("%w: avoidance_radius must be positive", ErrInvalidTuning)
	case t.AvoidanceCap <= 0:
		return fmt.Errorf("%w: avoidance_cap must be positive", ErrInvalidTuning)
	case t.DodgeWeight < t.RepulsionWeight:
		return fmt.Errorf("%w: dodge_weight must dominate repulsion_weight", ErrInvalidTuning)
	}
	return nil
}

// WaypointTuning configures the ring search.
type WaypointTuning struct {
	SearchRadius      float64 `json:"search_radius" yaml:"search_radius"`
	Shrink            float64 `json:"shrink" yaml:"shrink"`
	BackwardThreshold float64 `json:"backward_threshold" yaml:"backward_threshold"`
	Samples           int     `json:"samples" yaml:"samples"`
	GoalEpsilon       float64 `json:"goal_epsilon" yaml:"goal_epsilon"`
	ClearanceFactor   float64 `json:"clearance_factor" yaml:"clearance_factor"`
}

func DefaultWaypointTuning() WaypointTuning {
	return WaypointTuning{
		SearchRadius:      3,
		Shrink:            0.7,
		BackwardThreshold: 1,
		Samples:           16,
		GoalEpsilon:       0.05,
		ClearanceFactor:   0.5,
	}
}

func (t WaypointTuning) Validate() error {
	switch {
	case t.SearchRadius <= 0:
		return fmt.Errorf("%w: search_radius must be positive", ErrInvalidTuning)
	case t.Shrink <= 0 || t.Shrink >= 1:
		return fmt.Errorf("%w: shrink must be within (0,1)", ErrInvalidTuning)
	case t.BackwardThreshold <= 0 || t.BackwardThreshold > t.SearchRadius:
		return fmt.Errorf("%w: backward_threshold must be within (0,search_radius]", ErrInvalidTuning)
	case t.Samples < 3:
		return fmt.Errorf("%w: samples must be at least 3", ErrInvalidTuning)
	case t.GoalEpsilon < 0 || t.ClearanceFactor < 0:
		return fmt.Errorf("%w: goal_epsilon and clearance_factor must not be negative", ErrInvalidTuning)
	}
	return nil
}
