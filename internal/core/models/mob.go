package models

import (
	"fmt"
	"math"

	"github.com/zeusync/arpg/internal/core/systems/physics"
)

// Stats are placeholders carried for the renderer and future combat work.
type Stats struct {
	Health      float64 `json:"health" yaml:"health"`
	MaxHealth   float64 `json:"max_health" yaml:"max_health"`
	Energy      float64 `json:"energy" yaml:"energy"`
	MaxEnergy   float64 `json:"max_energy" yaml:"max_energy"`
	AttackSpeed float64 `json:"attack_speed" yaml:"attack_speed"`
}

// DefaultStats mirrors a fresh party member.
func DefaultStats() Stats {
	return Stats{Health: 100, MaxHealth: 100, Energy: 100, MaxEnergy: 100, AttackSpeed: 1}
}

// Mob is the movable, collidable capability of an entity.
type Mob struct {
	Stats

	Speed  float64
	Radius float64

	Target physics.Vec3
	Moving bool

	Progress Progress
}

// Progress tracks how the current move order is going. MoveTo resets it.
type Progress struct {
	// Closest is the distance to Target when the window opened, zero before the first step.
	Closest float64
	// Anchor is where the mob stood when the window opened.
	Anchor  physics.Vec3
	// Stalled is the time spent in the window without progress.
	Stalled float64
}

// NewMob returns an idle mob with default stats.
func NewMob(speed, radius float64) *Mob {
	return &Mob{Stats: DefaultStats(), Speed: speed, Radius: radius}
}

// Validate enforces radius > 0 and speed >= 0.
func (m *Mob) Validate() error {
	if !(m.Radius > 0) || math.IsInf(m.Radius, 0) {
		return fmt.Errorf("%w: radius %v must be positive", ErrInvalidMob, m.Radius)
	}
	if !(m.Speed >= 0) || math.IsInf(m.Speed, 0) {
		return fmt.Errorf("%w: speed %v must not be negative", ErrInvalidMob, m.Speed)
	}
	return nil
}
