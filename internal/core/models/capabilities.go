package models

import "errors"

var (
	ErrInvalidEntity = errors.New("invalid entity")
	ErrInvalidMob    = errors.New("invalid mob")
)

// Space exposes the live entity set to spatial queries. Each visits entities in
// a stable order and stops early when fn returns false.
type Space interface {
	Each(fn func(*Entity) bool)
}

// Brain decides what a mob wants to do this frame. Party is a read-only view of
// the player roster; brains must not mutate it.
type Brain interface {
	Think(space Space, self *Entity, party []*Entity, dt float64)
}

// Action is an optional timed state such as a cast or an emote.
type Action struct {
	Name      string
	Remaining float64
}

// Advance ticks the action and reports whether it has finished.
func (a *Action) Advance(dt float64) bool {
	a.Remaining -= dt
	return a.Remaining <= 0
}
