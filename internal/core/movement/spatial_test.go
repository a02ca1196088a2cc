package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/systems/physics"
)

func TestIsPointBlocked(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	other := mobAt(2, 0, 0.5, 5)
	space := sliceSpace{self, other}

	assert.False(t, IsPointBlocked(space, self, physics.V3(0, 0, 0), 0), "self never blocks")
	assert.True(t, IsPointBlocked(space, self, physics.V3(1.6, 0, 0), 0))
	assert.False(t, IsPointBlocked(space, self, physics.V3(1.4, 0, 0), 0))
	assert.True(t, IsPointBlocked(space, self, physics.V3(1.4, 0, 0), 0.25), "clearance widens the obstacle")

	other.Active = false
	assert.False(t, IsPointBlocked(space, self, physics.V3(2, 0, 0), 0), "inactive mobs are transparent")
}

func TestIsPointBlockedIgnoresProps(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	prop := models.NewEntity(models.KindProp, physics.V3(1, 0, 0))
	assert.False(t, IsPointBlocked(sliceSpace{self, prop}, self, physics.V3(1, 0, 0), 1))
}

func TestOverlaps(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	a := mobAt(1.5, 0, 0.5, 5)
	b := mobAt(0.8, 0, 0.5, 5)
	c := mobAt(5, 0, 0.5, 5)
	space := sliceSpace{a, self, b, c}

	got := Overlaps(space, self, physics.V3(0.6, 0, 0))
	require.Len(t, got, 2)
	assert.Same(t, a, got[0].Obstacle, "query order follows the space")
	assert.InDelta(t, 0.9, got[0].Distance, 1e-9)
	assert.Same(t, b, got[1].Obstacle)
	assert.InDelta(t, 0.2, got[1].Distance, 1e-9)

	assert.Empty(t, Overlaps(space, self, physics.V3(-3, 0, 0)))
}

func TestQueriesWithoutSpace(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	assert.False(t, IsPointBlocked(nil, self, physics.Vec3{}, 10))
	assert.Empty(t, Overlaps(nil, self, physics.Vec3{}))
}
