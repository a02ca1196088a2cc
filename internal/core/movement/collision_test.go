package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/arpg/internal/core/systems/physics"
)

func TestResolveFreePathIsUntouched(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	far := mobAt(10, 0, 0.5, 5)
	desired := physics.V3(0.5, 0, 0)
	assert.Equal(t, desired, Resolve(sliceSpace{self, far}, self, desired, DefaultTuning()))
	assert.Equal(t, desired, Resolve(nil, self, desired, DefaultTuning()))
}

func TestResolveHeadOnKeepsSeparation(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	wall := mobAt(1.2, 0, 0.5, 5)

	got := Resolve(sliceSpace{self, wall}, self, physics.V3(0.5, 0, 0), DefaultTuning())

	assert.GreaterOrEqual(t, got.Distance(wall.Position), 1.0-1e-9)
	assert.InDelta(t, 0, got.Z, 1e-12, "nothing to slide along head-on")
}

func TestResolveSlidesWithFriction(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	obstacle := mobAt(1.2, 0.5, 0.5, 5)
	tuning := DefaultTuning()

	got := Resolve(sliceSpace{self, obstacle}, self, physics.V3(0.5, 0, 0), tuning)

	assert.Greater(t, got.X, 0.0, "keeps some forward progress")
	assert.Less(t, got.Z, 0.0, "slides away from the obstacle")
	assert.Less(t, got.X, 0.5*tuning.Friction)
	assert.GreaterOrEqual(t, got.Distance(obstacle.Position), 1.0-1e-9)
}

func TestResolveDegenerateCoincidentCenters(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	stacked := mobAt(0, 0, 0.5, 5)

	got := Resolve(sliceSpace{self, stacked}, self, physics.V3(0.5, 0, 0), DefaultTuning())

	assert.InDelta(t, 1.0, got.X, 1e-9, "pushed out along the movement direction")
	assert.InDelta(t, 0, got.Z, 1e-12)
	assert.True(t, got.IsFinite())
}

func TestResolveMultipleObstacles(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	upper := mobAt(1.0, 0.8, 0.5, 5)
	lower := mobAt(1.0, -0.8, 0.5, 5)
	space := sliceSpace{self, upper, lower}

	got := Resolve(space, self, physics.V3(0.5, 0, 0), DefaultTuning())

	assert.GreaterOrEqual(t, got.Distance(upper.Position), 1.0-1e-9)
	assert.GreaterOrEqual(t, got.Distance(lower.Position), 1.0-1e-9)
	assert.True(t, got.IsFinite())
}
