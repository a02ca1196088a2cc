package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRejectsShortVectors(t *testing.T) {
	_, ok := V3(1e-5, 0, 0).Normalize(1e-3)
	assert.False(t, ok)

	n, ok := V3(3, 0, 4).Normalize(1e-3)
	assert.True(t, ok)
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Z, 1e-12)

	assert.Equal(t, Right, Vec3{}.NormalizeOr(1e-3, Right))
	assert.Equal(t, Right, V3(math.NaN(), 0, 0).NormalizeOr(1e-3, Right))
}

func TestCrossUpGivesGroundPerpendicular(t *testing.T) {
	perp := Up.Cross(V3(1, 0, 0))
	assert.InDelta(t, 0, perp.Dot(V3(1, 0, 0)), 1e-12)
	assert.InDelta(t, 0, perp.Y, 1e-12)
	assert.InDelta(t, 1, perp.Length(), 1e-12)
}

func TestClampLengthAndFinite(t *testing.T) {
	v := V3(6, 0, 8).ClampLength(5)
	assert.InDelta(t, 5, v.Length(), 1e-12)
	assert.Equal(t, V3(1, 0, 0), V3(1, 0, 0).ClampLength(5))

	assert.True(t, V3(1, 2, 3).IsFinite())
	assert.False(t, V3(math.Inf(1), 0, 0).IsFinite())
	assert.Equal(t, 0.0, Clamp01(-2))
	assert.Equal(t, 1.0, Clamp01(3))
}
