package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arpg/internal/core/models"
)

func TestSeparatePushesAway(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	other := mobAt(0.6, 0, 0.5, 5)

	push := Separate(sliceSpace{self, other}, self, 0.1, DefaultTuning())

	assert.Less(t, push.X, 0.0)
	assert.Equal(t, push, self.Position)
}

func TestSeparateIgnoresMobsBeyondBuffer(t *testing.T) {
	self := mobAt(0, 0, 0.5, 5)
	other := mobAt(1.25, 0, 0.5, 5) // preferred distance is 1.2

	push := Separate(sliceSpace{self, other}, self, 0.1, DefaultTuning())
	assert.True(t, push.IsZero())
}

func TestSeparateAveragesContributions(t *testing.T) {
	single := mobAt(0, 0, 0.5, 5)
	one := Separate(sliceSpace{single, mobAt(0.6, 0, 0.5, 5)}, single, 0.1, DefaultTuning())

	crowded := mobAt(0, 0, 0.5, 5)
	two := Separate(sliceSpace{crowded, mobAt(0.6, 0, 0.5, 5), mobAt(0.6, 0, 0.5, 5)}, crowded, 0.1, DefaultTuning())

	assert.InDelta(t, one.Length(), two.Length(), 1e-12, "stacked neighbours do not add up")
}

func TestSeparateSplitsCoincidentMobs(t *testing.T) {
	a := mobAt(0, 0, 0.5, 5)
	b := mobAt(0, 0, 0.5, 5)
	space := sliceSpace{a, b}

	Separate(space, a, 0.1, DefaultTuning())
	Separate(space, b, 0.1, DefaultTuning())

	assert.Greater(t, a.Position.Distance(b.Position), 0.0)
	assert.True(t, a.Position.IsFinite())
	assert.True(t, b.Position.IsFinite())
}

func TestSeparationMonotonicity(t *testing.T) {
	tuning := DefaultTuning()
	mobs := []*models.Entity{
		mobAt(0.2, 0.2, 0.5, 0),
		mobAt(-0.2, 0.2, 0.5, 0),
		mobAt(-0.2, -0.2, 0.5, 0),
		mobAt(0.2, -0.2, 0.5, 0),
	}
	space := sliceSpace(mobs)
	preferred := 1.0 * tuning.SeparationBuffer

	prev := meanPairwiseDistance(mobs)
	for frame := 0; frame < 400; frame++ {
		for _, m := range mobs {
			Update(space, m, 1.0/60, tuning)
		}
		mean := meanPairwiseDistance(mobs)
		require.GreaterOrEqual(t, mean, prev-1e-12, "frame %d", frame)
		prev = mean
	}

	// adjacent corners end up at least near the preferred spacing
	assert.Greater(t, mobs[0].Position.Distance(mobs[1].Position), preferred*0.9)
}
