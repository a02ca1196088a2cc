package movement

import (
	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/systems/physics"
)

// sliceSpace is an in-order obstacle set standing in for the registry.
type sliceSpace []*models.Entity

func (s sliceSpace) Each(fn func(*models.Entity) bool) {
	for _, e := range s {
		if !fn(e) {
			return
		}
	}
}

var nextTestID models.EntityID

func mobAt(x, z, radius, speed float64) *models.Entity {
	nextTestID++
	e := models.NewEntity(models.KindEnemy, physics.V3(x, 0, z))
	e.ID = nextTestID
	e.Mob = models.NewMob(speed, radius)
	return e
}

func meanPairwiseDistance(es []*models.Entity) float64 {
	sum, n := 0.0, 0
	for i := range es {
		for j := i + 1; j < len(es); j++ {
			sum += es[i].Position.Distance(es[j].Position)
			n++
		}
	}
	return sum / float64(n)
}
