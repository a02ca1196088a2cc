package npc

import (
	"sort"

	"github.com/zeusync/arpg/internal/core/models"
)

// Blackboard keys written by the shooter brain.
const (
	KeyTarget   = "target"
	KeyDistance = "distance"
)

// Blackboard is per-agent scratch storage shared by the nodes of one tree.
// It is not safe for concurrent use; agents are ticked on the simulation goroutine.
type Blackboard struct {
	data map[string]any
}

// NewBlackboard creates an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{data: make(map[string]any)}
}

func (b *Blackboard) Get(key string) (any, bool) {
	v, ok := b.data[key]
	return v, ok
}

func (b *Blackboard) Set(key string, value any) { b.data[key] = value }

func (b *Blackboard) Delete(key string) { delete(b.data, key) }

// Keys returns the sorted key set.
func (b *Blackboard) Keys() []string {
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Float returns a numeric value as float64.
func (b *Blackboard) Float(key string) (float64, bool) {
	switch v := b.data[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (b *Blackboard) Bool(key string) bool {
	v, _ := b.data[key].(bool)
	return v
}

// Entity returns a stored entity, nil when absent.
func (b *Blackboard) Entity(key string) *models.Entity {
	e, _ := b.data[key].(*models.Entity)
	return e
}
