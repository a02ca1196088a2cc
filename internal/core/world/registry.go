package world

import (
	"errors"
	"fmt"

	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/observability/log"
)

var (
	ErrStaleHandle = errors.New("stale entity handle")
	ErrNilEntity   = errors.New("nil entity")
)

// Handle addresses an entity slot. A handle stays valid until the entity is
// removed; after that the slot generation moves on and the handle resolves to
// nothing, even when the slot is reused.
type Handle struct {
	Index      uint32 `json:"index"`
	Generation uint32 `json:"generation"`
}

// IsZero reports whether h was never issued.
func (h Handle) IsZero() bool { return h.Generation == 0 }

func (h Handle) String() string { return fmt.Sprintf("%d:%d", h.Index, h.Generation) }

type slot struct {
	entity     *models.Entity
	generation uint32
	pending    bool // added during a pass, not yet visible to iteration
	removed    bool // removed during a pass, still visible until flush
}

var _ models.Space = (*Registry)(nil)

// Registry owns every entity. Iteration follows insertion order. Mutations
// requested while a pass is open are applied by Flush at the frame boundary,
// so a pass always walks a stable set.
type Registry struct {
	slots  []slot
	free   []uint32
	order  []uint32
	nextID models.EntityID

	passDepth int
	added     []uint32
	removed   []uint32

	logger log.Log
}

// NewRegistry creates an empty registry.
func NewRegistry(logger log.Log) *Registry {
	return &Registry{
		nextID: 1,
		logger: log.OrNop(logger).With(log.String("component", "registry")),
	}
}

// Add validates and stores an entity, stamping its ID.
func (r *Registry) Add(e *models.Entity) (Handle, error) {
	if e == nil {
		return Handle{}, ErrNilEntity
	}
	if err := e.Validate(); err != nil {
		return Handle{}, fmt.Errorf("add entity: %w", err)
	}

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, slot{})
		idx = uint32(len(r.slots) - 1)
	}

	s := &r.slots[idx]
	s.generation++
	s.entity = e
	s.removed = false
	e.ID = r.nextID
	r.nextID++

	if r.passDepth > 0 {
		s.pending = true
		r.added = append(r.added, idx)
	} else {
		r.order = append(r.order, idx)
	}

	h := Handle{Index: idx, Generation: s.generation}
	r.logger.Debug("entity added",
		log.Stringer("entity", e),
		log.Stringer("handle", h),
		log.Bool("deferred", s.pending),
	)
	return h, nil
}

// Remove invalidates the handle. During a pass the entity keeps occupying its
// place in iteration until Flush.
func (r *Registry) Remove(h Handle) error {
	s, ok := r.slot(h)
	if !ok {
		return fmt.Errorf("remove %s: %w", h, ErrStaleHandle)
	}

	s.generation++
	r.logger.Debug("entity removed", log.Stringer("entity", s.entity), log.Stringer("handle", h))

	if r.passDepth > 0 {
		if s.pending {
			// never became visible, drop it with the rest of the pending batch
			s.entity = nil
			s.pending = false
			r.free = append(r.free, h.Index)
			return nil
		}
		s.removed = true
		r.removed = append(r.removed, h.Index)
		return nil
	}

	r.release(h.Index)
	return nil
}

// Get resolves a handle. Entities added during the current pass resolve too,
// they are only hidden from iteration.
func (r *Registry) Get(h Handle) (*models.Entity, bool) {
	s, ok := r.slot(h)
	if !ok {
		return nil, false
	}
	return s.entity, true
}

// Contains reports whether the handle is still valid.
func (r *Registry) Contains(h Handle) bool {
	_, ok := r.slot(h)
	return ok
}

// HandleOf finds the handle for an entity by identity.
func (r *Registry) HandleOf(e *models.Entity) (Handle, bool) {
	for i := range r.slots {
		s := &r.slots[i]
		if s.entity == e && e != nil && !s.removed {
			return Handle{Index: uint32(i), Generation: s.generation}, true
		}
	}
	return Handle{}, false
}

// Each visits visible entities in insertion order.
func (r *Registry) Each(fn func(*models.Entity) bool) {
	r.EachHandle(func(_ Handle, e *models.Entity) bool { return fn(e) })
}

// EachHandle is Each with the handle of every visited entity.
func (r *Registry) EachHandle(fn func(Handle, *models.Entity) bool) {
	for _, idx := range r.order {
		s := &r.slots[idx]
		if s.entity == nil {
			continue
		}
		if !fn(Handle{Index: idx, Generation: s.generation}, s.entity) {
			return
		}
	}
}

// Entities returns a snapshot slice in insertion order.
func (r *Registry) Entities() []*models.Entity {
	out := make([]*models.Entity, 0, len(r.order))
	r.Each(func(e *models.Entity) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Len is the number of visible entities.
func (r *Registry) Len() int { return len(r.order) }

// BeginPass opens a frame pass. Passes nest; mutations are deferred until the
// outermost pass ends.
func (r *Registry) BeginPass() { r.passDepth++ }

// EndPass closes a pass and flushes deferred mutations when it was the outermost.
func (r *Registry) EndPass() {
	if r.passDepth == 0 {
		return
	}
	r.passDepth--
	if r.passDepth == 0 {
		r.Flush()
	}
}

// InPass reports whether a pass is open.
func (r *Registry) InPass() bool { return r.passDepth > 0 }

// Flush applies deferred adds and removals. It is a no-op while a pass is open.
func (r *Registry) Flush() {
	if r.passDepth > 0 {
		return
	}
	for _, idx := range r.removed {
		r.release(idx)
	}
	r.removed = r.removed[:0]

	for _, idx := range r.added {
		s := &r.slots[idx]
		if !s.pending {
			continue
		}
		s.pending = false
		r.order = append(r.order, idx)
	}
	r.added = r.added[:0]
}

func (r *Registry) slot(h Handle) (*slot, bool) {
	if h.IsZero() || int(h.Index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[h.Index]
	if s.entity == nil || s.generation != h.Generation {
		return nil, false
	}
	return s, true
}

func (r *Registry) release(idx uint32) {
	s := &r.slots[idx]
	s.entity = nil
	s.removed = false
	s.pending = false
	for i, o := range r.order {
		if o == idx {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.free = append(r.free, idx)
}
