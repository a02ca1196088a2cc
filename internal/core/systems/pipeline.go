package systems

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zeusync/arpg/internal/core/models"
	"github.com/zeusync/arpg/internal/core/observability/log"
)

var ErrDuplicateSystem = errors.New("duplicate system")

type entry struct {
	system  System
	metrics Metrics
}

// Pipeline runs systems once per frame in descending priority. Systems of
// equal priority keep registration order.
type Pipeline struct {
	entries []*entry
	frame   uint64
	logger  log.Log
	now     func() time.Time
}

func NewPipeline(logger log.Log, systems ...System) (*Pipeline, error) {
	p := &Pipeline{
		logger: log.OrNop(logger).With(log.String("component", "pipeline")),
		now:    time.Now,
	}
	for _, s := range systems {
		if err := p.Register(s); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Pipeline) Register(s System) error {
	for _, e := range p.entries {
		if e.system.Name() == s.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateSystem, s.Name())
		}
	}
	p.entries = append(p.entries, &entry{system: s})
	slices.SortStableFunc(p.entries, func(a, b *entry) int {
		return int(b.system.Priority()) - int(a.system.Priority())
	})
	return nil
}

// Order returns system names in execution order.
func (p *Pipeline) Order() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.system.Name()
	}
	return names
}

func (p *Pipeline) Metrics(name string) (Metrics, bool) {
	for _, e := range p.entries {
		if e.system.Name() == name {
			return e.metrics, true
		}
	}
	return Metrics{}, false
}

// Frame is the number of the last completed frame.
func (p *Pipeline) Frame() uint64 { return p.frame }

// Step runs one frame. The entity order is snapshotted once; adds and removals
// requested by systems are applied after the last system. A failing system is
// logged and does not stop the others; all errors are returned joined.
func (p *Pipeline) Step(f *Frame) error {
	p.frame++
	f.Number = p.frame
	if f.World != nil {
		f.World.BeginPass()
		defer f.World.EndPass()
		if f.Entities == nil {
			f.Entities = f.World.Entities()
		}
	}

	var all error
	for _, e := range p.entries {
		start := p.now()
		err := e.system.Update(f)
		e.metrics.record(start, p.now().Sub(start), len(f.Entities), err)
		if err != nil {
			p.logger.Warn("system failed",
				log.String("system", e.system.Name()),
				log.Uint64("frame", f.Number),
				log.Error(err),
			)
			all = errors.Join(all, fmt.Errorf("%s: %w", e.system.Name(), err))
		}
	}
	return all
}

// active mobs in frame order
func eachMob(f *Frame, fn func(e *models.Entity)) {
	for _, e := range f.Entities {
		if e.Active && e.Mob != nil {
			fn(e)
		}
	}
}
