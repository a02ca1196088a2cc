package npc

import (
	"fmt"
	"sync"
)

type (
	ActionFactory    func(params map[string]any) (Action, error)
	ConditionFactory func(params map[string]any) (Condition, error)
)

// Registry maps node names used in tree files to factories.
type Registry struct {
	mu    sync.RWMutex
	acts  map[string]ActionFactory
	conds map[string]ConditionFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		acts:  make(map[string]ActionFactory),
		conds: make(map[string]ConditionFactory),
	}
}

func (r *Registry) RegisterAction(name string, factory ActionFactory) {
	r.mu.Lock()
	r.acts[name] = factory
	r.mu.Unlock()
}

func (r *Registry) RegisterCondition(name string, factory ConditionFactory) {
	r.mu.Lock()
	r.conds[name] = factory
	r.mu.Unlock()
}

func (r *Registry) NewAction(name string, params map[string]any) (Action, error) {
	r.mu.RLock()
	f := r.acts[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: action %q", ErrUnknownNode, name)
	}
	return f(params)
}

func (r *Registry) NewCondition(name string, params map[string]any) (Condition, error) {
	r.mu.RLock()
	f := r.conds[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: condition %q", ErrUnknownNode, name)
	}
	return f(params)
}

// RegisterBuiltins registers generic blackboard nodes.
func RegisterBuiltins(r *Registry) {
	r.RegisterCondition("IsTrue", func(params map[string]any) (Condition, error) {
		key, _ := params["key"].(string)
		if key == "" {
			return nil, fmt.Errorf("%w: IsTrue requires 'key'", ErrInvalidTree)
		}
		return NewCondition("IsTrue("+key+")", func(t TickContext) bool {
			return t.BB.Bool(key)
		}), nil
	})
	r.RegisterAction("SetBool", func(params map[string]any) (Action, error) {
		key, _ := params["key"].(string)
		val, _ := params["value"].(bool)
		if key == "" {
			return nil, fmt.Errorf("%w: SetBool requires 'key'", ErrInvalidTree)
		}
		return NewAction("SetBool("+key+")", func(t TickContext) Status {
			t.BB.Set(key, val)
			return StatusSuccess
		}), nil
	})
	r.RegisterAction("Noop", func(map[string]any) (Action, error) {
		return NewAction("Noop", func(TickContext) Status { return StatusSuccess }), nil
	})
}
