package npc

// Base node

type baseNode struct{ name string }

func (b baseNode) Name() string { return b.name }

// ActionFunc wraps a function as an Action node.
type ActionFunc struct {
	baseNode
	Fn func(t TickContext) Status
}

func NewAction(name string, fn func(t TickContext) Status) ActionFunc {
	return ActionFunc{baseNode: baseNode{name: name}, Fn: fn}
}

func (a ActionFunc) Tick(t TickContext) Status { return a.Fn(t) }

// ConditionFunc wraps a predicate as a Condition node.
type ConditionFunc struct {
	baseNode
	Fn func(t TickContext) bool
}

func NewCondition(name string, fn func(t TickContext) bool) ConditionFunc {
	return ConditionFunc{baseNode: baseNode{name: name}, Fn: fn}
}

func (c ConditionFunc) Tick(t TickContext) Status {
	if c.Fn(t) {
		return StatusSuccess
	}
	return StatusFailure
}

// Sequence runs children until one fails; success if all succeed; running if a child is running.
type Sequence struct {
	baseNode
	children []BehaviorNode
}

func NewSequence(name string, children ...BehaviorNode) *Sequence {
	return &Sequence{baseNode: baseNode{name: name}, children: children}
}

func (s *Sequence) SetChildren(children ...BehaviorNode) { s.children = children }

func (s *Sequence) Tick(t TickContext) Status {
	for _, ch := range s.children {
		if st := ch.Tick(t); st != StatusSuccess {
			return st
		}
	}
	return StatusSuccess
}

// Selector runs children until one succeeds; failure if all fail; running if a child is running.
type Selector struct {
	baseNode
	children []BehaviorNode
}

func NewSelector(name string, children ...BehaviorNode) *Selector {
	return &Selector{baseNode: baseNode{name: name}, children: children}
}

func (s *Selector) SetChildren(children ...BehaviorNode) { s.children = children }

func (s *Selector) Tick(t TickContext) Status {
	for _, ch := range s.children {
		if st := ch.Tick(t); st != StatusFailure {
			return st
		}
	}
	return StatusFailure
}

// Inverter swaps success and failure. Running passes through.
type Inverter struct {
	baseNode
	child BehaviorNode
}

func NewInverter(name string, child BehaviorNode) *Inverter {
	return &Inverter{baseNode: baseNode{name: name}, child: child}
}

func (i *Inverter) SetChild(child BehaviorNode) { i.child = child }

func (i *Inverter) Tick(t TickContext) Status {
	if i.child == nil {
		return StatusFailure
	}
	switch st := i.child.Tick(t); st {
	case StatusSuccess:
		return StatusFailure
	case StatusFailure:
		return StatusSuccess
	default:
		return st
	}
}

// Tree holds a root node. An empty tree always succeeds.
type Tree struct{ root BehaviorNode }

func NewTree(root BehaviorNode) *Tree { return &Tree{root: root} }

func (t *Tree) Root() BehaviorNode { return t.root }

func (t *Tree) Tick(tc TickContext) Status {
	if t == nil || t.root == nil {
		return StatusSuccess
	}
	return t.root.Tick(tc)
}
