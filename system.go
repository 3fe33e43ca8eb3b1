package ecs

import "sync"

// System pairs a query/observer-shaped descriptor with a per-row callback
// and a list of dependency Systems that must complete before this one runs
// (spec §4.8). No executor is specified here: the intended scheduler
// topologically orders Systems by their Depends edges and runs independent
// groups in parallel, each acquiring the archetype read locks its own
// descriptor requires. Building that scheduler is out of scope.
type System struct {
	world   *World
	desc    queryDescriptor
	fn      func(*QueryIterator)
	depends []*System
}

// NewSystem starts a System bound to world, mirroring QueryFactory's
// chainable builder shape (spec §6's "mirror of factory API").
func NewSystem(w *World) *System {
	return &System{world: w}
}

// Match adds required components to the System's query descriptor.
func (s *System) Match(cs ...Component) *System {
	s.desc.include = append(s.desc.include, cs...)
	return s
}

// Exclude adds excluded components to the System's query descriptor.
func (s *System) Exclude(cs ...Component) *System {
	s.desc.exclude = append(s.desc.exclude, cs...)
	return s
}

// Lock declares a user mutex acquired, in declaration order, around this
// System's callback; Run holds it for the whole query pass (spec §5).
func (s *System) Lock(m sync.Locker) *System {
	s.desc.mutexes = append(s.desc.mutexes, m)
	return s
}

// Each sets the per-row callback invoked for every matching entity.
func (s *System) Each(fn func(*QueryIterator)) *System {
	s.fn = fn
	return s
}

// DependsOn records that dep must complete before s runs, for the
// (future) executor's topological ordering.
func (s *System) DependsOn(dep *System) *System {
	s.depends = append(s.depends, dep)
	return s
}

// Dependencies returns the Systems this one depends on.
func (s *System) Dependencies() []*System {
	return s.depends
}

// Run compiles and executes the System's query once, synchronously, on the
// calling goroutine — a placeholder invocation useful for tests and single-
// threaded callers. The dependency-ordered, parallel executor described by
// spec §4.8 is not implemented here.
func (s *System) Run() {
	if s.fn == nil {
		return
	}
	f := &QueryFactory{world: s.world, desc: s.desc}
	f.Compile().Each(s.fn)
}
