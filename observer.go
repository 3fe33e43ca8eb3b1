package ecs

import (
	"sync"

	"github.com/TheBitDrifter/table"
)

// EventKind identifies one of the four lifecycle event channels a World
// dispatches observers on (spec §4.6).
type EventKind int

const (
	// OnCreate fires exactly once in an entity's life, the first time a
	// batch is inserted into an archetype.
	OnCreate EventKind = iota
	// OnRemove fires when a batch is about to leave the world entirely
	// (tick processing a remove queue).
	OnRemove
	// OnEnter fires whenever a batch joins an archetype matching the
	// observer's descriptor — including on create, and on add/remove
	// component transitions.
	OnEnter
	// OnExit mirrors OnEnter: fires when a batch leaves an archetype that
	// matched the observer's descriptor.
	OnExit

	numEventKinds
)

// observer pairs a QueryDescriptor with the callback to run for matching
// batches, plus the user mutexes declared via Lock (spec §4.6, §5).
type observer struct {
	descriptor queryDescriptor
	mutexes    []sync.Locker
	fn         func(*QueryIterator)
}

// ObserverFactory builds an observer registration with the same
// include/exclude/lock surface as QueryFactory (spec §6).
type ObserverFactory struct {
	world *World
	kind  EventKind
	desc  queryDescriptor
}

// Match adds components to the observer's include set.
func (f *ObserverFactory) Match(cs ...Component) *ObserverFactory {
	f.desc.include = append(f.desc.include, cs...)
	return f
}

// Exclude adds components to the observer's exclude set.
func (f *ObserverFactory) Exclude(cs ...Component) *ObserverFactory {
	f.desc.exclude = append(f.desc.exclude, cs...)
	return f
}

// Lock declares a user mutex to be held, in declaration order, around every
// invocation of the observer's callback.
func (f *ObserverFactory) Lock(m sync.Locker) *ObserverFactory {
	f.desc.mutexes = append(f.desc.mutexes, m)
	return f
}

// Each registers fn as the observer's callback and attaches the observer to
// the world's dispatch list for f.kind. There is no "compile" step for
// observers — unlike queries, they carry no cached archetype list and are
// matched fresh at every emission (spec §4.4's "incremental freshness" note).
func (f *ObserverFactory) Each(fn func(*QueryIterator)) {
	obs := &observer{
		descriptor: f.desc,
		mutexes:    f.desc.mutexes,
		fn:         fn,
	}
	f.world.observers[f.kind] = append(f.world.observers[f.kind], obs)
}

// rowID pairs a concrete row in a dispatch's table with the EntityId that
// occupies it, so dispatch never has to assume a batch's enumeration order
// matches its row order within tbl (it frequently does not: CreateFunc can
// append into an archetype that already has resident rows, and transition
// moves land at whatever row TransferEntries appends to in the destination
// table).
type rowID struct {
	row int
	id  EntityId
}

// dispatch runs every observer of kind whose descriptor matches arch,
// against the given rows. tbl is the live archetype table for Create/Enter,
// or a detached scratch table holding copies for Remove/Exit (see tick.go).
// The caller must already hold the appropriate lock over the table being
// iterated (spec §4.6).
func (w *World) dispatch(kind EventKind, arch *archetype, tbl table.Table, rows []rowID) {
	for _, obs := range w.observers[kind] {
		inc := typeSetOf(w.rowIndexFor, obs.descriptor.include)
		exc := typeSetOf(w.rowIndexFor, obs.descriptor.exclude)
		if !arch.matches(inc, exc) {
			continue
		}
		func() {
			for _, m := range obs.mutexes {
				m.Lock()
			}
			defer func() {
				for i := len(obs.mutexes) - 1; i >= 0; i-- {
					obs.mutexes[i].Unlock()
				}
			}()
			for _, r := range rows {
				obs.fn(&QueryIterator{
					world: w,
					tbl:   tbl,
					row:   r.row,
					id:    r.id,
				})
			}
		}()
	}
}
