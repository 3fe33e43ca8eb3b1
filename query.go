package ecs

import (
	"sync"

	"github.com/TheBitDrifter/mask"
)

// queryDescriptor is the shared include/exclude/lock surface used by both
// QueryFactory and ObserverFactory (spec §4.4, §4.6).
type queryDescriptor struct {
	include []Component
	exclude []Component
	mutexes []sync.Locker
}

// queryKey is the CompiledQuery cache key (spec §4.4). mask.Mask is a fixed-
// width comparable value (the teacher keys its own archetype map on one
// directly), so a pair of masks is naturally order-invariant: two
// descriptors that mark the same bits in any order produce the same key.
type queryKey struct {
	include mask.Mask
	exclude mask.Mask
}

func (d queryDescriptor) key(w *World) queryKey {
	return queryKey{
		include: typeSetOf(w.rowIndexFor, d.include),
		exclude: typeSetOf(w.rowIndexFor, d.exclude),
	}
}

// QueryFactory accumulates the include/exclude/lock set for a query before
// it is compiled (spec §4.4, §6).
type QueryFactory struct {
	world *World
	desc  queryDescriptor
}

// Match adds components that must all be present in a matching archetype.
func (f *QueryFactory) Match(cs ...Component) *QueryFactory {
	f.desc.include = append(f.desc.include, cs...)
	return f
}

// Exclude adds components that must all be absent from a matching
// archetype.
func (f *QueryFactory) Exclude(cs ...Component) *QueryFactory {
	f.desc.exclude = append(f.desc.exclude, cs...)
	return f
}

// Lock declares a user mutex to be acquired, in declaration order, once per
// Each call and held until that call returns (spec §5).
func (f *QueryFactory) Lock(m sync.Locker) *QueryFactory {
	f.desc.mutexes = append(f.desc.mutexes, m)
	return f
}

// Compile resolves the factory's descriptor into a CompiledQuery, reusing a
// cached one with an identical include/exclude set if one already exists
// (spec §4.4's "cached list of matching archetypes").
func (f *QueryFactory) Compile() *CompiledQuery {
	w := f.world

	w.groupsLock.Lock()
	defer w.groupsLock.Unlock()

	key := f.desc.key(w)
	if cq, ok := w.compiledQueries[key]; ok {
		return cq
	}

	cq := &CompiledQuery{
		world:   w,
		desc:    f.desc,
		include: key.include,
		exclude: key.exclude,
	}
	for _, arch := range w.archetypesByID {
		if arch.matches(key.include, key.exclude) {
			cq.archetypes = append(cq.archetypes, arch)
		}
	}
	w.compiledQueries[key] = cq
	return cq
}

// CompiledQuery holds a cached list of matching archetypes for one
// include/exclude set. The list is refreshed incrementally whenever a new
// archetype is created (spec §4.4's "incremental freshness").
type CompiledQuery struct {
	world      *World
	desc       queryDescriptor
	include    mask.Mask
	exclude    mask.Mask
	archetypes []*archetype
}

// Each scopes the query's declared locks and every matching archetype's
// read lock, invoking fn once per resident row in archetype order
// (spec §4.5). Locks release on every exit path, including panics.
func (cq *CompiledQuery) Each(fn func(*QueryIterator)) {
	for _, m := range cq.desc.mutexes {
		m.Lock()
	}
	defer func() {
		for i := len(cq.desc.mutexes) - 1; i >= 0; i-- {
			cq.desc.mutexes[i].Unlock()
		}
	}()

	for _, arch := range cq.archetypes {
		func() {
			arch.lock.RLock()
			defer arch.lock.RUnlock()
			iterateArchetype(cq.world, arch, fn)
		}()
	}
}

// TotalMatched returns the number of entities resident across every
// archetype the query currently matches (spec §8's scenario 4 support).
func (cq *CompiledQuery) TotalMatched() int {
	total := 0
	for _, arch := range cq.archetypes {
		total += arch.table.Length()
	}
	return total
}
