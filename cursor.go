package ecs

import "github.com/TheBitDrifter/table"

// QueryIterator is the per-row cursor handed to query and observer
// callbacks. AccessibleComponent[T] methods read through it to fetch typed
// column values (spec §4.5, §6).
type QueryIterator struct {
	world *World
	tbl   table.Table
	row   int
	id    EntityId
}

// Entity returns the EntityId owning the iterator's current row.
func (it *QueryIterator) Entity() EntityId {
	return it.id
}

// World returns the world the iterator was produced from.
func (it *QueryIterator) World() *World {
	return it.world
}

// iterateArchetype invokes fn once per resident row of arch's table, in row
// order, resolving each row's world-facing EntityId through the reverse
// table-entry lookup bound at creation time (spec §4.5's per-row loop).
// The caller holds whatever lock is appropriate for the table being walked.
func iterateArchetype(w *World, arch *archetype, fn func(*QueryIterator)) {
	n := arch.table.Length()
	for row := 0; row < n; row++ {
		entry, err := arch.table.Entry(row)
		if err != nil {
			continue
		}
		id, ok := w.entityIDFor(entry.ID())
		if !ok {
			continue
		}
		fn(&QueryIterator{world: w, tbl: arch.table, row: row, id: id})
	}
}
