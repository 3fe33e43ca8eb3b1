package ecs

import (
	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/table"
)

// AccessibleComponent extends a base Component with table-based accessibility.
// It is the safe typed view reconstructed at call sites from a generic
// parameter, per Design Notes §9: components are erased to TypeId/raw
// columns internally, and AccessibleComponent[T] is how callers get back a
// *T without unsafe casts.
type AccessibleComponent[T any] struct {
	Component
	table.Accessor[T] // concrete.
}

// GetFromCursor retrieves a component value for the entity at the iterator's
// current row, within the iterator's current table.
func (c AccessibleComponent[T]) GetFromCursor(it *QueryIterator) *T {
	return c.Get(it.row, it.tbl)
}

// GetFromCursorSafe safely retrieves a component value, checking first
// whether the iterator's current table even carries the component.
func (c AccessibleComponent[T]) GetFromCursorSafe(it *QueryIterator) (*T, bool) {
	if !c.Accessor.Check(it.tbl) {
		return nil, false
	}
	return c.GetFromCursor(it), true
}

// CheckCursor reports whether the component exists in the iterator's
// current table.
func (c AccessibleComponent[T]) CheckCursor(it *QueryIterator) bool {
	return c.Accessor.Check(it.tbl)
}

// GetFromEntity retrieves a component value for the specified entity,
// resolving its current table/row through the table package's own entry
// index. Per spec §4.5, reading another entity's components by id re-enters
// the read lock of that entity's own (possibly foreign) archetype rather
// than relying on any lock the caller might already hold. Returns
// MissingComponentError if the entity's archetype lacks the component
// (spec §7).
func (c AccessibleComponent[T]) GetFromEntity(w *World, id EntityId) (*T, error) {
	w.entitiesLock.Lock()
	tableEntryID, err := w.entities.get(id)
	if err != nil {
		w.entitiesLock.Unlock()
		return nil, err
	}
	tableEntryIDVal := *tableEntryID
	w.entitiesLock.Unlock()

	entry, err := w.entryIndex.Entry(int(tableEntryIDVal))
	if err != nil {
		return nil, bark.AddTrace(err)
	}
	tbl := entry.Table()

	w.groupsLock.RLock()
	arch, ok := w.archByTable[tbl]
	w.groupsLock.RUnlock()
	if !ok {
		return nil, UnknownArchetypeError{ID: id}
	}

	arch.lock.RLock()
	defer arch.lock.RUnlock()
	if !c.Accessor.Check(tbl) {
		return nil, MissingComponentError{Component: c.Component, ID: id}
	}
	return c.Get(entry.Index(), tbl), nil
}
