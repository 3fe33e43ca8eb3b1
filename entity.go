package ecs

import (
	"reflect"
	"sort"
	"strings"

	"github.com/TheBitDrifter/bark"
)

// AddComponent moves id's entity into the archetype for its current
// composition plus c, detaching it from its source archetype and firing
// Exit-on-source then Enter-on-target through the same observer dispatch
// path Create and Tick use (spec §4.2's add_component operation).
//
// Returns ComponentExistsError if id's entity already carries c.
func (w *World) AddComponent(id EntityId, c Component) error {
	return w.transitionComponent(id, c, true)
}

// RemoveComponent moves id's entity into the archetype for its current
// composition minus c (spec §4.2's remove_component operation).
//
// Returns ComponentNotFoundError if id's entity does not carry c.
func (w *World) RemoveComponent(id EntityId, c Component) error {
	return w.transitionComponent(id, c, false)
}

// transitionComponent resolves id's source archetype, computes the target
// composition, and transfers the single row across archetypes via the
// same table.Table.TransferEntries primitive the remove queue uses to
// detach rows (spec §3's archetype transitions).
func (w *World) transitionComponent(id EntityId, c Component, adding bool) error {
	w.entitiesLock.Lock()
	tableEntryID, err := w.entities.get(id)
	if err != nil {
		w.entitiesLock.Unlock()
		return err
	}
	origTableEntryID := *tableEntryID
	w.entitiesLock.Unlock()

	entry, err := w.entryIndex.Entry(int(origTableEntryID))
	if err != nil {
		return bark.AddTrace(err)
	}

	w.groupsLock.RLock()
	srcArch, ok := w.archByTable[entry.Table()]
	w.groupsLock.RUnlock()
	if !ok {
		return UnknownArchetypeError{ID: id}
	}

	newComponents, err := nextComposition(srcArch.components, c, adding)
	if err != nil {
		return err
	}

	dstArch, _, err := w.getOrCreateArchetype(newComponents...)
	if err != nil {
		return err
	}

	// Detach the row into a scratch table sharing srcArch's element types
	// before the swap-pop so the OnExit dispatch sees a stable snapshot of
	// the entity's former values, mirroring Tick's remove-queue handling
	// (spec §4.6.1).
	scratch, err := srcArch.scratchTable(w.schema, w.entryIndex)
	if err != nil {
		return bark.AddTrace(err)
	}

	srcArch.lock.Lock()
	row := entry.Index()
	if err := srcArch.table.TransferEntries(scratch, row); err != nil {
		srcArch.lock.Unlock()
		return bark.AddTrace(err)
	}
	srcArch.lock.Unlock()

	w.dispatch(OnExit, srcArch, scratch, []rowID{{row: 0, id: id}})

	dstArch.lock.Lock()
	if err := scratch.TransferEntries(dstArch.table, 0); err != nil {
		dstArch.lock.Unlock()
		return bark.AddTrace(err)
	}
	newEntry, err := dstArch.table.Entry(dstArch.table.Length() - 1)
	dstArch.lock.Unlock()
	if err != nil {
		return bark.AddTrace(err)
	}

	if err := w.rebindEntity(id, newEntry.ID()); err != nil {
		return err
	}

	dstArch.lock.RLock()
	w.dispatch(OnEnter, dstArch, dstArch.table, []rowID{{row: newEntry.Index(), id: id}})
	dstArch.lock.RUnlock()
	return nil
}

// nextComposition computes the component list for a transition, returning
// ComponentExistsError/ComponentNotFoundError per spec §4.2's edge cases
// rather than silently no-opping.
func nextComposition(current []Component, c Component, adding bool) ([]Component, error) {
	idx := -1
	for i, comp := range current {
		if comp.ID() == c.ID() {
			idx = i
			break
		}
	}

	if adding {
		if idx != -1 {
			return nil, ComponentExistsError{Component: c}
		}
		next := make([]Component, len(current)+1)
		copy(next, current)
		next[len(current)] = c
		return next, nil
	}

	if idx == -1 {
		return nil, ComponentNotFoundError{Component: c}
	}
	next := make([]Component, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	return next, nil
}

// Components returns the component set of id's current archetype.
func (w *World) Components(id EntityId) ([]Component, error) {
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

	w.groupsLock.RLock()
	arch, ok := w.archByTable[entry.Table()]
	w.groupsLock.RUnlock()
	if !ok {
		return nil, UnknownArchetypeError{ID: id}
	}
	return arch.components, nil
}

// ComponentsAsString returns a sorted, bracketed list of id's component
// names, e.g. "[Position, Velocity]", exactly the teacher's original
// entity.go formatting. Each name is computed from the component's
// reflect.Type on every call; the world's typeNames registry is not read.
func (w *World) ComponentsAsString(id EntityId) (string, error) {
	comps, err := w.Components(id)
	if err != nil {
		return "", err
	}
	if len(comps) == 0 {
		return "[]", nil
	}

	names := make([]string, len(comps))
	for i, c := range comps {
		names[i] = componentName(c)
	}
	sort.Strings(names)
	return "[" + strings.Join(names, ", ") + "]", nil
}

// componentName extracts a component's bare type name, trimming the
// pointer sigil and package qualifier, exactly the teacher's original
// ComponentsAsString formatting.
func componentName(c Component) string {
	typeName := reflect.TypeOf(c).String()
	typeName = strings.TrimPrefix(typeName, "*")
	parts := strings.Split(typeName, ".")
	name := parts[len(parts)-1]
	return strings.TrimSuffix(name, "]")
}
