package ecs

import (
	"sync"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// archetypeID is a stable id assigned sequentially when an archetype is
// created. It is not derived from the component set; an archetype's
// composition identity (spec §3, Invariant A1) is its mask, which
// World.archetypesByMask maps to this id.
type archetypeID uint32

// archetype is the columnar storage group for every entity sharing one
// exact component composition (spec §3's "EntityGroup"). Columns live in
// table.Table; row-set mutations (insert / swap-pop) are serialized by
// lock, per spec §5.
type archetype struct {
	id         archetypeID
	table      table.Table
	mask       mask.Mask
	components []Component

	lock sync.RWMutex

	// removeQueue holds entity ids appended by World.Remove (spec §4.7)
	// until the next Tick drains it. Appends happen under the world's
	// groupsLock held for read (spec §3's Archetype.remove_queue doc).
	removeQueue []EntityId
}

// ID returns the archetype's stable identity.
func (a *archetype) ID() uint32 { return uint32(a.id) }

// Table exposes the underlying columnar storage.
func (a *archetype) Table() table.Table { return a.table }

// newArchetype builds a fresh archetype for the given component set.
func newArchetype(schema table.Schema, entryIndex table.EntryIndex, id archetypeID, m mask.Mask, components ...Component) (*archetype, error) {
	elementTypes := make([]table.ElementType, len(components))
	for i, comp := range components {
		elementTypes[i] = comp
	}
	tbl, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return nil, err
	}
	return &archetype{
		table:      tbl,
		id:         id,
		mask:       m,
		components: components,
	}, nil
}

// scratchTable builds a throwaway table.Table sharing this archetype's
// element types, used by Tick to hold detached copies of rows about to be
// removed so Remove/Exit observers see stable values after the swap-pop
// (spec §4.6.1, §4.7).
func (a *archetype) scratchTable(schema table.Schema, entryIndex table.EntryIndex) (table.Table, error) {
	elementTypes := make([]table.ElementType, len(a.components))
	for i, comp := range a.components {
		elementTypes[i] = comp
	}
	return table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
}

// matches implements the include/exclude predicate from spec §4.4:
// include ⊆ components ∧ exclude ∩ components = ∅. A zero-value exclude
// mask (no components excluded) trivially satisfies ContainsNone for any
// archetype, so an empty exclude set needs no special case.
func (a *archetype) matches(include, exclude mask.Mask) bool {
	return a.mask.ContainsAll(include) && a.mask.ContainsNone(exclude)
}

// queueRemove appends id to the archetype's remove queue. Caller must hold
// a.lock for write (spec §3).
func (a *archetype) queueRemove(id EntityId) {
	a.removeQueue = append(a.removeQueue, id)
}
