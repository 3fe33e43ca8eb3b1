package ecs

import "github.com/TheBitDrifter/table"

// Tick drains the world's deferred work in the order spec §4.7 fixes:
// deferred entity creation first, then every archetype's remove queue.
// Removal detaches each row into a scratch table before the swap-pop so
// OnRemove/OnExit observers see stable copies (spec §4.6.1), then releases
// the handle.
func (w *World) Tick() {
	w.drainDeferredCreates()

	w.groupsLock.RLock()
	archetypes := make([]*archetype, 0, len(w.archetypesByID))
	for _, arch := range w.archetypesByID {
		archetypes = append(archetypes, arch)
	}
	w.groupsLock.RUnlock()

	for _, arch := range archetypes {
		w.drainRemoveQueue(arch)
	}
}

// drainRemoveQueue processes one archetype's pending removals in the order
// they were queued (spec §4.7's "processed in queue order").
func (w *World) drainRemoveQueue(arch *archetype) {
	arch.lock.Lock()
	ids := arch.removeQueue
	arch.removeQueue = nil
	arch.lock.Unlock()

	if len(ids) == 0 {
		return
	}

	scratch, err := arch.scratchTable(w.schema, w.entryIndex)
	if err != nil {
		return
	}

	// rows tracks, in transfer order, the row each detached entity lands at
	// within scratch — scratch starts empty and TransferEntries appends each
	// transferred row to its end, so that row equals the count already
	// transferred, not the enumeration index within ids.
	rows := make([]rowID, 0, len(ids))
	origTableEntryIDs := make([]tableEntryIDPair, 0, len(ids))

	arch.lock.Lock()
	for _, id := range ids {
		tableEntryID, err := w.entities.get(id)
		if err != nil {
			continue
		}
		entry, err := w.entryIndex.Entry(int(*tableEntryID))
		if err != nil {
			continue
		}
		if err := arch.table.TransferEntries(scratch, entry.Index()); err != nil {
			continue
		}
		rows = append(rows, rowID{row: len(rows), id: id})
		origTableEntryIDs = append(origTableEntryIDs, tableEntryIDPair{id: id, tableEntryID: *tableEntryID})
	}
	arch.lock.Unlock()

	w.dispatch(OnRemove, arch, scratch, rows)
	w.dispatch(OnExit, arch, scratch, rows)

	for _, pair := range origTableEntryIDs {
		w.unbindEntity(pair.id, pair.tableEntryID)
	}
}

type tableEntryIDPair struct {
	id           EntityId
	tableEntryID table.EntryID
}
