package ecs

import (
	"log"
	"reflect"
	"sync"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// World owns the entity handle table, the archetype map, the compiled
// query cache, and the four observer lists (spec §3's "World").
type World struct {
	schema     table.Schema
	entryIndex table.EntryIndex

	// entities is keyed by the world's own generational EntityId and holds
	// the table package's own entry handle — table.EntryIndex already
	// tracks {table, row} for a live entry across swap-pops and transfers,
	// so the world's handle table does not duplicate that bookkeeping; it
	// exists to give callers a stable 24/8-bit EntityId with its own
	// independent stale-detection counter (spec §4.1), layered on top.
	// entitiesLock guards entities and idByTableEntry, which are mutated by
	// every Create/Tick call independent of archetype/groups locking.
	entitiesLock sync.Mutex
	entities     *handleTable[table.EntryID]

	// idByTableEntry is the reverse lookup used during row iteration: the
	// table package hands back its own EntryID for a row, and observers/
	// queries need the world-facing EntityId to pass to callbacks.
	idByTableEntry map[table.EntryID]EntityId

	groupsLock       sync.RWMutex
	archetypesByID   map[archetypeID]*archetype
	archetypesByMask map[mask.Mask]archetypeID
	archByTable      map[table.Table]*archetype
	nextArchetypeID  archetypeID

	compiledQueries map[queryKey]*CompiledQuery
	observers       [numEventKinds][]*observer

	deferredCreatesLock sync.Mutex
	deferredCreates     []*pendingCreate

	pools     map[TypeId]*sync.Pool
	poolsLock sync.Mutex

	// typeNames records each component's human-readable name and its
	// reflect.Type (spec §3.1), reusing the teacher's SimpleCache as a dedup
	// registry. It is filled by rowIndexFor; ComponentsAsString computes
	// names itself and does not read it.
	typeNames *SimpleCache[reflect.Type]
}

// NewWorld constructs an empty World backed by the given schema. The schema
// assigns each Component a stable TypeId (bit index) the first time it is
// registered, per spec §4.1's Design Notes on TypeId registries.
func NewWorld(schema table.Schema) *World {
	return &World{
		schema:           schema,
		entryIndex:       table.Factory.NewEntryIndex(),
		entities:         newHandleTable[table.EntryID](),
		idByTableEntry:   make(map[table.EntryID]EntityId),
		archetypesByID:   make(map[archetypeID]*archetype),
		archetypesByMask: make(map[mask.Mask]archetypeID),
		archByTable:      make(map[table.Table]*archetype),
		compiledQueries:  make(map[queryKey]*CompiledQuery),
		pools:            make(map[TypeId]*sync.Pool),
		typeNames:        FactoryNewCache[reflect.Type](Config.DefaultCacheCapacity).(*SimpleCache[reflect.Type]),
	}
}

// Entity starts a new EntityBuilder bound to this world (spec §4.3, §6).
func (w *World) Entity() *EntityBuilder {
	return newEntityBuilder(w)
}

// Query starts a new QueryFactory bound to this world (spec §4.4, §6).
func (w *World) Query() *QueryFactory {
	return &QueryFactory{world: w}
}

// Observer starts a new ObserverFactory for the given event kind (spec §4.6,
// §6).
func (w *World) Observer(kind EventKind) *ObserverFactory {
	return &ObserverFactory{world: w, kind: kind}
}

// Remove enqueues id for removal. The entity remains valid and visible to
// queries until the next Tick (spec §4.7's non-atomicity note, property
// P7). UnknownArchetypeError is logged and the remove is skipped — under
// the documented invariants this should never happen and signals caller
// misuse (spec §7).
func (w *World) Remove(id EntityId) error {
	w.entitiesLock.Lock()
	tableEntryID, err := w.entities.get(id)
	if err != nil {
		w.entitiesLock.Unlock()
		return err
	}
	tableEntryIDVal := *tableEntryID
	w.entitiesLock.Unlock()

	w.groupsLock.RLock()
	defer w.groupsLock.RUnlock()

	entry, err := w.entryIndex.Entry(int(tableEntryIDVal))
	if err != nil {
		return bark.AddTrace(err)
	}
	arch, ok := w.archByTable[entry.Table()]
	if !ok {
		log.Printf("ecs: remove(%v): unknown archetype for table entry %v", id, tableEntryIDVal)
		return nil
	}

	arch.lock.Lock()
	arch.queueRemove(id)
	arch.lock.Unlock()
	return nil
}

// rowIndexFor returns the schema bit index (TypeId) for a component,
// registering it on first use. Also registers the component's display name
// in the world's name registry, typeNames (spec §3.1).
func (w *World) rowIndexFor(c Component) TypeId {
	w.schema.Register(c)
	name := componentName(c)
	if _, ok := w.typeNames.GetIndex(name); !ok {
		w.typeNames.Register(name, reflect.TypeOf(c))
	}
	return TypeId(w.schema.RowIndexFor(c))
}

// archetypeByID looks up an archetype by its stable id. Caller must hold
// groupsLock for at least read.
func (w *World) archetypeByID(id archetypeID) (*archetype, bool) {
	a, ok := w.archetypesByID[id]
	return a, ok
}

// getOrCreateArchetype resolves the archetype for an exact component set,
// creating it on demand (spec §3's Archetype lifecycle: "created on demand
// the first time a composition is requested; never destroyed"). Returns
// the archetype and whether it was newly created. A newly created
// archetype is added to every matching compiled query here, before
// returning (spec §4.4's incremental freshness).
func (w *World) getOrCreateArchetype(components ...Component) (arch *archetype, created bool, err error) {
	m := typeSetOf(w.rowIndexFor, components)

	w.groupsLock.Lock()
	defer w.groupsLock.Unlock()

	if id, ok := w.archetypesByMask[m]; ok {
		return w.archetypesByID[id], false, nil
	}

	w.nextArchetypeID++
	id := w.nextArchetypeID
	arch, err = newArchetype(w.schema, w.entryIndex, id, m, components...)
	if err != nil {
		return nil, false, bark.AddTrace(err)
	}
	w.archetypesByID[id] = arch
	w.archetypesByMask[m] = id
	w.archByTable[arch.table] = arch

	w.refreshCompiledQueries(arch)

	return arch, true, nil
}

// refreshCompiledQueries re-evaluates every cached compiled query's match
// predicate against a newly created archetype (spec §4.4's "incremental
// freshness"). Caller must hold groupsLock for write.
func (w *World) refreshCompiledQueries(arch *archetype) {
	for _, cq := range w.compiledQueries {
		if arch.matches(cq.include, cq.exclude) {
			cq.archetypes = append(cq.archetypes, arch)
		}
	}
}

// entityIDFor resolves the world-facing EntityId for a table-level row,
// used while iterating an archetype's table (spec §4.5's per-row loop).
func (w *World) entityIDFor(tableEntryID table.EntryID) (EntityId, bool) {
	w.entitiesLock.Lock()
	defer w.entitiesLock.Unlock()
	id, ok := w.idByTableEntry[tableEntryID]
	return id, ok
}

// bindEntity registers the forward (EntityId -> table.EntryID) and reverse
// mapping for a freshly created entity, minting and returning its EntityId.
func (w *World) bindEntity(tableEntryID table.EntryID) EntityId {
	w.entitiesLock.Lock()
	defer w.entitiesLock.Unlock()
	id := w.entities.push(tableEntryID)
	w.idByTableEntry[tableEntryID] = id
	return id
}

// rebindEntity updates id's forward mapping to point at a new table entry,
// used when a row moves to a different table by an add/remove-component
// transition.
func (w *World) rebindEntity(id EntityId, newTableEntryID table.EntryID) error {
	w.entitiesLock.Lock()
	defer w.entitiesLock.Unlock()
	slot, err := w.entities.get(id)
	if err != nil {
		return err
	}
	delete(w.idByTableEntry, *slot)
	*slot = newTableEntryID
	w.idByTableEntry[newTableEntryID] = id
	return nil
}

// unbindEntity releases id's slot in the handle table and drops the
// reverse mapping. Called only from Tick (spec §4.7 step: "Invalidate the
// handle").
func (w *World) unbindEntity(id EntityId, tableEntryID table.EntryID) {
	w.entitiesLock.Lock()
	defer w.entitiesLock.Unlock()
	w.entities.remove(id)
	delete(w.idByTableEntry, tableEntryID)
}

// poolFor returns the sync.Pool used to stage copies of a component type
// while a builder accumulates them, per spec §4.3's "staged component
// copies are allocated from a per-type pool allocator" — implemented as a
// per-TypeId sync.Pool rather than the C++ original's single process-wide
// pool, per Design Notes §9's suggested relaxation.
func (w *World) poolFor(typeID TypeId, new func() any) *sync.Pool {
	w.poolsLock.Lock()
	defer w.poolsLock.Unlock()
	p, ok := w.pools[typeID]
	if !ok {
		p = &sync.Pool{New: new}
		w.pools[typeID] = p
	}
	return p
}
