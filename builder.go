package ecs

import (
	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/table"
)

// pendingValue is a staged write produced by SetValue, applied to every row
// of a batch right after creation and then released back to its pool.
type pendingValue struct {
	write   func(tbl table.Table, row int)
	release func()
}

// EntityBuilder accumulates a component composition (and optionally initial
// values for some of its components) before materializing one or more
// entities with a single Create/CreateFunc call (spec §4.3, §6).
type EntityBuilder struct {
	world *World
	comps []Component
	vals  []pendingValue
}

func newEntityBuilder(w *World) *EntityBuilder {
	return &EntityBuilder{world: w}
}

// Add stages a component type for the entity being built.
func (b *EntityBuilder) Add(c Component) *EntityBuilder {
	b.comps = append(b.comps, c)
	return b
}

// Tag stages a marker component carrying no meaningful data, per spec
// §4.3's distinction between data components and tags. Tags still occupy a
// column (the teacher does not special-case zero-sized components), but
// callers are not expected to read one back.
func (b *EntityBuilder) Tag(t Component) *EntityBuilder {
	return b.Add(t)
}

// SetValue stages an initial value for a component, written into every
// created row before Create returns, and adds the component to the builder
// unless it is already staged. The staging copy is borrowed from a
// per-TypeId sync.Pool (spec §4.3.1) and returned once the batch has been
// written.
func SetValue[T any](b *EntityBuilder, ac AccessibleComponent[T], value T) *EntityBuilder {
	typeID := b.world.rowIndexFor(ac.Component)
	pool := b.world.poolFor(typeID, func() any { return new(T) })
	staged := pool.Get().(*T)
	*staged = value

	b.vals = append(b.vals, pendingValue{
		write: func(tbl table.Table, row int) {
			*ac.Get(row, tbl) = *staged
		},
		release: func() { pool.Put(staged) },
	})
	for _, c := range b.comps {
		if c.ID() == ac.Component.ID() {
			return b
		}
	}
	return b.Add(ac.Component)
}

// Create materializes n copies of the builder's staged composition. The
// builder is reset once Create returns, matching the original's "add again
// for the next batch" contract (spec §4.3).
func (b *EntityBuilder) Create(n int) ([]EntityId, error) {
	return b.CreateFunc(nil, n)
}

// CreateFunc is Create, additionally invoking fn once per created entity
// with its index within the batch, after the rows are written and before
// the Create/Enter observers fire (spec §4.3, §6). fn receives only that
// index: no EntityId and no reference to the entity's components.
func (b *EntityBuilder) CreateFunc(fn func(int), n int) ([]EntityId, error) {
	if len(b.comps) == 0 {
		return nil, EmptyCompositionError{}
	}
	comps, vals := b.comps, b.vals
	b.comps, b.vals = nil, nil

	w := b.world
	arch, _, err := w.getOrCreateArchetype(comps...)
	if err != nil {
		return nil, err
	}

	arch.lock.Lock()
	entries, err := arch.table.NewEntries(n)
	if err != nil {
		arch.lock.Unlock()
		return nil, bark.AddTrace(err)
	}

	ids := make([]EntityId, len(entries))
	rows := make([]rowID, len(entries))
	for i, entry := range entries {
		row := entry.Index()
		for _, v := range vals {
			v.write(arch.table, row)
		}
		id := w.bindEntity(entry.ID())
		ids[i] = id
		rows[i] = rowID{row: row, id: id}
	}
	arch.lock.Unlock()

	for _, v := range vals {
		v.release()
	}

	if fn != nil {
		for i := range ids {
			fn(i)
		}
	}

	// Release the write lock above before firing observers, and re-enter
	// under a read lock for the duration of dispatch (spec §4.3 step 5).
	arch.lock.RLock()
	w.dispatch(OnCreate, arch, arch.table, rows)
	w.dispatch(OnEnter, arch, arch.table, rows)
	arch.lock.RUnlock()

	return ids, nil
}
