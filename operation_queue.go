package ecs

// pendingCreate is a world-level deferred entity creation, queued by
// DeferCreate while a query or observer callback is iterating (spec §4.7's
// world-level deferred-entity-creation queue, mirroring the per-archetype
// remove_queue). Tick drains these before processing any remove queue.
type pendingCreate struct {
	builder *EntityBuilder
	n       int
	onEach  func(int)
	result  *[]EntityId
}

// DeferCreate stages a Create/CreateFunc call to run at the next Tick
// instead of immediately, for use from inside a query or observer callback
// where mutating an archetype table mid-iteration would be unsafe (spec
// §4.7, Design Notes §9). The returned slice is populated once Tick runs;
// reading it before the next Tick observes an empty slice.
func (b *EntityBuilder) DeferCreate(n int) *[]EntityId {
	return b.DeferCreateFunc(nil, n)
}

// DeferCreateFunc is DeferCreate, additionally invoking fn once per created
// entity (by batch index) once the deferred create actually runs.
func (b *EntityBuilder) DeferCreateFunc(fn func(int), n int) *[]EntityId {
	result := new([]EntityId)
	w := b.world
	w.deferredCreatesLock.Lock()
	w.deferredCreates = append(w.deferredCreates, &pendingCreate{
		builder: b,
		n:       n,
		onEach:  fn,
		result:  result,
	})
	w.deferredCreatesLock.Unlock()
	return result
}

// drainDeferredCreates runs every queued deferred create in FIFO order and
// clears the queue (spec §4.7 step 1, Tick's first phase).
func (w *World) drainDeferredCreates() {
	w.deferredCreatesLock.Lock()
	pending := w.deferredCreates
	w.deferredCreates = nil
	w.deferredCreatesLock.Unlock()

	for _, p := range pending {
		ids, err := p.builder.CreateFunc(p.onEach, p.n)
		if err != nil {
			continue
		}
		*p.result = ids
	}
}
