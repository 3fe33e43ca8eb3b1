package ecs

import "fmt"

// indexBits is the width of the dense-table index packed into an EntityId.
// The remaining bits hold the generation counter.
const (
	indexBits  = 24
	indexMask  = 1<<indexBits - 1
	counterMax = 1 << (32 - indexBits) // 256
)

// EntityId is a stable identifier for an entity. It packs a 24-bit index
// into the generational table's sparse array and an 8-bit generation
// counter. Two ids are equal iff both fields match; an id whose counter
// does not match the slot's current counter is stale.
type EntityId uint32

// newEntityId packs an index/counter pair into an EntityId.
func newEntityId(index uint32, counter uint32) EntityId {
	return EntityId((counter << indexBits) | (index & indexMask))
}

// Index returns the 24-bit sparse-slot index component of the id.
func (id EntityId) Index() uint32 {
	return uint32(id) & indexMask
}

// Generation returns the 8-bit generation counter component of the id.
func (id EntityId) Generation() uint32 {
	return uint32(id) >> indexBits
}

func (id EntityId) String() string {
	return fmt.Sprintf("EntityId(index=%d, gen=%d)", id.Index(), id.Generation())
}

// sparseSlot is one entry in the handle table's sparse array. live slots
// point at their dense row via denseIndex; free slots chain through
// nextFree, borrowing the same field.
type sparseSlot struct {
	denseIndex uint32
	counter    uint32
	live       bool
	nextFree   uint32
}

// handleTable is the generational dense/sparse handle array described in
// spec §4.1 ("Generational handle table"), grounded in
// original_source/include/ply/core/Handle.h and HandleArray.h. It is the
// backing store for World's entity registry, where the payload type T is
// the entity's table.EntryID.
type handleTable[T any] struct {
	data          []T
	denseToSparse []uint32
	sparse        []sparseSlot
	freeHead      uint32
	freeLen       int
}

const noFree = ^uint32(0)

func newHandleTable[T any]() *handleTable[T] {
	return &handleTable[T]{freeHead: noFree}
}

// push inserts v and returns its freshly minted id.
func (h *handleTable[T]) push(v T) EntityId {
	var sparseIdx uint32
	if h.freeLen > 0 {
		sparseIdx = h.freeHead
		slot := &h.sparse[sparseIdx]
		h.freeHead = slot.nextFree
		h.freeLen--
		slot.denseIndex = uint32(len(h.data))
		slot.live = true
	} else {
		sparseIdx = uint32(len(h.sparse))
		h.sparse = append(h.sparse, sparseSlot{
			denseIndex: uint32(len(h.data)),
			counter:    0,
			live:       true,
		})
	}

	h.data = append(h.data, v)
	h.denseToSparse = append(h.denseToSparse, sparseIdx)

	return newEntityId(sparseIdx, h.sparse[sparseIdx].counter)
}

// remove invalidates id, swap-popping its dense row and bumping the
// slot's generation counter (mod 256, per the documented wraparound
// edge case). Returns the id of the entity that was swapped into the
// vacated dense row, and moved=false if a second such entity did not exist
// (the removed row was already last).
func (h *handleTable[T]) remove(id EntityId) (movedID EntityId, moved bool, err error) {
	sparseIdx := id.Index()
	if !h.validate(id) {
		return 0, false, InvalidHandleError{ID: id}
	}

	slot := &h.sparse[sparseIdx]
	d := slot.denseIndex
	lastIdx := uint32(len(h.data) - 1)

	if d != lastIdx {
		h.data[d] = h.data[lastIdx]
		movedSparse := h.denseToSparse[lastIdx]
		h.denseToSparse[d] = movedSparse
		h.sparse[movedSparse].denseIndex = d
		movedID = newEntityId(movedSparse, h.sparse[movedSparse].counter)
		moved = true
	}

	var zero T
	h.data[lastIdx] = zero
	h.data = h.data[:lastIdx]
	h.denseToSparse = h.denseToSparse[:lastIdx]

	slot.live = false
	slot.counter = (slot.counter + 1) % counterMax
	slot.nextFree = h.freeHead
	h.freeHead = sparseIdx
	h.freeLen++

	return movedID, moved, nil
}

// validate reports whether id currently refers to a live slot.
func (h *handleTable[T]) validate(id EntityId) bool {
	idx := id.Index()
	if int(idx) >= len(h.sparse) {
		return false
	}
	slot := h.sparse[idx]
	return slot.live && slot.counter == id.Generation()
}

// get returns a pointer to the payload for id, or an error if id is stale
// or was never allocated.
func (h *handleTable[T]) get(id EntityId) (*T, error) {
	if !h.validate(id) {
		return nil, InvalidHandleError{ID: id}
	}
	d := h.sparse[id.Index()].denseIndex
	return &h.data[d], nil
}

// isValid reports whether id currently refers to a live slot.
func (h *handleTable[T]) isValid(id EntityId) bool {
	return h.validate(id)
}

// len returns the number of live entries.
func (h *handleTable[T]) len() int {
	return len(h.data)
}
