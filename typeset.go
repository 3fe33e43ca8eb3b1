package ecs

import "github.com/TheBitDrifter/mask"

// TypeId is the registry-assigned bit index a Component is mapped to by the
// world's table.Schema, wrapped as a distinct type rather than a bare
// uint32 alias so a raw row index can't be passed where a TypeId is
// expected (or vice versa) without an explicit conversion (Design Notes §9).
type TypeId uint32

// typeSetOf builds the order-invariant mask.Mask identifying a component
// composition (spec §4.4's hash basis, and Invariant A1's archetype
// identity). Order-invariance falls directly out of mask.Mask.Mark being a
// set operation: marking the same bits in any order produces the same mask.
func typeSetOf(rowIndexFor func(Component) TypeId, components []Component) mask.Mask {
	var m mask.Mask
	for _, c := range components {
		m.Mark(uint32(rowIndexFor(c)))
	}
	return m
}
