package ecs

import "github.com/TheBitDrifter/table"

// factory implements the factory pattern for ecs components and caches.
type factory struct{}

// Factory is the global factory instance.
var Factory factory

// FactoryNewComponent creates a new AccessibleComponent for type T, pairing
// table's element-type identity with its typed accessor.
func FactoryNewComponent[T any]() AccessibleComponent[T] {
	iden := table.FactoryNewElementType[T]()
	return AccessibleComponent[T]{
		Component: iden,
		Accessor:  table.FactoryNewAccessor[T](iden),
	}
}

// FactoryNewCache creates a new Cache with the specified capacity.
func FactoryNewCache[T any](cap int) Cache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
