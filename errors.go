package ecs

import "fmt"

// InvalidHandleError is returned when an operation is attempted against a
// stale or never-allocated EntityId. It is fatal for the operation that
// raised it, but not for the world — callers are expected to check for it.
type InvalidHandleError struct {
	ID EntityId
}

func (e InvalidHandleError) Error() string {
	return fmt.Sprintf("invalid entity handle: %v", e.ID)
}

// MissingComponentError is returned when an entity is accessed for a
// component its archetype does not carry.
type MissingComponentError struct {
	Component Component
	ID        EntityId
}

func (e MissingComponentError) Error() string {
	return fmt.Sprintf("entity %v has no component %T", e.ID, e.Component)
}

// UnknownArchetypeError indicates an entity's table has no registered
// archetype in the world. It is returned by GetFromEntity, Components and
// AddComponent/RemoveComponent; World.Remove logs this case and returns
// nil instead. Under the documented invariants this should never happen;
// it signals caller misuse (e.g. sharing ids across worlds).
type UnknownArchetypeError struct {
	ID          EntityId
	ArchetypeID archetypeID
}

func (e UnknownArchetypeError) Error() string {
	return fmt.Sprintf("entity %v references unknown archetype %d", e.ID, e.ArchetypeID)
}

// EmptyCompositionError is returned by EntityBuilder.Create when no
// components were staged via Add/Tag/SetValue.
type EmptyCompositionError struct{}

func (e EmptyCompositionError) Error() string {
	return "cannot create entities with an empty component set"
}

// ComponentExistsError is returned by AddComponent when the entity already
// carries the component being added.
type ComponentExistsError struct {
	Component Component
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: %T", e.Component)
}

// ComponentNotFoundError is returned by RemoveComponent when the entity
// does not carry the component being removed.
type ComponentNotFoundError struct {
	Component Component
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %T", e.Component)
}

// DoubleReleaseError names the double-release case of the error taxonomy
// (spec §7): a pool cell released twice. No code in this package returns
// it; the builder's sync.Pool staging keeps no per-cell used-bit, so a
// double release is not detected.
type DoubleReleaseError struct {
	Component Component
}

func (e DoubleReleaseError) Error() string {
	return fmt.Sprintf("pool cell for component %T released twice", e.Component)
}
