/*
Package ecs provides an Entity-Component-System (ECS) core for games and
simulations.

It is built on an archetype-based storage system that keeps entities with
the same component composition together, for cache-friendly iteration, and
on generational entity handles that detect use of stale ids after an
entity has been removed and its slot recycled.

Core Concepts:

  - EntityId: a generational handle identifying an entity.
  - Component: a data container describing one facet of an entity.
  - Archetype: the columnar storage group for every entity sharing one
    exact component composition.
  - Query: a compiled, cached way to iterate entities matching an
    include/exclude component set.
  - Observer: a callback fired when entities are created, removed, or
    transition into/out of a query's match set.

Basic Usage:

	schema := table.Factory.NewSchema()
	world := ecs.NewWorld(schema)

	position := ecs.FactoryNewComponent[Position]()
	velocity := ecs.FactoryNewComponent[Velocity]()

	ids, _ := world.Entity().
		Add(position.Component).
		Add(velocity.Component).
		Create(100)

	world.Query().Match(position.Component, velocity.Component).Compile().Each(func(it *ecs.QueryIterator) {
		pos := position.GetFromCursor(it)
		vel := velocity.GetFromCursor(it)
		pos.X += vel.X
		pos.Y += vel.Y
	})

	world.Tick()

An application that also wants to broadcast these lifecycle transitions
onto a general-purpose event bus (for example to drive UI or networking
code) can pair an Observer callback with its own EventSystem collaborator;
the core itself never depends on one.
*/
package ecs
