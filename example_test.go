package ecs_test

import (
	"fmt"

	"github.com/Minigeee/ecsworld"
	"github.com/TheBitDrifter/table"
)

// Position is a simple component for 2D coordinates
type Position struct {
	X float64
	Y float64
}

// Velocity is a simple component for 2D movement
type Velocity struct {
	X float64
	Y float64
}

// Name is a simple component for entity identification
type Name struct {
	Value string
}

// Example_basic shows basic world usage with entity creation and queries
func Example_basic() {
	schema := table.Factory.NewSchema()
	world := ecs.NewWorld(schema)

	position := ecs.FactoryNewComponent[Position]()
	velocity := ecs.FactoryNewComponent[Velocity]()
	name := ecs.FactoryNewComponent[Name]()

	world.Entity().Add(position.Component).Create(5)
	world.Entity().Add(position.Component).Add(velocity.Component).Create(3)

	ids, _ := world.Entity().
		Add(position.Component).
		Add(velocity.Component).
		Add(name.Component).
		Create(1)

	namedID := ids[0]
	nameComp, _ := name.GetFromEntity(world, namedID)
	nameComp.Value = "Player"
	pos, _ := position.GetFromEntity(world, namedID)
	vel, _ := velocity.GetFromEntity(world, namedID)
	pos.X, pos.Y = 10.0, 20.0
	vel.X, vel.Y = 1.0, 2.0

	matchCount := 0
	world.Query().Match(position.Component, velocity.Component).Compile().Each(func(it *ecs.QueryIterator) {
		matchCount++
	})
	fmt.Printf("Found %d entities with position and velocity\n", matchCount)

	world.Query().Match(name.Component).Compile().Each(func(it *ecs.QueryIterator) {
		pos := position.GetFromCursor(it)
		vel := velocity.GetFromCursor(it)
		nme := name.GetFromCursor(it)

		pos.X += vel.X
		pos.Y += vel.Y

		fmt.Printf("Updated %s to position (%.1f, %.1f)\n", nme.Value, pos.X, pos.Y)
	})

	// Output:
	// Found 4 entities with position and velocity
	// Updated Player to position (11.0, 22.0)
}

// Example_queries shows match/exclude query composition
func Example_queries() {
	schema := table.Factory.NewSchema()
	world := ecs.NewWorld(schema)

	position := ecs.FactoryNewComponent[Position]()
	velocity := ecs.FactoryNewComponent[Velocity]()
	name := ecs.FactoryNewComponent[Name]()

	world.Entity().Add(position.Component).Create(3)
	world.Entity().Add(position.Component).Add(velocity.Component).Create(3)
	world.Entity().Add(position.Component).Add(name.Component).Create(3)
	world.Entity().Add(position.Component).Add(velocity.Component).Add(name.Component).Create(3)

	matched := world.Query().Match(position.Component, velocity.Component).Compile().TotalMatched()
	fmt.Printf("match query matched %d entities\n", matched)

	excluded := world.Query().Match(position.Component).Exclude(velocity.Component).Compile().TotalMatched()
	fmt.Printf("exclude query matched %d entities\n", excluded)

	// Output:
	// match query matched 6 entities
	// exclude query matched 6 entities
}
