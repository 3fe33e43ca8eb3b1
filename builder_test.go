package ecs

import (
	"testing"

	"github.com/TheBitDrifter/table"
)

// TestBuilderEmptyComposition verifies Create on an empty builder returns
// EmptyCompositionError rather than creating zero-component entities.
func TestBuilderEmptyComposition(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := NewWorld(schema)

	_, err := world.Entity().Create(1)
	if _, ok := err.(EmptyCompositionError); !ok {
		t.Fatalf("Create() on empty builder error = %v, want EmptyCompositionError", err)
	}
}

// TestBuilderSetValueAppliesToEveryRow verifies SetValue stages a value
// written into every row of the batch, and that the builder resets after
// Create so a reused builder variable starts a fresh composition.
func TestBuilderSetValueAppliesToEveryRow(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := NewWorld(schema)

	pos := FactoryNewComponent[Position]()

	b := world.Entity()
	SetValue(b, pos, Position{X: 3, Y: 4})
	ids, err := b.Create(5)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for _, id := range ids {
		p, err := pos.GetFromEntity(world, id)
		if err != nil {
			t.Fatalf("GetFromEntity() error = %v", err)
		}
		if *p != (Position{X: 3, Y: 4}) {
			t.Errorf("Position for %v = %v, want {3 4}", id, *p)
		}
	}

	if len(b.comps) != 0 || len(b.vals) != 0 {
		t.Errorf("builder not reset after Create(): comps=%v vals=%d", b.comps, len(b.vals))
	}
}

// TestAddComponentExistsError verifies AddComponent rejects a component
// already present on the entity.
func TestAddComponentExistsError(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := NewWorld(schema)

	pos := FactoryNewComponent[Position]()
	ids, err := world.Entity().Add(pos.Component).Create(1)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = world.AddComponent(ids[0], pos.Component)
	if _, ok := err.(ComponentExistsError); !ok {
		t.Errorf("AddComponent() of an existing component error = %v, want ComponentExistsError", err)
	}
}

// TestRemoveComponentNotFoundError verifies RemoveComponent rejects a
// component absent from the entity.
func TestRemoveComponentNotFoundError(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := NewWorld(schema)

	pos := FactoryNewComponent[Position]()
	vel := FactoryNewComponent[Velocity]()
	ids, err := world.Entity().Add(pos.Component).Create(1)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = world.RemoveComponent(ids[0], vel.Component)
	if _, ok := err.(ComponentNotFoundError); !ok {
		t.Errorf("RemoveComponent() of an absent component error = %v, want ComponentNotFoundError", err)
	}
}
