package ecs

import (
	"testing"

	"github.com/TheBitDrifter/table"
)

// TestQueryFiltering tests Match/Exclude query composition.
func TestQueryFiltering(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	healthComp := FactoryNewComponent[Health]()

	type entitySetup struct {
		components []Component
		count      int
	}

	tests := []struct {
		name            string
		entitySetups    []entitySetup
		match           []Component
		exclude         []Component
		expectedMatches int
	}{
		{
			name: "Match exact set",
			entitySetups: []entitySetup{
				{[]Component{posComp.Component, velComp.Component}, 5},
				{[]Component{posComp.Component}, 10},
				{[]Component{velComp.Component}, 15},
			},
			match:           []Component{posComp.Component, velComp.Component},
			expectedMatches: 5,
		},
		{
			name: "Match single component across archetypes",
			entitySetups: []entitySetup{
				{[]Component{posComp.Component, velComp.Component}, 5},
				{[]Component{posComp.Component}, 10},
				{[]Component{velComp.Component}, 15},
			},
			match:           []Component{posComp.Component},
			expectedMatches: 15, // 5 + 10
		},
		{
			name: "Exclude filters out",
			entitySetups: []entitySetup{
				{[]Component{posComp.Component, velComp.Component}, 5},
				{[]Component{posComp.Component}, 10},
				{[]Component{velComp.Component}, 15},
				{[]Component{healthComp.Component}, 20},
			},
			match:           []Component{posComp.Component},
			exclude:         []Component{velComp.Component},
			expectedMatches: 10,
		},
		{
			name: "Match and exclude combined",
			entitySetups: []entitySetup{
				{[]Component{posComp.Component, velComp.Component, healthComp.Component}, 5},
				{[]Component{posComp.Component, velComp.Component}, 10},
				{[]Component{posComp.Component, healthComp.Component}, 15},
				{[]Component{velComp.Component, healthComp.Component}, 20},
			},
			match:           []Component{posComp.Component},
			exclude:         []Component{velComp.Component},
			expectedMatches: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := table.Factory.NewSchema()
			world := NewWorld(schema)

			for _, setup := range tt.entitySetups {
				builder := world.Entity()
				for _, c := range setup.components {
					builder.Add(c)
				}
				if _, err := builder.Create(setup.count); err != nil {
					t.Fatalf("Failed to create entities: %v", err)
				}
			}

			f := world.Query().Match(tt.match...)
			if len(tt.exclude) > 0 {
				f = f.Exclude(tt.exclude...)
			}
			cq := f.Compile()

			matchCount := 0
			cq.Each(func(it *QueryIterator) { matchCount++ })

			if matchCount != tt.expectedMatches {
				t.Errorf("Query matched %d entities, want %d", matchCount, tt.expectedMatches)
			}
			if total := cq.TotalMatched(); total != tt.expectedMatches {
				t.Errorf("TotalMatched() = %d, want %d", total, tt.expectedMatches)
			}
		})
	}
}

// TestQueryWithCursor tests that iteration and TotalMatched agree.
func TestQueryWithCursor(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	healthComp := FactoryNewComponent[Health]()

	tests := []struct {
		name            string
		entityTypes     [][]Component
		queryComponents []Component
		expectedCount   int
	}{
		{
			name: "Query with position",
			entityTypes: [][]Component{
				{posComp.Component},
				{posComp.Component, velComp.Component},
				{velComp.Component},
			},
			queryComponents: []Component{posComp.Component},
			expectedCount:   20, // 10 + 10
		},
		{
			name: "Query with position and velocity",
			entityTypes: [][]Component{
				{posComp.Component},
				{posComp.Component, velComp.Component},
				{velComp.Component},
			},
			queryComponents: []Component{posComp.Component, velComp.Component},
			expectedCount:   10,
		},
		{
			name: "Query with no matches",
			entityTypes: [][]Component{
				{posComp.Component},
				{velComp.Component},
			},
			queryComponents: []Component{healthComp.Component},
			expectedCount:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := table.Factory.NewSchema()
			world := NewWorld(schema)

			for _, componentSet := range tt.entityTypes {
				builder := world.Entity()
				for _, c := range componentSet {
					builder.Add(c)
				}
				if _, err := builder.Create(10); err != nil {
					t.Fatalf("Failed to create entities: %v", err)
				}
			}

			cq := world.Query().Match(tt.queryComponents...).Compile()

			count1 := 0
			cq.Each(func(it *QueryIterator) { count1++ })
			count2 := cq.TotalMatched()

			if count1 != count2 {
				t.Errorf("counts inconsistent: %d vs %d", count1, count2)
			}
			if count1 != tt.expectedCount {
				t.Errorf("Query matched %d entities, want %d", count1, tt.expectedCount)
			}
		})
	}
}

// TestQueryComponentAccess tests accessing and mutating component data
// through a compiled query's iterator.
func TestQueryComponentAccess(t *testing.T) {
	schema := table.Factory.NewSchema()
	world := NewWorld(schema)

	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()

	ids := make([]EntityId, 0, 10)
	for i := 0; i < 10; i++ {
		id, err := world.Entity().Add(posComp.Component).Create(1)
		if err != nil {
			t.Fatalf("Failed to create entity: %v", err)
		}
		pos, _ := posComp.GetFromEntity(world, id[0])
		*pos = Position{X: float64(i), Y: float64(i * 2)}

		if err := world.AddComponent(id[0], velComp.Component); err != nil {
			t.Fatalf("Failed to add velocity: %v", err)
		}
		vel, _ := velComp.GetFromEntity(world, id[0])
		*vel = Velocity{X: float64(i) * 0.1, Y: float64(i) * 0.2}
		ids = append(ids, id[0])
	}

	cq := world.Query().Match(posComp.Component, velComp.Component).Compile()

	cq.Each(func(it *QueryIterator) {
		pos := posComp.GetFromCursor(it)
		vel := velComp.GetFromCursor(it)
		pos.X += vel.X
		pos.Y += vel.Y
	})

	for _, id := range ids {
		pos, _ := posComp.GetFromEntity(world, id)
		vel, _ := velComp.GetFromEntity(world, id)
		if !almostEqual(pos.X-vel.X, vel.X*10, 0.0001) {
			t.Errorf("Position.X after update = %v, velocity.X = %v: pattern mismatch", pos.X, vel.X)
		}
	}
}

// Helper function for float comparisons
func almostEqual(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}
