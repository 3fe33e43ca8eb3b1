package ecs

import "github.com/TheBitDrifter/table"

// Config holds process-wide configuration for the ecs package, mirroring
// the teacher's package-level Config value.
var Config config = config{DefaultCacheCapacity: 4096}

type config struct {
	tableEvents table.TableEvents

	// DefaultCacheCapacity is the capacity NewWorld passes to
	// FactoryNewCache for the world's component name registry (spec §3.1).
	DefaultCacheCapacity int
}

// SetTableEvents configures the table event callbacks every archetype's
// table is built with.
func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}

// SetDefaultCacheCapacity overrides the capacity used by caches the package
// creates on a World's behalf.
func (c *config) SetDefaultCacheCapacity(n int) {
	c.DefaultCacheCapacity = n
}
