// Package worldstate is the single source of truth for simulation entities:
// agents, animals, world resources, zones, terrain tiles, inventories, and
// the market. All mutation flows through the typed operations on WorldState;
// readers get a consistent view per tick. See design doc Sections 2 and 3.
package worldstate

import "sync/atomic"

// AgentID uniquely identifies an agent for the lifetime of a run.
type AgentID uint64

// AnimalID uniquely identifies an animal for the lifetime of a run.
type AnimalID uint64

// ResourceID uniquely identifies a world resource instance.
type ResourceID uint64

// ZoneID uniquely identifies a zone.
type ZoneID uint64

// IDAllocator hands out stable, never-reused ids within a run.
type IDAllocator struct {
	next uint64
}

// NewIDAllocator creates an allocator starting at 1 (0 is reserved as "no id").
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 0}
}

// Next returns the next unique id. Safe for concurrent use.
func (a *IDAllocator) Next() uint64 {
	return atomic.AddUint64(&a.next, 1)
}
