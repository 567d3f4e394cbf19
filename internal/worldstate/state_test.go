package worldstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestByTypeAccessorsSortByID guards against the accessors silently going
// back to raw, unordered map iteration — Go randomizes map range order per
// process, and several systems (planner.planWork, needs.targetFor,
// needs.gather) pick the first element of these slices as the thing to
// act on.
func TestByTypeAccessorsSortByID(t *testing.T) {
	ws := New(nil)

	for i := 0; i < 6; i++ {
		ws.AddZone(Zone{Type: ZoneWork, Bounds: Bounds{MinX: i, MaxX: i}})
		ws.AddResource(WorldResource{Type: ResourceTypeBerryBush, Position: Position{X: i}})
		ws.AddAnimal(Animal{Species: "deer", Position: Position{X: i}})
	}

	zones := ws.ZonesByType(ZoneWork)
	require.Len(t, zones, 6)
	for i := 1; i < len(zones); i++ {
		assert.Less(t, zones[i-1].ID, zones[i].ID)
	}

	resources := ws.ResourcesByType(ResourceTypeBerryBush)
	require.Len(t, resources, 6)
	for i := 1; i < len(resources); i++ {
		assert.Less(t, resources[i-1].ID, resources[i].ID)
	}

	animals := ws.AllAnimals()
	require.Len(t, animals, 6)
	for i := 1; i < len(animals); i++ {
		assert.Less(t, animals[i-1].ID, animals[i].ID)
	}

	allZones := ws.AllZones()
	for i := 1; i < len(allZones); i++ {
		assert.Less(t, allZones[i-1].ID, allZones[i].ID)
	}

	allResources := ws.AllResources()
	for i := 1; i < len(allResources); i++ {
		assert.Less(t, allResources[i-1].ID, allResources[i].ID)
	}
}

func TestMarketSortedEntriesOrdersByKind(t *testing.T) {
	m := NewMarket(DefaultBasePrices())

	entries := m.SortedEntries()
	require.Len(t, entries, len(DefaultBasePrices()))
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Kind, entries[i].Kind)
	}
}
