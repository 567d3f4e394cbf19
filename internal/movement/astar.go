package movement

import (
	"container/heap"

	"github.com/talgya/agentforge/internal/worldstate"
)

// MaxPathfindingDistance bounds how far calculatePath will run full A*
// before falling back to a straight-line plan (Section 4.6 "calculatePath").
const MaxPathfindingDistance = 48

// Grid is the read-only terrain view A* searches over, with per-terrain
// movement costs standing in for the teacher's hex terrain-cost table
// (internal/engine/market.go terrainMoveCost), adapted to the square grid.
type Grid struct {
	tiles *worldstate.TileGrid
}

// NewGrid wraps a terrain grid for pathfinding.
func NewGrid(tiles *worldstate.TileGrid) *Grid {
	return &Grid{tiles: tiles}
}

// terrainCost returns the cost of entering a tile, or -1 if it cannot be
// entered at all.
func (g *Grid) terrainCost(p worldstate.Position) float64 {
	t := g.tiles.Get(p.X, p.Y)
	if t == nil || !t.IsWalkable {
		return -1
	}
	switch t.Type {
	case worldstate.TerrainForest:
		return 1.5
	case worldstate.TerrainMountain:
		return 3.0
	case worldstate.TerrainSand:
		return 1.2
	default:
		return 1.0
	}
}

var eightDirections = [8]worldstate.Position{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

func chebyshevDist(a, b worldstate.Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

func octileHeuristic(a, b worldstate.Position) float64 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	dMax, dMin := float64(dx), float64(dy)
	if dMin > dMax {
		dMax, dMin = dMin, dMax
	}
	return dMax + (1.41421356 - 1)*dMin
}

type openNode struct {
	pos      worldstate.Position
	f        float64
	index    int
}

type openHeap []*openNode

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *openHeap) Push(x interface{}) {
	n := x.(*openNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// AStar finds an 8-directional path from from to to on grid, with
// terrain-weighted step costs. Returns the waypoint list (excluding from,
// including to) and whether a path was found.
func AStar(grid *Grid, from, to worldstate.Position) ([]worldstate.Position, bool) {
	if grid.terrainCost(to) < 0 {
		return nil, false
	}
	if from == to {
		return []worldstate.Position{to}, true
	}

	gScore := map[worldstate.Position]float64{from: 0}
	cameFrom := map[worldstate.Position]worldstate.Position{}
	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, &openNode{pos: from, f: octileHeuristic(from, to)})
	visited := map[worldstate.Position]bool{}

	const maxExpansions = 20000 // safety bound; real worlds stay well under this
	expansions := 0

	for open.Len() > 0 {
		expansions++
		if expansions > maxExpansions {
			return nil, false
		}
		current := heap.Pop(open).(*openNode).pos
		if visited[current] {
			continue
		}
		visited[current] = true
		if current == to {
			return reconstructPath(cameFrom, from, to), true
		}

		for _, dir := range eightDirections {
			next := worldstate.Position{X: current.X + dir.X, Y: current.Y + dir.Y}
			cost := grid.terrainCost(next)
			if cost < 0 || visited[next] {
				continue
			}
			step := cost
			if dir.X != 0 && dir.Y != 0 {
				step *= 1.41421356
			}
			tentative := gScore[current] + step
			if existing, ok := gScore[next]; !ok || tentative < existing {
				gScore[next] = tentative
				cameFrom[next] = current
				heap.Push(open, &openNode{pos: next, f: tentative + octileHeuristic(next, to)})
			}
		}
	}
	return nil, false
}

func reconstructPath(cameFrom map[worldstate.Position]worldstate.Position, from, to worldstate.Position) []worldstate.Position {
	var path []worldstate.Position
	cur := to
	for cur != from {
		path = append(path, cur)
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		cur = prev
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// StraightLinePath is the fallback plan used when Chebyshev distance
// exceeds MaxPathfindingDistance (Section 4.6): a direct step sequence
// with no obstacle avoidance.
func StraightLinePath(from, to worldstate.Position) []worldstate.Position {
	dist := chebyshevDist(from, to)
	if dist == 0 {
		return []worldstate.Position{to}
	}
	path := make([]worldstate.Position, 0, dist)
	for i := 1; i <= dist; i++ {
		t := float64(i) / float64(dist)
		path = append(path, worldstate.Position{
			X: from.X + int(float64(to.X-from.X)*t),
			Y: from.Y + int(float64(to.Y-from.Y)*t),
		})
	}
	return path
}
