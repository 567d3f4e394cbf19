// Package batchquery answers bulk proximity questions ("for each of these
// N agents, who else is within R tiles") more cheaply than N independent
// SpatialIndex.QueryRadius calls once N is large enough that a vectorized
// pairwise-distance pass wins (Section 4.2 "BatchQueryService").
package batchquery

import (
	"gonum.org/v1/gonum/mat"

	"github.com/talgya/agentforge/internal/spatial"
	"github.com/talgya/agentforge/internal/worldstate"
)

// AcceleratorThreshold is the batch size at which Service switches from
// per-agent SpatialIndex scans to the gonum pairwise-distance matrix path.
// Below it the matrix-build overhead isn't worth paying.
const AcceleratorThreshold = 20

// Result is the set of neighbor ids found for one queried agent, in no
// particular order (callers that need determinism sort it themselves).
type Result struct {
	Agent     worldstate.AgentID
	Neighbors []worldstate.AgentID
}

// Service answers batched radius queries, picking a plain or accelerated
// path depending on batch size.
type Service struct {
	index *spatial.SpatialIndex
}

// New returns a batch query service backed by the given rebuilt spatial index.
func New(index *spatial.SpatialIndex) *Service {
	return &Service{index: index}
}

// QueryRadiusBatch finds, for each requested agent, every other requested
// agent within radius tiles. Only pairs among the supplied ids are
// considered — this mirrors NeedsSystem's use case of checking proximity
// among a specific cohort, not the whole world.
func (s *Service) QueryRadiusBatch(ws *worldstate.WorldState, ids []worldstate.AgentID, radius float64) []Result {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) < AcceleratorThreshold {
		return s.queryPlain(ws, ids, radius)
	}
	return s.queryAccelerated(ids, radius)
}

// queryPlain handles small batches with one SpatialIndex.QueryRadius call
// per agent, intersected against the requested id set.
func (s *Service) queryPlain(ws *worldstate.WorldState, ids []worldstate.AgentID, radius float64) []Result {
	wanted := make(map[worldstate.AgentID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]Result, 0, len(ids))
	for _, id := range ids {
		pos, ok := s.index.Entities().Get(id)
		if !ok {
			out = append(out, Result{Agent: id})
			continue
		}
		var neighbors []worldstate.AgentID
		for _, cand := range s.index.QueryRadius(pos, radius) {
			if cand == id {
				continue
			}
			if _, inCohort := wanted[cand]; inCohort {
				neighbors = append(neighbors, cand)
			}
		}
		out = append(out, Result{Agent: id, Neighbors: neighbors})
	}
	return out
}

// queryAccelerated builds an NxN pairwise-distance matrix with gonum and
// thresholds it against radius — faster than N grid scans once N is large,
// since it's one allocation and one pass instead of N bucket walks.
func (s *Service) queryAccelerated(ids []worldstate.AgentID, radius float64) []Result {
	n := len(ids)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, id := range ids {
		pos, ok := s.index.Entities().Get(id)
		if !ok {
			continue
		}
		xs[i] = float64(pos.X)
		ys[i] = float64(pos.Y)
	}

	coords := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		coords.Set(i, 0, xs[i])
		coords.Set(i, 1, ys[i])
	}

	// Gram matrix of dot products, used to expand squared Euclidean
	// distance: |a-b|^2 = |a|^2 + |b|^2 - 2*a.b
	var gram mat.Dense
	gram.Mul(coords, coords.T())

	sq := make([]float64, n)
	for i := 0; i < n; i++ {
		sq[i] = gram.At(i, i)
	}

	radiusSq := radius * radius
	out := make([]Result, n)
	for i := 0; i < n; i++ {
		out[i] = Result{Agent: ids[i]}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			distSq := sq[i] + sq[j] - 2*gram.At(i, j)
			if distSq <= radiusSq {
				out[i].Neighbors = append(out[i].Neighbors, ids[j])
			}
		}
	}
	return out
}
