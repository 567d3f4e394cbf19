// Package movement implements per-agent movement state and the bounded
// A* pathfinding pool (Section 4.6 "MovementSystem + Pathfinder"),
// grounded on the teacher's grid-wrapper style (internal/world/map.go,
// adapted from hex to square tiles) and on the fan-in worker pattern from
// niceyeti-tabular's reinforcement/learning.go (channerics.Merge over a
// fixed worker set).
package movement

import (
	"context"
	"runtime"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/talgya/agentforge/internal/worldstate"
)

// MaxConcurrentPaths returns the configured pathfinding pool size, scaled
// to hardware parallelism with a floor of 8 and a ceiling of 50
// (Section 4.6). gopsutil's logical core count is preferred over
// runtime.NumCPU so the figure reflects the host, not just the cgroup the
// Go runtime sees; runtime.NumCPU is the fallback when gopsutil fails.
func MaxConcurrentPaths() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}
	scaled := n * 2
	if scaled < 8 {
		return 8
	}
	if scaled > 50 {
		return 50
	}
	return scaled
}

// pathRequest is one queued A* job.
type pathRequest struct {
	agent  worldstate.AgentID
	from   worldstate.Position
	to     worldstate.Position
	result chan pathResult
}

type pathResult struct {
	agent     worldstate.AgentID
	waypoints []worldstate.Position
	ok        bool
}

// Pool runs at most N A* computations concurrently, queueing the rest in
// FIFO order (Section 4.6 "Concurrency"). Requests are never dropped:
// every request eventually runs, or is cancelled by the caller closing
// the pool's context when the owning agent dies or abandons the goal.
type Pool struct {
	requests chan pathRequest
	grid     *Grid
	cancel   context.CancelFunc
}

// NewPool starts a pathfinding pool of the given size over grid. Workers
// stop when ctx is cancelled.
func NewPool(ctx context.Context, size int, grid *Grid) *Pool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		requests: make(chan pathRequest, 1024), // FIFO queue; generous capacity so enqueue never blocks a tick
		grid:     grid,
		cancel:   cancel,
	}

	done := ctx.Done()
	outputs := make([]<-chan pathResult, 0, size)
	for i := 0; i < size; i++ {
		outputs = append(outputs, p.worker(ctx))
	}
	// Fan the worker outputs into one channel; merge itself isn't used by
	// Pool directly (results are delivered per-request via result chan),
	// but draining the merged stream keeps every worker goroutine
	// unblocked even if a caller abandons a request without reading it.
	merged := channerics.Merge(done, outputs...)
	go func() {
		for range merged {
		}
	}()
	return p
}

// worker pulls requests off the shared FIFO channel and runs A* on each,
// publishing to the request's own result channel so callers don't need to
// demux by agent id themselves.
func (p *Pool) worker(ctx context.Context) <-chan pathResult {
	out := make(chan pathResult)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case req, ok := <-p.requests:
				if !ok {
					return
				}
				waypoints, ok := AStar(p.grid, req.from, req.to)
				res := pathResult{agent: req.agent, waypoints: waypoints, ok: ok}
				select {
				case req.result <- res:
				case <-ctx.Done():
				}
				select {
				case out <- res:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Submit enqueues a path request and returns a channel that receives
// exactly one result. Submit itself never blocks the caller's tick beyond
// the queue's buffer; if the buffer is full the call blocks, which in
// practice only happens under pathological request storms larger than
// 1024 in flight.
func (p *Pool) Submit(agent worldstate.AgentID, from, to worldstate.Position) <-chan pathResult {
	result := make(chan pathResult, 1)
	p.requests <- pathRequest{agent: agent, from: from, to: to, result: result}
	return result
}

// Close stops every worker.
func (p *Pool) Close() {
	p.cancel()
}
