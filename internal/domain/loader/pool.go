package loader

import "github.com/GriffinCanCode/assetpack/internal/infrastructure/monitoring"

// Pool recycles handles. Release receives handles already reset to
// neutral; Acquire hands out neutral handles.
type Pool interface {
	Acquire() *Handle
	Release(h *Handle)
}

// PoolStats counts pool traffic
type PoolStats struct {
	Allocated int
	Acquired  int
	Released  int
	Dropped   int
	Idle      int
}

// HandlePool is a free-list pool with a bounded idle set. It is not safe
// for concurrent use; the loader serialises access.
type HandlePool struct {
	idle    []*Handle
	maxIdle int
	stats   PoolStats
	metrics *monitoring.Metrics
}

// NewHandlePool creates a pool keeping at most maxIdle handles.
// maxIdle <= 0 disables retention.
func NewHandlePool(maxIdle int, metrics *monitoring.Metrics) *HandlePool {
	if maxIdle < 0 {
		maxIdle = 0
	}
	return &HandlePool{
		idle:    make([]*Handle, 0, maxIdle),
		maxIdle: maxIdle,
		metrics: metrics,
	}
}

// Acquire returns an idle handle or allocates one
func (p *HandlePool) Acquire() *Handle {
	p.stats.Acquired++
	if n := len(p.idle); n > 0 {
		h := p.idle[n-1]
		p.idle[n-1] = nil
		p.idle = p.idle[:n-1]
		return h
	}
	p.stats.Allocated++
	p.metrics.IncPoolAllocations()
	return &Handle{}
}

// Release stores a neutral handle for reuse
func (p *HandlePool) Release(h *Handle) {
	if h == nil {
		return
	}
	if !h.neutral() {
		panic("loader: handle released to pool without reset")
	}
	p.stats.Released++
	if len(p.idle) >= p.maxIdle {
		p.stats.Dropped++
		return
	}
	p.idle = append(p.idle, h)
}

// Stats returns a snapshot of pool counters
func (p *HandlePool) Stats() PoolStats {
	s := p.stats
	s.Idle = len(p.idle)
	return s
}
