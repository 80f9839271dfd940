// File: pool/bufferpool.go
// Author: momentics <momentics@gmail.com>
//
// NUMA-segmented BufferPool manager. All public API is OS/NUMA-agnostic;
// the underlying per-node pool is the plain free-list baseBufferPool.

package pool

import (
	"sync"

	"github.com/momentics/wsrpc/api"
)

// BufferPoolManager provides NUMA-segmented pools, one per NUMA node.
type BufferPoolManager struct {
	mu        sync.RWMutex
	numNodes  int
	pools     map[int]api.BufferPool // key: NUMA node (negative requests map to 0)
}

// NewBufferPoolManager creates a manager aware of numNodes NUMA nodes.
// GetPool maps requests outside [0, numNodes) to node 0; pools are
// created lazily per node on first use.
func NewBufferPoolManager(numNodes int) *BufferPoolManager {
	if numNodes < 1 {
		numNodes = 1
	}
	return &BufferPoolManager{
		numNodes: numNodes,
		pools:    make(map[int]api.BufferPool),
	}
}

// GetPool returns the BufferPool for NUMA node numaPreferred, creating
// it on first use. size is not used: one pool per node serves buffers
// of every size.
func (m *BufferPoolManager) GetPool(size, numaPreferred int) api.BufferPool {
	node := numaPreferred
	if node < 0 || node >= m.numNodes {
		node = 0
	}
	m.mu.RLock()
	pool, ok := m.pools[node]
	m.mu.RUnlock()
	if ok {
		return pool
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if pool, ok := m.pools[node]; ok {
		return pool
	}
	pool = newBaseBufferPool(node)
	m.pools[node] = pool
	return pool
}
