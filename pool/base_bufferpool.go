// File: pool/base_bufferpool.go
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Plain free-list implementation of api.BufferPool, one instance per
// NUMA node. Buffers of any size share a free list and are reused when
// capacity allows, falling back to a fresh allocation otherwise.

package pool

import (
	"sync/atomic"

	"github.com/momentics/wsrpc/api"
)

type baseBufferPool struct {
	numaNode int
	free     chan api.Buffer
	alloc    int64
	inUse    int64
}

func newBaseBufferPool(numaNode int) *baseBufferPool {
	return &baseBufferPool{
		numaNode: numaNode,
		free:     make(chan api.Buffer, 1024),
	}
}

func (p *baseBufferPool) Get(size, numaPref int) api.Buffer {
	select {
	case buf := <-p.free:
		if cap(buf.Data) >= size {
			atomic.AddInt64(&p.inUse, 1)
			buf.Data = buf.Data[:size]
			return buf
		}
	default:
	}
	atomic.AddInt64(&p.alloc, 1)
	atomic.AddInt64(&p.inUse, 1)
	return api.Buffer{
		Data: make([]byte, size),
		NUMA: p.numaNode,
		Pool: p,
	}
}

func (p *baseBufferPool) Put(b api.Buffer) {
	atomic.AddInt64(&p.inUse, -1)
	select {
	case p.free <- b:
	default:
		// free list full, let GC reclaim it
	}
}

func (p *baseBufferPool) Stats() api.BufferPoolStats {
	return api.BufferPoolStats{
		TotalAlloc: atomic.LoadInt64(&p.alloc),
		InUse:      atomic.LoadInt64(&p.inUse),
		NUMAStats:  map[int]int64{p.numaNode: atomic.LoadInt64(&p.alloc)},
	}
}
