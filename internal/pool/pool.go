// Package pool provides a typed object pool.
//
// The serving hot path recycles packet buffers through a pool to keep
// per-query allocations flat; the generic wrapper removes the type
// assertions sync.Pool otherwise forces on every Get.
package pool

import "sync"

// Pool is a typed free list built on sync.Pool. Items put back may be
// dropped at any time; callers must not rely on reuse.
type Pool[T any] struct {
	inner sync.Pool
}

// New creates a pool whose Get falls back to newFn when empty.
func New[T any](newFn func() T) *Pool[T] {
	p := &Pool[T]{}
	p.inner.New = func() any { return newFn() }
	return p
}

// Get returns a pooled item, constructing one if none is available.
func (p *Pool[T]) Get() T {
	return p.inner.Get().(T)
}

// Put makes item available for a future Get. The caller must not use
// item afterwards.
func (p *Pool[T]) Put(item T) {
	p.inner.Put(item)
}
