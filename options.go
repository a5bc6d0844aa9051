// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"fmt"
	"unsafe"
)

// MaxCapacity is the largest capacity a queue can be built with.
// Larger requests fail with [ErrCapacity] instead of attempting the allocation.
const MaxCapacity = 1 << 30

// MaxBytes is the largest element storage, capacity times the element
// size, a queue can be built with. Larger requests fail with [ErrCapacity].
const MaxBytes = 1 << 34

// DefaultSpin is the spin budget used by [Builder.Spin] when given n <= 0.
const DefaultSpin = 16

// Options configures queue creation.
type Options struct {
	// Capacity (exact, never rounded)
	capacity int

	// Wake policy
	broadcast bool // Wake every waiter instead of one

	// Performance hints
	spin int // Non-blocking attempts before parking
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// Default: signal one waiter, park immediately
//	q, err := bq.Build[int](bq.New(20))
//
//	// Seeded queue with broadcast wakeups
//	q, err := bq.Build(bq.New(20).Broadcast(), 7, 11, 3)
//
//	// Spin briefly before parking under light contention
//	q, err := bq.Build[Job](bq.New(1024).Spin(0))
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
//
// The capacity is validated by Build, so New never panics.
//
// Example:
//
//	b := bq.New(4)
//	q, err := bq.Build[int](b)
func New(capacity int) *Builder {
	return &Builder{opts: Options{capacity: capacity}}
}

// Broadcast wakes every parked goroutine of the opposite role after each
// operation instead of exactly one.
//
// Waiters always re-check their condition, so this only trades extra
// wakeups for robustness when callers mix queue waits with other
// synchronization.
func (b *Builder) Broadcast() *Builder {
	b.opts.broadcast = true
	return b
}

// Spin makes Enqueue and Dequeue retry their non-blocking variant up to n
// times, pausing with a CPU hint between attempts, before parking on the
// condition variable. n <= 0 selects [DefaultSpin].
//
// Semantics are unchanged: every attempt takes the mutex, and the slow path
// is the same monitor wait.
func (b *Builder) Spin(n int) *Builder {
	if n <= 0 {
		n = DefaultSpin
	}
	b.opts.spin = n
	return b
}

// Build creates a Queue[T] from the builder, pre-filled with initial in
// order.
//
// Returns [ErrCapacity] (wrapped with detail) if the capacity is below 1 or
// above [MaxCapacity], if its storage would exceed [MaxBytes], or if
// len(initial) exceeds the capacity. On error no
// queue exists, so nothing partially initialised can be shared.
func Build[T any](b *Builder, initial ...T) (*Queue[T], error) {
	c := b.opts.capacity
	switch {
	case c < 1:
		return nil, fmt.Errorf("%w: %d < 1", ErrCapacity, c)
	case c > MaxCapacity:
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrCapacity, c, MaxCapacity)
	case exceedsMaxBytes[T](c):
		var zero T
		return nil, fmt.Errorf("%w: %d elements of %d bytes exceed %d bytes",
			ErrCapacity, c, unsafe.Sizeof(zero), uint64(MaxBytes))
	case len(initial) > c:
		return nil, fmt.Errorf("%w: %d initial values exceed capacity %d", ErrCapacity, len(initial), c)
	}

	q := newQueue[T](b.opts)
	for _, elem := range initial {
		q.ring.push(elem)
	}
	q.stats.enqueued.Add(int64(len(initial)))
	return q, nil
}

// exceedsMaxBytes reports whether capacity slots of T need more than
// MaxBytes. Zero-size element types never do.
func exceedsMaxBytes[T any](capacity int) bool {
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	return size > 0 && uint64(capacity) > MaxBytes/size
}
