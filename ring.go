// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

// ring is the element storage behind Queue.
//
// A fixed slice of exactly capacity slots, the head index, and one element
// count n. The tail position is derived as (head + n) mod capacity; there is
// no separate tail or length field that could drift from n.
//
// ring is not safe for concurrent use. Queue guards it with its mutex.
type ring[T any] struct {
	buffer []T
	head   int
	n      int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{buffer: make([]T, capacity)}
}

func (r *ring[T]) len() int { return r.n }

func (r *ring[T]) cap() int { return len(r.buffer) }

func (r *ring[T]) empty() bool { return r.n == 0 }

func (r *ring[T]) full() bool { return r.n == len(r.buffer) }

// push appends elem at the tail.
// Panics if the ring is full; callers must wait for a free slot first.
func (r *ring[T]) push(elem T) {
	if r.full() {
		panic("bq: push to full ring")
	}
	i := r.head + r.n
	if i >= len(r.buffer) {
		i -= len(r.buffer)
	}
	r.buffer[i] = elem
	r.n++
}

// pop removes and returns the head element.
// Panics if the ring is empty; callers must wait for an element first.
func (r *ring[T]) pop() T {
	if r.empty() {
		panic("bq: pop from empty ring")
	}
	elem := r.buffer[r.head]
	var zero T
	r.buffer[r.head] = zero
	r.n--
	if r.n == 0 {
		r.head = 0
		return elem
	}
	r.head++
	if r.head == len(r.buffer) {
		r.head = 0
	}
	return elem
}

// drain pops every element in FIFO order.
// All slots are cleared so referenced objects can be collected.
func (r *ring[T]) drain() []T {
	out := make([]T, 0, r.n)
	for !r.empty() {
		out = append(out, r.pop())
	}
	return out
}
