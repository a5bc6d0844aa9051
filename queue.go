// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"sync"

	"code.hybscloud.com/spin"
)

// Queue is a bounded blocking FIFO queue for any number of producers and
// consumers.
//
// Queue is a monitor: one mutex guards the element storage, and two
// condition variables bound to it park producers while the queue is full
// (notFull) and consumers while it is empty (notEmpty). A parked goroutine
// releases the mutex, and re-checks its condition in a loop after every
// wakeup, so spurious or stolen wakeups never let an operation proceed on a
// full or empty queue.
//
// All operations are linearizable. Values are returned in exactly the order
// they were appended; none is dropped, overwritten, or returned twice.
//
// Memory: capacity slots, allocated once at construction
type Queue[T any] struct {
	mu        sync.Mutex
	notFull   sync.Cond
	notEmpty  sync.Cond
	ring      ring[T]
	broadcast bool
	spin      int
	stats     counters
}

// NewQueue creates a queue holding at most capacity elements, pre-filled
// with initial in order.
//
// Capacity is exact; it is not rounded. Returns [ErrCapacity] if capacity is
// below 1 or above [MaxCapacity], or if initial does not fit.
//
// NewQueue is equivalent to Build[T](New(capacity), initial...).
func NewQueue[T any](capacity int, initial ...T) (*Queue[T], error) {
	return Build[T](New(capacity), initial...)
}

func newQueue[T any](opts Options) *Queue[T] {
	q := &Queue[T]{
		ring:      newRing[T](opts.capacity),
		broadcast: opts.broadcast,
		spin:      opts.spin,
	}
	q.notFull.L = &q.mu
	q.notEmpty.L = &q.mu
	return q
}

// Enqueue appends elem at the tail, blocking while the queue is full.
//
// After the element is stored and the mutex released, one waiting consumer
// is woken (every waiting consumer under the Broadcast policy).
func (q *Queue[T]) Enqueue(elem T) {
	if q.spin > 0 && q.spinEnqueue(elem) {
		return
	}

	q.mu.Lock()
	for q.ring.full() {
		q.stats.producerWaits.Add(1)
		q.notFull.Wait()
	}
	q.ring.push(elem)
	q.stats.enqueued.Add(1)
	q.mu.Unlock()

	q.wake(&q.notEmpty)
}

// Dequeue removes and returns the head element, blocking while the queue is
// empty.
//
// After the element is removed and the mutex released, one waiting producer
// is woken (every waiting producer under the Broadcast policy).
func (q *Queue[T]) Dequeue() T {
	if q.spin > 0 {
		if elem, ok := q.spinDequeue(); ok {
			return elem
		}
	}

	q.mu.Lock()
	for q.ring.empty() {
		q.stats.consumerWaits.Add(1)
		q.notEmpty.Wait()
	}
	elem := q.ring.pop()
	q.stats.dequeued.Add(1)
	q.mu.Unlock()

	q.wake(&q.notFull)
	return elem
}

// TryEnqueue appends elem at the tail without blocking.
// Returns ErrWouldBlock if the queue is full.
func (q *Queue[T]) TryEnqueue(elem T) error {
	q.mu.Lock()
	if q.ring.full() {
		q.mu.Unlock()
		return ErrWouldBlock
	}
	q.ring.push(elem)
	q.stats.enqueued.Add(1)
	q.mu.Unlock()

	q.wake(&q.notEmpty)
	return nil
}

// TryDequeue removes and returns the head element without blocking.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Queue[T]) TryDequeue() (T, error) {
	q.mu.Lock()
	if q.ring.empty() {
		q.mu.Unlock()
		var zero T
		return zero, ErrWouldBlock
	}
	elem := q.ring.pop()
	q.stats.dequeued.Add(1)
	q.mu.Unlock()

	q.wake(&q.notFull)
	return elem, nil
}

// Drain removes and returns every element in FIFO order, leaving the queue
// empty. All parked producers are woken since every slot is now free.
//
// Drain is the teardown path: call it once producers and consumers are done
// to discard what remains and release references held by the slots. The
// queue stays usable afterwards.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	elems := q.ring.drain()
	q.stats.drained.Add(int64(len(elems)))
	q.mu.Unlock()

	if len(elems) > 0 {
		q.notFull.Broadcast()
	}
	return elems
}

// Len returns the number of elements currently held.
//
// The value is a snapshot that may be stale as soon as it is returned when
// other goroutines use the queue. Use it for diagnostics, never to decide
// whether Enqueue or Dequeue would block.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ring.len()
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return q.ring.cap()
}

// Stats returns cumulative activity counters without taking the mutex.
func (q *Queue[T]) Stats() Stats {
	return q.stats.snapshot()
}

func (q *Queue[T]) wake(c *sync.Cond) {
	if q.broadcast {
		c.Broadcast()
		return
	}
	c.Signal()
}

// spinEnqueue retries TryEnqueue up to q.spin times before the caller parks.
func (q *Queue[T]) spinEnqueue(elem T) bool {
	sw := spin.Wait{}
	for range q.spin {
		if q.TryEnqueue(elem) == nil {
			return true
		}
		sw.Once()
	}
	return false
}

// spinDequeue retries TryDequeue up to q.spin times before the caller parks.
func (q *Queue[T]) spinDequeue() (T, bool) {
	sw := spin.Wait{}
	for range q.spin {
		if elem, err := q.TryDequeue(); err == nil {
			return elem, true
		}
		sw.Once()
	}
	var zero T
	return zero, false
}
