// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

// Ensure implementation satisfies interface at compile time.
var (
	_ BlockingQueue[int] = (*Queue[int])(nil)
	_ Drainer[int]       = (*Queue[int])(nil)
)

// BlockingQueue is the combined producer-consumer interface for a bounded
// FIFO queue with blocking and non-blocking operations.
//
// Example:
//
//	q, _ := bq.NewQueue[int](1024)
//
//	// Blocking: waits for a free slot
//	q.Enqueue(42)
//
//	// Blocking: waits for an element
//	v := q.Dequeue()
//
//	// Non-blocking
//	if err := q.TryEnqueue(43); bq.IsWouldBlock(err) {
//	    // Handle full queue
//	}
type BlockingQueue[T any] interface {
	Producer[T]
	Consumer[T]
	TryProducer[T]
	TryConsumer[T]

	// Len returns an advisory snapshot of the element count.
	Len() int

	// Cap returns the maximum number of elements held at once.
	Cap() int
}

// Producer is the interface for blocking enqueue.
type Producer[T any] interface {
	// Enqueue appends an element at the tail.
	// Blocks while the queue is full; never drops or overwrites.
	Enqueue(elem T)
}

// Consumer is the interface for blocking dequeue.
type Consumer[T any] interface {
	// Dequeue removes and returns the oldest element.
	// Blocks while the queue is empty.
	Dequeue() T
}

// TryProducer enqueues without blocking.
type TryProducer[T any] interface {
	// TryEnqueue appends an element at the tail.
	// Returns ErrWouldBlock immediately if the queue is full.
	TryEnqueue(elem T) error
}

// TryConsumer dequeues without blocking.
type TryConsumer[T any] interface {
	// TryDequeue removes and returns the oldest element.
	// Returns (zero-value, ErrWouldBlock) immediately if the queue is empty.
	TryDequeue() (T, error)
}

// Drainer removes everything a queue holds.
//
// Call Drain after producers and consumers have been joined to tear the
// queue down:
//
//	wg.Wait()
//	leftover := q.Drain()
type Drainer[T any] interface {
	// Drain removes and returns all elements in FIFO order.
	Drain() []T
}
