// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bq provides a bounded blocking FIFO queue.
//
// [Queue] is shared by any number of producer and consumer goroutines.
// Producers block while the queue is full, consumers block while it is
// empty, and values come out in exactly the order they went in.
//
// # Quick Start
//
// Direct constructor (recommended for most cases):
//
//	q, err := bq.NewQueue[int](20)
//	q, err := bq.NewQueue(20, 7, 11, 3) // Pre-filled with 7, 11, 3
//
// Builder API for wake policy and spinning:
//
//	q, err := bq.Build[Event](bq.New(1024))                 // Signal one waiter
//	q, err := bq.Build[Event](bq.New(1024).Broadcast())     // Wake all waiters
//	q, err := bq.Build[Event](bq.New(1024).Spin(0))         // Spin, then park
//
// # Basic Usage
//
//	q, _ := bq.NewQueue[int](4)
//
//	// Producer (blocks while full)
//	q.Enqueue(42)
//
//	// Consumer (blocks while empty)
//	v := q.Dequeue()
//
//	// Non-blocking variants
//	if err := q.TryEnqueue(43); bq.IsWouldBlock(err) {
//	    // Queue is full
//	}
//	v, err := q.TryDequeue()
//	if bq.IsWouldBlock(err) {
//	    // Queue is empty
//	}
//
// # Producer/Consumer
//
//	q, _ := bq.NewQueue[int](20)
//	var wg sync.WaitGroup
//
//	wg.Go(func() { // Producer
//	    for i := range 50 {
//	        q.Enqueue(i)
//	    }
//	})
//	wg.Go(func() { // Consumer
//	    for range 50 {
//	        process(q.Dequeue())
//	    }
//	})
//
//	wg.Wait()
//	q.Drain() // Tear down: discard whatever is left
//
// # Blocking Semantics
//
// Queue is a monitor. A single mutex guards the elements; producers wait on
// a not-full condition and consumers on a not-empty condition, both bound
// to that mutex. A waiting goroutine holds nothing else: it releases the
// mutex while parked and reacquires it before re-checking its condition.
// The check is always a loop, so a goroutine that wakes to find the slot
// taken by another simply waits again.
//
// After a successful operation the mutex is released first, then one
// goroutine of the opposite role is woken. [Builder.Broadcast] wakes all of
// them instead.
//
// Blocking operations cannot be cancelled and have no timeout. Use
// TryEnqueue and TryDequeue to poll with your own deadline.
//
// # Error Handling
//
// Construction returns [ErrCapacity] for a capacity below 1, above
// [MaxCapacity], or too small for the initial values:
//
//	q, err := bq.NewQueue[int](0)
//	errors.Is(err, bq.ErrCapacity) // true
//
// Non-blocking operations return [ErrWouldBlock], sourced from
// [code.hybscloud.com/iox]:
//
//	bq.IsWouldBlock(err)  // true if queue full/empty
//	bq.IsSemantic(err)    // true if control flow signal
//	bq.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// Internal invariant violations (popping an empty ring, pushing to a full
// one) panic. They are unreachable through the public API.
//
// # Capacity and Length
//
// Capacity is exact; it is never rounded:
//
//	q, _ := bq.NewQueue[int](3)  // Cap() == 3
//	q, _ := bq.NewQueue[int](20) // Cap() == 20
//
// Len returns a snapshot under the mutex. It may be stale on return and is
// meant for diagnostics, never for deciding whether an operation will
// block. [Queue.Stats] reports cumulative counters without locking.
//
// # Teardown
//
// The garbage collector reclaims a queue once unreferenced. [Queue.Drain]
// removes the remaining elements and clears their slots so referenced
// objects are released even while the queue itself is still reachable.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for lock-free readable counters,
// and [code.hybscloud.com/spin] for CPU pause instructions.
package bq
