// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"code.hybscloud.com/bq"
)

// =============================================================================
// Construction
// =============================================================================

func TestNewQueue(t *testing.T) {
	q, err := bq.NewQueue[int](4)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	if q.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", q.Cap())
	}
	if q.Len() != 0 {
		t.Fatalf("Len: got %d, want 0", q.Len())
	}
}

// TestNewQueueSeeded tests pre-filling with initial values.
func TestNewQueueSeeded(t *testing.T) {
	q, err := bq.NewQueue(20, 17, 4, 33)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	if q.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", q.Len())
	}
	if s := q.Stats(); s.Enqueued != 3 {
		t.Fatalf("Stats.Enqueued: got %d, want 3", s.Enqueued)
	}
	for _, want := range []int{17, 4, 33} {
		if got := q.Dequeue(); got != want {
			t.Fatalf("Dequeue: got %d, want %d", got, want)
		}
	}
}

func TestNewQueueInvalid(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		initial  []int
	}{
		{"Zero", 0, nil},
		{"Negative", -1, nil},
		{"TooLarge", bq.MaxCapacity + 1, nil},
		{"SeedOverflow", 2, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := bq.NewQueue(tt.capacity, tt.initial...)
			if !errors.Is(err, bq.ErrCapacity) {
				t.Fatalf("err: got %v, want ErrCapacity", err)
			}
			if q != nil {
				t.Fatal("queue returned alongside error")
			}
		})
	}
}

// TestNewQueueStorageTooLarge tests that a capacity within MaxCapacity
// whose element storage cannot be reserved fails with ErrCapacity.
func TestNewQueueStorageTooLarge(t *testing.T) {
	q, err := bq.NewQueue[[1 << 20]byte](1 << 29)
	if !errors.Is(err, bq.ErrCapacity) {
		t.Fatalf("err: got %v, want ErrCapacity", err)
	}
	if q != nil {
		t.Fatal("queue returned alongside error")
	}

	// 16 KiB elements: one slot past the byte limit.
	if _, err := bq.NewQueue[[1 << 14]byte](bq.MaxBytes>>14 + 1); !errors.Is(err, bq.ErrCapacity) {
		t.Fatalf("err at limit+1: got %v, want ErrCapacity", err)
	}

	// Zero-size elements are bounded only by MaxCapacity.
	if _, err := bq.NewQueue[struct{}](bq.MaxCapacity); err != nil {
		t.Fatalf("zero-size elements: %v", err)
	}
}

// TestCapacityExact tests that capacity is not rounded.
func TestCapacityExact(t *testing.T) {
	for _, c := range []int{1, 3, 5, 20} {
		q, err := bq.NewQueue[int](c)
		if err != nil {
			t.Fatalf("NewQueue(%d): %v", c, err)
		}
		for i := range c {
			if err := q.TryEnqueue(i); err != nil {
				t.Fatalf("cap %d: TryEnqueue(%d): %v", c, i, err)
			}
		}
		if err := q.TryEnqueue(c); !errors.Is(err, bq.ErrWouldBlock) {
			t.Fatalf("cap %d: TryEnqueue on full: got %v, want ErrWouldBlock", c, err)
		}
		if q.Len() != c {
			t.Fatalf("cap %d: Len got %d", c, q.Len())
		}
	}
}

// =============================================================================
// Ordering
// =============================================================================

func TestFIFOOrder(t *testing.T) {
	q, _ := bq.NewQueue[int](64)

	for i := range 64 {
		q.Enqueue(i * 3)
	}
	for i := range 64 {
		if got := q.Dequeue(); got != i*3 {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, got, i*3)
		}
	}
}

// TestFIFOOrderWrapped tests ordering across many ring wraparounds.
func TestFIFOOrderWrapped(t *testing.T) {
	q, _ := bq.NewQueue[int](5)

	next, want := 0, 0
	for round := range 50 {
		n := round%5 + 1
		for range n {
			q.Enqueue(next)
			next++
		}
		for range n {
			if got := q.Dequeue(); got != want {
				t.Fatalf("round %d: got %d, want %d", round, got, want)
			}
			want++
		}
	}
}

// TestScenarioCapacityFour walks the documented capacity-4 scenario.
func TestScenarioCapacityFour(t *testing.T) {
	q, err := bq.NewQueue[int](4)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}

	for i := range 4 {
		q.Enqueue(i)
	}
	if q.Len() != 4 {
		t.Fatalf("Len after 4 enqueues: got %d, want 4", q.Len())
	}

	if got := q.Dequeue(); got != 0 {
		t.Fatalf("Dequeue: got %d, want 0", got)
	}
	if q.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", q.Len())
	}

	if got := q.Dequeue(); got != 1 {
		t.Fatalf("Dequeue: got %d, want 1", got)
	}
	if q.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", q.Len())
	}

	done := make(chan struct{})
	go func() {
		q.Enqueue(4)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked with free slots")
	}
	if q.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", q.Len())
	}

	if got, want := q.Drain(), []int{2, 3, 4}; !slices.Equal(got, want) {
		t.Fatalf("contents: got %v, want %v", got, want)
	}
}

// TestRemoveLastElement tests the empty transition on the last removal.
func TestRemoveLastElement(t *testing.T) {
	q, _ := bq.NewQueue[int](3)

	q.Enqueue(1)
	q.Enqueue(2)
	q.Dequeue()
	if got := q.Dequeue(); got != 2 {
		t.Fatalf("Dequeue: got %d, want 2", got)
	}
	if q.Len() != 0 {
		t.Fatalf("Len: got %d, want 0", q.Len())
	}
	if _, err := q.TryDequeue(); !errors.Is(err, bq.ErrWouldBlock) {
		t.Fatalf("TryDequeue on empty: got %v, want ErrWouldBlock", err)
	}

	q.Enqueue(3)
	if got := q.Dequeue(); got != 3 {
		t.Fatalf("Dequeue after refill: got %d, want 3", got)
	}
}

// =============================================================================
// Non-blocking Operations
// =============================================================================

func TestTryOperations(t *testing.T) {
	q, _ := bq.NewQueue[string](2)

	v, err := q.TryDequeue()
	if !bq.IsWouldBlock(err) {
		t.Fatalf("TryDequeue on empty: got %v, want ErrWouldBlock", err)
	}
	if v != "" {
		t.Fatalf("TryDequeue on empty: got %q, want zero value", v)
	}
	if !bq.IsSemantic(err) || !bq.IsNonFailure(err) {
		t.Fatal("ErrWouldBlock should classify as semantic non-failure")
	}

	if err := q.TryEnqueue("a"); err != nil {
		t.Fatalf("TryEnqueue: %v", err)
	}
	if err := q.TryEnqueue("b"); err != nil {
		t.Fatalf("TryEnqueue: %v", err)
	}
	if err := q.TryEnqueue("c"); !bq.IsWouldBlock(err) {
		t.Fatalf("TryEnqueue on full: got %v, want ErrWouldBlock", err)
	}

	for _, want := range []string{"a", "b"} {
		got, err := q.TryDequeue()
		if err != nil {
			t.Fatalf("TryDequeue: %v", err)
		}
		if got != want {
			t.Fatalf("TryDequeue: got %q, want %q", got, want)
		}
	}
}

func TestErrorClassification(t *testing.T) {
	if bq.IsWouldBlock(bq.ErrCapacity) {
		t.Fatal("ErrCapacity classified as would-block")
	}
	if bq.IsNonFailure(bq.ErrCapacity) {
		t.Fatal("ErrCapacity classified as non-failure")
	}
	if !bq.IsNonFailure(nil) {
		t.Fatal("nil should be a non-failure")
	}
}

// =============================================================================
// Teardown and Stats
// =============================================================================

// TestDrainSeeded tests teardown of an unused seeded queue.
func TestDrainSeeded(t *testing.T) {
	q, err := bq.NewQueue(20, 5, 12, 38)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}

	got := q.Drain()
	if !slices.Equal(got, []int{5, 12, 38}) {
		t.Fatalf("Drain: got %v", got)
	}
	if q.Len() != 0 {
		t.Fatalf("Len after Drain: got %d, want 0", q.Len())
	}
	if len(q.Drain()) != 0 {
		t.Fatal("second Drain returned elements")
	}

	// Still usable
	q.Enqueue(1)
	if got := q.Dequeue(); got != 1 {
		t.Fatalf("Dequeue after Drain: got %d, want 1", got)
	}
}

func TestStats(t *testing.T) {
	q, _ := bq.NewQueue(4, 1, 2)

	q.Enqueue(3)
	_ = q.TryEnqueue(4)
	_ = q.TryEnqueue(5) // Full: not counted
	q.Dequeue()
	_, _ = q.TryDequeue()
	q.Drain()

	s := q.Stats()
	want := bq.Stats{Enqueued: 4, Dequeued: 2, Drained: 2}
	if s != want {
		t.Fatalf("Stats: got %+v, want %+v", s, want)
	}
	if s.Len() != 0 {
		t.Fatalf("Stats.Len: got %d, want 0", s.Len())
	}
}

// =============================================================================
// Builder
// =============================================================================

func TestBuilderAPI(t *testing.T) {
	tests := []struct {
		name string
		b    *bq.Builder
	}{
		{"Default", bq.New(3)},
		{"Broadcast", bq.New(3).Broadcast()},
		{"Spin", bq.New(3).Spin(4)},
		{"SpinDefault", bq.New(3).Spin(0)},
		{"BroadcastSpin", bq.New(3).Broadcast().Spin(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := bq.Build(tt.b, 10, 20)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if q.Cap() != 3 {
				t.Fatalf("Cap: got %d, want 3", q.Cap())
			}
			q.Enqueue(30)
			if err := q.TryEnqueue(40); !bq.IsWouldBlock(err) {
				t.Fatalf("TryEnqueue on full: got %v", err)
			}
			for _, want := range []int{10, 20, 30} {
				if got := q.Dequeue(); got != want {
					t.Fatalf("Dequeue: got %d, want %d", got, want)
				}
			}
		})
	}
}

func TestBuildInvalid(t *testing.T) {
	if _, err := bq.Build[int](bq.New(0).Broadcast()); !errors.Is(err, bq.ErrCapacity) {
		t.Fatalf("Build(0): got %v, want ErrCapacity", err)
	}
}
