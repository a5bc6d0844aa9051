// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a non-blocking operation cannot proceed immediately.
//
// For TryEnqueue: the queue is full (backpressure)
// For TryDequeue: the queue is empty (no data available)
//
// The blocking Enqueue and Dequeue never return it; they wait instead.
// ErrWouldBlock is a control flow signal, not a failure.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	if err := q.TryEnqueue(v); bq.IsWouldBlock(err) {
//	    q.Enqueue(v) // Park until a consumer frees a slot
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrCapacity reports that a queue could not be constructed.
//
// Returned when the capacity is below 1, above [MaxCapacity] (storage cannot
// be reserved), or smaller than the number of initial values. No queue is
// returned alongside it.
var ErrCapacity = errors.New("bq: invalid capacity")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
