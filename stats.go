// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import "code.hybscloud.com/atomix"

// Stats is a snapshot of cumulative queue activity.
//
// Counters are monotonic over the queue's lifetime. They describe what
// happened, not what is held: use [Queue.Len] for the current element count.
type Stats struct {
	Enqueued      int64 // Elements appended (initial values included)
	Dequeued      int64 // Elements removed by Dequeue or TryDequeue
	Drained       int64 // Elements removed by Drain
	ProducerWaits int64 // Times a producer parked on a full queue
	ConsumerWaits int64 // Times a consumer parked on an empty queue
}

// Len returns the element count implied by the counters.
// Equals [Queue.Len] whenever no operation is in flight.
func (s Stats) Len() int64 {
	return s.Enqueued - s.Dequeued - s.Drained
}

// counters are written under the queue mutex and read without it.
type counters struct {
	enqueued      atomix.Int64
	dequeued      atomix.Int64
	drained       atomix.Int64
	producerWaits atomix.Int64
	consumerWaits atomix.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Enqueued:      c.enqueued.Load(),
		Dequeued:      c.dequeued.Load(),
		Drained:       c.drained.Load(),
		ProducerWaits: c.producerWaits.Load(),
		ConsumerWaits: c.consumerWaits.Load(),
	}
}
