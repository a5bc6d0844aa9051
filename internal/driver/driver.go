// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package driver runs producer and consumer workers against one shared
// queue and checks that every value came out exactly as often as it went in.
package driver

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/bq"
	"code.hybscloud.com/bq/internal/metrics"
)

// ErrValuesLost reports that the values removed from the queue do not
// account for the values put into it.
var ErrValuesLost = errors.New("driver: values lost or duplicated")

// Queue is the shared queue as seen by the workers.
type Queue interface {
	bq.BlockingQueue[int]
	bq.Drainer[int]
	Stats() bq.Stats
}

// ValueSource supplies the values producers enqueue.
type ValueSource interface {
	Next() int
}

// Observer receives one call per worker event. Waited is passed
// metrics.RoleProducer or metrics.RoleConsumer. Implementations must be safe
// for concurrent use.
type Observer interface {
	Produced(worker int)
	Consumed(worker int)
	Waited(role string)
}

// Config shapes a run.
type Config struct {
	Producers      int
	Consumers      int
	OpsPerProducer int
	Seeded         []int // Values the queue held before Run
}

// Report summarises a finished run.
type Report struct {
	Seeded   int
	Produced int
	Consumed int
	Leftover []int // Removed by the teardown Drain, in FIFO order
	Stats    bq.Stats
	Elapsed  time.Duration
}

// Driver runs one producer/consumer session.
type Driver struct {
	cfg    Config
	queue  Queue
	src    ValueSource
	logger *zap.Logger
	obs    Observer
}

// New creates a driver. A nil logger or observer discards events.
func New(cfg Config, queue Queue, src ValueSource, logger *zap.Logger, obs Observer) (*Driver, error) {
	switch {
	case cfg.Producers < 1:
		return nil, errors.Errorf("driver: need at least one producer, got %d", cfg.Producers)
	case cfg.Consumers < 1:
		return nil, errors.Errorf("driver: need at least one consumer, got %d", cfg.Consumers)
	case cfg.OpsPerProducer < 0:
		return nil, errors.Errorf("driver: negative operation count %d", cfg.OpsPerProducer)
	case queue == nil || src == nil:
		return nil, errors.New("driver: queue and value source are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Driver{cfg: cfg, queue: queue, src: src, logger: logger, obs: obs}, nil
}

// Run starts every worker, waits for all of them, then drains the queue.
//
// Producers each enqueue OpsPerProducer values; consumers together dequeue
// exactly Producers*OpsPerProducer values, split as evenly as possible.
// Seeded values are consumed first, so the same number of produced values
// remain for the teardown Drain. Run returns ErrValuesLost (wrapped) if the
// counts or sums on both sides differ.
func (d *Driver) Run() (Report, error) {
	start := time.Now()
	total := d.cfg.Producers * d.cfg.OpsPerProducer

	producedSums := make([]int64, d.cfg.Producers)
	consumedSums := make([]int64, d.cfg.Consumers)
	consumedCounts := make([]int, d.cfg.Consumers)

	var g errgroup.Group
	for id := range d.cfg.Producers {
		g.Go(func() error {
			producedSums[id] = d.produce(id)
			return nil
		})
	}
	for id := range d.cfg.Consumers {
		quota := total / d.cfg.Consumers
		if id < total%d.cfg.Consumers {
			quota++
		}
		g.Go(func() error {
			consumedSums[id] = d.consume(id, quota)
			consumedCounts[id] = quota
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, errors.Wrap(err, "driver: worker failed")
	}

	leftover := d.queue.Drain()
	d.logger.Debug("queue drained", zap.Ints("values", leftover))

	report := Report{
		Seeded:   len(d.cfg.Seeded),
		Produced: total,
		Leftover: leftover,
		Stats:    d.queue.Stats(),
		Elapsed:  time.Since(start),
	}
	for _, n := range consumedCounts {
		report.Consumed += n
	}

	in := sum(d.cfg.Seeded)
	for _, s := range producedSums {
		in += s
	}
	out := sum(leftover)
	for _, s := range consumedSums {
		out += s
	}

	if report.Seeded+report.Produced != report.Consumed+len(leftover) || in != out {
		return report, errors.Wrapf(ErrValuesLost,
			"in: %d values summing to %d, out: %d values summing to %d",
			report.Seeded+report.Produced, in, report.Consumed+len(leftover), out)
	}
	return report, nil
}

// produce enqueues OpsPerProducer values and returns their sum.
func (d *Driver) produce(id int) int64 {
	var total int64
	for range d.cfg.OpsPerProducer {
		v := d.src.Next()
		if err := d.queue.TryEnqueue(v); bq.IsWouldBlock(err) {
			d.logger.Debug("buffer full", zap.Int("producer", id))
			d.obs.Waited(metrics.RoleProducer)
			d.queue.Enqueue(v)
		}
		total += int64(v)
		d.obs.Produced(id)
		d.logger.Debug("added", zap.Int("producer", id), zap.Int("value", v))
	}
	return total
}

// consume dequeues quota values and returns their sum.
func (d *Driver) consume(id, quota int) int64 {
	var total int64
	for range quota {
		v, err := d.queue.TryDequeue()
		if bq.IsWouldBlock(err) {
			d.logger.Debug("buffer empty", zap.Int("consumer", id))
			d.obs.Waited(metrics.RoleConsumer)
			v = d.queue.Dequeue()
		}
		total += int64(v)
		d.obs.Consumed(id)
		d.logger.Debug("removed", zap.Int("consumer", id), zap.Int("value", v))
	}
	return total
}

func sum(vs []int) int64 {
	var s int64
	for _, v := range vs {
		s += int64(v)
	}
	return s
}

type nopObserver struct{}

func (nopObserver) Produced(int)  {}
func (nopObserver) Consumed(int)  {}
func (nopObserver) Waited(string) {}
