// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes demo driver and queue activity to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"code.hybscloud.com/bq"
)

// Roles label wait events.
const (
	RoleProducer = "producer"
	RoleConsumer = "consumer"
)

// Collector holds the driver's Prometheus collectors.
type Collector struct {
	valuesProduced *prometheus.CounterVec
	valuesConsumed *prometheus.CounterVec
	waits          *prometheus.CounterVec
}

// NewCollector creates and registers the driver collectors.
func NewCollector(registry prometheus.Registerer) *Collector {
	factory := promauto.With(registry)

	return &Collector{
		valuesProduced: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prodcons_values_produced_total",
				Help: "Total number of values enqueued by each producer",
			},
			[]string{"worker"},
		),
		valuesConsumed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prodcons_values_consumed_total",
				Help: "Total number of values dequeued by each consumer",
			},
			[]string{"worker"},
		),
		waits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prodcons_waits_total",
				Help: "Total number of times a worker found the queue full or empty and had to block",
			},
			[]string{"role"},
		),
	}
}

// Produced counts one value enqueued by producer worker.
func (c *Collector) Produced(worker int) {
	c.valuesProduced.WithLabelValues(strconv.Itoa(worker)).Inc()
}

// Consumed counts one value dequeued by consumer worker.
func (c *Collector) Consumed(worker int) {
	c.valuesConsumed.WithLabelValues(strconv.Itoa(worker)).Inc()
}

// Waited counts one blocking wait by a worker of the given role.
func (c *Collector) Waited(role string) {
	c.waits.WithLabelValues(role).Inc()
}

// StatsSource is the queue view exported by QueueCollector.
type StatsSource interface {
	Stats() bq.Stats
	Len() int
	Cap() int
}

// QueueCollector reads queue counters at scrape time.
type QueueCollector struct {
	src StatsSource

	enqueued *prometheus.Desc
	dequeued *prometheus.Desc
	drained  *prometheus.Desc
	waits    *prometheus.Desc
	length   *prometheus.Desc
	capacity *prometheus.Desc
}

var _ prometheus.Collector = (*QueueCollector)(nil)

// NewQueueCollector creates a collector for src labelled queue=name.
// Register it with the same registry as the driver collectors.
func NewQueueCollector(name string, src StatsSource) *QueueCollector {
	labels := prometheus.Labels{"queue": name}
	return &QueueCollector{
		src:      src,
		enqueued: prometheus.NewDesc("bq_enqueued_total", "Total number of elements appended to the queue", nil, labels),
		dequeued: prometheus.NewDesc("bq_dequeued_total", "Total number of elements removed by consumers", nil, labels),
		drained:  prometheus.NewDesc("bq_drained_total", "Total number of elements discarded by teardown", nil, labels),
		waits:    prometheus.NewDesc("bq_waits_total", "Total number of times a caller parked on the queue", []string{"role"}, labels),
		length:   prometheus.NewDesc("bq_length", "Number of elements currently held", nil, labels),
		capacity: prometheus.NewDesc("bq_capacity", "Maximum number of elements held at once", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *QueueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.enqueued
	ch <- c.dequeued
	ch <- c.drained
	ch <- c.waits
	ch <- c.length
	ch <- c.capacity
}

// Collect implements prometheus.Collector.
func (c *QueueCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.enqueued, prometheus.CounterValue, float64(s.Enqueued))
	ch <- prometheus.MustNewConstMetric(c.dequeued, prometheus.CounterValue, float64(s.Dequeued))
	ch <- prometheus.MustNewConstMetric(c.drained, prometheus.CounterValue, float64(s.Drained))
	ch <- prometheus.MustNewConstMetric(c.waits, prometheus.CounterValue, float64(s.ProducerWaits), RoleProducer)
	ch <- prometheus.MustNewConstMetric(c.waits, prometheus.CounterValue, float64(s.ConsumerWaits), RoleConsumer)
	ch <- prometheus.MustNewConstMetric(c.length, prometheus.GaugeValue, float64(c.src.Len()))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(c.src.Cap()))
}
