// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command prodcons runs producers and consumers over one bounded queue,
// drains it, and prints Success once every value is accounted for.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"code.hybscloud.com/bq"
	"code.hybscloud.com/bq/internal/config"
	"code.hybscloud.com/bq/internal/driver"
	"code.hybscloud.com/bq/internal/logging"
	"code.hybscloud.com/bq/internal/metrics"
	"code.hybscloud.com/bq/internal/randsrc"
)

var (
	// Version information (set during build)
	version = "dev"

	configFile = flag.String("config", os.Getenv("PRODCONS_CONFIG_FILE"), "Path to configuration file")
)

func main() {
	flag.Parse()

	if err := run(*configFile, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "prodcons: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, stdout io.Writer) error {
	cfg, err := config.NewLoader().Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer logger.Sync()

	logger.Info("Starting prodcons",
		zap.String("version", version),
		zap.String("configFile", configPath),
	)

	src := randsrc.New(cfg.Driver.Seed, cfg.Driver.MaxValue)
	seeded := src.Values(cfg.Queue.SeedCount)

	q, err := bq.Build(queueBuilder(cfg.Queue), seeded...)
	if err != nil {
		return errors.Wrap(err, "failed to create queue")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(metrics.NewQueueCollector("prodcons", q))
	collector := metrics.NewCollector(registry)

	if cfg.Metrics.Enabled {
		srv := startMetricsServer(cfg.Metrics.Addr, registry, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Metrics server shutdown failed", zap.Error(err))
			}
		}()
	}

	d, err := driver.New(driver.Config{
		Producers:      cfg.Driver.Producers,
		Consumers:      cfg.Driver.Consumers,
		OpsPerProducer: cfg.Driver.OpsPerProducer,
		Seeded:         seeded,
	}, q, src, logger, collector)
	if err != nil {
		return err
	}

	logger.Info("Queue ready",
		zap.Int("capacity", q.Cap()),
		zap.Ints("seeded", seeded),
		zap.Int("producers", cfg.Driver.Producers),
		zap.Int("consumers", cfg.Driver.Consumers),
		zap.Int64("seed", src.Seed()),
	)

	report, err := d.Run()
	if err != nil {
		logger.Error("Run failed", zap.Error(err), zap.Int64("seed", src.Seed()))
		return err
	}

	logger.Info("Run complete",
		zap.Int("produced", report.Produced),
		zap.Int("consumed", report.Consumed),
		zap.Ints("leftover", report.Leftover),
		zap.Int64("producerWaits", report.Stats.ProducerWaits),
		zap.Int64("consumerWaits", report.Stats.ConsumerWaits),
		zap.Duration("elapsed", report.Elapsed),
	)

	fmt.Fprintln(stdout, "Success")
	return nil
}

func queueBuilder(cfg config.QueueConfig) *bq.Builder {
	b := bq.New(cfg.Capacity)
	if cfg.Broadcast {
		b.Broadcast()
	}
	if cfg.Spin > 0 {
		b.Spin(cfg.Spin)
	}
	return b
}

// newMetricsMux routes /metrics to registry and /health to a liveness probe.
func newMetricsMux(registry *prometheus.Registry, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Debug("Health response not written", zap.Error(err))
		}
	})
	return mux
}

// startMetricsServer serves registry on addr until Shutdown.
func startMetricsServer(addr string, registry *prometheus.Registry, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:         addr,
		Handler:      newMetricsMux(registry, logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting metrics server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
