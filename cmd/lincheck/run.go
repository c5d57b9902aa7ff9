// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"time"

	"code.hybscloud.com/lincheck"
	"code.hybscloud.com/lincheck/container"
	"code.hybscloud.com/lincheck/internal/config"
	"code.hybscloud.com/lincheck/internal/metrics"
	"code.hybscloud.com/lincheck/workload"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// runFlags mirrors the config fields settable from the command line.
// A flag overrides the config file only when given.
type runFlags struct {
	configPath    string
	container     string
	capacity      int
	threads       int
	ops           int
	maxValue      int64
	insertPercent int
	seed          uint64
	timeout       time.Duration
	cache         int
	historyOut    string
	metricsOut    string
}

func (a *app) runCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Record a randomized workload and check it",
		Long: `Run drives worker goroutines against the selected container, records
every operation, and checks the history against the matching sequential
model (stack for stack, queue for mpmc and spsc).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &cfg); err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.Log.Level = a.logLevel
			}
			if a.logFormat != "" {
				cfg.Log.Format = a.logFormat
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return a.run(cmd, cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML config file")
	fl.StringVar(&f.container, "container", "", "container under test: stack, mpmc or spsc")
	fl.IntVar(&f.capacity, "capacity", 0, "container capacity")
	fl.IntVar(&f.threads, "threads", 0, "worker goroutines")
	fl.IntVar(&f.ops, "ops", 0, "operations per worker")
	fl.Int64Var(&f.maxValue, "max-value", 0, "largest inserted value")
	fl.IntVar(&f.insertPercent, "insert-percent", 0, "percentage of insertions")
	fl.Uint64Var(&f.seed, "seed", 0, "workload seed")
	fl.DurationVar(&f.timeout, "timeout", 0, "search time limit, 0 for none")
	fl.IntVar(&f.cache, "cache", 0, "failure cache capacity, 0 disables")
	fl.StringVar(&f.historyOut, "history-out", "", "write the recorded history as JSON")
	fl.StringVar(&f.metricsOut, "metrics-out", "", "write Prometheus metrics in textfile format")
	return cmd
}

// apply copies the flags given on the command line into cfg. Choosing
// spsc forces the two-thread producer/consumer split it requires.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("container") {
		cfg.Container = f.container
		if !fl.Changed("insert-percent") && cfg.IsQueue() {
			cfg.Workload.InsertPercent = workload.DefaultQueueConfig().InsertPercent
		}
	}
	if cfg.Container == config.ContainerSPSC {
		if fl.Changed("threads") && f.threads != 2 {
			return fmt.Errorf("spsc runs exactly 2 threads, got --threads %d", f.threads)
		}
		cfg.Workload.Threads = 2
		cfg.Workload.Split = true
	}
	if fl.Changed("capacity") {
		cfg.Capacity = f.capacity
	}
	if fl.Changed("threads") {
		cfg.Workload.Threads = f.threads
	}
	if fl.Changed("ops") {
		cfg.Workload.OpsPerThread = f.ops
	}
	if fl.Changed("max-value") {
		cfg.Workload.MaxValue = f.maxValue
	}
	if fl.Changed("insert-percent") {
		cfg.Workload.InsertPercent = f.insertPercent
	}
	if fl.Changed("seed") {
		cfg.Workload.Seed = f.seed
	}
	if fl.Changed("timeout") {
		cfg.Check.Timeout = f.timeout
	}
	if fl.Changed("cache") {
		cfg.Check.CacheCapacity = f.cache
	}
	if fl.Changed("history-out") {
		cfg.Output.History = f.historyOut
	}
	if fl.Changed("metrics-out") {
		cfg.Output.Metrics = f.metricsOut
	}
	return nil
}

func (a *app) run(cmd *cobra.Command, cfg config.Config) error {
	logger, err := newLogger(a.stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	logger = logger.With(slog.String("run_id", uuid.NewString()))

	log := lincheck.NewLog(2 * cfg.Workload.Operations())
	capacity, err := record(cfg, log)
	if err != nil {
		return err
	}
	snap := log.Snapshot()
	logger.Info("workload recorded",
		slog.String("container", cfg.Container),
		slog.Int("capacity", capacity),
		slog.Int("threads", cfg.Workload.Threads),
		slog.Int("entries", snap.Len()),
		slog.Uint64("seed", cfg.Workload.Seed))

	if cfg.Output.History != "" {
		if err := writeHistory(cfg.Output.History, snap); err != nil {
			return err
		}
		logger.Info("history written", slog.String("path", cfg.Output.History))
	}

	model := cfg.Model()
	res := lincheck.NewTester(model).
		Timeout(cfg.Check.Timeout).
		CacheCapacity(cfg.Check.CacheCapacity).
		Logger(logger).
		Check(cmd.Context(), snap, model.Init(capacity))
	logger.Info("check finished",
		slog.String("outcome", res.Outcome().String()),
		slog.Duration("elapsed", res.Stats().Elapsed))

	if cfg.Output.Metrics != "" {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		m.ObserveSnapshot(snap)
		m.ObserveResult(model, res)
		if err := metrics.WriteTextfile(cfg.Output.Metrics, reg); err != nil {
			return err
		}
	}

	report(a.stdout, res)
	a.code = exitCode(res.Outcome())
	return nil
}

// record builds the configured container, probes it and runs the
// workload. It returns the effective container capacity.
func record(cfg config.Config, log *lincheck.Log) (int, error) {
	switch cfg.Container {
	case config.ContainerStack:
		s := container.BuildStack[lincheck.Value](container.New(cfg.Capacity))
		if err := workload.ProbeStack(s); err != nil {
			return 0, err
		}
		return s.Cap(), workload.RunStack(cfg.Workload, log, s)
	case config.ContainerMPMC, config.ContainerSPSC:
		b := container.New(cfg.Capacity)
		if cfg.Container == config.ContainerSPSC {
			b.SingleProducer().SingleConsumer()
		}
		q := container.BuildQueue[lincheck.Value](b)
		if err := workload.ProbeQueue(q); err != nil {
			return 0, err
		}
		return q.Cap(), workload.RunQueue(cfg.Workload, log, q)
	}
	return 0, fmt.Errorf("unknown container %q", cfg.Container)
}
