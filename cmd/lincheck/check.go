// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"code.hybscloud.com/lincheck"
	"code.hybscloud.com/lincheck/internal/config"
	"github.com/spf13/cobra"
)

func (a *app) checkCmd() *cobra.Command {
	var (
		historyPath string
		modelName   string
		capacity    int
		timeout     time.Duration
		cache       int
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a history saved by run --history-out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, ok := lincheck.ModelByName(modelName)
			if !ok {
				return fmt.Errorf("unknown model %q: want stack or queue", modelName)
			}
			if capacity < 1 {
				return errors.New("--capacity must be >= 1")
			}

			defaults := config.Default().Log
			level, format := a.logLevel, a.logFormat
			if level == "" {
				level = defaults.Level
			}
			if format == "" {
				format = defaults.Format
			}
			logger, err := newLogger(a.stderr, level, format)
			if err != nil {
				return err
			}

			snap, err := readHistory(historyPath)
			if err != nil {
				return err
			}
			logger.Info("history loaded",
				slog.String("path", historyPath),
				slog.Int("entries", snap.Len()))

			res := lincheck.NewTester(model).
				Timeout(timeout).
				CacheCapacity(cache).
				Logger(logger).
				Check(cmd.Context(), snap, model.Init(capacity))

			report(a.stdout, res)
			a.code = exitCode(res.Outcome())
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&historyPath, "history", "", "history JSON file")
	fl.StringVar(&modelName, "model", "stack", "sequential model: stack or queue")
	fl.IntVar(&capacity, "capacity", 0, "container capacity")
	fl.DurationVar(&timeout, "timeout", time.Hour, "search time limit, 0 for none")
	fl.IntVar(&cache, "cache", lincheck.DefaultCacheCapacity, "failure cache capacity, 0 disables")
	_ = cmd.MarkFlagRequired("history")
	_ = cmd.MarkFlagRequired("capacity")
	return cmd
}
