// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package workload

import (
	"errors"
	"fmt"
)

// Config describes a randomized workload.
type Config struct {
	// Threads is the number of worker goroutines.
	Threads int `json:"threads" yaml:"threads"`

	// OpsPerThread is the number of operations each worker issues.
	OpsPerThread int `json:"ops_per_thread" yaml:"ops_per_thread"`

	// MaxValue bounds inserted values to [0, MaxValue].
	MaxValue int64 `json:"max_value" yaml:"max_value"`

	// InsertPercent is the probability, in percent, that an operation is an
	// insertion (push or enqueue). The rest are removals.
	InsertPercent int `json:"insert_percent" yaml:"insert_percent"`

	// Seed seeds every worker's generator together with its thread number.
	Seed uint64 `json:"seed" yaml:"seed"`

	// MaxThreads limits how many workers run at once. Zero means all.
	MaxThreads int `json:"max_threads" yaml:"max_threads"`

	// Split makes even-numbered threads insert only and odd-numbered
	// threads remove only. Single-producer single-consumer containers
	// need it.
	Split bool `json:"split" yaml:"split"`
}

// DefaultStackConfig returns the stack experiment: 4 workers of 70000
// operations each, 30% pushes, values in [0, 20].
func DefaultStackConfig() Config {
	return Config{
		Threads:       4,
		OpsPerThread:  70000,
		MaxValue:      20,
		InsertPercent: 30,
		Seed:          1,
	}
}

// DefaultQueueConfig returns the queue experiment: like the stack
// experiment with 20% enqueues.
func DefaultQueueConfig() Config {
	c := DefaultStackConfig()
	c.InsertPercent = 20
	return c
}

// Operations returns the total number of operations the workload issues.
func (c Config) Operations() int {
	return c.Threads * c.OpsPerThread
}

var (
	errThreads       = errors.New("threads must be >= 1")
	errOpsPerThread  = errors.New("ops_per_thread must be >= 1")
	errMaxValue      = errors.New("max_value must be >= 0")
	errInsertPercent = errors.New("insert_percent must be in [0, 100]")
	errMaxThreads    = errors.New("max_threads must be >= 0")
	errSplit         = errors.New("split needs at least 2 threads")
)

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	var errs []error
	if c.Threads < 1 {
		errs = append(errs, errThreads)
	}
	if c.OpsPerThread < 1 {
		errs = append(errs, errOpsPerThread)
	}
	if c.MaxValue < 0 {
		errs = append(errs, errMaxValue)
	}
	if c.InsertPercent < 0 || c.InsertPercent > 100 {
		errs = append(errs, errInsertPercent)
	}
	if c.MaxThreads < 0 {
		errs = append(errs, errMaxThreads)
	}
	if c.Split && c.Threads < 2 {
		errs = append(errs, errSplit)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("workload: %w", err)
	}
	return nil
}
