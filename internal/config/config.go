// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the configuration of the lincheck command.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"code.hybscloud.com/lincheck"
	"code.hybscloud.com/lincheck/workload"
	"gopkg.in/yaml.v3"
)

// Container names accepted in Config.Container.
const (
	ContainerStack = "stack"
	ContainerMPMC  = "mpmc"
	ContainerSPSC  = "spsc"
)

// Config is the configuration of a recording and checking run.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after Load.
type Config struct {
	// Container selects the container under test: stack, mpmc or spsc.
	Container string `json:"container" yaml:"container"`

	// Capacity bounds the container and the sequential model.
	Capacity int `json:"capacity" yaml:"capacity"`

	// Workload is the randomized workload. Its InsertPercent defaults to
	// the stack or queue experiment depending on Container.
	Workload workload.Config `json:"workload" yaml:"workload"`

	// Check contains search settings.
	Check CheckConfig `json:"check" yaml:"check"`

	// Log contains logging settings.
	Log LogConfig `json:"log" yaml:"log"`

	// Output contains optional output files.
	Output OutputConfig `json:"output" yaml:"output"`
}

// CheckConfig contains search settings.
type CheckConfig struct {
	Timeout       time.Duration `json:"timeout" yaml:"timeout"`
	CacheCapacity int           `json:"cache_capacity" yaml:"cache_capacity"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text or json
}

// OutputConfig contains output file paths. Empty means no output.
type OutputConfig struct {
	History string `json:"history" yaml:"history"`
	Metrics string `json:"metrics" yaml:"metrics"`
}

// Default returns the stack experiment: four workers, 70000 operations
// each, capacity 1024 and a one hour search limit.
func Default() Config {
	return Config{
		Container: ContainerStack,
		Capacity:  1024,
		Workload:  workload.DefaultStackConfig(),
		Check: CheckConfig{
			Timeout:       time.Hour,
			CacheCapacity: lincheck.DefaultCacheCapacity,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config file: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("load config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// decode applies a YAML document to c. A queue container without an
// explicit insert_percent gets the queue experiment's mix.
func (c *Config) decode(data []byte) error {
	var probe struct {
		Workload map[string]any `yaml:"workload"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	if _, ok := probe.Workload["insert_percent"]; !ok && c.IsQueue() {
		c.Workload.InsertPercent = workload.DefaultQueueConfig().InsertPercent
	}
	return nil
}

// IsQueue reports whether Container names a queue.
func (c Config) IsQueue() bool {
	return c.Container == ContainerMPMC || c.Container == ContainerSPSC
}

// Model returns the sequential model matching Container.
func (c Config) Model() lincheck.Model {
	if c.IsQueue() {
		return lincheck.Queue
	}
	return lincheck.Stack
}

var (
	errContainer = errors.New("container must be stack, mpmc or spsc")
	errCapacity  = errors.New("capacity must be >= 1")
	errQueueCap  = errors.New("queue capacity must be a power of 2 and >= 2")
	errSPSC      = errors.New("spsc needs exactly 2 threads with split")
	errTimeout   = errors.New("check.timeout must be >= 0")
	errCache     = errors.New("check.cache_capacity must be >= 0")
	errLogLevel  = errors.New("log.level must be debug, info, warn or error")
	errLogFormat = errors.New("log.format must be text or json")
)

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	var errs []error
	switch c.Container {
	case ContainerStack, ContainerMPMC, ContainerSPSC:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", errContainer, c.Container))
	}
	if c.Capacity < 1 {
		errs = append(errs, errCapacity)
	} else if c.IsQueue() && (c.Capacity < 2 || c.Capacity&(c.Capacity-1) != 0) {
		errs = append(errs, errQueueCap)
	}
	if c.Container == ContainerSPSC && (c.Workload.Threads != 2 || !c.Workload.Split) {
		errs = append(errs, errSPSC)
	}
	if err := c.Workload.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Check.Timeout < 0 {
		errs = append(errs, errTimeout)
	}
	if c.Check.CacheCapacity < 0 {
		errs = append(errs, errCache)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, errLogLevel)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, errLogFormat)
	}
	return errors.Join(errs...)
}
