// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is the verdict of a check.
type Outcome uint8

const (
	// Linearizable: some order of the operations explains the history.
	Linearizable Outcome = iota + 1
	// NotLinearizable: the search space was exhausted without finding one.
	NotLinearizable
	// Timeout: the time budget ran out first. Nothing is asserted.
	Timeout
)

func (o Outcome) String() string {
	switch o {
	case Linearizable:
		return "linearizable"
	case NotLinearizable:
		return "not_linearizable"
	case Timeout:
		return "timeout"
	}
	return "unknown"
}

// Result is the outcome of [Tester.Check].
type Result struct {
	outcome Outcome
	counter *Counterexample
	stats   Stats
}

// Outcome returns the verdict.
func (r Result) Outcome() Outcome { return r.outcome }

// IsLinearizable reports whether a linearization was found.
func (r Result) IsLinearizable() bool { return r.outcome == Linearizable }

// IsNotLinearizable reports whether the history was proven not linearizable.
func (r Result) IsNotLinearizable() bool { return r.outcome == NotLinearizable }

// IsTimeout reports whether the check ran out of time.
func (r Result) IsTimeout() bool { return r.outcome == Timeout }

// Counterexample returns the failure witness of a NotLinearizable result,
// nil otherwise.
func (r Result) Counterexample() *Counterexample { return r.counter }

// Stats returns search statistics.
func (r Result) Stats() Stats { return r.stats }

func (r Result) String() string {
	if r.counter != nil {
		return r.outcome.String() + ": " + r.counter.String()
	}
	return r.outcome.String()
}

// Counterexample describes where the search got stuck.
//
// Prefix is the longest sequence of operations the search managed to place.
// Op is the completed operation that could not be placed after it: the
// earliest-returning operation outside Prefix. Want is the response the
// model gives for Op in State, the state after Prefix.
type Counterexample struct {
	Prefix []Operation
	Op     Operation
	Want   Return
	State  State
}

func (c *Counterexample) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot place %s after %d operations", c.Op, len(c.Prefix))
	fmt.Fprintf(&b, " (state %s, model returns %s)", c.State, c.Want)
	return b.String()
}

// Stats counts search work.
type Stats struct {
	Operations     int           // Operations in the history
	Pending        int           // Operations without a return
	Steps          uint64        // Candidate evaluations and backtracks
	CacheHits      uint64        // Configurations skipped as known failures
	CacheStores    uint64        // Failing configurations recorded
	CacheEvictions uint64        // Entries evicted at capacity
	MaxDepth       int           // Longest placed prefix
	Elapsed        time.Duration // Wall-clock time of the search
}
