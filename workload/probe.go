// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package workload

import (
	"errors"
	"fmt"

	"code.hybscloud.com/lincheck"
	"code.hybscloud.com/lincheck/container"
)

// probeValue is inserted and removed by the probes.
const probeValue lincheck.Value = 5

// ErrProbe reports that a container failed a single-threaded round trip.
var ErrProbe = errors.New("workload: probe failed")

// ProbeStack pushes one value onto an empty s and pops it again. It is a
// cheap single-threaded check to run before a concurrent run. The stack is
// empty again when ProbeStack returns nil.
func ProbeStack(s container.Stack[lincheck.Value]) error {
	return probe(s.Push, s.Pop)
}

// ProbeQueue enqueues one value into an empty q and dequeues it again.
func ProbeQueue(q container.Queue[lincheck.Value]) error {
	return probe(q.Enqueue, q.Dequeue)
}

func probe(insert func(*lincheck.Value) error, remove func() (lincheck.Value, error)) error {
	v := probeValue
	if err := insert(&v); err != nil {
		return fmt.Errorf("%w: insert %d: %w", ErrProbe, probeValue, err)
	}
	got, err := remove()
	if err != nil {
		return fmt.Errorf("%w: remove: %w", ErrProbe, err)
	}
	if got != probeValue {
		return fmt.Errorf("%w: removed %d, want %d", ErrProbe, got, probeValue)
	}
	if _, err := remove(); !container.IsWouldBlock(err) {
		return fmt.Errorf("%w: container not empty after round trip", ErrProbe)
	}
	return nil
}
