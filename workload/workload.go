// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package workload drives randomized concurrent operations against a
// container and records them into a [lincheck.Log].
//
// Every worker owns a PCG generator seeded with (Config.Seed, thread), so a
// run is reproducible in the operations each worker issues. The
// interleaving is up to the scheduler.
package workload

import (
	"fmt"
	"math/rand/v2"

	"code.hybscloud.com/lincheck"
	"code.hybscloud.com/lincheck/container"
	"golang.org/x/sync/errgroup"
)

// Spawn runs fn for threads 0 through count-1 on their own goroutines and
// waits for all of them. At most limit run at the same time; limit <= 0
// means no limit.
//
// Spawn returns the first non-nil error from fn. Other workers are not
// interrupted.
func Spawn(count, limit int, fn func(thread int) error) error {
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for thread := range count {
		g.Go(func() error {
			return fn(thread)
		})
	}
	return g.Wait()
}

// target adapts a stack or a queue to a pair of try operations.
type target struct {
	insert     func(v lincheck.Value) lincheck.Call
	remove     lincheck.Call
	doInsert   func(v *lincheck.Value) error
	doRemove   func() (lincheck.Value, error)
	insertName string
	removeName string
}

// RunStack runs cfg against s, recording every operation into log.
//
// An error other than would-block from s stops that worker. Its last
// operation stays pending in the log and the error is returned after all
// workers have finished.
func RunStack(cfg Config, log *lincheck.Log, s container.Stack[lincheck.Value]) error {
	return run(cfg, log, target{
		insert:     lincheck.TryPush,
		remove:     lincheck.TryPop(),
		doInsert:   s.Push,
		doRemove:   s.Pop,
		insertName: "push",
		removeName: "pop",
	})
}

// RunQueue runs cfg against q, recording every operation into log.
// Errors are handled as in [RunStack].
func RunQueue(cfg Config, log *lincheck.Log, q container.Queue[lincheck.Value]) error {
	return run(cfg, log, target{
		insert:     lincheck.TryEnqueue,
		remove:     lincheck.TryDequeue(),
		doInsert:   q.Enqueue,
		doRemove:   q.Dequeue,
		insertName: "enqueue",
		removeName: "dequeue",
	})
}

func run(cfg Config, log *lincheck.Log, t target) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return Spawn(cfg.Threads, cfg.MaxThreads, func(thread int) error {
		return worker(cfg, log, t, thread)
	})
}

func worker(cfg Config, log *lincheck.Log, t target, thread int) error {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(thread)))
	for range cfg.OpsPerThread {
		insert := rng.IntN(100) < cfg.InsertPercent
		if cfg.Split {
			insert = thread%2 == 0
		}

		if insert {
			v := rng.Int64N(cfg.MaxValue + 1)
			h := log.RecordCall(thread, t.insert(v))
			ok, err := container.Try(t.doInsert(&v))
			if err != nil {
				return fmt.Errorf("workload: thread %d: %s: %w", thread, t.insertName, err)
			}
			log.RecordReturn(h, lincheck.Done(ok))
			continue
		}

		h := log.RecordCall(thread, t.remove)
		v, err := t.doRemove()
		ok, err := container.Try(err)
		if err != nil {
			return fmt.Errorf("workload: thread %d: %s: %w", thread, t.removeName, err)
		}
		if ok {
			log.RecordReturn(h, lincheck.Ok(v))
		} else {
			log.RecordReturn(h, lincheck.Failed())
		}
	}
	return nil
}
