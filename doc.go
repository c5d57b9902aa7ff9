// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lincheck checks that a concurrent container behaves linearizably.
//
// A stress run records every operation's call and return into a [Log] while
// worker goroutines hammer the container under test. After the workers
// finish, the log is frozen into a [Snapshot] and a [Tester] searches for a
// sequential order of the operations that
//
//   - respects real time: if one operation returned before another was
//     called, it comes first, and
//   - replayed through a sequential [Model] gives every operation exactly the
//     response it got in the run.
//
// If such an order exists the history is linearizable.
//
// # Quick Start
//
//	log := lincheck.NewLog(1 << 16)
//
//	// Worker goroutine
//	h := log.RecordCall(worker, lincheck.TryPush(v))
//	err := stack.Push(&v)
//	log.RecordReturn(h, lincheck.Done(err == nil))
//
//	// After all workers are joined
//	snap := log.Snapshot()
//	res := lincheck.Check(snap, lincheck.Stack, lincheck.Stack.Init(capacity), time.Minute, lincheck.DefaultCacheCapacity)
//	switch {
//	case res.IsLinearizable():
//	case res.IsNotLinearizable():
//	    fmt.Println(res.Counterexample())
//	case res.IsTimeout():
//	}
//
// Package [code.hybscloud.com/lincheck/workload] drives randomized workers
// and package [code.hybscloud.com/lincheck/container] provides bounded
// lock-free containers to test.
//
// # Recording
//
// [Log.RecordCall] must happen before the container operation is issued and
// [Log.RecordReturn] after it returns, on the same goroutine. The log assigns
// each entry a unique position with a single fetch-and-add, so the entry
// order is consistent with real time.
//
// Recording a return twice, or with a handle from another log, corrupts the
// ordering the search depends on and panics.
//
// A call without a return is a pending operation. The tester may place it
// anywhere after its call with whatever response the model gives, or leave
// it out.
//
// # Models
//
// [Stack] and [Queue] are the sequential specifications of bounded LIFO and
// FIFO containers with try-style operations: an insertion fails when the
// container is full, a removal fails when it is empty, and a failed
// operation has no effect. The capacity is passed to [Model.Init].
//
// [State] is a comparable value, so configurations can be cached by value.
//
// # Verdicts
//
// A [Result] is one of
//
//	Linearizable     an order was found
//	NotLinearizable  no order exists; Counterexample describes where the search got stuck
//	Timeout          the time limit or context ended the search first
//
// Timeout asserts nothing about the history.
//
// # Search Cost
//
// The search is exponential in the number of mutually overlapping
// operations. A bounded least-recently-used cache of failing configurations
// (placed operations, model state) prunes repeated subproblems. The cache
// changes only the time spent, never the verdict.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for the log's sequence
// counter and slot publication, and [code.hybscloud.com/spin] while a
// snapshot waits for in-flight appends.
package lincheck
