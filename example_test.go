// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck_test

import (
	"context"
	"fmt"
	"time"

	"code.hybscloud.com/lincheck"
)

// ExampleCheck records two overlapping pushes and a pop from two workers.
func ExampleCheck() {
	log := lincheck.NewLog(8)

	h1 := log.RecordCall(1, lincheck.TryPush(1))
	h2 := log.RecordCall(2, lincheck.TryPush(2))
	log.RecordReturn(h2, lincheck.Done(true))
	log.RecordReturn(h1, lincheck.Done(true))

	h := log.RecordCall(1, lincheck.TryPop())
	log.RecordReturn(h, lincheck.Ok(2))

	res := lincheck.Check(log.Snapshot(), lincheck.Stack, lincheck.Stack.Init(2), time.Second, lincheck.DefaultCacheCapacity)
	fmt.Println(res.Outcome())

	// Output:
	// linearizable
}

// ExampleResult_Counterexample shows the report for a pop of a value that
// was never pushed.
func ExampleResult_Counterexample() {
	log := lincheck.NewLog(8)
	h := log.RecordCall(1, lincheck.TryPush(1))
	log.RecordReturn(h, lincheck.Done(true))
	h = log.RecordCall(1, lincheck.TryPop())
	log.RecordReturn(h, lincheck.Ok(9))

	res := lincheck.NewTester(lincheck.Stack).
		Timeout(time.Second).
		Check(context.Background(), log.Snapshot(), lincheck.Stack.Init(2))
	fmt.Println(res.Outcome())
	fmt.Println(res.Counterexample())

	// Output:
	// not_linearizable
	// cannot place #1 t1 try_pop() -> true,9 after 1 operations (state [1]/2, model returns true,1)
}

// ExampleLog_pending shows that an operation without a return may be left
// out of the linearization.
func ExampleLog_pending() {
	log := lincheck.NewLog(8)
	log.RecordCall(2, lincheck.TryEnqueue(4)) // never returns
	h := log.RecordCall(1, lincheck.TryDequeue())
	log.RecordReturn(h, lincheck.Failed())

	snap := log.Snapshot()
	fmt.Println(snap.Pending(), snap.Operation(0))

	res := lincheck.Check(snap, lincheck.Queue, lincheck.Queue.Init(4), 0, 0)
	fmt.Println(res.Outcome())

	// Output:
	// 1 #0 t2 try_enqueue(4) -> pending
	// linearizable
}
