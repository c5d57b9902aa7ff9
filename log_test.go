// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/lincheck"
)

// =============================================================================
// Sequential Recording
// =============================================================================

func TestLogRecord(t *testing.T) {
	log := lincheck.NewLog(4)
	h := log.RecordCall(3, lincheck.TryPush(7))
	if h.Seq() != 0 {
		t.Fatalf("Seq: got %d, want 0", h.Seq())
	}
	log.RecordReturn(h, lincheck.Done(true))
	log.RecordCall(4, lincheck.TryPop())
	if log.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", log.Len())
	}

	snap := log.Snapshot()
	want := []lincheck.Entry{
		{Seq: 0, Thread: 3, Call: lincheck.TryPush(7), Match: 1},
		{Seq: 1, Thread: 3, IsReturn: true, Call: lincheck.TryPush(7), Result: lincheck.Done(true), Match: 0},
		{Seq: 2, Thread: 4, Call: lincheck.TryPop(), Match: -1},
	}
	if snap.Len() != len(want) {
		t.Fatalf("snapshot Len: got %d, want %d", snap.Len(), len(want))
	}
	for i, w := range want {
		if got := snap.Entry(i); got != w {
			t.Errorf("entry %d: got %+v, want %+v", i, got, w)
		}
	}

	if snap.NumOperations() != 2 || snap.Pending() != 1 {
		t.Fatalf("operations %d pending %d, want 2 and 1", snap.NumOperations(), snap.Pending())
	}
	op := snap.Operation(0)
	if op.ID != 0 || op.Thread != 3 || op.Result != lincheck.Done(true) || op.Pending || op.CallIndex != 0 || op.ReturnIndex != 1 {
		t.Errorf("operation 0: %+v", op)
	}
	op = snap.Operation(1)
	if !op.Pending || op.ReturnIndex != -1 || op.CallIndex != 2 {
		t.Errorf("operation 1: %+v", op)
	}
	if got := snap.OperationOf(1); got != 0 {
		t.Errorf("OperationOf(1): got %d, want 0", got)
	}
	if got := snap.OperationOf(2); got != 1 {
		t.Errorf("OperationOf(2): got %d, want 1", got)
	}
}

func TestLogSegmentGrowth(t *testing.T) {
	// More entries than one segment, starting from the smallest log.
	const n = 10000
	log := lincheck.NewLog(1)
	for i := range n {
		h := log.RecordCall(0, lincheck.TryEnqueue(lincheck.Value(i)))
		log.RecordReturn(h, lincheck.Done(true))
	}
	snap := log.Snapshot()
	if snap.Len() != 2*n {
		t.Fatalf("Len: got %d, want %d", snap.Len(), 2*n)
	}
	for i, op := range snap.Operations() {
		if op.Call.Value != lincheck.Value(i) || op.CallIndex != 2*i || op.ReturnIndex != 2*i+1 {
			t.Fatalf("operation %d: %+v", i, op)
		}
	}
}

// TestSnapshotImmutable checks that later writes do not affect a snapshot.
func TestSnapshotImmutable(t *testing.T) {
	log := lincheck.NewLog(4)
	h := log.RecordCall(0, lincheck.TryPop())
	before := log.Snapshot()

	log.RecordReturn(h, lincheck.Failed())
	log.RecordCall(1, lincheck.TryPush(1))
	after := log.Snapshot()

	if before.Len() != 1 || before.Pending() != 1 || !before.Operation(0).Pending {
		t.Fatalf("old snapshot changed: len %d pending %d", before.Len(), before.Pending())
	}
	if before.Entry(0).Match != -1 {
		t.Fatalf("old snapshot call gained a match: %d", before.Entry(0).Match)
	}
	if after.Len() != 3 || after.Pending() != 1 || after.Operation(0).Pending {
		t.Fatalf("new snapshot: len %d pending %d", after.Len(), after.Pending())
	}

	entries := after.Entries()
	entries[0].Thread = 99
	if after.Entry(0).Thread == 99 {
		t.Fatal("Entries returned shared storage")
	}
}

// =============================================================================
// Usage Errors
// =============================================================================

func TestLogUsagePanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"double return", func() {
			log := lincheck.NewLog(4)
			h := log.RecordCall(0, lincheck.TryPop())
			log.RecordReturn(h, lincheck.Failed())
			log.RecordReturn(h, lincheck.Failed())
		}},
		{"foreign handle", func() {
			a, b := lincheck.NewLog(4), lincheck.NewLog(4)
			h := a.RecordCall(0, lincheck.TryPop())
			b.RecordReturn(h, lincheck.Failed())
		}},
		{"zero handle", func() {
			lincheck.NewLog(4).RecordReturn(lincheck.CallHandle{}, lincheck.Failed())
		}},
		{"zero kind", func() {
			lincheck.NewLog(4).RecordCall(0, lincheck.Call{})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

// =============================================================================
// Concurrent Recording
// =============================================================================

func TestLogConcurrentRecording(t *testing.T) {
	if lincheck.RaceEnabled {
		t.Skip("skip: slots are published with atomix acquire-release ordering")
	}

	const (
		threads   = 8
		perThread = 5000
	)
	log := lincheck.NewLog(1024)

	var wg sync.WaitGroup
	for thread := range threads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perThread {
				v := lincheck.Value(thread*perThread + i)
				h := log.RecordCall(thread, lincheck.TryEnqueue(v))
				log.RecordReturn(h, lincheck.Ok(v))
			}
		}()
	}
	wg.Wait()

	snap := log.Snapshot()
	if snap.Len() != 2*threads*perThread {
		t.Fatalf("Len: got %d, want %d", snap.Len(), 2*threads*perThread)
	}
	if snap.Pending() != 0 {
		t.Fatalf("Pending: got %d, want 0", snap.Pending())
	}

	next := make([]lincheck.Value, threads)
	for i := range snap.Len() {
		e := snap.Entry(i)
		if e.Seq != uint64(i) {
			t.Fatalf("entry %d: Seq %d", i, e.Seq)
		}
		if e.IsReturn {
			if e.Result.Value != e.Call.Value {
				t.Fatalf("entry %d: return %s does not belong to %s", i, e.Result, e.Call)
			}
			continue
		}
		// Calls of one thread appear in program order.
		want := lincheck.Value(e.Thread*perThread) + next[e.Thread]
		if e.Call.Value != want {
			t.Fatalf("entry %d: thread %d called %d, want %d", i, e.Thread, e.Call.Value, want)
		}
		next[e.Thread]++
		if r := snap.Entry(e.Match); r.Thread != e.Thread || r.Match != i {
			t.Fatalf("entry %d: bad match %d", i, e.Match)
		}
	}
}

// TestLogSnapshotDuringRecording takes snapshots while workers append and
// checks every snapshot is a consistent prefix.
func TestLogSnapshotDuringRecording(t *testing.T) {
	if lincheck.RaceEnabled {
		t.Skip("skip: slots are published with atomix acquire-release ordering")
	}

	const (
		threads   = 4
		perThread = 20000
	)
	log := lincheck.NewLog(16)

	var wg sync.WaitGroup
	for thread := range threads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perThread {
				h := log.RecordCall(thread, lincheck.TryPop())
				log.RecordReturn(h, lincheck.Failed())
			}
		}()
	}

	for range 20 {
		snap := log.Snapshot()
		if snap.Pending() > threads {
			t.Fatalf("pending %d exceeds %d threads", snap.Pending(), threads)
		}
		for i := range snap.Len() {
			if snap.Entry(i).Seq != uint64(i) {
				t.Fatalf("gap at entry %d", i)
			}
		}
	}
	wg.Wait()

	if got := log.Snapshot().Pending(); got != 0 {
		t.Fatalf("final pending: got %d, want 0", got)
	}
}
