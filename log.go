// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

import (
	"sync"
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

const (
	segmentShift = 12
	segmentSize  = 1 << segmentShift
	segmentMask  = segmentSize - 1
)

// slotWritten marks a slot whose record is complete and visible.
const slotWritten = 1

// returnReserved marks a call whose return is being appended.
const returnReserved = ^uint64(0)

// Log is a concurrent, append-only history of operation calls and returns.
//
// Any number of goroutines may record into a Log at the same time. Each
// entry receives a unique sequence position from a single fetch-and-add, so
// positions are strictly increasing in real time: if a return is recorded
// before a call starts, the return's position is smaller.
//
// Entries live in fixed-size segments that never move once allocated.
// Calls and returns refer to each other by position, not by address.
//
// A Log is only written to. Analysis works on a [Snapshot].
//
// Example:
//
//	log := lincheck.NewLog(1 << 16)
//	h := log.RecordCall(worker, lincheck.TryPush(v))
//	err := stack.Push(&v)
//	log.RecordReturn(h, lincheck.Done(err == nil))
type Log struct {
	_    pad
	next atomix.Uint64 // Next sequence position (FAA)
	_    pad
	dir  atomic.Pointer[[]*segment] // Copy-on-write segment directory
	mu   sync.Mutex                 // Serializes directory growth
}

type segment [segmentSize]slot

type slot struct {
	written atomix.Uint64 // slotWritten once rec is published
	ret     atomix.Uint64 // Calls: 0, returnReserved, or 1 + return position
	rec     record
}

type record struct {
	thread   int
	isReturn bool
	call     Call
	result   Return
	call0    uint64 // Returns: position of the matching call
}

// CallHandle identifies a recorded call. It is produced by
// [Log.RecordCall] and consumed by exactly one [Log.RecordReturn].
//
// The zero CallHandle is invalid.
type CallHandle struct {
	log *Log
	pos uint64
}

// Seq returns the sequence position of the call entry.
func (h CallHandle) Seq() uint64 { return h.pos }

// NewLog creates an empty log with room for sizeHint entries before the
// first segment allocation on the append path.
func NewLog(sizeHint int) *Log {
	n := (max(sizeHint, 1) + segmentSize - 1) / segmentSize
	dir := make([]*segment, n)
	for i := range dir {
		dir[i] = new(segment)
	}
	l := &Log{}
	l.dir.Store(&dir)
	return l
}

// RecordCall appends a call entry made by thread and returns its handle.
//
// RecordCall must happen before the container operation it describes is
// issued.
//
// Panics if c has no valid kind.
func (l *Log) RecordCall(thread int, c Call) CallHandle {
	if !c.Kind.Valid() {
		panic("lincheck: call has unknown kind " + c.Kind.String())
	}
	pos := l.next.AddAcqRel(1) - 1
	s := l.slot(pos)
	s.rec = record{thread: thread, call: c}
	s.written.StoreRelease(slotWritten)
	return CallHandle{log: l, pos: pos}
}

// RecordReturn appends the return entry for the call identified by h.
//
// RecordReturn must happen after the container operation has returned, on
// the goroutine that recorded the call.
//
// Panics if h was not produced by this log or already has a return.
func (l *Log) RecordReturn(h CallHandle, r Return) {
	if h.log != l {
		panic("lincheck: call handle does not belong to this log")
	}
	cs := l.slot(h.pos)
	if !cs.ret.CompareAndSwapAcqRel(0, returnReserved) {
		panic("lincheck: return already recorded for call")
	}
	call := cs.rec

	pos := l.next.AddAcqRel(1) - 1
	s := l.slot(pos)
	s.rec = record{
		thread:   call.thread,
		isReturn: true,
		call:     call.call,
		result:   r,
		call0:    h.pos,
	}
	s.written.StoreRelease(slotWritten)
	cs.ret.StoreRelease(pos + 1)
}

// Len returns the number of entries appended so far, including entries
// whose append is still in progress.
func (l *Log) Len() int {
	return int(l.next.LoadAcquire())
}

// Snapshot returns an immutable copy of the first Len entries.
//
// Entries whose position was reserved before the call are waited for, so
// the snapshot never has gaps. Entries appended afterwards are not part of
// it. A call whose return is not in the snapshot is pending.
func (l *Log) Snapshot() *Snapshot {
	n := l.next.LoadAcquire()
	entries := make([]Entry, n)
	for pos := range n {
		s := l.slot(pos)
		sw := spin.Wait{}
		for s.written.LoadAcquire() != slotWritten {
			sw.Once()
		}
		rec := s.rec
		entries[pos] = Entry{
			Seq:      pos,
			Thread:   rec.thread,
			IsReturn: rec.isReturn,
			Call:     rec.call,
			Result:   rec.result,
			Match:    -1,
		}
		if rec.isReturn {
			entries[pos].Match = int(rec.call0)
			entries[rec.call0].Match = int(pos)
		}
	}
	snap, err := newSnapshot(entries)
	if err != nil {
		panic("lincheck: corrupt log: " + err.Error())
	}
	return snap
}

func (l *Log) slot(pos uint64) *slot {
	idx := pos >> segmentShift
	if d := l.dir.Load(); d != nil && idx < uint64(len(*d)) {
		return &(*d)[idx][pos&segmentMask]
	}
	return &l.grow(idx)[pos&segmentMask]
}

// grow publishes a directory that covers segment idx.
// Existing segments are carried over, never copied.
func (l *Log) grow(idx uint64) *segment {
	l.mu.Lock()
	defer l.mu.Unlock()

	var old []*segment
	if d := l.dir.Load(); d != nil {
		old = *d
	}
	if idx < uint64(len(old)) {
		return old[idx]
	}

	n := max(2*len(old), int(idx)+1)
	dir := make([]*segment, n)
	copy(dir, old)
	for i := len(old); i < n; i++ {
		dir[i] = new(segment)
	}
	l.dir.Store(&dir)
	return dir[idx]
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
