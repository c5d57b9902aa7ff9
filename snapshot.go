// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

import (
	"errors"
	"fmt"
	"slices"
)

// Entry is one call or return event of a history.
type Entry struct {
	Seq      uint64 // Global sequence position
	Thread   int    // Recording worker
	IsReturn bool
	Call     Call   // The call; copied onto its return
	Result   Return // Returns only
	Match    int    // Index of the matching entry, -1 for a pending call
}

// Operation is a call paired with its return.
type Operation struct {
	ID          int // Position in call order
	Thread      int
	Call        Call
	Result      Return // Zero when Pending
	Pending     bool   // No return was recorded
	CallIndex   int    // Entry index of the call
	ReturnIndex int    // Entry index of the return, -1 when Pending
}

func (op Operation) String() string {
	if op.Pending {
		return fmt.Sprintf("#%d t%d %s -> pending", op.ID, op.Thread, op.Call)
	}
	return fmt.Sprintf("#%d t%d %s -> %s", op.ID, op.Thread, op.Call, op.Result)
}

// Snapshot is an immutable, indexed history taken from a [Log].
//
// A Snapshot is safe for concurrent reads and is never affected by
// later writes to the log it came from.
type Snapshot struct {
	entries []Entry
	ops     []Operation
	pending int
}

var (
	errMatchRange   = errors.New("match out of range")
	errMatchOrder   = errors.New("return precedes its call")
	errMatchMutual  = errors.New("call and return do not reference each other")
	errMatchThread  = errors.New("call and return recorded by different threads")
	errSeqOrder     = errors.New("sequence positions are not strictly increasing")
	errReturnNoCall = errors.New("return without call")
	errCallDiffers  = errors.New("return carries a different call")
	errKind         = errors.New("unknown operation kind")
)

// newSnapshot derives operations from entries and checks the
// call/return invariants.
func newSnapshot(entries []Entry) (*Snapshot, error) {
	s := &Snapshot{entries: entries}
	for i, e := range entries {
		if i > 0 && e.Seq <= entries[i-1].Seq {
			return nil, fmt.Errorf("entry %d: %w", i, errSeqOrder)
		}
		if !e.Call.Kind.Valid() {
			return nil, fmt.Errorf("entry %d: %w", i, errKind)
		}
		if e.Match < -1 || e.Match >= len(entries) {
			return nil, fmt.Errorf("entry %d: %w", i, errMatchRange)
		}
		if e.IsReturn {
			if e.Match < 0 {
				return nil, fmt.Errorf("entry %d: %w", i, errReturnNoCall)
			}
			if e.Match >= i {
				return nil, fmt.Errorf("entry %d: %w", i, errMatchOrder)
			}
			c := entries[e.Match]
			if c.IsReturn || c.Match != i {
				return nil, fmt.Errorf("entry %d: %w", i, errMatchMutual)
			}
			if c.Thread != e.Thread {
				return nil, fmt.Errorf("entry %d: %w", i, errMatchThread)
			}
			if c.Call != e.Call {
				return nil, fmt.Errorf("entry %d: %w", i, errCallDiffers)
			}
			s.ops[opIndex(s.ops, e.Match)].Result = e.Result
			continue
		}

		op := Operation{
			ID:          len(s.ops),
			Thread:      e.Thread,
			Call:        e.Call,
			CallIndex:   i,
			ReturnIndex: e.Match,
		}
		if e.Match < 0 {
			op.Pending = true
			s.pending++
		} else if e.Match <= i || !entries[e.Match].IsReturn || entries[e.Match].Match != i {
			return nil, fmt.Errorf("entry %d: %w", i, errMatchMutual)
		}
		s.ops = append(s.ops, op)
	}
	return s, nil
}

// opIndex finds the operation whose call is at entry index call.
// Operations are in call order, so a binary search suffices.
func opIndex(ops []Operation, call int) int {
	i, _ := slices.BinarySearchFunc(ops, call, func(op Operation, call int) int {
		return op.CallIndex - call
	})
	return i
}

// Len returns the number of entries.
func (s *Snapshot) Len() int { return len(s.entries) }

// Entry returns the i-th entry in sequence order.
func (s *Snapshot) Entry(i int) Entry { return s.entries[i] }

// Entries returns a copy of all entries in sequence order.
func (s *Snapshot) Entries() []Entry { return slices.Clone(s.entries) }

// NumOperations returns the number of operations (calls).
func (s *Snapshot) NumOperations() int { return len(s.ops) }

// Operation returns the operation with the given ID.
func (s *Snapshot) Operation(id int) Operation { return s.ops[id] }

// Operations returns a copy of all operations in call order.
func (s *Snapshot) Operations() []Operation { return slices.Clone(s.ops) }

// Pending returns the number of operations without a recorded return.
func (s *Snapshot) Pending() int { return s.pending }

// OperationOf returns the ID of the operation entry i belongs to.
func (s *Snapshot) OperationOf(i int) int {
	e := s.entries[i]
	if e.IsReturn {
		i = e.Match
	}
	return opIndex(s.ops, i)
}
