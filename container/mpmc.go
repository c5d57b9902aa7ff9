// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package container

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMC is a CAS-based multi-producer multi-consumer bounded queue.
//
// Each slot carries a sequence number telling which lap may use it next:
// seq == pos means free for the producer claiming position pos, and
// seq == pos+1 means filled for the consumer claiming pos. Producers and
// consumers claim positions by CAS on tail and head.
//
// Each operation takes effect at its CAS, so the content of the queue is
// the positions in [head, tail). A slot whose sequence lags the claimed
// position is either still owned by the other side or belongs to an
// operation that claimed it and has not finished. Full and empty are only
// reported when head and tail agree; otherwise the operation waits for the
// unfinished one.
//
// Memory: n slots for capacity n, each at least one cache line
type MPMC[T any] struct {
	_        pad
	tail     atomix.Uint64 // Producer position
	_        pad
	head     atomix.Uint64 // Consumer position
	_        pad
	buffer   []mpmcSlot[T]
	mask     uint64
	capacity uint64
}

type mpmcSlot[T any] struct {
	seq  atomix.Uint64
	data T
	_    padShort
}

// NewMPMC creates a new MPMC queue.
// Capacity rounds up to the next power of 2. Panics if capacity < 2.
func NewMPMC[T any](capacity int) *MPMC[T] {
	if capacity < 2 {
		panic("container: queue capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPMC[T]{
		buffer:   make([]mpmcSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := range n {
		q.buffer[i].seq.StoreRelaxed(i)
	}
	return q
}

// Enqueue adds an element at the back.
// Returns ErrWouldBlock if the queue is full.
func (q *MPMC[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		slot := &q.buffer[tail&q.mask]
		lag := int64(slot.seq.LoadAcquire()) - int64(tail)

		switch {
		case lag == 0:
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.data = *elem
				slot.seq.StoreRelease(tail + 1)
				return nil
			}
		case lag < 0:
			if int64(tail-q.head.LoadAcquire()) >= int64(q.capacity) {
				return ErrWouldBlock
			}
		}
		sw.Once()
	}
}

// Dequeue removes and returns the front element.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MPMC[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		slot := &q.buffer[head&q.mask]
		lag := int64(slot.seq.LoadAcquire()) - int64(head+1)

		switch {
		case lag == 0:
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				slot.seq.StoreRelease(head + q.capacity)
				return elem, nil
			}
		case lag < 0:
			if q.tail.LoadAcquire() == head {
				var zero T
				return zero, ErrWouldBlock
			}
		}
		sw.Once()
	}
}

// Cap returns the queue capacity.
func (q *MPMC[T]) Cap() int {
	return int(q.capacity)
}
