// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package container

import "code.hybscloud.com/atomix"

// SPSC is a single-producer single-consumer bounded queue.
//
// Lamport's ring buffer. Each side keeps a private copy of the other
// side's index and refreshes it only when the copy says full (producer) or
// empty (consumer), which keeps the shared indices off the hot path.
//
// Exactly one goroutine may call Enqueue and exactly one may call Dequeue.
//
// Memory: n slots for capacity n
type SPSC[T any] struct {
	_         pad
	head      atomix.Uint64 // Written by the consumer
	_         pad
	tailCache uint64 // Consumer's copy of tail
	_         pad
	tail      atomix.Uint64 // Written by the producer
	_         pad
	headCache uint64 // Producer's copy of head
	_         pad
	buffer    []T
	mask      uint64
}

// NewSPSC creates a new SPSC queue.
// Capacity rounds up to the next power of 2. Panics if capacity < 2.
func NewSPSC[T any](capacity int) *SPSC[T] {
	if capacity < 2 {
		panic("container: queue capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	return &SPSC[T]{
		buffer: make([]T, n),
		mask:   n - 1,
	}
}

// Enqueue adds an element at the back (producer only).
// Returns ErrWouldBlock if the queue is full.
func (q *SPSC[T]) Enqueue(elem *T) error {
	tail := q.tail.LoadRelaxed()
	if tail-q.headCache > q.mask {
		q.headCache = q.head.LoadAcquire()
		if tail-q.headCache > q.mask {
			return ErrWouldBlock
		}
	}

	q.buffer[tail&q.mask] = *elem
	q.tail.StoreRelease(tail + 1)
	return nil
}

// Dequeue removes and returns the front element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC[T]) Dequeue() (T, error) {
	head := q.head.LoadRelaxed()
	if head >= q.tailCache {
		q.tailCache = q.tail.LoadAcquire()
		if head >= q.tailCache {
			var zero T
			return zero, ErrWouldBlock
		}
	}

	elem := q.buffer[head&q.mask]
	var zero T
	q.buffer[head&q.mask] = zero
	q.head.StoreRelease(head + 1)
	return elem, nil
}

// Cap returns the queue capacity.
func (q *SPSC[T]) Cap() int {
	return int(q.mask + 1)
}
