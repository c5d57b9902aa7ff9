// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package container

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// LockFreeStack is a bounded Treiber stack.
//
// Every node records the number of elements at or below it, so the
// capacity check and the push are a single CAS on top. A push that sees a
// full stack fails at the load of top, which is also its linearization
// point. Nodes are never reused, so the CAS is ABA-safe under the garbage
// collector.
//
// Memory: one heap node per element
type LockFreeStack[T any] struct {
	_        pad
	top      atomic.Pointer[stackNode[T]]
	_        pad
	capacity int
}

type stackNode[T any] struct {
	value T
	next  *stackNode[T]
	depth int
}

// NewLockFreeStack creates a stack holding at most capacity elements.
// Panics if capacity < 1.
func NewLockFreeStack[T any](capacity int) *LockFreeStack[T] {
	if capacity < 1 {
		panic("container: stack capacity must be >= 1")
	}
	return &LockFreeStack[T]{capacity: capacity}
}

// Push adds an element on top.
// Returns ErrWouldBlock if the stack is full.
func (s *LockFreeStack[T]) Push(elem *T) error {
	n := &stackNode[T]{value: *elem}
	sw := spin.Wait{}
	for {
		top := s.top.Load()
		n.next = top
		n.depth = 1
		if top != nil {
			if top.depth >= s.capacity {
				return ErrWouldBlock
			}
			n.depth = top.depth + 1
		}
		if s.top.CompareAndSwap(top, n) {
			return nil
		}
		sw.Once()
	}
}

// Pop removes and returns the top element.
// Returns (zero-value, ErrWouldBlock) if the stack is empty.
func (s *LockFreeStack[T]) Pop() (T, error) {
	sw := spin.Wait{}
	for {
		top := s.top.Load()
		if top == nil {
			var zero T
			return zero, ErrWouldBlock
		}
		if s.top.CompareAndSwap(top, top.next) {
			return top.value, nil
		}
		sw.Once()
	}
}

// Cap returns the stack capacity.
func (s *LockFreeStack[T]) Cap() int {
	return s.capacity
}
