// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package container

// Stack is a bounded LIFO container with non-blocking operations.
type Stack[T any] interface {
	// Push adds an element on top. The element is copied.
	// Returns nil on success, ErrWouldBlock if the stack is full.
	Push(elem *T) error

	// Pop removes and returns the top element.
	// Returns (zero-value, ErrWouldBlock) if the stack is empty.
	Pop() (T, error)

	// Cap returns the capacity.
	Cap() int
}

// Queue is a bounded FIFO container with non-blocking operations.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Producer is the enqueueing half of a Queue.
type Producer[T any] interface {
	// Enqueue adds an element at the back. The element is copied.
	// Returns nil on success, ErrWouldBlock if the queue is full.
	Enqueue(elem *T) error
}

// Consumer is the dequeueing half of a Queue.
type Consumer[T any] interface {
	// Dequeue removes and returns the front element.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)
}
