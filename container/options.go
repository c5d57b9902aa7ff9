// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package container

// Builder creates containers with fluent configuration.
//
// Example:
//
//	// SPSC queue (one producer, one consumer)
//	q := container.BuildQueue[int64](container.New(1024).SingleProducer().SingleConsumer())
//
//	// MPMC queue (default)
//	q := container.BuildQueue[int64](container.New(1024))
//
//	// Stack
//	s := container.BuildStack[int64](container.New(1024))
type Builder struct {
	capacity       int
	singleProducer bool
	singleConsumer bool
}

// New creates a builder with the given capacity.
//
// Panics if capacity < 1.
func New(capacity int) *Builder {
	if capacity < 1 {
		panic("container: capacity must be >= 1")
	}
	return &Builder{capacity: capacity}
}

// SingleProducer declares that only one goroutine will insert.
func (b *Builder) SingleProducer() *Builder {
	b.singleProducer = true
	return b
}

// SingleConsumer declares that only one goroutine will remove.
func (b *Builder) SingleConsumer() *Builder {
	b.singleConsumer = true
	return b
}

// Constrained reports whether both SingleProducer and SingleConsumer were
// declared, i.e. callers must keep insertions and removals on one goroutine
// each.
func (b *Builder) Constrained() bool {
	return b.singleProducer && b.singleConsumer
}

// BuildQueue creates a Queue[T].
//
// Algorithm selection:
//
//	SingleProducer + SingleConsumer → SPSC (Lamport ring buffer)
//	Otherwise                       → MPMC (sequence-numbered ring)
//
// Queue capacity is at least 2.
func BuildQueue[T any](b *Builder) Queue[T] {
	if b.Constrained() {
		return NewSPSC[T](max(b.capacity, 2))
	}
	return NewMPMC[T](max(b.capacity, 2))
}

// BuildStack creates a Stack[T].
// Panics if the builder has any constraints set.
func BuildStack[T any](b *Builder) Stack[T] {
	if b.singleProducer || b.singleConsumer {
		panic("container: BuildStack requires no constraints")
	}
	return NewLockFreeStack[T](b.capacity)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
