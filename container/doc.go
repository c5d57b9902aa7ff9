// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package container provides bounded lock-free containers to run under the
// linearizability tester.
//
// All containers have non-blocking operations: an insertion on a full
// container and a removal on an empty one return [ErrWouldBlock] and leave
// the container unchanged. That is the "try" contract the sequential models
// in package lincheck describe.
//
//   - LockFreeStack: bounded Treiber stack, any number of goroutines
//   - MPMC: sequence-numbered ring, multiple producers and consumers
//   - SPSC: Lamport ring, one producer goroutine and one consumer goroutine
//
// # Quick Start
//
//	s := container.NewLockFreeStack[int64](64)
//	q := container.BuildQueue[int64](container.New(64))                                   // → MPMC
//	q := container.BuildQueue[int64](container.New(64).SingleProducer().SingleConsumer()) // → SPSC
//
// # Capacity
//
// Queue capacity rounds up to the next power of 2 and is at least 2; use
// Cap to learn the effective bound. Stack capacity is exact and at least 1.
//
// # Thread Safety
//
// SPSC supports exactly one producer goroutine and one consumer goroutine.
// Violating that causes undefined behavior, which the tester will usually
// report as a non-linearizable history.
//
// # Dependencies
//
// Queues use [code.hybscloud.com/atomix] for ordered atomics and all
// containers use [code.hybscloud.com/spin] between CAS retries. Errors come
// from [code.hybscloud.com/iox].
package container
