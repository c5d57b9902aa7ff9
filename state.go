// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// valueSize is the encoded width of one element.
const valueSize = 8

// State is the content of a bounded container as seen by a sequential model.
//
// State is an immutable value type. Elements are packed into a string,
// oldest (stack bottom, queue front) first, so two states compare equal with
// == and can be used directly as map keys. Derived states share storage with
// the state they were derived from where possible.
type State struct {
	capacity int
	data     string
}

// NewState returns an empty state bounded by capacity.
// Panics if capacity < 0.
func NewState(capacity int) State {
	if capacity < 0 {
		panic("lincheck: capacity must be >= 0")
	}
	return State{capacity: capacity}
}

// Cap returns the capacity bound.
func (s State) Cap() int { return s.capacity }

// Len returns the number of elements.
func (s State) Len() int { return len(s.data) / valueSize }

// Full reports whether Len has reached Cap.
func (s State) Full() bool { return s.Len() >= s.capacity }

// At returns the i-th element, oldest first.
func (s State) At(i int) Value {
	off := i * valueSize
	return Value(binary.LittleEndian.Uint64([]byte(s.data[off : off+valueSize])))
}

// Values returns the elements, oldest first.
func (s State) Values() []Value {
	vs := make([]Value, s.Len())
	for i := range vs {
		vs[i] = s.At(i)
	}
	return vs
}

// append returns s with v added after the newest element.
func (s State) append(v Value) State {
	buf := make([]byte, 0, len(s.data)+valueSize)
	buf = append(buf, s.data...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	return State{capacity: s.capacity, data: string(buf)}
}

// dropNewest returns s without its newest element.
func (s State) dropNewest() State {
	return State{capacity: s.capacity, data: s.data[:len(s.data)-valueSize]}
}

// dropOldest returns s without its oldest element.
func (s State) dropOldest() State {
	return State{capacity: s.capacity, data: s.data[valueSize:]}
}

func (s State) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := range s.Len() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatInt(s.At(i), 10))
	}
	b.WriteString("]/")
	b.WriteString(strconv.Itoa(s.capacity))
	return b.String()
}
