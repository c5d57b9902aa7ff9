// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

import (
	"fmt"
	"strconv"
)

// Value is the payload carried by container operations.
type Value = int64

// Kind identifies a try-style container operation.
type Kind uint8

const (
	KindTryPush Kind = iota + 1
	KindTryPop
	KindTryEnqueue
	KindTryDequeue
)

var kindNames = [...]string{
	KindTryPush:    "try_push",
	KindTryPop:     "try_pop",
	KindTryEnqueue: "try_enqueue",
	KindTryDequeue: "try_dequeue",
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k > 0 && int(k) < len(kindNames)
}

func (k Kind) String() string {
	if !k.Valid() {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Yields reports whether a successful return of this kind carries a value.
// Only removals (pop, dequeue) do; the value of an insertion's return is
// ignored when results are compared.
func (k Kind) Yields() bool {
	return k == KindTryPop || k == KindTryDequeue
}

// Inserts reports whether the kind adds an element (push, enqueue).
func (k Kind) Inserts() bool {
	return k == KindTryPush || k == KindTryEnqueue
}

// Call is the invocation half of an operation.
type Call struct {
	Kind  Kind
	Value Value // argument of insertions, zero otherwise
}

// TryPush returns a stack push call.
func TryPush(v Value) Call { return Call{Kind: KindTryPush, Value: v} }

// TryPop returns a stack pop call.
func TryPop() Call { return Call{Kind: KindTryPop} }

// TryEnqueue returns a queue enqueue call.
func TryEnqueue(v Value) Call { return Call{Kind: KindTryEnqueue, Value: v} }

// TryDequeue returns a queue dequeue call.
func TryDequeue() Call { return Call{Kind: KindTryDequeue} }

func (c Call) String() string {
	if c.Kind.Inserts() {
		return fmt.Sprintf("%s(%d)", c.Kind, c.Value)
	}
	return c.Kind.String() + "()"
}

// Return is the response half of an operation.
//
// OK false means the operation had no effect on the container (full on
// insertion, empty on removal).
type Return struct {
	OK    bool
	Value Value // removed value on a successful removal
}

// Ok returns a successful response carrying v.
func Ok(v Value) Return { return Return{OK: true, Value: v} }

// Failed returns an unsuccessful response.
func Failed() Return { return Return{} }

// Done returns a response without a value, as produced by insertions.
func Done(ok bool) Return { return Return{OK: ok} }

func (r Return) String() string {
	if !r.OK {
		return "false"
	}
	return fmt.Sprintf("true,%d", r.Value)
}

// matches reports whether got is the response the model produced (want) for
// call c. Values are only compared for successful removals.
func matches(c Call, want, got Return) bool {
	if want.OK != got.OK {
		return false
	}
	if !got.OK || !c.Kind.Yields() {
		return true
	}
	return want.Value == got.Value
}
