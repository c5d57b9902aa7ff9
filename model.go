// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

// Model is the sequential specification of one container kind.
//
// Apply must be a pure, deterministic function of its arguments: the tester
// calls it many times on the same state while exploring alternative orders.
type Model interface {
	// Name identifies the model in logs, metrics and reports.
	Name() string

	// Init returns the empty container bounded by capacity.
	Init(capacity int) State

	// Apply returns the state after c and the response a correct
	// sequential container would give.
	//
	// Kinds the model does not support fail without effect.
	Apply(s State, c Call) (State, Return)
}

// Stack is the sequential specification of a bounded LIFO stack.
//
//	try_push(v): succeeds and adds v on top unless full
//	try_pop():   succeeds and removes the top value unless empty
var Stack Model = stackModel{}

// Queue is the sequential specification of a bounded FIFO queue.
//
//	try_enqueue(v): succeeds and adds v at the back unless full
//	try_dequeue():  succeeds and removes the front value unless empty
var Queue Model = queueModel{}

type stackModel struct{}

func (stackModel) Name() string { return "stack" }

func (stackModel) Init(capacity int) State { return NewState(capacity) }

func (stackModel) Apply(s State, c Call) (State, Return) {
	switch c.Kind {
	case KindTryPush:
		if s.Full() {
			return s, Failed()
		}
		return s.append(c.Value), Done(true)
	case KindTryPop:
		if s.Len() == 0 {
			return s, Failed()
		}
		return s.dropNewest(), Ok(s.At(s.Len() - 1))
	}
	return s, Failed()
}

type queueModel struct{}

func (queueModel) Name() string { return "queue" }

func (queueModel) Init(capacity int) State { return NewState(capacity) }

func (queueModel) Apply(s State, c Call) (State, Return) {
	switch c.Kind {
	case KindTryEnqueue:
		if s.Full() {
			return s, Failed()
		}
		return s.append(c.Value), Done(true)
	case KindTryDequeue:
		if s.Len() == 0 {
			return s, Failed()
		}
		return s.dropOldest(), Ok(s.At(0))
	}
	return s, Failed()
}

// ModelByName returns the built-in model called name ("stack" or "queue").
func ModelByName(name string) (Model, bool) {
	switch name {
	case "stack":
		return Stack, true
	case "queue":
		return Queue, true
	}
	return nil, false
}
