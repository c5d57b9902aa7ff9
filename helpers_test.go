// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck_test

import (
	"math/rand/v2"

	"code.hybscloud.com/lincheck"
)

// recorder records a scripted interleaving from a single goroutine.
type recorder struct {
	log  *lincheck.Log
	open map[int]lincheck.CallHandle
}

func newRecorder() *recorder {
	return &recorder{log: lincheck.NewLog(64), open: make(map[int]lincheck.CallHandle)}
}

func (r *recorder) call(thread int, c lincheck.Call) *recorder {
	r.open[thread] = r.log.RecordCall(thread, c)
	return r
}

func (r *recorder) ret(thread int, res lincheck.Return) *recorder {
	r.log.RecordReturn(r.open[thread], res)
	delete(r.open, thread)
	return r
}

func (r *recorder) op(thread int, c lincheck.Call, res lincheck.Return) *recorder {
	return r.call(thread, c).ret(thread, res)
}

func (r *recorder) snapshot() *lincheck.Snapshot {
	return r.log.Snapshot()
}

// simulate produces a linearizable history of threads issuing ops
// operations each against model. Every operation takes effect at a random
// point between its call and its return.
//
// With corrupt set, the first successful removal reports 99, a value
// never inserted.
func simulate(model lincheck.Model, capacity, threads, ops int, seed uint64, corrupt bool) *lincheck.Snapshot {
	const (
		idle = iota
		called
		applied
	)
	type worker struct {
		phase  int
		left   int
		handle lincheck.CallHandle
		call   lincheck.Call
		result lincheck.Return
	}

	rng := rand.New(rand.NewPCG(seed, 0))
	log := lincheck.NewLog(2 * threads * ops)
	state := model.Init(capacity)
	insert, remove := lincheck.TryPush, lincheck.TryPop()
	if model == lincheck.Queue {
		insert, remove = lincheck.TryEnqueue, lincheck.TryDequeue()
	}

	ws := make([]worker, threads)
	for i := range ws {
		ws[i].left = ops
	}
	for active := threads; active > 0; {
		t := rng.IntN(threads)
		w := &ws[t]
		switch w.phase {
		case idle:
			if w.left == 0 {
				continue
			}
			w.call = remove
			if rng.IntN(2) == 0 {
				w.call = insert(rng.Int64N(10))
			}
			w.handle = log.RecordCall(t, w.call)
			w.phase = called
		case called:
			state, w.result = model.Apply(state, w.call)
			w.phase = applied
		case applied:
			if corrupt && w.result.OK && w.call.Kind.Yields() {
				w.result.Value = 99
				corrupt = false
			}
			log.RecordReturn(w.handle, w.result)
			w.phase = idle
			w.left--
			if w.left == 0 {
				active--
			}
		}
	}
	return log.Snapshot()
}
