// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

import (
	"context"
	"log/slog"
	"time"
)

// checkInterval is the number of search steps between deadline checks.
const checkInterval = 1 << 10

// Tester decides whether a history is linearizable with respect to a
// sequential [Model].
//
// Tester provides a fluent API for configuring the search:
//
//	res := lincheck.NewTester(lincheck.Stack).
//		Timeout(time.Minute).
//		CacheCapacity(1 << 20).
//		Check(ctx, snap, lincheck.Stack.Init(capacity))
//
// The search is a Wing–Gong backtracking search with Lowe's just-in-time
// linearization: it only tries to place operations whose call precedes
// every return still in the history, and it remembers configurations
// (placed operations, model state) that are known not to extend to a full
// linearization.
//
// A Tester may be reused; each Check owns its own search state and cache.
type Tester struct {
	model    Model
	timeout  time.Duration
	cacheCap int
	logger   *slog.Logger
}

// NewTester creates a tester for model with no time limit and a cache of
// [DefaultCacheCapacity] configurations.
//
// Panics if model is nil.
func NewTester(model Model) *Tester {
	if model == nil {
		panic("lincheck: nil model")
	}
	return &Tester{model: model, cacheCap: DefaultCacheCapacity}
}

// Timeout bounds the wall-clock time of a check. Zero means no limit.
func (t *Tester) Timeout(d time.Duration) *Tester {
	t.timeout = max(d, 0)
	return t
}

// CacheCapacity sets the number of failing configurations remembered.
// Zero disables the cache; the verdict is the same either way.
func (t *Tester) CacheCapacity(n int) *Tester {
	t.cacheCap = max(n, 0)
	return t
}

// Logger sets the logger for debug output. Defaults to [slog.Default].
func (t *Tester) Logger(l *slog.Logger) *Tester {
	t.logger = l
	return t
}

// Check is shorthand for NewTester(model).Timeout(maxDuration).
// CacheCapacity(cacheCapacity).Check(context.Background(), snap, init).
func Check(snap *Snapshot, model Model, init State, maxDuration time.Duration, cacheCapacity int) Result {
	return NewTester(model).
		Timeout(maxDuration).
		CacheCapacity(cacheCapacity).
		Check(context.Background(), snap, init)
}

// Check searches snap for a linearization starting from init.
//
// Operations without a return may be placed anywhere after their call,
// with any response, or left out. Cancelling ctx ends the search with
// [Timeout], as does exceeding the time limit.
func (t *Tester) Check(ctx context.Context, snap *Snapshot, init State) Result {
	logger := t.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("model", t.model.Name()))
	logger.Debug("linearizability check started",
		slog.Int("entries", snap.Len()),
		slog.Int("operations", snap.NumOperations()),
		slog.Int("pending", snap.Pending()),
		slog.Int("cache_capacity", t.cacheCap),
		slog.Duration("timeout", t.timeout))

	start := time.Now()
	var deadline time.Time
	if t.timeout > 0 {
		deadline = start.Add(t.timeout)
	}

	s := newSearch(t.model, snap, init, t.cacheCap)
	outcome := s.run(ctx, deadline)

	res := Result{outcome: outcome}
	if outcome == NotLinearizable {
		res.counter = s.counterexample()
	}
	res.stats = Stats{
		Operations:     snap.NumOperations(),
		Pending:        snap.Pending(),
		Steps:          s.steps,
		CacheHits:      s.cache.hits,
		CacheStores:    s.cache.stores,
		CacheEvictions: s.cache.evictions,
		MaxDepth:       len(s.best),
		Elapsed:        time.Since(start),
	}

	logger.Debug("linearizability check finished",
		slog.String("outcome", outcome.String()),
		slog.Uint64("steps", res.stats.Steps),
		slog.Uint64("cache_hits", res.stats.CacheHits),
		slog.Uint64("cache_evictions", res.stats.CacheEvictions),
		slog.Int("max_depth", res.stats.MaxDepth),
		slog.Duration("elapsed", res.stats.Elapsed))
	return res
}

// node is an element of the doubly linked history list. Index 0 is the
// head sentinel; links are indices into search.nodes.
type node struct {
	op    int32 // Operation ID, -1 for the head
	match int32 // Calls: index of the return node. Returns: -1
	prev  int32
	next  int32
}

// frame is one placed operation on the explicit search stack.
type frame struct {
	call  int32 // Node index of the placed call
	state State // Model state before the call was applied
}

type search struct {
	model Model
	snap  *Snapshot
	init  State

	nodes  []node
	opOf   []int32 // Entry index to operation ID
	placed bitset
	cache  *failureCache
	frames []frame
	state  State

	needed int // Completed operations in the history
	done   int // Completed operations placed
	steps  uint64

	best   []int32 // Operation IDs of the longest placed prefix
	common int     // Length of the common prefix of frames and best
}

func newSearch(model Model, snap *Snapshot, init State, cacheCap int) *search {
	s := &search{
		model:  model,
		snap:   snap,
		init:   init,
		state:  init,
		placed: newBitset(snap.NumOperations()),
		cache:  newFailureCache(cacheCap),
		needed: snap.NumOperations() - snap.Pending(),
	}
	s.buildList()
	return s
}

// buildList links head, every entry in sequence order, then one synthetic
// return per pending call. The synthetic returns come after every recorded
// entry, so pending operations never force another operation to wait.
func (s *search) buildList() {
	n := s.snap.Len()
	s.nodes = make([]node, 1, n+s.snap.Pending()+1)
	s.nodes[0] = node{op: -1, match: -1}
	s.opOf = make([]int32, n)

	var id int32
	for i := range n {
		e := s.snap.entries[i]
		nd := node{match: -1}
		if e.IsReturn {
			nd.op = s.opOf[e.Match]
		} else {
			nd.op = id
			id++
			if e.Match >= 0 {
				nd.match = int32(e.Match + 1)
			}
		}
		s.opOf[i] = nd.op
		s.nodes = append(s.nodes, nd)
	}
	for _, op := range s.snap.ops {
		if op.Pending {
			s.nodes[op.CallIndex+1].match = int32(len(s.nodes))
			s.nodes = append(s.nodes, node{op: int32(op.ID), match: -1})
		}
	}

	for i := range s.nodes {
		s.nodes[i].prev = int32(i - 1)
		s.nodes[i].next = int32(i + 1)
	}
	s.nodes[len(s.nodes)-1].next = -1
}

// lift unlinks call node i and its return node.
// The lifted nodes keep their own links for unlift.
func (s *search) lift(i int32) {
	call := &s.nodes[i]
	s.nodes[call.prev].next = call.next
	s.nodes[call.next].prev = call.prev

	ret := &s.nodes[call.match]
	s.nodes[ret.prev].next = ret.next
	if ret.next >= 0 {
		s.nodes[ret.next].prev = ret.prev
	}
}

// unlift relinks call node i and its return node, undoing lift.
func (s *search) unlift(i int32) {
	call := &s.nodes[i]
	ret := &s.nodes[call.match]
	s.nodes[ret.prev].next = call.match
	if ret.next >= 0 {
		s.nodes[ret.next].prev = call.match
	}

	s.nodes[call.prev].next = i
	s.nodes[call.next].prev = i
}

func (s *search) run(ctx context.Context, deadline time.Time) Outcome {
	cur := s.nodes[0].next
	for {
		if s.done == s.needed {
			return Linearizable
		}
		s.steps++
		if s.steps%checkInterval == 0 && expired(ctx, deadline) {
			return Timeout
		}

		if cur >= 0 && s.nodes[cur].match >= 0 {
			nd := s.nodes[cur]
			op := &s.ops()[nd.op]
			next, want := s.model.Apply(s.state, op.Call)
			if !op.Pending && !matches(op.Call, want, op.Result) {
				cur = nd.next
				continue
			}
			s.placed.set(int(nd.op))
			if s.cache.capacity > 0 && s.cache.contains(config{s.placed.key(), next}) {
				s.placed.clear(int(nd.op))
				cur = nd.next
				continue
			}
			s.frames = append(s.frames, frame{call: cur, state: s.state})
			s.state = next
			s.lift(cur)
			if !op.Pending {
				s.done++
			}
			s.track(nd.op)
			cur = s.nodes[0].next
			continue
		}

		// A return (or the end of the list) before any placeable call:
		// the current configuration cannot be extended.
		if len(s.frames) == 0 {
			return NotLinearizable
		}
		if s.cache.capacity > 0 {
			s.cache.add(config{s.placed.key(), s.state})
		}
		top := s.frames[len(s.frames)-1]
		s.frames = s.frames[:len(s.frames)-1]
		s.common = min(s.common, len(s.frames))
		s.unlift(top.call)
		id := s.nodes[top.call].op
		s.placed.clear(int(id))
		if !s.ops()[id].Pending {
			s.done--
		}
		s.state = top.state
		cur = s.nodes[top.call].next
	}
}

func (s *search) ops() []Operation { return s.snap.ops }

// track keeps best equal to the longest prefix placed so far. A new
// maximum extends the current stack, so only frames pushed since the
// stack last diverged from best are copied.
func (s *search) track(op int32) {
	d := len(s.frames)
	if d <= len(s.best) {
		if s.common == d-1 && s.best[d-1] == op {
			s.common = d
		}
		return
	}
	s.best = s.best[:s.common]
	for _, f := range s.frames[s.common:] {
		s.best = append(s.best, s.nodes[f.call].op)
	}
	s.common = d
}

// counterexample replays the longest prefix and reports the first
// completed operation, in return order, that is not part of it.
func (s *search) counterexample() *Counterexample {
	c := &Counterexample{
		Prefix: make([]Operation, len(s.best)),
		State:  s.init,
	}
	in := newBitset(len(s.ops()))
	for i, id := range s.best {
		op := s.ops()[id]
		c.Prefix[i] = op
		in.set(int(id))
		c.State, _ = s.model.Apply(c.State, op.Call)
	}
	for i, e := range s.snap.entries {
		if e.IsReturn && !in.get(int(s.opOf[i])) {
			c.Op = s.ops()[s.opOf[i]]
			break
		}
	}
	_, c.Want = s.model.Apply(c.State, c.Op.Call)
	return c
}

func expired(ctx context.Context, deadline time.Time) bool {
	if ctx.Err() != nil {
		return true
	}
	return !deadline.IsZero() && time.Now().After(deadline)
}
