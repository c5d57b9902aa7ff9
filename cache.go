// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

import "container/list"

// DefaultCacheCapacity is the failure cache size used by [NewTester].
const DefaultCacheCapacity = 1 << 16

// config is a search configuration: the placed operations and the model
// state they lead to.
type config struct {
	placed string // bitset.key()
	state  State
}

// failureCache remembers configurations from which no linearization of the
// remaining operations exists. It is bounded and evicts the least recently
// used configuration.
//
// A zero-capacity cache stores nothing. Not safe for concurrent use; each
// Check owns one.
type failureCache struct {
	capacity int
	items    map[config]*list.Element
	order    *list.List // Front = most recent, Back = least recent

	hits      uint64
	stores    uint64
	evictions uint64
}

func newFailureCache(capacity int) *failureCache {
	c := &failureCache{capacity: max(capacity, 0)}
	if c.capacity > 0 {
		c.items = make(map[config]*list.Element, min(c.capacity, 1<<12))
		c.order = list.New()
	}
	return c
}

// contains reports whether k is known to fail and marks it recently used.
func (c *failureCache) contains(k config) bool {
	if c.capacity == 0 {
		return false
	}
	elem, ok := c.items[k]
	if !ok {
		return false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return true
}

// add records k as failing, evicting the least recently used entry when
// the cache is full.
func (c *failureCache) add(k config) {
	if c.capacity == 0 {
		return
	}
	if elem, ok := c.items[k]; ok {
		c.order.MoveToFront(elem)
		return
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(config))
		c.evictions++
	}
	c.items[k] = c.order.PushFront(k)
	c.stores++
}

func (c *failureCache) len() int {
	if c.capacity == 0 {
		return 0
	}
	return c.order.Len()
}
