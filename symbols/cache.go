// This file is part of PeekLinuxDebugger.
//
// PeekLinuxDebugger is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// PeekLinuxDebugger is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with PeekLinuxDebugger.  If not, see <https://www.gnu.org/licenses/>.

package symbols

import "container/list"

// cacheEntry is the payload of one container/list element: the query key
// and the (non-strict) result list it produced.
type cacheEntry struct {
	key     string
	symbols []Symbol
}

// cache is a bounded LRU: most-recently-used entries live at the front of
// order, least-recently-used at the back. nodes lets lookups and touches
// find a key's list.Element in O(1) instead of scanning order.
type cache struct {
	order *list.List
	nodes map[string]*list.Element

	maxSize   int
	minKeyLen int
}

func newCache(maxSize, minKeyLen int) *cache {
	return &cache{
		order:     list.New(),
		nodes:     make(map[string]*list.Element),
		maxSize:   maxSize,
		minKeyLen: minKeyLen,
	}
}

// get returns the cached list for key and touches it to the front (MRU).
func (c *cache) get(key string) ([]Symbol, bool) {
	n, ok := c.nodes[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(n)
	return n.Value.(*cacheEntry).symbols, true
}

// insert adds or replaces the entry for key, provided key meets the
// minimum cacheable length, then evicts from the back until the cache is
// within maxSize.
func (c *cache) insert(key string, syms []Symbol) {
	if len(key) < c.minKeyLen {
		return
	}

	if n, ok := c.nodes[key]; ok {
		n.Value.(*cacheEntry).symbols = syms
		c.order.MoveToFront(n)
		return
	}

	n := c.order.PushFront(&cacheEntry{key: key, symbols: syms})
	c.nodes[key] = n
	c.evictOverflow()
}

func (c *cache) evictOverflow() {
	for c.order.Len() > c.maxSize {
		back := c.order.Back()
		if back == nil {
			return
		}
		c.order.Remove(back)
		delete(c.nodes, back.Value.(*cacheEntry).key)
	}
}

// configure applies new limits: every key shorter than the new minimum is
// evicted, then entries are evicted from the back until size is within the
// new maximum. Matches spec.md §4.5's configure() operation.
func (c *cache) configure(maxSize, minKeyLen int) {
	c.maxSize = maxSize
	c.minKeyLen = minKeyLen

	for key, n := range c.nodes {
		if len(key) < c.minKeyLen {
			c.order.Remove(n)
			delete(c.nodes, key)
		}
	}
	c.evictOverflow()
}

// keys returns the current cache keys in MRU-to-LRU order. Intended for
// tests and introspection commands.
func (c *cache) keys() []string {
	keys := make([]string, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*cacheEntry).key)
	}
	return keys
}

func (c *cache) len() int {
	return c.order.Len()
}
