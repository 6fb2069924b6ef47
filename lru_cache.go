package gostructs

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// nilIndex marks the absence of a neighbour in the usage list
const nilIndex = int32(-1)

// lruNode is an entry of the usage list. Nodes live in the cache's arena and
// link to each other by arena index.
type lruNode[K comparable, V any] struct {
	key   K
	value V
	prev  int32
	next  int32
}

// LRUCache is a fixed-capacity key-value store that evicts the least recently
// used entry when a new key would overflow it. Get, Put, Contains and Remove
// are all O(1).
// _index_ maps every key to its node in _nodes_
// _nodes_ is the arena holding the doubly-linked usage list; _free_ lists
// arena slots released by Remove so they can be reused
// _head_ is the most recently used node, _tail_ the least recently used
//
// Contains, Peek, Len, Cap and Keys never change the usage order. An LRUCache
// is not safe for concurrent use.
type LRUCache[K comparable, V any] struct {
	capacity int
	index    map[K]int32
	nodes    []lruNode[K, V]
	free     []int32
	head     int32
	tail     int32
	logger   *zap.Logger
}

// NewLRUCache creates an empty cache holding at most _capacity_ entries
func NewLRUCache[K comparable, V any](capacity int, opts ...Option) (*LRUCache[K, V], error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "lru capacity must be at least 1, got %d", capacity)
	}
	o := applyOptions(opts)
	o.logger.Debug("lru cache created", zap.Int("capacity", capacity))
	return &LRUCache[K, V]{
		capacity: capacity,
		index:    make(map[K]int32, capacity),
		nodes:    make([]lruNode[K, V], 0, capacity),
		head:     nilIndex,
		tail:     nilIndex,
		logger:   o.logger,
	}, nil
}

// Get returns the value stored under _key_ and marks it most recently used.
// A miss returns ErrKeyNotFound.
func (c *LRUCache[K, V]) Get(key K) (V, error) {
	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, ErrKeyNotFound
	}
	c.moveToFront(i)
	return c.nodes[i].value, nil
}

// Peek returns the value stored under _key_ without touching its recency
func (c *LRUCache[K, V]) Peek(key K) (V, bool) {
	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.nodes[i].value, true
}

// Put stores _value_ under _key_ as the most recently used entry. When _key_ is
// new and the cache is full, the least recently used entry is evicted first and
// its key is returned with evicted set to true.
func (c *LRUCache[K, V]) Put(key K, value V) (evictedKey K, evicted bool) {
	if i, ok := c.index[key]; ok {
		c.nodes[i].value = value
		c.moveToFront(i)
		return evictedKey, false
	}

	var i int32
	if len(c.index) == c.capacity {
		// reuse the tail node for the new entry
		i = c.tail
		evictedKey, evicted = c.nodes[i].key, true
		c.unlink(i)
		delete(c.index, evictedKey)
		c.logger.Debug("lru cache evicted entry", zap.Any("key", evictedKey))
		c.nodes[i] = lruNode[K, V]{key: key, value: value}
	} else {
		i = c.alloc(key, value)
	}
	c.index[key] = i
	c.pushFront(i)
	return evictedKey, evicted
}

// Remove deletes _key_ and reports whether it was present
func (c *LRUCache[K, V]) Remove(key K) bool {
	i, ok := c.index[key]
	if !ok {
		return false
	}
	c.unlink(i)
	delete(c.index, key)
	c.nodes[i] = lruNode[K, V]{}
	c.free = append(c.free, i)
	return true
}

// Contains reports whether _key_ is cached
func (c *LRUCache[K, V]) Contains(key K) bool {
	_, ok := c.index[key]
	return ok
}

// Len returns the number of cached entries
func (c *LRUCache[K, V]) Len() int {
	return len(c.index)
}

// Cap returns the maximum number of entries
func (c *LRUCache[K, V]) Cap() int {
	return c.capacity
}

// Keys returns the cached keys from most to least recently used
func (c *LRUCache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.index))
	for i := c.head; i != nilIndex; i = c.nodes[i].next {
		keys = append(keys, c.nodes[i].key)
	}
	return keys
}

func (c *LRUCache[K, V]) alloc(key K, value V) int32 {
	node := lruNode[K, V]{key: key, value: value, prev: nilIndex, next: nilIndex}
	if n := len(c.free); n > 0 {
		i := c.free[n-1]
		c.free = c.free[:n-1]
		c.nodes[i] = node
		return i
	}
	c.nodes = append(c.nodes, node)
	return int32(len(c.nodes) - 1)
}

func (c *LRUCache[K, V]) unlink(i int32) {
	n := &c.nodes[i]
	if n.prev != nilIndex {
		c.nodes[n.prev].next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nilIndex {
		c.nodes[n.next].prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nilIndex, nilIndex
}

func (c *LRUCache[K, V]) pushFront(i int32) {
	n := &c.nodes[i]
	n.prev, n.next = nilIndex, c.head
	if c.head != nilIndex {
		c.nodes[c.head].prev = i
	}
	c.head = i
	if c.tail == nilIndex {
		c.tail = i
	}
}

func (c *LRUCache[K, V]) moveToFront(i int32) {
	if c.head == i {
		return
	}
	c.unlink(i)
	c.pushFront(i)
}
