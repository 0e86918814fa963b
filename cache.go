package pagecache

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/djdv/go-pagecache/internal/arena"
)

// Cache is the indexed [Table].
// Keys map to stable locators into an arena-backed recency list,
// so hits, admissions and evictions are O(1).
// Safe for concurrent use.
// Constructed by [New].
type Cache[Key comparable, Value any] struct {
	mu    sync.Mutex
	index map[Key]arena.Locator
	order *arena.List[Key, Value]
	settings[Key, Value]
	counters
	capacity int
}

// New creates a [Cache] with the given capacity.
// Capacity must be at least [MinimumCapacity].
func New[Key comparable, Value any](capacity int, options ...Option[Key, Value]) (*Cache[Key, Value], error) {
	const sizeHint = 1 << 12
	if capacity < MinimumCapacity {
		return nil, minCapacityError(capacity)
	}
	prealloc := min(capacity, sizeHint)
	return &Cache[Key, Value]{
		index:    make(map[Key]arena.Locator, prealloc),
		order:    arena.New[Key, Value](prealloc),
		settings: newSettings(options),
		capacity: capacity,
	}, nil
}

// Resolve returns the value bound to key (if resident),
// and marks it as most recently used.
// Otherwise, it calls allocate and admits the result,
// evicting the least recently used entry if the cache is full.
// If allocate returns an error, it is wrapped with
// [ErrAllocationFailed] and the cache is left unchanged.
func (c *Cache[Key, Value]) Resolve(key Key, allocate Allocator[Value]) (Value, error) {
	value, evicted, replaced, err := c.resolve(key, allocate)
	if replaced {
		c.evicted(evicted)
	}
	return value, err
}

func (c *Cache[Key, Value]) resolve(key Key, allocate Allocator[Value]) (
	value Value, evicted victim[Key, Value], replaced bool, err error,
) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if loc, hit := c.index[key]; hit {
		c.hits.Add(1)
		c.order.MoveToFront(loc)
		return c.order.At(loc).Value, evicted, false, nil
	}
	if value, err = allocateValue(key, allocate); err != nil {
		c.failures.Add(1)
		c.allocationFailed(key, err)
		return value, evicted, false, err
	}
	c.faults.Add(1)
	// Allocation succeeded, so replacement can be committed.
	if replaced = c.order.Len() == c.capacity; replaced {
		evicted = c.evictLRU()
	}
	c.index[key] = c.order.PushFront(key, value)
	c.resident.Store(int64(c.order.Len()))
	c.admitted(key, replaced)
	if debugging {
		assertNil(c.verify())
	}
	return value, evicted, replaced, nil
}

func (c *Cache[Key, Value]) evictLRU() victim[Key, Value] {
	back, ok := c.order.Back()
	if debugging {
		assert(ok, "evicting from an empty recency order")
	}
	entry := c.order.Remove(back)
	delete(c.index, entry.Key)
	c.evictions.Add(1)
	return victim[Key, Value]{key: entry.Key, value: entry.Value}
}

// Peek returns the Value for key if it is resident,
// without marking it as used.
func (c *Cache[Key, Value]) Peek(key Key) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if loc, ok := c.index[key]; ok {
		return c.order.At(loc).Value, true
	}
	var zero Value
	return zero, false
}

// EvictAll removes every entry, least recently used first.
// Counters are not reset.
func (c *Cache[Key, Value]) EvictAll() {
	c.mu.Lock()
	evicted := make([]victim[Key, Value], 0, c.order.Len())
	for _, entry := range c.order.Backward() {
		evicted = append(evicted, victim[Key, Value]{
			key:   entry.Key,
			value: entry.Value,
		})
	}
	c.order.Reset()
	clear(c.index)
	c.resident.Store(0)
	c.mu.Unlock()
	c.evicted(evicted...)
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache[_, _]) Stats() Stats { return c.snapshot() }

// Len returns the number of resident entries.
func (c *Cache[_, _]) Len() int { return int(c.resident.Load()) }

// Keys returns an iterator over the keys resident at the time of the call,
// from most to least recently used.
func (c *Cache[Key, _]) Keys() iter.Seq[Key] {
	c.mu.Lock()
	keys := make([]Key, 0, c.order.Len())
	for _, entry := range c.order.All() {
		keys = append(keys, entry.Key)
	}
	c.mu.Unlock()
	return slices.Values(keys)
}

// verify reports if the index and the recency order
// are out of step. Caller must hold the lock.
func (c *Cache[Key, Value]) verify() error {
	if length, indexed := c.order.Len(), len(c.index); length != indexed {
		return fmt.Errorf(
			"recency order holds %d entries but index holds %d",
			length, indexed)
	}
	if length := c.order.Len(); length > c.capacity {
		return fmt.Errorf(
			"recency order holds %d entries, capacity is %d",
			length, c.capacity)
	}
	for loc, entry := range c.order.All() {
		if indexed, ok := c.index[entry.Key]; !ok || indexed != loc {
			return fmt.Errorf(
				"key %v is at %d in the recency order but indexed at %d (%t)",
				entry.Key, loc, indexed, ok)
		}
	}
	return nil
}
