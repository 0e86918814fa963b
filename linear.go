package pagecache

import (
	"cmp"
	"iter"
	"math"
	"slices"
	"sync"
)

type (
	// LinearCache is the slot-scanning [Table].
	// Each slot records the tick of its last use and
	// the slot with the oldest tick is replaced when full.
	// Resolution is O(capacity), which is cheaper than
	// [Cache] for small tables.
	// Safe for concurrent use.
	// Constructed by [NewLinear].
	LinearCache[Key comparable, Value any] struct {
		mu    sync.Mutex
		slots []slot[Key, Value]
		settings[Key, Value]
		counters
		// Strictly increasing; advanced on every hit and admission.
		tick uint64
	}
	slot[Key comparable, Value any] struct {
		key      Key
		value    Value
		lastUsed uint64
		occupied bool
	}
)

// NewLinear creates a [LinearCache] with the given capacity.
// Capacity must be at least [MinimumCapacity].
func NewLinear[Key comparable, Value any](capacity int, options ...Option[Key, Value]) (*LinearCache[Key, Value], error) {
	if capacity < MinimumCapacity {
		return nil, minCapacityError(capacity)
	}
	return &LinearCache[Key, Value]{
		slots:    make([]slot[Key, Value], capacity),
		settings: newSettings(options),
	}, nil
}

// Resolve returns the value bound to key (if resident),
// and marks it as most recently used.
// Otherwise, it calls allocate and stores the result
// in a free slot, or in the least recently used slot if none are free.
// If allocate returns an error, it is wrapped with
// [ErrAllocationFailed] and the cache is left unchanged.
func (c *LinearCache[Key, Value]) Resolve(key Key, allocate Allocator[Value]) (Value, error) {
	value, evicted, replaced, err := c.resolve(key, allocate)
	if replaced {
		c.evicted(evicted)
	}
	return value, err
}

func (c *LinearCache[Key, Value]) resolve(key Key, allocate Allocator[Value]) (
	value Value, evicted victim[Key, Value], replaced bool, err error,
) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index, hit := c.find(key); hit {
		c.hits.Add(1)
		c.touch(index)
		return c.slots[index].value, evicted, false, nil
	}
	if value, err = allocateValue(key, allocate); err != nil {
		c.failures.Add(1)
		c.allocationFailed(key, err)
		return value, evicted, false, err
	}
	c.faults.Add(1)
	var (
		index  = c.replaceable()
		target = &c.slots[index]
	)
	if replaced = target.occupied; replaced {
		evicted = victim[Key, Value]{key: target.key, value: target.value}
		c.evictions.Add(1)
	} else {
		c.resident.Add(1)
	}
	*target = slot[Key, Value]{
		key:      key,
		value:    value,
		occupied: true,
	}
	c.touch(index)
	c.admitted(key, replaced)
	return value, evicted, replaced, nil
}

func (c *LinearCache[Key, _]) find(key Key) (int, bool) {
	for i := range c.slots {
		if slot := &c.slots[i]; slot.occupied && slot.key == key {
			return i, true
		}
	}
	return -1, false
}

func (c *LinearCache[_, _]) touch(index int) {
	c.tick++
	c.slots[index].lastUsed = c.tick
}

// replaceable returns the first free slot,
// or the slot with the oldest tick if none are free.
func (c *LinearCache[_, _]) replaceable() int {
	var (
		oldest = 0
		tick   = uint64(math.MaxUint64)
	)
	for i := range c.slots {
		slot := &c.slots[i]
		if !slot.occupied {
			return i
		}
		if slot.lastUsed < tick {
			oldest, tick = i, slot.lastUsed
		}
	}
	return oldest
}

// Peek returns the Value for key if it is resident,
// without marking it as used.
func (c *LinearCache[Key, Value]) Peek(key Key) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index, ok := c.find(key); ok {
		return c.slots[index].value, true
	}
	var zero Value
	return zero, false
}

// EvictAll removes every entry, least recently used first.
// Counters are not reset.
func (c *LinearCache[Key, Value]) EvictAll() {
	c.mu.Lock()
	occupied := c.byRecency()
	slices.Reverse(occupied)
	evicted := make([]victim[Key, Value], len(occupied))
	for i, slot := range occupied {
		evicted[i] = victim[Key, Value]{key: slot.key, value: slot.value}
	}
	clear(c.slots)
	c.resident.Store(0)
	c.mu.Unlock()
	c.evicted(evicted...)
}

// Stats returns a snapshot of the cache's counters.
func (c *LinearCache[_, _]) Stats() Stats { return c.snapshot() }

// Len returns the number of resident entries.
func (c *LinearCache[_, _]) Len() int { return int(c.resident.Load()) }

// Keys returns an iterator over the keys resident at the time of the call,
// from most to least recently used.
func (c *LinearCache[Key, _]) Keys() iter.Seq[Key] {
	c.mu.Lock()
	occupied := c.byRecency()
	c.mu.Unlock()
	return func(yield func(Key) bool) {
		for _, slot := range occupied {
			if !yield(slot.key) {
				return
			}
		}
	}
}

// byRecency returns copies of the occupied slots,
// most recently used first. Caller must hold the lock.
func (c *LinearCache[Key, Value]) byRecency() []slot[Key, Value] {
	occupied := make([]slot[Key, Value], 0, len(c.slots))
	for _, slot := range c.slots {
		if slot.occupied {
			occupied = append(occupied, slot)
		}
	}
	slices.SortFunc(occupied, func(a, b slot[Key, Value]) int {
		return cmp.Compare(b.lastUsed, a.lastUsed)
	})
	return occupied
}
