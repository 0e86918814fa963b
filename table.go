package pagecache

import "iter"

type (
	// Allocator provides the value for a key that missed.
	// A returned error is propagated by [Table.Resolve]
	// and nothing is admitted.
	Allocator[Value any] func() (Value, error)
	// Table is a fixed capacity key to value mapping
	// that replaces its least recently used entry
	// when a new key must be admitted while full.
	// Implemented by [Cache] and [LinearCache].
	Table[Key comparable, Value any] interface {
		// Resolve returns the value bound to key and marks it
		// most recently used, calling allocate only on a miss.
		Resolve(key Key, allocate Allocator[Value]) (Value, error)
		// Peek returns the value bound to key without
		// affecting its recency or the table's counters.
		Peek(key Key) (Value, bool)
		// Stats returns a snapshot of the table's counters.
		Stats() Stats
		// EvictAll removes every entry.
		// Counters are retained.
		EvictAll()
		// Len returns the number of resident entries.
		Len() int
		// Keys returns an iterator over the resident keys,
		// from most to least recently used.
		Keys() iter.Seq[Key]
	}
)

const (
	// MinimumCapacity defines the lowest value supported by the constructors.
	MinimumCapacity = 1
	// LinearThreshold is the largest capacity
	// for which [NewTable] returns a [LinearCache].
	LinearThreshold = 16
)

var (
	_ Table[int, int] = (*Cache[int, int])(nil)
	_ Table[int, int] = (*LinearCache[int, int])(nil)
)

// NewTable creates a [Table] suited to the given capacity.
// Small tables scan a slot array; larger ones use [Cache].
func NewTable[Key comparable, Value any](capacity int, options ...Option[Key, Value]) (Table[Key, Value], error) {
	var (
		table Table[Key, Value]
		err   error
	)
	if capacity <= LinearThreshold {
		table, err = NewLinear(capacity, options...)
	} else {
		table, err = New(capacity, options...)
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

func allocateValue[Key comparable, Value any](key Key, allocate Allocator[Value]) (Value, error) {
	if allocate == nil {
		var zero Value
		return zero, allocationError(key, ErrNilAllocator)
	}
	value, err := allocate()
	if err != nil {
		return value, allocationError(key, err)
	}
	return value, nil
}
