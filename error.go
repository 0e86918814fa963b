package pagecache

import "fmt"

type constError string

const (
	// ErrInvalidCapacity may be returned from the table constructors.
	ErrInvalidCapacity = constError("invalid capacity")
	// ErrAllocationFailed is wrapped by errors returned from Resolve
	// when a miss could not obtain a value from its allocator.
	ErrAllocationFailed = constError("allocation failed")
	// ErrNilAllocator is the allocation failure cause
	// when a miss is resolved without an allocator.
	ErrNilAllocator = constError("nil allocator")
)

func (errStr constError) Error() string { return string(errStr) }

func minCapacityError(capacity int) error {
	return fmt.Errorf(
		"%w: must be >=%d but %d was requested",
		ErrInvalidCapacity, MinimumCapacity, capacity)
}

func allocationError[Key comparable](key Key, cause error) error {
	return fmt.Errorf(
		"%w for key %v: %w",
		ErrAllocationFailed, key, cause)
}
