// Package arena is a slice-backed adaption of `container/list`
// for use as an LRU recency order.
package arena

import "iter"

type (
	// Locator addresses an element of a [List].
	// It remains valid across any reordering of the list,
	// until the element it refers to is removed.
	Locator int
	// Entry is the payload of a list element.
	Entry[Key comparable, Value any] struct {
		Key   Key
		Value Value
	}
	// List is a doubly linked list whose elements
	// are stored in a single slice and link to each other
	// by index rather than by pointer.
	// Removed elements are recycled by later pushes.
	// The zero value is not valid; use [New].
	List[Key comparable, Value any] struct {
		nodes  []node[Key, Value]
		free   Locator
		length int
	}
	node[Key comparable, Value any] struct {
		prev, next Locator
		Entry[Key, Value]
	}
)

// root is the sentinel node; root.next is the front
// and root.prev is the back. It doubles as the
// "empty" terminator for the free list.
const root Locator = 0

// New creates an empty list with room for size
// elements before its backing slice has to grow.
func New[Key comparable, Value any](size int) *List[Key, Value] {
	return &List[Key, Value]{
		nodes: make([]node[Key, Value], 1, size+1),
	}
}

// Len returns the number of elements in the list.
func (l *List[Key, Value]) Len() int { return l.length }

// Front returns the locator of the first element, if any.
func (l *List[Key, Value]) Front() (Locator, bool) {
	front := l.nodes[root].next
	return front, front != root
}

// Back returns the locator of the last element, if any.
func (l *List[Key, Value]) Back() (Locator, bool) {
	back := l.nodes[root].prev
	return back, back != root
}

// At returns the entry stored at loc.
// loc must refer to an element of l.
func (l *List[Key, Value]) At(loc Locator) Entry[Key, Value] {
	return l.nodes[loc].Entry
}

// PushFront inserts a new element at the front of the list
// and returns its locator.
func (l *List[Key, Value]) PushFront(key Key, value Value) Locator {
	loc := l.alloc()
	l.nodes[loc].Entry = Entry[Key, Value]{Key: key, Value: value}
	l.insertAfter(root, loc)
	l.length++
	return loc
}

// MoveToFront moves the element at loc to the front of the list.
// Locators of other elements are unaffected.
func (l *List[Key, Value]) MoveToFront(loc Locator) {
	if l.nodes[root].next == loc {
		return
	}
	l.unlink(loc)
	l.insertAfter(root, loc)
}

// Remove unlinks the element at loc and returns its entry.
// loc is invalid afterwards.
func (l *List[Key, Value]) Remove(loc Locator) Entry[Key, Value] {
	entry := l.nodes[loc].Entry
	l.unlink(loc)
	l.nodes[loc] = node[Key, Value]{next: l.free}
	l.free = loc
	l.length--
	return entry
}

// Reset removes every element, retaining the backing storage.
func (l *List[Key, Value]) Reset() {
	clear(l.nodes)
	l.nodes = l.nodes[:1]
	l.free = root
	l.length = 0
}

// All returns an iterator over the list
// from front to back.
// The list must not be modified during iteration.
func (l *List[Key, Value]) All() iter.Seq2[Locator, Entry[Key, Value]] {
	return func(yield func(Locator, Entry[Key, Value]) bool) {
		for loc := l.nodes[root].next; loc != root; loc = l.nodes[loc].next {
			if !yield(loc, l.nodes[loc].Entry) {
				return
			}
		}
	}
}

// Backward returns an iterator over the list
// from back to front.
// The list must not be modified during iteration.
func (l *List[Key, Value]) Backward() iter.Seq2[Locator, Entry[Key, Value]] {
	return func(yield func(Locator, Entry[Key, Value]) bool) {
		for loc := l.nodes[root].prev; loc != root; loc = l.nodes[loc].prev {
			if !yield(loc, l.nodes[loc].Entry) {
				return
			}
		}
	}
}

func (l *List[Key, Value]) alloc() Locator {
	if loc := l.free; loc != root {
		l.free = l.nodes[loc].next
		l.nodes[loc].next = root
		return loc
	}
	l.nodes = append(l.nodes, node[Key, Value]{})
	return Locator(len(l.nodes) - 1)
}

func (l *List[Key, Value]) insertAfter(at, loc Locator) {
	next := l.nodes[at].next
	l.nodes[loc].prev = at
	l.nodes[loc].next = next
	l.nodes[next].prev = loc
	l.nodes[at].next = loc
}

func (l *List[Key, Value]) unlink(loc Locator) {
	var (
		prev = l.nodes[loc].prev
		next = l.nodes[loc].next
	)
	l.nodes[prev].next = next
	l.nodes[next].prev = prev
}
