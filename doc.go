// Package pagecache implements fixed capacity [Table]s which
// replace their Least Recently Used (LRU) entry on demand.
//
// A table binds keys ("pages") to values ("frames").
// Resolving a resident key is a hit; resolving any other key is a fault,
// which asks the caller's [Allocator] for a fresh value and admits it,
// replacing the least recently used entry if the table is full.
//
// Two implementations share the [Table] contract
// and select identical victims for the same access history:
//
//   - [Cache]
//
//     Maps keys to locators into a recency list (most recently used at the front).
//     List nodes live in a single slice and link by index,
//     so a locator stays valid while other entries are reordered.
//     Hits, faults and evictions are O(1).
//
//   - [LinearCache]
//
//     A slot array with a parallel "last used" tick per slot.
//     Every operation scans all slots; the free slot,
//     or the slot with the smallest tick, is replaced.
//     This is simpler and cache friendly for small capacities,
//     and serves as a reference for [Cache].
//
// [NewTable] chooses between them by capacity.
//
// Invariants:
//
//   - Resident entries never exceed capacity.
//
//   - The key index and the recency order always hold the same keys.
//
//     Builds tagged `pagecache_debug` check this after every admission.
//
//   - Failed allocation is atomic.
//
//     An [Allocator] error is returned wrapped with [ErrAllocationFailed],
//     and no entry is admitted or evicted.
//
// Counters (see [Stats]) are per table, only grow,
// and may be read without blocking resolvers.
package pagecache
