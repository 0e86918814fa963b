package pagecache

import "sync/atomic"

// Stats is a point-in-time snapshot of a table's counters.
// Fields are loaded independently, so a snapshot taken while
// another goroutine resolves may mix before and after values.
type Stats struct {
	// Faults counts misses that admitted a new entry.
	Faults uint64
	// Hits counts resolutions served by a resident entry.
	Hits uint64
	// Evictions counts entries replaced to make room for a fault.
	Evictions uint64
	// Failures counts misses whose allocator returned an error.
	Failures uint64
	// Resident is the number of entries currently held.
	Resident int
}

// HitRatio returns Hits / (Hits + Faults),
// or 0 if nothing has been resolved yet.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Faults
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// counters are only written while the owning table's lock is held,
// but may be read without it.
type counters struct {
	resident atomic.Int64
	faults, hits,
	evictions, failures atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Faults:    c.faults.Load(),
		Hits:      c.hits.Load(),
		Evictions: c.evictions.Load(),
		Failures:  c.failures.Load(),
		Resident:  int(c.resident.Load()),
	}
}
