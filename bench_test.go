package pagecache_test

import (
	"fmt"
	"math/bits"
	"math/rand"
	"testing"
	"unsafe"

	"github.com/djdv/go-pagecache"
	"github.com/hashicorp/golang-lru/arc/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

type (
	// benchCache reports if an access was a hit,
	// admitting the key on a miss.
	benchCache interface {
		Access(key int) (hit bool)
	}
	cacheCtor        = func(capacity int, b *testing.B) benchCache
	cacheConstructor struct {
		name string
		new  cacheCtor
	}
	patternGen    = func(capacity int) []int
	accessPattern struct {
		name string
		gen  patternGen
	}
	tableWrapper struct {
		table    pagecache.Table[int, int]
		allocate pagecache.Allocator[int]
		missed   bool
	}
	lruWrapper struct{ *lru.Cache[int, int] }
	arcWrapper struct{ *arc.ARCCache[int, int] }
)

func newTableWrapper(table pagecache.Table[int, int]) *tableWrapper {
	tw := &tableWrapper{table: table}
	tw.allocate = func() (int, error) {
		tw.missed = true
		return 0, nil
	}
	return tw
}

func (tw *tableWrapper) Access(key int) bool {
	tw.missed = false
	if _, err := tw.table.Resolve(key, tw.allocate); err != nil {
		panic(err)
	}
	return !tw.missed
}

func (lw lruWrapper) Access(key int) bool {
	if _, ok := lw.Get(key); ok {
		return true
	}
	lw.Add(key, key)
	return false
}

func (aw arcWrapper) Access(key int) bool {
	if _, ok := aw.Get(key); ok {
		return true
	}
	aw.Add(key, key)
	return false
}

// Fixed RNG seed for reproducibility.
// Change to test variance between runs.
const rngSeed = 1

func BenchmarkTable(b *testing.B) {
	b.Run("API overhead", apiOverhead)
	var (
		constructors = cacheConstructors()
		capacities   = []int{16, 128, 1024}
		patterns     = accessPatterns()
	)
	runPatterns(b, constructors, capacities, patterns)
}

func cacheConstructors() []cacheConstructor {
	tableCtor := func(variant string) cacheCtor {
		return func(capacity int, b *testing.B) benchCache {
			return newTableWrapper(newTable[int, int](b, variant, capacity))
		}
	}
	return []cacheConstructor{
		{"Indexed", tableCtor(indexedVariant)},
		{"Linear", tableCtor(linearVariant)},
		{
			"HashicorpLRU",
			func(capacity int, b *testing.B) benchCache {
				cache, err := lru.New[int, int](capacity)
				if err != nil {
					b.Fatal(err)
				}
				return lruWrapper{Cache: cache}
			},
		},
		{
			"ARC",
			func(capacity int, b *testing.B) benchCache {
				cache, err := arc.NewARC[int, int](capacity)
				if err != nil {
					b.Fatal(err)
				}
				return arcWrapper{ARCCache: cache}
			},
		},
	}
}

func accessPatterns() []accessPattern {
	return []accessPattern{
		{
			"Sequential scan",
			func(int) []int {
				const (
					universe = 1 << 16 // Key space large enough to force misses.
					seqLen   = 1 << 15 // Power of two for cheap masking.
				)
				return makeSequential(universe, seqLen)
			},
		},
		{
			"Loop working set",
			func(capacity int) []int {
				const (
					universe = 8192
					seqLen   = 1 << 16
					hotRatio = 0.9 // 90% of accesses hit hot set.
				)
				return makeLooping(capacity, universe, seqLen, hotRatio)
			},
		},
		{
			"Zipf",
			func(int) []int {
				const (
					universe = 16384
					seqLen   = 1 << 16
					skew     = 1.2
					bias     = 1.0
				)
				return makeZipf(universe, seqLen, skew, bias)
			},
		},
		{
			"Uniform random",
			func(capacity int) []int {
				const seqLen = 1 << 16
				var (
					rng        = newReproducibleRNG()
					upperBound = capacity * 4 // Universe bigger than capacity.
				)
				return makeRandomSequence(rng, upperBound, nextPow2(seqLen))
			},
		},
	}
}

func runPatterns(b *testing.B, constructors []cacheConstructor, capacities []int, patterns []accessPattern) {
	const dataSize = int64(unsafe.Sizeof(int(0)) * 2)
	for _, pattern := range patterns {
		b.Run(pattern.name, func(b *testing.B) {
			for _, capacity := range capacities {
				sequence := pattern.gen(capacity)
				b.Run(fmt.Sprintf("Cap%d", capacity), func(b *testing.B) {
					for _, constructor := range constructors {
						b.Run(constructor.name, newBenchCache(
							constructor.new, capacity,
							dataSize, sequence,
						))
					}
				})
			}
		})
	}
}

func newBenchCache(
	ctor cacheCtor, capacity int,
	dataSize int64, sequence []int,
) func(b *testing.B) {
	return func(b *testing.B) {
		cache := ctor(capacity, b)
		warmUp(cache, sequence)
		b.ReportAllocs()
		b.SetBytes(dataSize)
		b.ResetTimer()
		var (
			hits, misses int64
			seqMask      = len(sequence) - 1
		)
		for i := 0; b.Loop(); i++ {
			if cache.Access(sequence[i&seqMask]) {
				hits++
			} else {
				misses++
			}
		}
		b.StopTimer()
		var (
			total    = float64(hits + misses)
			hitRate  = float64(hits) / total * 100.0
			missRate = float64(misses) / total * 100.0
		)
		b.ReportMetric(hitRate, "hit_rate_pct")
		b.ReportMetric(missRate, "miss_rate_pct")
	}
}

func apiOverhead(b *testing.B) {
	const (
		capacity = 1024
		keyCount = 1 << 16 // Power-of-two for mask; much larger than capacity to mix hits/misses.
		keyEnd   = keyCount - 1
	)
	var (
		cache = newTableWrapper(newTable[int, int](b, indexedVariant, capacity))
		rng   = newReproducibleRNG()
		keys  = makeRandomSequence(rng, capacity*2, keyCount)
	)
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		cache.Access(keys[i&keyEnd])
	}
}

func makeSequential(universe, seqLen int) []int {
	seq := make([]int, nextPow2(seqLen))
	for i := range seq {
		seq[i] = i % universe
	}
	return seq
}

func makeLooping(capacity, universe, seqLen int, hotRatio float64) []int {
	var (
		seq      = make([]int, nextPow2(seqLen))
		rng      = newReproducibleRNG()
		hotSize  = max(1, capacity)
		coldSize = max(1, universe-hotSize)
	)
	for i := range seq {
		if rng.Float64() < hotRatio {
			seq[i] = rng.Intn(hotSize)
		} else {
			seq[i] = hotSize + rng.Intn(coldSize)
		}
	}
	return seq
}

func makeZipf(universe, seqLen int, skew, bias float64) []int {
	var (
		seq  = make([]int, nextPow2(seqLen))
		rng  = newReproducibleRNG()
		imax = uint64(max(universe, 2) - 1)
		zipf = rand.NewZipf(rng, skew, bias, imax)
	)
	for i := range seq {
		seq[i] = int(zipf.Uint64())
	}
	return seq
}

func makeRandomSequence(rng *rand.Rand, upperBound, length int) []int {
	keys := make([]int, length)
	for i := range keys {
		keys[i] = rng.Intn(upperBound)
	}
	return keys
}

func warmUp(c benchCache, seq []int) {
	for _, k := range seq {
		c.Access(k)
	}
}

func nextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x)-1)
}

func newReproducibleRNG() *rand.Rand {
	return rand.New(rand.NewSource(rngSeed))
}
