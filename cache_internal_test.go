package pagecache

import (
	"errors"
	"math/rand"
	"testing"
)

func TestIndexConsistency(t *testing.T) {
	t.Run("random operations", consistentUnderChurn)
	t.Run("detects drift", detectsDrift)
}

func consistentUnderChurn(t *testing.T) {
	t.Parallel()
	const (
		capacity   = 8
		universe   = capacity * 3
		operations = 4096
	)
	cache, err := New[int, int](capacity)
	if err != nil {
		t.Fatal(err)
	}
	var (
		rng      = rand.New(rand.NewSource(1))
		errNoMem = errors.New("out of frames")
		allocate = func() (int, error) { return rng.Int(), nil }
		failing  = func() (int, error) { return 0, errNoMem }
	)
	for i := range operations {
		key := rng.Intn(universe)
		switch roll := rng.Intn(100); {
		case roll == 0:
			cache.EvictAll()
		case roll < 10:
			if _, err := cache.Resolve(key, failing); err == nil {
				if _, resident := cache.Peek(key); !resident {
					t.Fatalf("operation %d: miss on %d did not fail", i, key)
				}
			}
		default:
			if _, err := cache.Resolve(key, allocate); err != nil {
				t.Fatal(err)
			}
		}
		cache.mu.Lock()
		err := cache.verify()
		cache.mu.Unlock()
		if err != nil {
			t.Fatalf("operation %d: %v", i, err)
		}
	}
}

func detectsDrift(t *testing.T) {
	t.Parallel()
	cache, err := New[string, int](2)
	if err != nil {
		t.Fatal(err)
	}
	allocate := func() (int, error) { return 1, nil }
	for _, key := range []string{"A", "B"} {
		if _, err := cache.Resolve(key, allocate); err != nil {
			t.Fatal(err)
		}
	}
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if err := cache.verify(); err != nil {
		t.Fatalf("consistent cache reported: %v", err)
	}
	cache.index["A"], cache.index["B"] = cache.index["B"], cache.index["A"]
	if err := cache.verify(); err == nil {
		t.Error("swapped locators were not detected")
	}
	delete(cache.index, "A")
	if err := cache.verify(); err == nil {
		t.Error("missing index binding was not detected")
	}
}
