package memo

import (
	"sync"
	"testing"
)

type pairKey struct {
	text  string
	width int
}

func TestCacheUnboundedKeepsEverything(t *testing.T) {
	c, err := New[pairKey, int](0)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	for i := 0; i < 100; i++ {
		c.Add(pairKey{text: "line", width: i}, i)
	}
	if c.Len() != 100 {
		t.Fatalf("expected 100 entries, got %d", c.Len())
	}
	v, ok := c.Get(pairKey{text: "line", width: 42})
	if !ok || v != 42 {
		t.Fatalf("Get = %d, %v", v, ok)
	}
}

func TestCacheBoundedEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New[string, int](2)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	c.Add("a", 1)
	c.Add("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be present")
	}
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected recently used a to survive")
	}
	stats := c.Stats()
	if stats.Evictions != 1 || stats.Entries != 2 || stats.Capacity != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestCacheCountsHitsAndMisses(t *testing.T) {
	c, _ := New[string, string](0)
	c.Get("missing")
	c.Add("k", "v")
	c.Get("k")
	c.Get("k")

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestCacheRejectsNegativeCapacity(t *testing.T) {
	if _, err := New[string, int](-1); err == nil {
		t.Fatal("expected error for negative capacity")
	}
}

func TestCachePurge(t *testing.T) {
	for _, capacity := range []int{0, 8} {
		c, _ := New[string, int](capacity)
		c.Add("a", 1)
		c.Purge()
		if c.Len() != 0 {
			t.Fatalf("capacity %d: expected empty cache after purge", capacity)
		}
	}
}

func TestCacheConcurrentAdds(t *testing.T) {
	for _, capacity := range []int{0, 16} {
		c, _ := New[int, int](capacity)
		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 16; i++ {
					c.Add(i, i*i)
					if v, ok := c.Get(i); ok && v != i*i {
						t.Errorf("unexpected value %d for key %d", v, i)
					}
				}
			}()
		}
		wg.Wait()
		if c.Len() != 16 {
			t.Fatalf("capacity %d: expected 16 entries, got %d", capacity, c.Len())
		}
	}
}
