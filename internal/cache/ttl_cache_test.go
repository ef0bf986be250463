package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(ttl time.Duration, max int) (*TTLCache[string, int], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string, int](ttl, max)
	c.now = clock.Now
	return c, clock
}

func TestSetAndGet(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)
	c.Set("key1", 42)

	if v, ok := c.Get("key1"); !ok || v != 42 {
		t.Errorf("Get(key1) = %d, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) returned ok=true")
	}
}

func TestEntriesExpireIndividually(t *testing.T) {
	c, clock := newTestCache(time.Minute, 0)
	c.Set("old", 1)
	clock.Advance(40 * time.Second)
	c.Set("new", 2)
	clock.Advance(30 * time.Second)

	if _, ok := c.Get("old"); ok {
		t.Error("old entry should have expired")
	}
	if v, ok := c.Get("new"); !ok || v != 2 {
		t.Errorf("Get(new) = %d, %v", v, ok)
	}
	if n := c.Prune(); n != 1 || c.Len() != 1 {
		t.Errorf("Prune() = %d, Len() = %d", n, c.Len())
	}
}

func TestEvictsOldestWhenFull(t *testing.T) {
	c, clock := newTestCache(time.Hour, 2)
	c.Set("a", 1)
	clock.Advance(time.Second)
	c.Set("b", 2)
	clock.Advance(time.Second)
	c.Set("c", 3)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	c.Set("b", 20)
	if v, _ := c.Get("b"); v != 20 || c.Len() != 2 {
		t.Errorf("overwrite: Get(b) = %d, Len() = %d", v, c.Len())
	}
}

func TestInvalidate(t *testing.T) {
	c, _ := newTestCache(time.Hour, 0)
	c.Set("a", 1)
	c.Invalidate()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Invalidate", c.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](time.Minute, 50)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d-%d", n, j%20)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	if c.Len() > 50 {
		t.Errorf("Len() = %d exceeds bound", c.Len())
	}
}

func TestDigest(t *testing.T) {
	a := Digest([]byte("ab"), []byte("c"))
	b := Digest([]byte("a"), []byte("bc"))
	if a == b {
		t.Error("different splits must give different digests")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex characters", len(a))
	}
	if a != Digest([]byte("ab"), []byte("c")) {
		t.Error("digest must be deterministic")
	}
}
