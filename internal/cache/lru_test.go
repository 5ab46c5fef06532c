package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recent
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a should survive, got %v %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](10, time.Minute)
	c.now = clock.now

	c.Set("k", "v")
	c.Set("j", "w")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("expected hit before ttl")
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after ttl")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Fatalf("cache should be empty")
	}
}

func TestLRUOverwriteAndPurge(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)
	c.Set("a", 1)
	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 || c.Size() != 1 {
		t.Fatalf("overwrite failed: v=%d size=%d", v, c.Size())
	}
	c.Delete("a")
	c.Set("b", 1)
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("purge left %d items", c.Size())
	}
}

func TestLRUConcurrentAccess(t *testing.T) {
	c := NewLRUCache[int](50, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", (i*j)%80)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	if c.Size() > 50 {
		t.Fatalf("size %d exceeds max", c.Size())
	}
}

func TestManagerSweepAndRun(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := NewLRUCache[int](10, time.Second)
	c.now = clock.now
	c.Set("a", 1)
	clock.t = clock.t.Add(time.Hour)

	m := NewManager(nil)
	m.Register(c)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep = %d, want 1", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, 10*time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop on cancel")
	}
}
