package cache

import (
	"testing"
	"time"
)

func TestLRUBasics(t *testing.T) {
	c := New[string](2, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache returned a value")
	}

	c.Set("a", "1")
	c.Set("b", "2")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("got %q, %v", v, ok)
	}

	// "a" was just used, so adding "c" must evict "b".
	c.Set("c", "3")
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to survive")
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("x", 42)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("x"); ok {
		t.Fatal("expected expired entry to be absent")
	}
}

func TestLRUPurge(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("x", 1)
	c.Set("y", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("z", 3)
	if removed := c.Purge(); removed != 2 {
		t.Fatalf("purged %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
}

func TestLRUUpdateRefreshes(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("a", 2)
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if v, _ := c.Get("a"); v != 2 {
		t.Fatalf("got %d, want 2", v)
	}
}
