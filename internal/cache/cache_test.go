package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New[string, uint64](0)
	defer c.Close()

	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	c.Set(ctx, "gas", 750, time.Minute)
	if v, ok := c.Get(ctx, "gas"); !ok || v != 750 {
		t.Fatalf("Get = %d, %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(ctx, "gas"); ok {
		t.Fatal("expected entry to expire")
	}

	c.evictExpired()
	if c.Len() != 0 {
		t.Errorf("Len = %d after eviction", c.Len())
	}
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := New[int, string](time.Hour)
	defer c.Close()

	c.Set(ctx, 1, "one", time.Hour)
	c.Delete(ctx, 1)
	if _, ok := c.Get(ctx, 1); ok {
		t.Fatal("deleted key still present")
	}
	c.Close()
}
