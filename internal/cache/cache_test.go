package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/openrevenue/harrier/internal/domain"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRUCache(10)
	ctx := context.Background()

	if err := c.Set(ctx, "query:alerts", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, err := c.Get(ctx, "query:alerts")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(val) != "value" {
		t.Errorf("got %q, want value", val)
	}

	// Missing key is nil, nil.
	val, err = c.Get(ctx, "missing")
	if err != nil || val != nil {
		t.Errorf("miss = %v, %v; want nil, nil", val, err)
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRUCache(10)
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)

	val, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatal(err)
	}
	if val != nil {
		t.Error("expired entry still readable")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache(3)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("k%d", i)
		if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
			t.Fatal(err)
		}
	}

	size, capacity := c.Stats()
	if size != 3 || capacity != 3 {
		t.Errorf("stats = %d/%d, want 3/3", size, capacity)
	}
	// Oldest entry was evicted.
	if val, _ := c.Get(ctx, "k0"); val != nil {
		t.Error("oldest entry not evicted")
	}
	if val, _ := c.Get(ctx, "k3"); val == nil {
		t.Error("newest entry missing")
	}
}

func TestLRUInvalidatePrefix(t *testing.T) {
	c := NewLRUCache(10)
	ctx := context.Background()

	c.Set(ctx, "query:alerts:open", []byte("a"), time.Minute)
	c.Set(ctx, "query:alerts:all", []byte("b"), time.Minute)
	c.Set(ctx, "query:cohorts", []byte("c"), time.Minute)
	c.Set(ctx, "other:key", []byte("d"), time.Minute)

	if err := c.Invalidate(ctx, "query:"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	for _, key := range []string{"query:alerts:open", "query:alerts:all", "query:cohorts"} {
		if val, _ := c.Get(ctx, key); val != nil {
			t.Errorf("%s survived invalidation", key)
		}
	}
	if val, _ := c.Get(ctx, "other:key"); val == nil {
		t.Error("unrelated key was invalidated")
	}
}

func TestLRUCounter(t *testing.T) {
	c := NewLRUCache(10)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := c.IncrementCounter(ctx, "run:active", time.Minute)
		if err != nil {
			t.Fatalf("IncrementCounter: %v", err)
		}
		if got != want {
			t.Errorf("count = %d, want %d", got, want)
		}
	}

	// Delete releases the counter window.
	if err := c.Delete(ctx, "run:active"); err != nil {
		t.Fatal(err)
	}
	got, err := c.IncrementCounter(ctx, "run:active", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("count after delete = %d, want 1", got)
	}
}

func TestLRUCounterWindowExpiry(t *testing.T) {
	c := NewLRUCache(10)
	ctx := context.Background()

	if _, err := c.IncrementCounter(ctx, "w", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)

	got, err := c.IncrementCounter(ctx, "w", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("count = %d after window expiry, want 1", got)
	}
}

func TestNewUnsupportedType(t *testing.T) {
	if _, err := New(domain.CacheConfig{Type: "bogus"}); err == nil {
		t.Error("expected error for unsupported cache type")
	}
}
