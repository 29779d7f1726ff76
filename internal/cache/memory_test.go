package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryTier_GetSet(t *testing.T) {
	tier := NewMemoryTier(10)
	ctx := context.Background()

	if _, err := tier.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := tier.Set(ctx, "a", []byte("one"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := tier.Get(ctx, "a")
	if err != nil || string(got) != "one" {
		t.Errorf("Get(a) = %q, %v", got, err)
	}

	// whole-value overwrite
	if err := tier.Set(ctx, "a", []byte("two"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, _ = tier.Get(ctx, "a")
	if string(got) != "two" {
		t.Errorf("Get(a) after overwrite = %q", got)
	}
}

func TestMemoryTier_TTLExpiry(t *testing.T) {
	tier := NewMemoryTier(10)
	now := time.Now()
	tier.now = func() time.Time { return now }
	ctx := context.Background()

	tier.Set(ctx, "a", []byte("one"), 30*time.Second)

	now = now.Add(29 * time.Second)
	if _, err := tier.Get(ctx, "a"); err != nil {
		t.Errorf("entry expired early: %v", err)
	}

	now = now.Add(2 * time.Second)
	if _, err := tier.Get(ctx, "a"); err != ErrNotFound {
		t.Errorf("Get after TTL = %v, want ErrNotFound", err)
	}
	if tier.Len() != 0 {
		t.Errorf("expired entry not removed, len = %d", tier.Len())
	}
}

func TestMemoryTier_LRUEviction(t *testing.T) {
	tier := NewMemoryTier(2)
	ctx := context.Background()

	tier.Set(ctx, "a", []byte("1"), time.Minute)
	tier.Set(ctx, "b", []byte("2"), time.Minute)
	tier.Get(ctx, "a") // a is now most recent
	tier.Set(ctx, "c", []byte("3"), time.Minute)

	if _, err := tier.Get(ctx, "b"); err != ErrNotFound {
		t.Error("expected b evicted")
	}
	if _, err := tier.Get(ctx, "a"); err != nil {
		t.Error("expected a retained")
	}
	if _, err := tier.Get(ctx, "c"); err != nil {
		t.Error("expected c present")
	}
}

func TestMemoryTier_DeletePattern(t *testing.T) {
	tier := NewMemoryTier(10)
	ctx := context.Background()

	tier.Set(ctx, "buscapro:search:results:kw=plumber|p=1", []byte("1"), time.Minute)
	tier.Set(ctx, "buscapro:search:results:kw=plumber|p=2", []byte("2"), time.Minute)
	tier.Set(ctx, "buscapro:search:results:kw=electrician|p=1", []byte("3"), time.Minute)

	if err := tier.DeletePattern(ctx, "buscapro:search:results:kw=plumber*"); err != nil {
		t.Fatalf("DeletePattern() error = %v", err)
	}

	if _, err := tier.Get(ctx, "buscapro:search:results:kw=plumber|p=1"); err != ErrNotFound {
		t.Error("expected plumber page 1 removed")
	}
	if _, err := tier.Get(ctx, "buscapro:search:results:kw=plumber|p=2"); err != ErrNotFound {
		t.Error("expected plumber page 2 removed")
	}
	if _, err := tier.Get(ctx, "buscapro:search:results:kw=electrician|p=1"); err != nil {
		t.Error("expected electrician entry retained")
	}
}
