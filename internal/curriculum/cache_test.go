package curriculum

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCacheReturnsCachedTextWithinTTL(t *testing.T) {
	cache := NewCache(time.Hour, 10)

	calls := 0
	compute := func(ctx context.Context) (string, error) {
		calls++
		return "curriculum text", nil
	}

	for i := 0; i < 3; i++ {
		text, err := cache.Get(context.Background(), "u1:d1", compute)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if text != "curriculum text" {
			t.Fatalf("unexpected text %q", text)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 compute call, got %d", calls)
	}
}

func TestCacheRecomputesAfterTTL(t *testing.T) {
	cache := NewCache(time.Hour, 10)

	current := time.Now()
	cache.now = func() time.Time { return current }

	calls := 0
	compute := func(ctx context.Context) (string, error) {
		calls++
		return fmt.Sprintf("text-%d", calls), nil
	}

	text, err := cache.Get(context.Background(), "u1:d1", compute)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if text != "text-1" {
		t.Fatalf("unexpected text %q", text)
	}

	// Just under the TTL: still served from cache.
	current = current.Add(59 * time.Minute)
	text, err = cache.Get(context.Background(), "u1:d1", compute)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if text != "text-1" || calls != 1 {
		t.Fatalf("expected cached text-1 with 1 call, got %q with %d calls", text, calls)
	}

	// Past the TTL: recomputed.
	current = current.Add(2 * time.Minute)
	text, err = cache.Get(context.Background(), "u1:d1", compute)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if text != "text-2" || calls != 2 {
		t.Fatalf("expected recomputed text-2 with 2 calls, got %q with %d calls", text, calls)
	}
}

func TestCacheComputeErrorIsNotCached(t *testing.T) {
	cache := NewCache(time.Hour, 10)

	boom := errors.New("boom")
	calls := 0
	compute := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "ok", nil
	}

	if _, err := cache.Get(context.Background(), "k", compute); !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("expected no entries after error, got %d", cache.Len())
	}

	text, err := cache.Get(context.Background(), "k", compute)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if text != "ok" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestCacheInvalidateForcesRecompute(t *testing.T) {
	cache := NewCache(time.Hour, 10)

	calls := 0
	compute := func(ctx context.Context) (string, error) {
		calls++
		return fmt.Sprintf("text-%d", calls), nil
	}

	if _, err := cache.Get(context.Background(), "k", compute); err != nil {
		t.Fatalf("get: %v", err)
	}
	cache.Invalidate("k")

	text, err := cache.Get(context.Background(), "k", compute)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if text != "text-2" || calls != 2 {
		t.Fatalf("expected recompute after invalidate, got %q with %d calls", text, calls)
	}
}

func TestCacheClearDropsEveryEntry(t *testing.T) {
	cache := NewCache(time.Hour, 10)

	calls := 0
	compute := func(ctx context.Context) (string, error) {
		calls++
		return fmt.Sprintf("text-%d", calls), nil
	}

	for _, key := range []string{"u1:d1", "u1:d2", "u2:d1"} {
		if _, err := cache.Get(context.Background(), key, compute); err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
	}
	if cache.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", cache.Len())
	}

	cache.Clear()

	if cache.Len() != 0 {
		t.Fatalf("expected empty cache after clear, got %d entries", cache.Len())
	}
	if _, err := cache.Get(context.Background(), "u1:d1", compute); err != nil {
		t.Fatalf("get: %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected recompute after clear, got %d calls", calls)
	}
}

func TestCacheEvictsOldestOnOverflow(t *testing.T) {
	cache := NewCache(time.Hour, 3)

	current := time.Now()
	cache.now = func() time.Time { return current }

	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("k%d", i)
		current = current.Add(time.Second)
		if _, err := cache.Get(context.Background(), key, func(ctx context.Context) (string, error) {
			return key, nil
		}); err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
	}

	if cache.Len() != 3 {
		t.Fatalf("expected 3 entries after overflow, got %d", cache.Len())
	}

	// k0 was the oldest; a read recomputes it.
	calls := 0
	if _, err := cache.Get(context.Background(), "k0", func(ctx context.Context) (string, error) {
		calls++
		return "k0", nil
	}); err != nil {
		t.Fatalf("get k0: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected k0 to have been evicted")
	}
}
