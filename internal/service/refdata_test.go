package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/baansom-pos/api/internal/database"
)

func TestDiscountCache_ServesCachedWithinTTL(t *testing.T) {
	calls := 0
	cache := NewDiscountCache(func(ctx context.Context) ([]database.Discount, error) {
		calls++
		return []database.Discount{{ID: uuid.New(), Name: "Lunch Set"}}, nil
	}, time.Minute)

	for i := 0; i < 5; i++ {
		got, err := cache.Active(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 discount, got %d", len(got))
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times within TTL, want 1", calls)
	}
}

func TestDiscountCache_RefreshesAfterTTL(t *testing.T) {
	calls := 0
	cache := NewDiscountCache(func(ctx context.Context) ([]database.Discount, error) {
		calls++
		return []database.Discount{}, nil
	}, time.Minute)

	clock := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	if _, err := cache.Active(context.Background()); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(2 * time.Minute)
	if _, err := cache.Active(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("loader called %d times, want 2", calls)
	}
}

func TestDiscountCache_ServesStaleOnRefreshFailure(t *testing.T) {
	calls := 0
	cache := NewDiscountCache(func(ctx context.Context) ([]database.Discount, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("db down")
		}
		return []database.Discount{{Name: "First"}}, nil
	}, time.Minute)

	clock := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	if _, err := cache.Active(context.Background()); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(2 * time.Minute)
	got, err := cache.Active(context.Background())
	if err != nil {
		t.Fatalf("expected stale data, got error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "First" {
		t.Errorf("expected stale list, got %v", got)
	}
}

func TestDiscountCache_ErrorWithNoCache(t *testing.T) {
	boom := errors.New("db down")
	cache := NewDiscountCache(func(ctx context.Context) ([]database.Discount, error) {
		return nil, boom
	}, time.Minute)

	_, err := cache.Active(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected load error, got: %v", err)
	}
}

func TestDiscountCache_InvalidateForcesReload(t *testing.T) {
	calls := 0
	cache := NewDiscountCache(func(ctx context.Context) ([]database.Discount, error) {
		calls++
		return []database.Discount{}, nil
	}, time.Hour)

	if _, err := cache.Active(context.Background()); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate()
	if _, err := cache.Active(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("loader called %d times, want 2", calls)
	}
}
