package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pogodabot/weather-query-service/internal/models"
)

func TestInMemoryCacheSetGet(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()
	want := models.Coordinates{Latitude: 55.75, Longitude: 37.61, DisplayName: "Moscow"}

	if err := c.Set(ctx, "москва", want, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, "москва")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestInMemoryCacheMiss(t *testing.T) {
	c := NewInMemoryCache()
	_, ok, err := c.Get(context.Background(), "тверь")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected miss for absent key")
	}
}

func TestInMemoryCacheExpiry(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "москва", models.Coordinates{DisplayName: "Moscow"}, time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.Get(ctx, "москва")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestInMemoryCacheOverwrite(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "k", models.Coordinates{DisplayName: "old"}, time.Hour)
	c.Set(ctx, "k", models.Coordinates{DisplayName: "new"}, time.Hour)

	got, ok, _ := c.Get(ctx, "k")
	if !ok || got.DisplayName != "new" {
		t.Errorf("got %+v, want overwritten entry", got)
	}
}

// TestInMemoryCacheConcurrency exercises the lock under the race detector.
func TestInMemoryCacheConcurrency(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(ctx, "shared", models.Coordinates{Latitude: float64(j)}, time.Hour)
				c.Get(ctx, "shared")
			}
		}()
	}
	wg.Wait()
}
