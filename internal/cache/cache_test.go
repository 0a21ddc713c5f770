package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testClient returns a Redis client on DB 15, skipping if unreachable.
func testClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_HOST", "localhost") + ":" + envOr("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Redis not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, listKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

func TestListCacheSetGet(t *testing.T) {
	lc := NewListCache(testClient(t), time.Minute)
	ctx := context.Background()

	key := FeaturedKey(5)
	if _, ok := lc.Get(ctx, key); ok {
		t.Fatal("unexpected cache hit on empty cache")
	}

	body := []byte(`[{"title":"cached"}]`)
	lc.Set(ctx, key, body)

	got, ok := lc.Get(ctx, key)
	if !ok {
		t.Fatal("cache miss after Set")
	}
	if string(got) != string(body) {
		t.Errorf("Get = %q, want %q", got, body)
	}
}

func TestListCacheInvalidateAll(t *testing.T) {
	lc := NewListCache(testClient(t), time.Minute)
	ctx := context.Background()

	catID := uuid.New()
	lc.Set(ctx, FeaturedKey(5), []byte("a"))
	lc.Set(ctx, LatestKey(10, nil), []byte("b"))
	lc.Set(ctx, LatestKey(10, &catID), []byte("c"))

	lc.InvalidateAll(ctx)

	for _, key := range []string{FeaturedKey(5), LatestKey(10, nil), LatestKey(10, &catID)} {
		if _, ok := lc.Get(ctx, key); ok {
			t.Errorf("key %q survived InvalidateAll", key)
		}
	}
}

func TestListKeys(t *testing.T) {
	if FeaturedKey(5) != "featured:5" {
		t.Errorf("FeaturedKey(5) = %q", FeaturedKey(5))
	}
	if LatestKey(10, nil) != "latest:10:all" {
		t.Errorf("LatestKey(10, nil) = %q", LatestKey(10, nil))
	}
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	want := "latest:10:6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	if LatestKey(10, &id) != want {
		t.Errorf("LatestKey(10, id) = %q, want %q", LatestKey(10, &id), want)
	}
}
