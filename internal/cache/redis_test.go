package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Requires a running Redis; skipped unless TAXI_TEST_REDIS_ADDR is set.
func newIntegrationStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("TAXI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TAXI_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	key := "test:roundtrip:" + t.Name()
	if err := s.SetWithTTL(ctx, key, []byte(`{"ok":true}`), time.Minute); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Delete(ctx, key) })

	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"ok":true}` {
		t.Errorf("value = %s", got)
	}
}

func TestRedisStoreMissIsNil(t *testing.T) {
	s := newIntegrationStore(t)

	got, err := s.Get(context.Background(), "test:missing:"+t.Name())
	if err != nil {
		t.Fatalf("miss should not error: %v", err)
	}
	if got != nil {
		t.Errorf("miss = %s, want nil", got)
	}
}

func TestRedisStoreDeleteByPrefix(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	prefix := "test:prefix:" + t.Name() + ":"
	for _, suffix := range []string{"a", "b"} {
		if err := s.SetWithTTL(ctx, prefix+suffix, []byte("x"), time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.DeleteByPrefix(ctx, prefix); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, prefix+"a")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("prefixed entries should be gone")
	}
}
