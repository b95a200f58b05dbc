package publish

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"occupancy/internal/zone"
)

func TestRedisCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewRedisCache(client, "occupancy:last", time.Minute)
	ctx := context.Background()

	if err := cache.Publish(ctx, zone.Report{TotalCurrentlyIn: 1}); err == nil {
		t.Error("Expected Publish to fail without a server")
	}
	if _, ok, err := cache.Latest(ctx); err == nil || ok {
		t.Errorf("Expected Latest to fail without a server, got ok=%v err=%v", ok, err)
	}
	if cache.Name() != "redis" {
		t.Errorf("Unexpected sink name %q", cache.Name())
	}
}

func TestConnectRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if _, err := ConnectRedis(ctx, "127.0.0.1:1"); err == nil {
		t.Error("Expected connection error")
	}
}
