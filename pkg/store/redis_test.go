// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func TestRedisStore_GetMissingKey(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	s := NewRedisStore(client, RedisStoreConfig{})

	value, found, err := s.Get(context.Background(), "learning_progress:streaks:nobody")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Errorf("Get() found = true, expected false")
	}
	if value != "" {
		t.Errorf("Get() value = %q, expected empty", value)
	}
}

func TestRedisStore_SetThenGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewRedisStore(client, RedisStoreConfig{})

	if err := s.Set(ctx, "k", `{"currentStreak":3}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "k", `{"currentStreak":4}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, found, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false, expected true")
	}
	if value != `{"currentStreak":4}` {
		t.Errorf("Get() value = %q, expected the last write", value)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	s := NewRedisStore(client, RedisStoreConfig{})

	_ = s.Set(ctx, "k", "v")
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if mr.Exists("k") {
		t.Error("key should not exist after deletion")
	}

	// deleting again is fine
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() on absent key error = %v", err)
	}
}

func TestRedisStore_TTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	ttl := 90 * 24 * time.Hour

	withTTL := NewRedisStore(client, RedisStoreConfig{TTL: ttl})
	if err := withTTL.Set(ctx, "with-ttl", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := mr.TTL("with-ttl"); got != ttl {
		t.Errorf("TTL = %v, expected %v", got, ttl)
	}

	noTTL := NewRedisStore(client, RedisStoreConfig{})
	if err := noTTL.Set(ctx, "no-ttl", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := mr.TTL("no-ttl"); got != 0 {
		t.Errorf("TTL = %v, expected no expiry", got)
	}
}

func TestRedisStore_GetAfterServerDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewRedisStore(client, RedisStoreConfig{})
	mr.Close()

	_, _, err := s.Get(context.Background(), "k")
	if err == nil {
		t.Error("Get() expected error when Redis is down")
	}
}

func TestInitRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client, err := InitRedisClient(context.Background(), RedisOptions{
		Host:       mr.Host(),
		Port:       mr.Port(),
		MaxRetries: 2,
		RetryDelay: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("InitRedisClient() error = %v", err)
	}
	defer client.Close()

	checker := NewHealthChecker(DriverRedis, NewRedisStore(client, RedisStoreConfig{}))
	if !checker.IsHealthy(context.Background()) {
		t.Error("expected Redis to be healthy")
	}
}

func TestInitRedisClient_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err = InitRedisClient(context.Background(), RedisOptions{
		Host:       host,
		Port:       port,
		MaxRetries: 1,
		RetryDelay: 5 * time.Millisecond,
	})
	if err == nil {
		t.Error("InitRedisClient() expected error for unreachable server")
	}
}
