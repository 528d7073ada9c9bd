// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RedisOptions holds connection settings for InitRedisClient.
type RedisOptions struct {
	Host       string
	Port       string
	Password   string
	MaxRetries int
	RetryDelay time.Duration
}

// InitRedisClient creates a Redis client and pings it with exponential backoff
// until it answers or the retry budget is spent.
func InitRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	addr := opts.Host + ":" + opts.Port
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	if opts.RetryDelay > 0 {
		b.InitialInterval = opts.RetryDelay
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	attempt := 0
	err := backoff.Retry(
		func() error {
			attempt++
			if _, err := client.Ping(ctx).Result(); err != nil {
				logrus.Warnf("Redis connection to %s failed (attempt %d): %v, retrying...", addr, attempt, err)
				return err
			}
			return nil
		},
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx),
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s after %d attempts: %w", addr, attempt, err)
	}

	logrus.Infof("connected to Redis at %s (attempt %d)", addr, attempt)
	return client, nil
}

// RedisStore implements Store using plain Redis string keys.
type RedisStore struct {
	client *redis.Client
	cfg    RedisStoreConfig
}

// RedisStoreConfig configures a RedisStore.
type RedisStoreConfig struct {
	// TTL applied on every write. Zero keeps keys forever.
	TTL time.Duration
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client, cfg RedisStoreConfig) *RedisStore {
	return &RedisStore{
		client: client,
		cfg:    cfg,
	}
}

// Get retrieves the value stored at key.
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return data, true, nil
}

// Set overwrites the value at key, refreshing the configured TTL.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, r.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	logrus.Debugf("stored %s (%d bytes, ttl %v)", key, len(value), r.cfg.TTL)
	return nil
}

// Delete removes key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// Ping checks the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
