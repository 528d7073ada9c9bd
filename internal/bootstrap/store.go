// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-learning-progress/internal/config"
	"github.com/AccelByte/extend-learning-progress/pkg/store"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Storage bundles the selected store with the handles the app must manage.
type Storage struct {
	Store  store.Store
	Health *store.HealthChecker

	// RedisClient is set only for the Redis driver.
	RedisClient *redis.Client

	close func() error
}

// Close releases the underlying connection.
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// InitStore opens the store selected by STORE_DRIVER.
//
// ============================================================
// DEVELOPER: Add new storage drivers here.
// ============================================================
// A driver only needs to implement store.Store. Implementing
// store.Pinger as well makes it part of the /healthz check.
// ============================================================
func InitStore(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.StoreDriver {
	case store.DriverRedis:
		client, err := store.InitRedisClient(ctx, store.RedisOptions{
			Host:       cfg.RedisHost,
			Port:       cfg.RedisPort,
			Password:   cfg.RedisPassword,
			MaxRetries: cfg.RedisMaxRetries,
			RetryDelay: cfg.RedisRetryDelay(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}

		s := store.NewRedisStore(client, store.RedisStoreConfig{TTL: cfg.StateTTL()})
		logrus.Infof("using Redis store at %s:%s", cfg.RedisHost, cfg.RedisPort)
		return &Storage{
			Store:       s,
			Health:      store.NewHealthChecker(store.DriverRedis, s),
			RedisClient: client,
			close:       client.Close,
		}, nil

	case store.DriverSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to init SQLite: %w", err)
		}

		logrus.Infof("using SQLite store at %s", cfg.SQLitePath)
		return &Storage{
			Store:  s,
			Health: store.NewHealthChecker(store.DriverSQLite, s),
			close:  s.Close,
		}, nil

	case store.DriverMemory:
		s := store.NewMemoryStore()
		logrus.Warn("using in-memory store, progress is lost on restart")
		return &Storage{
			Store:  s,
			Health: store.NewHealthChecker(store.DriverMemory, s),
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", store.ErrUnknownDriver, cfg.StoreDriver)
}
