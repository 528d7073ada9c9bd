package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AccelByte/extend-learning-progress/internal/config"
	"github.com/AccelByte/extend-learning-progress/pkg/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStore_Memory(t *testing.T) {
	storage, err := InitStore(context.Background(), &config.Config{StoreDriver: store.DriverMemory})
	require.NoError(t, err)
	defer storage.Close()

	assert.IsType(t, &store.MemoryStore{}, storage.Store)
	assert.Nil(t, storage.RedisClient)
	assert.True(t, storage.Health.IsHealthy(context.Background()))
}

func TestInitStore_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")

	storage, err := InitStore(context.Background(), &config.Config{StoreDriver: store.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, storage.Store.Set(ctx, "k", "v"))
	assert.Equal(t, store.DriverSQLite, storage.Health.Name())
	assert.True(t, storage.Health.IsHealthy(ctx))
	assert.NoError(t, storage.Close())
}

func TestInitStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	storage, err := InitStore(context.Background(), &config.Config{
		StoreDriver: store.DriverRedis,
		RedisHost:   mr.Host(),
		RedisPort:   mr.Port(),
	})
	require.NoError(t, err)
	defer storage.Close()

	require.NotNil(t, storage.RedisClient)
	require.NoError(t, storage.Store.Set(context.Background(), "k", "v"))
	assert.True(t, mr.Exists("k"))
}

func TestInitStore_UnknownDriver(t *testing.T) {
	_, err := InitStore(context.Background(), &config.Config{StoreDriver: "mongo"})
	assert.True(t, errors.Is(err, store.ErrUnknownDriver))
}

func TestInitMilestoneEngine(t *testing.T) {
	t.Run("empty path uses builtin", func(t *testing.T) {
		engine, err := InitMilestoneEngine("")
		require.NoError(t, err)
		assert.Equal(t, 4, engine.GetRegistry().Count())
	})

	t.Run("missing file uses builtin", func(t *testing.T) {
		engine, err := InitMilestoneEngine(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 4, engine.GetRegistry().Count())
	})

	t.Run("custom file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "milestones.yaml")
		data := `
milestones:
  - id: streak_3
    type: streak_reached
    enabled: true
    priority: 10
    title: "Three in a row"
    parameters:
      days: 3
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		engine, err := InitMilestoneEngine(path)
		require.NoError(t, err)
		assert.Equal(t, 1, engine.GetRegistry().Count())
		assert.NotNil(t, engine.GetRegistry().Get("streak_3"))
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "milestones.yaml")
		require.NoError(t, os.WriteFile(path, []byte("milestones: [{id: x}]"), 0o600))

		_, err := InitMilestoneEngine(path)
		assert.Error(t, err)
	})
}

func TestInitNotifier(t *testing.T) {
	assert.Equal(t, 1, InitNotifier(nil, false).Count())
	assert.Equal(t, 1, InitNotifier(nil, true).Count())

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	assert.Equal(t, 1, InitNotifier(client, false).Count())
	assert.Equal(t, 2, InitNotifier(client, true).Count())
}
