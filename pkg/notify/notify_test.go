package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingNotifier struct{}

func (failingNotifier) Name() string { return "failing" }

func (failingNotifier) Notify(ctx context.Context, n Notification) error {
	return errors.New("sink down")
}

func TestNewNotification(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a := NewNotification("p1", "first_goal_met", "Title", "Desc", at)
	b := NewNotification("p1", "first_goal_met", "Title", "Desc", at)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "p1", a.ProfileID)
	assert.Equal(t, at, a.CreatedAt)
}

func TestDispatcher_FanOut(t *testing.T) {
	first := NewRecorder()
	second := NewRecorder()
	d := NewDispatcher(first, failingNotifier{}, second, nil)
	assert.Equal(t, 3, d.Count())

	n := NewNotification("p1", "m", "t", "d", time.Now())
	err := d.Notify(context.Background(), n)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing")
	assert.Len(t, first.Notifications(), 1)
	assert.Len(t, second.Notifications(), 1)
	assert.Equal(t, n.ID, second.Notifications()[0].ID)
}

func TestDispatcher_Empty(t *testing.T) {
	err := NewDispatcher().Notify(context.Background(), Notification{})
	assert.ErrorIs(t, err, ErrNoNotifiers)
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.Notify(context.Background(), Notification{ID: "1"}))
	r.Reset()
	assert.Empty(t, r.Notifications())
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLogNotifier().Notify(context.Background(), Notification{ProfileID: "p1"}))
	assert.NoError(t, NopNotifier{}.Notify(context.Background(), Notification{}))
}

func TestRedisNotifier_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	notifier := NewRedisNotifier(client, RedisNotifierConfig{})
	assert.Equal(t, DefaultChannelPrefix+"p1", notifier.Channel("p1"))

	sub := client.Subscribe(ctx, notifier.Channel("p1"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n := NewNotification("p1", "first_streak", "Streak started!", "desc", time.Now().UTC())
	require.NoError(t, notifier.Notify(ctx, n))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got Notification
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, "first_streak", got.MilestoneID)
}

func TestRedisNotifier_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	err := NewRedisNotifier(client, RedisNotifierConfig{ChannelPrefix: "x:"}).
		Notify(context.Background(), Notification{ProfileID: "p1"})
	assert.Error(t, err)
}
