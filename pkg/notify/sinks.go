// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultChannelPrefix is the Redis pub/sub channel prefix for notifications.
const DefaultChannelPrefix = "learning_progress:notifications:"

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (l *LogNotifier) Name() string {
	return "log"
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	logrus.WithFields(logrus.Fields{
		"profileID":   n.ProfileID,
		"milestoneID": n.MilestoneID,
		"notifyID":    n.ID,
	}).Infof("milestone reached: %s - %s", n.Title, n.Description)
	return nil
}

// RedisNotifier publishes notifications as JSON on a per-profile channel so
// connected clients can show them.
type RedisNotifier struct {
	client *redis.Client
	cfg    RedisNotifierConfig
}

// RedisNotifierConfig configures a RedisNotifier.
type RedisNotifierConfig struct {
	ChannelPrefix string
}

// NewRedisNotifier creates a Redis pub/sub notifier.
func NewRedisNotifier(client *redis.Client, cfg RedisNotifierConfig) *RedisNotifier {
	if cfg.ChannelPrefix == "" {
		cfg.ChannelPrefix = DefaultChannelPrefix
	}
	return &RedisNotifier{
		client: client,
		cfg:    cfg,
	}
}

func (r *RedisNotifier) Name() string {
	return "redis"
}

// Channel returns the pub/sub channel for a profile.
func (r *RedisNotifier) Channel(profileID string) string {
	return r.cfg.ChannelPrefix + profileID
}

func (r *RedisNotifier) Notify(ctx context.Context, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification %s: %w", n.ID, err)
	}

	channel := r.Channel(n.ProfileID)
	if err := r.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish notification on %s: %w", channel, err)
	}

	logrus.Debugf("published notification %s on %s", n.ID, channel)
	return nil
}

// Recorder keeps notifications in memory, in delivery order.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Name() string {
	return "recorder"
}

func (r *Recorder) Notify(ctx context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, n)
	return nil
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Reset drops recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = nil
}
