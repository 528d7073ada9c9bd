// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/AccelByte/extend-learning-progress/pkg/notify"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// InitNotifier builds the milestone notification fan-out. Notifications are
// always logged; they are also published on Redis when publish is set and a
// Redis client exists.
func InitNotifier(redisClient *redis.Client, publish bool) *notify.Dispatcher {
	dispatcher := notify.NewDispatcher(notify.NewLogNotifier())

	if publish {
		if redisClient == nil {
			logrus.Warn("PUBLISH_NOTIFICATIONS is set but the store is not Redis, skipping publisher")
		} else {
			dispatcher.Add(notify.NewRedisNotifier(redisClient, notify.RedisNotifierConfig{}))
			logrus.Infof("publishing notifications on %s<profileID>", notify.DefaultChannelPrefix)
		}
	}

	logrus.Infof("initialized notifier with %d sinks", dispatcher.Count())
	return dispatcher
}
