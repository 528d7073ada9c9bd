// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package metrics holds the application Prometheus collectors. They are
// registered on the metrics server registry in internal/server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "learning_progress"

var (
	// ActivitiesRecorded counts recorded activity units by source tag.
	ActivitiesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_recorded_total",
			Help:      "Total number of recorded activity units",
		},
		[]string{"source"},
	)

	// DailyGoalsMet counts days that crossed the daily goal.
	DailyGoalsMet = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_goals_met_total",
			Help:      "Total number of days on which the daily goal was reached",
		},
	)

	// MilestonesFired counts one-time milestone notifications.
	MilestonesFired = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "milestones_fired_total",
			Help:      "Total number of milestone notifications emitted",
		},
		[]string{"milestone"},
	)

	// StateLoadFallbacks counts persisted states replaced by the empty default.
	StateLoadFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_load_fallbacks_total",
			Help:      "Total number of persisted states that could not be read or parsed",
		},
		[]string{"kind", "reason"},
	)

	// StatePersistFailures counts failed write-through saves.
	StatePersistFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_persist_failures_total",
			Help:      "Total number of failed state writes",
		},
		[]string{"kind"},
	)

	// NotificationFailures counts notifier errors.
	NotificationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Total number of notifications a notifier failed to deliver",
		},
		[]string{"notifier"},
	)
)

// Collectors returns every application collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		ActivitiesRecorded,
		DailyGoalsMet,
		MilestonesFired,
		StateLoadFallbacks,
		StatePersistFailures,
		NotificationFailures,
	}
}
