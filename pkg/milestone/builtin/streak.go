// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"

	"github.com/AccelByte/extend-learning-progress/pkg/milestone"
	"github.com/sirupsen/logrus"
)

const (
	// StreakReachedType fires once the current streak reaches "days".
	StreakReachedType = "streak_reached"

	// DefaultStreakDays is used when "days" is not configured.
	DefaultStreakDays = 7
)

// StreakReachedRule detects a streak of a configured length.
type StreakReachedRule struct {
	config milestone.RuleConfig
	days   int
}

// NewStreakReachedRule creates a streak length milestone.
func NewStreakReachedRule(config milestone.RuleConfig) *StreakReachedRule {
	days := config.GetInt("days", DefaultStreakDays)

	logrus.Infof("creating streak milestone %s with days=%d", config.ID, days)

	return &StreakReachedRule{
		config: config,
		days:   days,
	}
}

func (r *StreakReachedRule) ID() string {
	return r.config.ID
}

func (r *StreakReachedRule) Name() string {
	return "Streak Reached"
}

func (r *StreakReachedRule) EventTypes() []string {
	return []string{milestone.EventActivityRecorded}
}

func (r *StreakReachedRule) Config() milestone.RuleConfig {
	return r.config
}

// Days returns the configured streak length.
func (r *StreakReachedRule) Days() int {
	return r.days
}

func (r *StreakReachedRule) Evaluate(ctx context.Context, event milestone.Event) (bool, *milestone.Trigger, error) {
	if !event.GoalJustMet {
		return false, nil, nil
	}

	logrus.Debugf("evaluating streak milestone %s for profile %s: streak=%d, days=%d",
		r.config.ID, event.ProfileID, event.CurrentStreak, r.days)

	if event.CurrentStreak < r.days {
		return false, nil, nil
	}

	trigger := milestone.NewTrigger(r.config, event.ProfileID).
		WithMetadata("current_streak", event.CurrentStreak).
		WithMetadata("days", r.days)
	return true, trigger, nil
}
