// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"

	"github.com/AccelByte/extend-learning-progress/pkg/milestone"
)

const (
	// FirstGoalMetType fires the first time a day reaches the daily goal.
	FirstGoalMetType = "first_goal_met"

	// FirstStreakType fires the first time the current streak reaches min_streak.
	FirstStreakType = "first_streak"

	// DefaultFirstStreakLength is the streak length for FirstStreakType.
	DefaultFirstStreakLength = 1
)

// FirstGoalMetRule celebrates the first day on which the goal was met.
type FirstGoalMetRule struct {
	config milestone.RuleConfig
}

// NewFirstGoalMetRule creates a first-goal milestone.
func NewFirstGoalMetRule(config milestone.RuleConfig) *FirstGoalMetRule {
	return &FirstGoalMetRule{config: config}
}

func (r *FirstGoalMetRule) ID() string                   { return r.config.ID }
func (r *FirstGoalMetRule) Name() string                 { return "First Daily Goal" }
func (r *FirstGoalMetRule) Config() milestone.RuleConfig { return r.config }

func (r *FirstGoalMetRule) EventTypes() []string {
	return []string{milestone.EventActivityRecorded}
}

func (r *FirstGoalMetRule) Evaluate(ctx context.Context, event milestone.Event) (bool, *milestone.Trigger, error) {
	if !event.GoalJustMet {
		return false, nil, nil
	}

	trigger := milestone.NewTrigger(r.config, event.ProfileID).
		WithMetadata("today_count", event.TodayCount).
		WithMetadata("daily_goal", event.DailyGoal)
	return true, trigger, nil
}

// FirstStreakRule celebrates the first time a streak reaches a minimum length.
type FirstStreakRule struct {
	config    milestone.RuleConfig
	minStreak int
}

// NewFirstStreakRule creates a first-streak milestone.
func NewFirstStreakRule(config milestone.RuleConfig) *FirstStreakRule {
	return &FirstStreakRule{
		config:    config,
		minStreak: config.GetInt("min_streak", DefaultFirstStreakLength),
	}
}

func (r *FirstStreakRule) ID() string                   { return r.config.ID }
func (r *FirstStreakRule) Name() string                 { return "First Streak" }
func (r *FirstStreakRule) Config() milestone.RuleConfig { return r.config }

func (r *FirstStreakRule) EventTypes() []string {
	return []string{milestone.EventActivityRecorded}
}

func (r *FirstStreakRule) Evaluate(ctx context.Context, event milestone.Event) (bool, *milestone.Trigger, error) {
	if !event.GoalJustMet || event.CurrentStreak < r.minStreak {
		return false, nil, nil
	}

	trigger := milestone.NewTrigger(r.config, event.ProfileID).
		WithMetadata("current_streak", event.CurrentStreak)
	return true, trigger, nil
}
