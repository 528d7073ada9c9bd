// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package milestone

import (
	"context"
	"time"
)

const (
	// EventActivityRecorded is emitted after every recorded activity unit.
	EventActivityRecorded = "activity_recorded"

	// EventRoadmapUnitCompleted is emitted when a roadmap unit is finished.
	EventRoadmapUnitCompleted = "roadmap_unit_completed"
)

// Event is the progress snapshot a rule evaluates. It is built by the tracker
// right after a mutation, before the state is persisted.
type Event struct {
	Type          string
	ProfileID     string
	Source        string
	Timestamp     time.Time
	TodayCount    int
	DailyGoal     int
	GoalJustMet   bool
	CurrentStreak int
	LongestStreak int

	// Achieved holds the sticky milestone flags already set on the profile.
	Achieved map[string]bool
}

// HasAchieved reports whether the milestone flag is already set.
func (e Event) HasAchieved(milestoneID string) bool {
	return e.Achieved[milestoneID]
}

// Rule decides whether a milestone is reached for an event.
// Rules are registered in a Registry and evaluated by the Engine.
type Rule interface {
	// ID returns the milestone identifier, which is also the sticky flag key.
	ID() string

	// Name returns human-readable rule name.
	Name() string

	// EventTypes returns which event types this rule handles.
	// An empty slice means the rule handles all event types.
	EventTypes() []string

	// Evaluate checks if the event reaches the milestone.
	// Returns error only for unexpected failures, not mismatches.
	Evaluate(ctx context.Context, event Event) (bool, *Trigger, error)

	// Config returns the rule's configuration.
	Config() RuleConfig
}

// Trigger represents a reached milestone that should be flagged and announced.
type Trigger struct {
	MilestoneID string
	ProfileID   string
	Title       string
	Description string
	Priority    int // higher = first
	Metadata    map[string]interface{}
}

// NewTrigger creates a trigger using the title and description from config.
func NewTrigger(config RuleConfig, profileID string) *Trigger {
	return &Trigger{
		MilestoneID: config.ID,
		ProfileID:   profileID,
		Title:       config.Title,
		Description: config.Description,
		Priority:    config.Priority,
		Metadata:    make(map[string]interface{}),
	}
}

// WithMetadata adds metadata to the trigger and returns it for chaining.
func (t *Trigger) WithMetadata(key string, value interface{}) *Trigger {
	t.Metadata[key] = value
	return t
}
