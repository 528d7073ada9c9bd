// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progress

import (
	"time"

	"github.com/AccelByte/extend-learning-progress/pkg/notify"
	"github.com/sirupsen/logrus"
)

// Source tags where an activity unit came from. It never affects scoring.
type Source string

const (
	SourceDaily   Source = "daily"
	SourceRoadmap Source = "roadmap"
	SourceSnippet Source = "snippet"
	SourceExplore Source = "explore"
)

// ParseSource reports whether s is a known source tag.
func ParseSource(s string) (Source, bool) {
	switch src := Source(s); src {
	case SourceDaily, SourceRoadmap, SourceSnippet, SourceExplore:
		return src, true
	}
	return "", false
}

// NormalizeSource maps unknown or empty tags to SourceSnippet.
func NormalizeSource(s string) Source {
	if src, ok := ParseSource(s); ok {
		return src
	}
	if s != "" {
		logrus.Warnf("unknown activity source %q, recording as %s", s, SourceSnippet)
	}
	return SourceSnippet
}

// ActivityLog maps a date key to the number of activity units done that day.
type ActivityLog map[string]int

// Count returns the units logged for key.
func (l ActivityLog) Count(key string) int {
	return l[key]
}

// Qualifies reports whether the day at key met the goal.
func (l ActivityLog) Qualifies(key string, goal int) bool {
	if goal < 1 {
		goal = 1
	}
	return l[key] >= goal
}

// RoadmapPosition is the most recently touched course position.
type RoadmapPosition struct {
	CategoryID   string `json:"categoryId"`
	RoadmapIndex int    `json:"roadmapIndex"`
	UnitIndex    int    `json:"unitIndex"`
	UnitTitle    string `json:"unitTitle"`
}

// State is the persisted record of one profile.
type State struct {
	CurrentStreak     int              `json:"currentStreak"`
	LongestStreak     int              `json:"longestStreak"`
	DailyCompletions  ActivityLog      `json:"dailyCompletions"`
	LastActiveRoadmap *RoadmapPosition `json:"lastActiveRoadmap"`
	Milestones        map[string]bool  `json:"milestones"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

func newState() State {
	return State{
		DailyCompletions: ActivityLog{},
		Milestones:       map[string]bool{},
	}
}

// DaySummary is one day of the weekly series.
type DaySummary struct {
	Date      time.Time `json:"date"`
	DateKey   string    `json:"dateKey"`
	Completed int       `json:"completed"`
	GoalMet   bool      `json:"goalMet"`
	IsToday   bool      `json:"isToday"`
}

// Stats aggregates the whole activity log.
type Stats struct {
	TotalCompleted int `json:"totalCompleted"`
	ActiveDays     int `json:"activeDays"`
	GoalDays       int `json:"goalDays"`
}

// ActivityResult describes the state right after a recorded activity.
type ActivityResult struct {
	Date          string                `json:"date"`
	Source        Source                `json:"source,omitempty"`
	TodayCount    int                   `json:"todayCount"`
	DailyGoal     int                   `json:"dailyGoal"`
	GoalMet       bool                  `json:"goalMet"`
	GoalJustMet   bool                  `json:"goalJustMet"`
	CurrentStreak int                   `json:"currentStreak"`
	LongestStreak int                   `json:"longestStreak"`
	Notifications []notify.Notification `json:"notifications"`
}

// Snapshot is every read query evaluated at one instant.
type Snapshot struct {
	ProfileID          string           `json:"profileId"`
	Date               string           `json:"date"`
	TodayCount         int              `json:"todayCount"`
	DailyGoal          int              `json:"dailyGoal"`
	IsTodayComplete    bool             `json:"isTodayComplete"`
	ProgressPercentage int              `json:"progressPercentage"`
	Remaining          int              `json:"remaining"`
	CurrentStreak      int              `json:"currentStreak"`
	LongestStreak      int              `json:"longestStreak"`
	MissedYesterday    bool             `json:"missedYesterday"`
	LastActiveRoadmap  *RoadmapPosition `json:"lastActiveRoadmap"`
	Milestones         map[string]bool  `json:"milestones"`
	Stats              Stats            `json:"stats"`
	Weekly             []DaySummary     `json:"weekly"`
}

// LoadStatus tells how the persisted state was obtained on construction.
type LoadStatus string

const (
	// LoadFresh means nothing was persisted yet.
	LoadFresh LoadStatus = "fresh"
	// LoadRestored means the persisted state was parsed.
	LoadRestored LoadStatus = "restored"
	// LoadReadError means the store failed and the empty state was used.
	LoadReadError LoadStatus = "read_error"
	// LoadCorrupt means the blob did not parse and the empty state was used.
	LoadCorrupt LoadStatus = "corrupt"
)
