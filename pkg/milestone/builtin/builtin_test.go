package builtin

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/AccelByte/extend-learning-progress/pkg/milestone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activityEvent(todayCount, goal, streak int, justMet bool) milestone.Event {
	return milestone.Event{
		Type:          milestone.EventActivityRecorded,
		ProfileID:     "p1",
		TodayCount:    todayCount,
		DailyGoal:     goal,
		GoalJustMet:   justMet,
		CurrentStreak: streak,
		LongestStreak: streak,
		Achieved:      map[string]bool{},
	}
}

func triggerIDs(triggers []*milestone.Trigger) []string {
	ids := make([]string, 0, len(triggers))
	for _, tr := range triggers {
		ids = append(ids, tr.MilestoneID)
	}
	return ids
}

func TestDefaultEngine_GoalJustMet(t *testing.T) {
	engine := NewDefaultEngine()

	triggers := engine.Evaluate(context.Background(), activityEvent(10, 10, 1, true))
	assert.Equal(t, []string{"first_goal_met", "first_streak"}, triggerIDs(triggers))
	assert.Equal(t, "Daily goal reached!", triggers[0].Title)
}

func TestDefaultEngine_GoalNotJustMet(t *testing.T) {
	engine := NewDefaultEngine()

	triggers := engine.Evaluate(context.Background(), activityEvent(11, 10, 1, false))
	assert.Empty(t, triggers)
}

func TestDefaultEngine_WeekStreak(t *testing.T) {
	engine := NewDefaultEngine()

	event := activityEvent(10, 10, 7, true)
	event.Achieved = map[string]bool{"first_goal_met": true, "first_streak": true}

	triggers := engine.Evaluate(context.Background(), event)
	assert.Equal(t, []string{"streak_7"}, triggerIDs(triggers))
	assert.Equal(t, 7, triggers[0].Metadata["current_streak"])

	event.CurrentStreak = 6
	assert.Empty(t, engine.Evaluate(context.Background(), event))
}

func TestDefaultEngine_RoadmapUnit(t *testing.T) {
	engine := NewDefaultEngine()

	event := milestone.Event{Type: milestone.EventRoadmapUnitCompleted, ProfileID: "p1"}
	assert.Equal(t, []string{"first_roadmap_unit"}, triggerIDs(engine.Evaluate(context.Background(), event)))

	event.Achieved = map[string]bool{"first_roadmap_unit": true}
	assert.Empty(t, engine.Evaluate(context.Background(), event))
}

func TestFirstStreakRule_MinStreak(t *testing.T) {
	rule := NewFirstStreakRule(milestone.RuleConfig{
		ID:         "first_streak",
		Enabled:    true,
		Parameters: map[string]interface{}{"min_streak": 2},
	})

	matched, _, err := rule.Evaluate(context.Background(), activityEvent(10, 10, 1, true))
	require.NoError(t, err)
	assert.False(t, matched)

	matched, trigger, err := rule.Evaluate(context.Background(), activityEvent(10, 10, 2, true))
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, "first_streak", trigger.MilestoneID)
}

func TestStreakReachedRule_DefaultDays(t *testing.T) {
	rule := NewStreakReachedRule(milestone.RuleConfig{ID: "streak"})
	assert.Equal(t, DefaultStreakDays, rule.Days())
}

func TestShippedMilestonesFile(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	cfg, err := milestone.LoadConfig(filepath.Join(filepath.Dir(file), "..", "..", "..", "config", "milestones.yaml"))
	require.NoError(t, err)

	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, engine.GetRegistry().Count())
}
