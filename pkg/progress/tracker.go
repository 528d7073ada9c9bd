// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package progress tracks daily learning activity, streaks and the resume
// pointer for a profile, persisted write-through to a key-value store.
package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AccelByte/extend-learning-progress/pkg/metrics"
	"github.com/AccelByte/extend-learning-progress/pkg/milestone"
	"github.com/AccelByte/extend-learning-progress/pkg/milestone/builtin"
	"github.com/AccelByte/extend-learning-progress/pkg/notify"
	"github.com/AccelByte/extend-learning-progress/pkg/store"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultDailyGoal is the number of units a day needs to qualify.
	DefaultDailyGoal = 10

	// DefaultStorageKey is used when a tracker is not bound to a profile.
	DefaultStorageKey = "learning_progress:streaks"

	// DefaultWeeklyDays is the length of the weekly series.
	DefaultWeeklyDays = 7

	metricsKind = "streaks"
)

// Tracker owns the activity log and derived streak state of one profile.
// Storage failures are logged and counted; only Reset reports them.
type Tracker struct {
	mu sync.Locker

	store     store.Store
	key       string
	profileID string
	clock     Clock
	goal      int
	engine    *milestone.Engine
	notifier  notify.Notifier

	state      State
	loadStatus LoadStatus
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithDailyGoal sets the qualifying threshold. Values below 1 are ignored.
func WithDailyGoal(goal int) Option {
	return func(t *Tracker) {
		if goal >= 1 {
			t.goal = goal
		}
	}
}

// WithStorageKey sets the key the state is persisted under.
func WithStorageKey(key string) Option {
	return func(t *Tracker) {
		if key != "" {
			t.key = key
		}
	}
}

// WithProfileID labels notifications and logs.
func WithProfileID(profileID string) Option {
	return func(t *Tracker) {
		t.profileID = profileID
	}
}

// WithMilestoneEngine replaces the builtin milestones.
func WithMilestoneEngine(engine *milestone.Engine) Option {
	return func(t *Tracker) {
		if engine != nil {
			t.engine = engine
		}
	}
}

// WithNotifier sets the sink for milestone notifications.
func WithNotifier(n notify.Notifier) Option {
	return func(t *Tracker) {
		if n != nil {
			t.notifier = n
		}
	}
}

// withLocker shares a lock between trackers of the same profile.
func withLocker(l sync.Locker) Option {
	return func(t *Tracker) {
		if l != nil {
			t.mu = l
		}
	}
}

// NewTracker creates a tracker and loads its persisted state. It never fails:
// an unreadable or corrupt state is replaced by the empty one.
func NewTracker(ctx context.Context, s store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		mu:       &sync.Mutex{},
		store:    s,
		key:      DefaultStorageKey,
		clock:    SystemClock{},
		goal:     DefaultDailyGoal,
		notifier: notify.NopNotifier{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.engine == nil {
		t.engine = builtin.NewDefaultEngine()
	}

	t.state, t.loadStatus = t.load(ctx)
	t.reconcile(t.clock.Now())

	return t
}

// load reads the persisted state. Every failure falls back to the empty state.
func (t *Tracker) load(ctx context.Context) (State, LoadStatus) {
	raw, found, err := t.store.Get(ctx, t.key)
	if err != nil {
		logrus.Warnf("failed to read progress state %s, starting empty: %v", t.key, err)
		metrics.StateLoadFallbacks.WithLabelValues(metricsKind, string(LoadReadError)).Inc()
		return newState(), LoadReadError
	}
	if !found {
		logrus.Debugf("no progress state at %s, starting empty", t.key)
		return newState(), LoadFresh
	}

	state, err := decodeState(raw, t.goal)
	if err != nil {
		logrus.Warnf("corrupt progress state %s, starting empty: %v", t.key, err)
		metrics.StateLoadFallbacks.WithLabelValues(metricsKind, string(LoadCorrupt)).Inc()
		return newState(), LoadCorrupt
	}

	return state, LoadRestored
}

// refresh re-reads the persisted state before a mutation. Callers hold t.mu.
// A failed or corrupt read keeps the state already in memory.
func (t *Tracker) refresh(ctx context.Context) {
	raw, found, err := t.store.Get(ctx, t.key)
	if err != nil {
		logrus.Warnf("failed to refresh progress state %s, keeping loaded state: %v", t.key, err)
		return
	}
	if !found {
		t.state = newState()
		return
	}

	state, err := decodeState(raw, t.goal)
	if err != nil {
		logrus.Warnf("corrupt progress state %s, keeping loaded state: %v", t.key, err)
		return
	}
	t.state = state
}

// streaks derives both counters at now without touching the state; the
// stored current streak may be stale after a day rollover.
func (t *Tracker) streaks(now time.Time) (current, longest int) {
	current = CalculateStreak(t.state.DailyCompletions, t.goal, now)
	longest = t.state.LongestStreak
	if current > longest {
		longest = current
	}
	return current, longest
}

func (t *Tracker) reconcile(now time.Time) {
	t.state.CurrentStreak, t.state.LongestStreak = t.streaks(now)
}

func (t *Tracker) persist(ctx context.Context) {
	raw, err := encodeState(t.state)
	if err == nil {
		err = t.store.Set(ctx, t.key, raw)
	}
	if err != nil {
		logrus.Errorf("failed to persist progress state %s: %v", t.key, err)
		metrics.StatePersistFailures.WithLabelValues(metricsKind).Inc()
	}
}

// LoadStatus reports how the state was obtained on construction.
func (t *Tracker) LoadStatus() LoadStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadStatus
}

// ProfileID returns the profile this tracker belongs to.
func (t *Tracker) ProfileID() string {
	return t.profileID
}

// RecordActivity adds one unit to today's count and updates streaks.
// Milestones are evaluated only when this unit makes today qualify.
func (t *Tracker) RecordActivity(ctx context.Context, source string) *ActivityResult {
	src := NormalizeSource(source)

	t.mu.Lock()
	t.refresh(ctx)
	now := t.clock.Now()
	today := DateKey(now)

	wasMet := t.state.DailyCompletions.Qualifies(today, t.goal)
	t.state.DailyCompletions[today]++
	isMet := t.state.DailyCompletions.Qualifies(today, t.goal)
	justMet := !wasMet && isMet

	t.reconcile(now)
	t.state.UpdatedAt = now

	notifications := []notify.Notification{}
	if justMet {
		notifications = t.applyMilestones(ctx, milestone.Event{
			Type:          milestone.EventActivityRecorded,
			ProfileID:     t.profileID,
			Source:        string(src),
			Timestamp:     now,
			TodayCount:    t.state.DailyCompletions[today],
			DailyGoal:     t.goal,
			GoalJustMet:   true,
			CurrentStreak: t.state.CurrentStreak,
			LongestStreak: t.state.LongestStreak,
			Achieved:      t.state.Milestones,
		}, now)
	}

	t.persist(ctx)

	result := &ActivityResult{
		Date:          today,
		Source:        src,
		TodayCount:    t.state.DailyCompletions[today],
		DailyGoal:     t.goal,
		GoalMet:       isMet,
		GoalJustMet:   justMet,
		CurrentStreak: t.state.CurrentStreak,
		LongestStreak: t.state.LongestStreak,
		Notifications: notifications,
	}
	t.mu.Unlock()

	metrics.ActivitiesRecorded.WithLabelValues(string(src)).Inc()
	if justMet {
		metrics.DailyGoalsMet.Inc()
	}
	t.dispatch(ctx, notifications)

	logrus.Debugf("recorded %s activity for %s: today=%d/%d streak=%d",
		src, t.key, result.TodayCount, t.goal, result.CurrentStreak)

	return result
}

// RecordRoadmapUnitComplete evaluates the roadmap milestones. The activity
// log is not touched.
func (t *Tracker) RecordRoadmapUnitComplete(ctx context.Context) *ActivityResult {
	t.mu.Lock()
	t.refresh(ctx)
	now := t.clock.Now()
	today := DateKey(now)
	t.reconcile(now)

	notifications := t.applyMilestones(ctx, milestone.Event{
		Type:          milestone.EventRoadmapUnitCompleted,
		ProfileID:     t.profileID,
		Source:        string(SourceRoadmap),
		Timestamp:     now,
		TodayCount:    t.state.DailyCompletions[today],
		DailyGoal:     t.goal,
		CurrentStreak: t.state.CurrentStreak,
		LongestStreak: t.state.LongestStreak,
		Achieved:      t.state.Milestones,
	}, now)

	if len(notifications) > 0 {
		t.state.UpdatedAt = now
		t.persist(ctx)
	}

	result := &ActivityResult{
		Date:          today,
		Source:        SourceRoadmap,
		TodayCount:    t.state.DailyCompletions[today],
		DailyGoal:     t.goal,
		GoalMet:       t.state.DailyCompletions.Qualifies(today, t.goal),
		CurrentStreak: t.state.CurrentStreak,
		LongestStreak: t.state.LongestStreak,
		Notifications: notifications,
	}
	t.mu.Unlock()

	t.dispatch(ctx, notifications)
	return result
}

// applyMilestones sets the sticky flag for every reached milestone and
// returns the notifications to send. Callers hold t.mu.
func (t *Tracker) applyMilestones(ctx context.Context, event milestone.Event, now time.Time) []notify.Notification {
	triggers := t.engine.Evaluate(ctx, event)
	if len(triggers) == 0 {
		return []notify.Notification{}
	}

	notifications := make([]notify.Notification, 0, len(triggers))
	for _, trigger := range triggers {
		t.state.Milestones[trigger.MilestoneID] = true
		notifications = append(notifications, notify.NewNotification(
			t.profileID, trigger.MilestoneID, trigger.Title, trigger.Description, now))
		metrics.MilestonesFired.WithLabelValues(trigger.MilestoneID).Inc()
	}
	return notifications
}

// dispatch delivers outside the lock. Errors are already logged by the sink.
func (t *Tracker) dispatch(ctx context.Context, notifications []notify.Notification) {
	for _, n := range notifications {
		if err := t.notifier.Notify(ctx, n); err != nil {
			logrus.Debugf("notification %s for %s not fully delivered: %v", n.ID, t.key, err)
		}
	}
}

// UpdateLastActiveRoadmap overwrites the resume pointer.
func (t *Tracker) UpdateLastActiveRoadmap(ctx context.Context, categoryID string, roadmapIndex, unitIndex int, unitTitle string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refresh(ctx)
	t.state.LastActiveRoadmap = &RoadmapPosition{
		CategoryID:   categoryID,
		RoadmapIndex: roadmapIndex,
		UnitIndex:    unitIndex,
		UnitTitle:    unitTitle,
	}
	t.state.UpdatedAt = t.clock.Now()
	t.persist(ctx)
}

// Reset clears all progress and deletes the persisted state. A failed delete
// is returned since the old state would come back on the next load.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = newState()
	t.loadStatus = LoadFresh
	if err := t.store.Delete(ctx, t.key); err != nil {
		logrus.Errorf("failed to delete progress state %s: %v", t.key, err)
		metrics.StatePersistFailures.WithLabelValues(metricsKind).Inc()
		return fmt.Errorf("failed to delete progress state %s: %w", t.key, err)
	}
	return nil
}

// CurrentStreak returns the streak as of now.
func (t *Tracker) CurrentStreak() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, _ := t.streaks(t.clock.Now())
	return current
}

// LongestStreak returns the longest streak ever observed.
func (t *Tracker) LongestStreak() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, longest := t.streaks(t.clock.Now())
	return longest
}

// DailyGoal returns the qualifying threshold.
func (t *Tracker) DailyGoal() int {
	return t.goal
}

// TodayCount returns the units logged today.
func (t *Tracker) TodayCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state.DailyCompletions.Count(DateKey(t.clock.Now()))
}

// IsTodayComplete reports whether today met the goal.
func (t *Tracker) IsTodayComplete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state.DailyCompletions.Qualifies(DateKey(t.clock.Now()), t.goal)
}

// ProgressPercentage returns today's progress toward the goal, capped at 100.
func (t *Tracker) ProgressPercentage() int {
	return progressPercentage(t.TodayCount(), t.goal)
}

// Remaining returns the units still needed today, never below 0.
func (t *Tracker) Remaining() int {
	return remaining(t.TodayCount(), t.goal)
}

// WeeklySeries returns the trailing n days, oldest first. n <= 0 means 7.
func (t *Tracker) WeeklySeries(n int) []DaySummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.weeklySeries(t.clock.Now(), n)
}

func (t *Tracker) weeklySeries(now time.Time, n int) []DaySummary {
	if n <= 0 {
		n = DefaultWeeklyDays
	}

	today := startOfDay(now)
	days := make([]DaySummary, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := shiftDays(today, -i)
		key := DateKey(day)
		days = append(days, DaySummary{
			Date:      day,
			DateKey:   key,
			Completed: t.state.DailyCompletions.Count(key),
			GoalMet:   t.state.DailyCompletions.Qualifies(key, t.goal),
			IsToday:   i == 0,
		})
	}
	return days
}

// MissedYesterday reports a broken chain: some history exists, yesterday did
// not qualify and there is no active streak.
func (t *Tracker) MissedYesterday() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.missedYesterday(t.clock.Now())
}

func (t *Tracker) missedYesterday(now time.Time) bool {
	yesterday := DateKey(shiftDays(now, -1))
	return !t.state.DailyCompletions.Qualifies(yesterday, t.goal) &&
		CalculateStreak(t.state.DailyCompletions, t.goal, now) == 0 &&
		len(t.state.DailyCompletions) > 0
}

// LastActiveRoadmap returns a copy of the resume pointer, or nil.
func (t *Tracker) LastActiveRoadmap() *RoadmapPosition {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.lastActiveRoadmap()
}

func (t *Tracker) lastActiveRoadmap() *RoadmapPosition {
	if t.state.LastActiveRoadmap == nil {
		return nil
	}
	pos := *t.state.LastActiveRoadmap
	return &pos
}

// Milestones returns a copy of the sticky milestone flags.
func (t *Tracker) Milestones() map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.milestones()
}

func (t *Tracker) milestones() map[string]bool {
	out := make(map[string]bool, len(t.state.Milestones))
	for k, v := range t.state.Milestones {
		out[k] = v
	}
	return out
}

// Stats aggregates the whole activity log.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stats()
}

func (t *Tracker) stats() Stats {
	var s Stats
	for key, count := range t.state.DailyCompletions {
		s.TotalCompleted += count
		if count > 0 {
			s.ActiveDays++
		}
		if t.state.DailyCompletions.Qualifies(key, t.goal) {
			s.GoalDays++
		}
	}
	return s
}

// Snapshot evaluates every query at a single instant.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	current, longest := t.streaks(now)
	today := DateKey(now)
	count := t.state.DailyCompletions.Count(today)

	return Snapshot{
		ProfileID:          t.profileID,
		Date:               today,
		TodayCount:         count,
		DailyGoal:          t.goal,
		IsTodayComplete:    t.state.DailyCompletions.Qualifies(today, t.goal),
		ProgressPercentage: progressPercentage(count, t.goal),
		Remaining:          remaining(count, t.goal),
		CurrentStreak:      current,
		LongestStreak:      longest,
		MissedYesterday:    t.missedYesterday(now),
		LastActiveRoadmap:  t.lastActiveRoadmap(),
		Milestones:         t.milestones(),
		Stats:              t.stats(),
		Weekly:             t.weeklySeries(now, DefaultWeeklyDays),
	}
}

func progressPercentage(count, goal int) int {
	pct := count * 100 / goal
	if pct > 100 {
		return 100
	}
	return pct
}

func remaining(count, goal int) int {
	if left := goal - count; left > 0 {
		return left
	}
	return 0
}
