package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

// daysAgo returns the date key n days before testNow.
func daysAgo(n int) string {
	return DateKey(shiftDays(testNow, -n))
}

func TestCalculateStreak(t *testing.T) {
	tests := []struct {
		name string
		log  ActivityLog
		goal int
		want int
	}{
		{name: "empty log", log: ActivityLog{}, goal: 10, want: 0},
		{name: "today met", log: ActivityLog{daysAgo(0): 10}, goal: 10, want: 1},
		{name: "today below goal", log: ActivityLog{daysAgo(0): 9}, goal: 10, want: 0},
		{name: "yesterday still counts", log: ActivityLog{daysAgo(1): 10}, goal: 10, want: 1},
		{name: "two days ago only", log: ActivityLog{daysAgo(2): 10}, goal: 10, want: 0},
		{
			name: "seven consecutive days",
			log: ActivityLog{
				daysAgo(0): 10, daysAgo(1): 12, daysAgo(2): 10, daysAgo(3): 10,
				daysAgo(4): 11, daysAgo(5): 10, daysAgo(6): 10,
			},
			goal: 10,
			want: 7,
		},
		{
			name: "run broken by one day",
			log:  ActivityLog{daysAgo(0): 10, daysAgo(1): 10, daysAgo(2): 3, daysAgo(3): 10, daysAgo(4): 10},
			goal: 10,
			want: 2,
		},
		{
			name: "partial today, run ending yesterday",
			log:  ActivityLog{daysAgo(0): 4, daysAgo(1): 10, daysAgo(2): 10},
			goal: 10,
			want: 2,
		},
		{
			name: "boolean variant",
			log:  ActivityLog{daysAgo(0): 1, daysAgo(1): 1, daysAgo(3): 1},
			goal: 1,
			want: 2,
		},
		{
			name: "non-positive goal behaves as one",
			log:  ActivityLog{daysAgo(0): 1},
			goal: 0,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStreak(tt.log, tt.goal, testNow))
		})
	}
}

func TestCalculateStreak_NoActiveDayMeansZero(t *testing.T) {
	for gap := 2; gap < 40; gap++ {
		log := ActivityLog{}
		for d := gap; d < gap+10; d++ {
			log[daysAgo(d)] = 10
		}
		assert.Equal(t, 0, CalculateStreak(log, 10, testNow), "gap=%d", gap)
	}
}

func TestCalculateStreak_AcrossMonthAndYear(t *testing.T) {
	now := time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)
	log := ActivityLog{"2025-01-01": 1, "2024-12-31": 1, "2024-12-30": 1}

	assert.Equal(t, 3, CalculateStreak(log, 1, now))
}

func TestCalculateStreak_DaylightSavingTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// DST starts on 2025-03-09 in New York; that day has 23 hours.
	now := time.Date(2025, time.March, 10, 0, 30, 0, 0, loc)
	log := ActivityLog{"2025-03-10": 1, "2025-03-09": 1, "2025-03-08": 1}

	assert.Equal(t, 3, CalculateStreak(log, 1, now))
}

func TestDateKey_UsesClockLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	instant := time.Date(2025, time.March, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-10", DateKey(instant))
	assert.Equal(t, "2025-03-11", DateKey(instant.In(loc)))

	parsed, err := ParseDateKey("2025-03-11", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, parsed.Location())
}
