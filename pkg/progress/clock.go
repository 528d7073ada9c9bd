// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progress

import "time"

// DateKeyLayout formats calendar day keys in the activity log.
const DateKeyLayout = "2006-01-02"

// Clock provides the current wall-clock time. The location of the returned
// time decides where calendar day boundaries fall.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system time in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in c.Location, or local time when unset.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// DateKey returns the yyyy-MM-dd key of t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a yyyy-MM-dd key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateKeyLayout, key, loc)
}

func startOfDay(t time.Time) time.Time {
	return shiftDays(t, 0)
}

// shiftDays moves by calendar days, not 24h periods, so DST changes never
// skip or repeat a day.
func shiftDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}
