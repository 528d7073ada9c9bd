// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progress

import "time"

// CalculateStreak counts consecutive qualifying days ending today, or ending
// yesterday when today does not qualify yet. It is 0 when neither does.
func CalculateStreak(log ActivityLog, goal int, now time.Time) int {
	cursor := startOfDay(now)
	if !log.Qualifies(DateKey(cursor), goal) {
		cursor = shiftDays(cursor, -1)
		if !log.Qualifies(DateKey(cursor), goal) {
			return 0
		}
	}

	streak := 0
	for log.Qualifies(DateKey(cursor), goal) {
		streak++
		cursor = shiftDays(cursor, -1)
	}
	return streak
}
