// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progress

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// storedState is State plus the fields older clients wrote.
type storedState struct {
	State

	// StreakHistory is the boolean per-day log of older clients.
	StreakHistory map[string]bool `json:"streakHistory,omitempty"`
}

func encodeState(s State) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal progress state: %w", err)
	}
	return string(data), nil
}

// decodeState parses a persisted blob. A boolean streakHistory entry set to
// true migrates to a count of goal. Invalid date keys and empty counts are
// dropped.
func decodeState(raw string, goal int) (State, error) {
	var stored storedState
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return State{}, fmt.Errorf("failed to unmarshal progress state: %w", err)
	}

	state := stored.State
	log := ActivityLog{}
	for key, count := range state.DailyCompletions {
		if !validDateKey(key) || count <= 0 {
			logrus.Debugf("dropping invalid activity entry %q=%d", key, count)
			continue
		}
		log[key] = count
	}

	if goal < 1 {
		goal = 1
	}
	for key, done := range stored.StreakHistory {
		if !done || !validDateKey(key) {
			continue
		}
		if log[key] < goal {
			log[key] = goal
		}
	}
	state.DailyCompletions = log

	if state.Milestones == nil {
		state.Milestones = map[string]bool{}
	}
	if state.LongestStreak < 0 {
		state.LongestStreak = 0
	}

	return state, nil
}

func validDateKey(key string) bool {
	_, err := ParseDateKey(key, nil)
	return err == nil
}
