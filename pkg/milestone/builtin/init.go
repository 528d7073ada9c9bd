// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"fmt"
	"sync"

	"github.com/AccelByte/extend-learning-progress/pkg/milestone"
)

var registerOnce sync.Once

// RegisterBuiltinRules registers all built-in milestone types with the factory.
func RegisterBuiltinRules() {
	registerOnce.Do(func() {
		milestone.RegisterRuleType(FirstGoalMetType, func(config milestone.RuleConfig) (milestone.Rule, error) {
			return NewFirstGoalMetRule(config), nil
		})

		milestone.RegisterRuleType(FirstStreakType, func(config milestone.RuleConfig) (milestone.Rule, error) {
			return NewFirstStreakRule(config), nil
		})

		milestone.RegisterRuleType(StreakReachedType, func(config milestone.RuleConfig) (milestone.Rule, error) {
			return NewStreakReachedRule(config), nil
		})

		milestone.RegisterRuleType(FirstRoadmapUnitType, func(config milestone.RuleConfig) (milestone.Rule, error) {
			return NewFirstRoadmapUnitRule(config), nil
		})
	})
}

// DefaultConfig is used when no milestones file is configured.
func DefaultConfig() *milestone.Config {
	return &milestone.Config{
		Milestones: []milestone.RuleConfig{
			{
				ID:          "first_goal_met",
				Type:        FirstGoalMetType,
				Enabled:     true,
				Priority:    30,
				Title:       "Daily goal reached!",
				Description: "You hit your daily goal for the first time. Keep it going!",
			},
			{
				ID:          "first_streak",
				Type:        FirstStreakType,
				Enabled:     true,
				Priority:    20,
				Title:       "Streak started!",
				Description: "Your first streak is on. Come back tomorrow to keep it alive.",
			},
			{
				ID:          "streak_7",
				Type:        StreakReachedType,
				Enabled:     true,
				Priority:    10,
				Title:       "One week streak!",
				Description: "Seven days in a row. Impressive consistency.",
				Parameters:  map[string]interface{}{"days": 7},
			},
			{
				ID:          "first_roadmap_unit",
				Type:        FirstRoadmapUnitType,
				Enabled:     true,
				Priority:    10,
				Title:       "First unit complete!",
				Description: "You finished your first roadmap unit.",
			},
		},
	}
}

// NewEngine registers the builtin types and builds an engine from cfg.
// A nil cfg means DefaultConfig.
func NewEngine(cfg *milestone.Config) (*milestone.Engine, error) {
	RegisterBuiltinRules()

	if cfg == nil {
		cfg = DefaultConfig()
	}

	registry := milestone.NewRegistry()
	if err := milestone.RegisterRules(registry, cfg.Milestones); err != nil {
		return nil, fmt.Errorf("failed to register milestones: %w", err)
	}

	return milestone.NewEngine(registry), nil
}

// NewDefaultEngine builds an engine from DefaultConfig.
func NewDefaultEngine() *milestone.Engine {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		// DefaultConfig has unique IDs, so registration cannot fail.
		panic(err)
	}
	return engine
}
