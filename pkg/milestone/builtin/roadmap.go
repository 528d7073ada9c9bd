// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"

	"github.com/AccelByte/extend-learning-progress/pkg/milestone"
)

// FirstRoadmapUnitType fires on the first completed roadmap unit.
const FirstRoadmapUnitType = "first_roadmap_unit"

// FirstRoadmapUnitRule celebrates the first finished roadmap unit.
type FirstRoadmapUnitRule struct {
	config milestone.RuleConfig
}

// NewFirstRoadmapUnitRule creates a first roadmap unit milestone.
func NewFirstRoadmapUnitRule(config milestone.RuleConfig) *FirstRoadmapUnitRule {
	return &FirstRoadmapUnitRule{config: config}
}

func (r *FirstRoadmapUnitRule) ID() string                   { return r.config.ID }
func (r *FirstRoadmapUnitRule) Name() string                 { return "First Roadmap Unit" }
func (r *FirstRoadmapUnitRule) Config() milestone.RuleConfig { return r.config }

func (r *FirstRoadmapUnitRule) EventTypes() []string {
	return []string{milestone.EventRoadmapUnitCompleted}
}

func (r *FirstRoadmapUnitRule) Evaluate(ctx context.Context, event milestone.Event) (bool, *milestone.Trigger, error) {
	return true, milestone.NewTrigger(r.config, event.ProfileID), nil
}
