// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package milestone

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
)

// Engine evaluates progress events against registered milestone rules.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new milestone engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
	}
}

// Evaluate returns the triggers for every rule the event satisfies.
// Milestones already present in event.Achieved are never evaluated again.
func (e *Engine) Evaluate(ctx context.Context, event Event) []*Trigger {
	rules := e.registry.GetByEventType(event.Type)
	if len(rules) == 0 {
		logrus.Debugf("no milestones found for event type '%s'", event.Type)
		return nil
	}

	var triggers []*Trigger
	for _, rule := range rules {
		if event.HasAchieved(rule.ID()) {
			continue
		}

		matched, trigger, err := rule.Evaluate(ctx, event)
		if err != nil {
			logrus.Errorf("milestone %s evaluation failed: %v", rule.ID(), err)
			continue
		}

		if matched && trigger != nil {
			logrus.Infof("milestone %s reached for profile %s", rule.ID(), event.ProfileID)
			triggers = append(triggers, trigger)
		}
	}

	if len(triggers) > 1 {
		sort.SliceStable(triggers, func(i, j int) bool {
			return triggers[i].Priority > triggers[j].Priority
		})
	}

	return triggers
}

// GetRegistry returns the registry used by this engine.
func (e *Engine) GetRegistry() *Registry {
	return e.registry
}
