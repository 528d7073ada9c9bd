// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package milestone

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// RuleFactory creates a rule from a configuration.
type RuleFactory func(config RuleConfig) (Rule, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]RuleFactory)
)

// RegisterRuleType registers a factory function for a rule type.
func RegisterRuleType(ruleType string, factory RuleFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[ruleType] = factory
	logrus.Debugf("registered milestone type: %s", ruleType)
}

// IsRegisteredType reports whether a factory exists for ruleType.
func IsRegisteredType(ruleType string) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	_, ok := factories[ruleType]
	return ok
}

// CreateRule creates a rule instance based on the configuration.
// Disabled rules yield (nil, nil).
func CreateRule(config RuleConfig) (Rule, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled milestone: %s", config.ID)
		return nil, nil
	}

	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown milestone type: %s", config.Type)
	}

	return factory(config)
}

// CreateRules creates rules from configs and collects per-rule errors.
func CreateRules(configs []RuleConfig) ([]Rule, []error) {
	var rules []Rule
	var errs []error

	for _, config := range configs {
		rule, err := CreateRule(config)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to create milestone %s: %w", config.ID, err))
			continue
		}

		if rule != nil {
			rules = append(rules, rule)
		}
	}

	return rules, errs
}

// RegisterRules creates rules from configs and registers them.
// Creation errors are logged; a duplicate registration is returned.
func RegisterRules(registry *Registry, configs []RuleConfig) error {
	rules, errs := CreateRules(configs)

	if len(errs) > 0 {
		logrus.Warnf("encountered %d errors while creating milestones", len(errs))
		for _, err := range errs {
			logrus.Warnf("milestone creation error: %v", err)
		}
	}

	for _, rule := range rules {
		if err := registry.Register(rule); err != nil {
			return fmt.Errorf("failed to register milestone %s: %w", rule.ID(), err)
		}
	}

	logrus.Infof("registered %d milestones", len(rules))
	return nil
}
