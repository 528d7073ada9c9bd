// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package milestone

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages available milestone rules.
type Registry struct {
	rules map[string]Rule
	mu    sync.RWMutex
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// Register adds a rule to the registry.
// Returns an error if a rule with the same ID already exists.
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.ID()]; exists {
		return fmt.Errorf("milestone %s already registered", rule.ID())
	}

	r.rules[rule.ID()] = rule
	return nil
}

// Unregister removes a rule from the registry.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[id]; !exists {
		return fmt.Errorf("milestone %s not found", id)
	}

	delete(r.rules, id)
	return nil
}

// Get returns a rule by ID, or nil.
func (r *Registry) Get(id string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rules[id]
}

// GetByEventType returns all enabled rules that handle eventType, ordered by ID.
func (r *Registry) GetByEventType(eventType string) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matching []Rule
	for _, rule := range r.rules {
		if !rule.Config().Enabled {
			continue
		}

		eventTypes := rule.EventTypes()
		if len(eventTypes) == 0 {
			matching = append(matching, rule)
			continue
		}

		for _, et := range eventTypes {
			if et == eventType {
				matching = append(matching, rule)
				break
			}
		}
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].ID() < matching[j].ID()
	})
	return matching
}

// GetAll returns all registered rules ordered by ID.
func (r *Registry) GetAll() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID() < rules[j].ID()
	})

	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rules)
}
