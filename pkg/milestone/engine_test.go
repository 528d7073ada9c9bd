package milestone

import (
	"context"
	"errors"
	"testing"
)

// testRule matches or fails on demand.
type testRule struct {
	id          string
	eventTypes  []string
	config      RuleConfig
	shouldMatch bool
	shouldError bool
	calls       int
}

func (r *testRule) ID() string           { return r.id }
func (r *testRule) Name() string         { return r.id }
func (r *testRule) EventTypes() []string { return r.eventTypes }
func (r *testRule) Config() RuleConfig   { return r.config }

func (r *testRule) Evaluate(ctx context.Context, event Event) (bool, *Trigger, error) {
	r.calls++
	if r.shouldError {
		return false, nil, errors.New("test error")
	}
	if !r.shouldMatch {
		return false, nil, nil
	}
	return true, NewTrigger(r.config, event.ProfileID), nil
}

func newTestRule(id string, priority int, match bool, eventTypes ...string) *testRule {
	return &testRule{
		id:          id,
		eventTypes:  eventTypes,
		config:      RuleConfig{ID: id, Enabled: true, Priority: priority, Title: id + " title"},
		shouldMatch: match,
	}
}

func TestEngine_Evaluate_NoRules(t *testing.T) {
	engine := NewEngine(NewRegistry())

	triggers := engine.Evaluate(context.Background(), Event{Type: EventActivityRecorded, ProfileID: "p1"})
	if len(triggers) != 0 {
		t.Errorf("Expected 0 triggers, got %d", len(triggers))
	}
}

func TestEngine_Evaluate_SortsByPriority(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(newTestRule("low", 1, true, EventActivityRecorded))
	_ = registry.Register(newTestRule("high", 50, true, EventActivityRecorded))
	_ = registry.Register(newTestRule("mid", 10, true))

	engine := NewEngine(registry)
	triggers := engine.Evaluate(context.Background(), Event{Type: EventActivityRecorded, ProfileID: "p1"})

	if len(triggers) != 3 {
		t.Fatalf("Expected 3 triggers, got %d", len(triggers))
	}

	want := []string{"high", "mid", "low"}
	for i, id := range want {
		if triggers[i].MilestoneID != id {
			t.Errorf("trigger %d: expected %s, got %s", i, id, triggers[i].MilestoneID)
		}
		if triggers[i].ProfileID != "p1" {
			t.Errorf("trigger %d: expected profile p1, got %s", i, triggers[i].ProfileID)
		}
	}
}

func TestEngine_Evaluate_SkipsAchieved(t *testing.T) {
	registry := NewRegistry()
	done := newTestRule("done", 1, true, EventActivityRecorded)
	fresh := newTestRule("fresh", 1, true, EventActivityRecorded)
	_ = registry.Register(done)
	_ = registry.Register(fresh)

	engine := NewEngine(registry)
	triggers := engine.Evaluate(context.Background(), Event{
		Type:     EventActivityRecorded,
		Achieved: map[string]bool{"done": true},
	})

	if len(triggers) != 1 || triggers[0].MilestoneID != "fresh" {
		t.Fatalf("Expected only 'fresh' to trigger, got %+v", triggers)
	}
	if done.calls != 0 {
		t.Errorf("Expected achieved rule not to be evaluated, got %d calls", done.calls)
	}
}

func TestEngine_Evaluate_FailingRuleIsSkipped(t *testing.T) {
	registry := NewRegistry()
	broken := newTestRule("broken", 100, true, EventActivityRecorded)
	broken.shouldError = true
	_ = registry.Register(broken)
	_ = registry.Register(newTestRule("ok", 1, true, EventActivityRecorded))

	triggers := NewEngine(registry).Evaluate(context.Background(), Event{Type: EventActivityRecorded})
	if len(triggers) != 1 || triggers[0].MilestoneID != "ok" {
		t.Fatalf("Expected only 'ok' to trigger, got %+v", triggers)
	}
}

func TestEngine_Evaluate_FiltersByEventType(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(newTestRule("roadmap", 1, true, EventRoadmapUnitCompleted))
	_ = registry.Register(newTestRule("activity", 1, true, EventActivityRecorded))

	engine := NewEngine(registry)
	triggers := engine.Evaluate(context.Background(), Event{Type: EventRoadmapUnitCompleted})
	if len(triggers) != 1 || triggers[0].MilestoneID != "roadmap" {
		t.Fatalf("Expected only 'roadmap' to trigger, got %+v", triggers)
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	rule := newTestRule("a", 1, true)

	if err := registry.Register(rule); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := registry.Register(rule); err == nil {
		t.Error("Expected duplicate registration to fail")
	}
	if registry.Get("a") == nil {
		t.Error("Expected rule 'a' to be found")
	}

	disabled := newTestRule("b", 1, true)
	disabled.config.Enabled = false
	_ = registry.Register(disabled)

	if got := len(registry.GetByEventType(EventActivityRecorded)); got != 1 {
		t.Errorf("Expected 1 enabled rule, got %d", got)
	}
	if registry.Count() != 2 {
		t.Errorf("Expected 2 rules, got %d", registry.Count())
	}

	if err := registry.Unregister("a"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := registry.Unregister("a"); err == nil {
		t.Error("Expected unregistering a missing rule to fail")
	}
}

func TestFactory(t *testing.T) {
	RegisterRuleType("test_always", func(config RuleConfig) (Rule, error) {
		return newTestRule(config.ID, config.Priority, true), nil
	})

	if !IsRegisteredType("test_always") {
		t.Fatal("Expected test_always to be registered")
	}

	registry := NewRegistry()
	err := RegisterRules(registry, []RuleConfig{
		{ID: "one", Type: "test_always", Enabled: true},
		{ID: "off", Type: "test_always", Enabled: false},
		{ID: "bad", Type: "does_not_exist", Enabled: true},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Expected 1 registered rule, got %d", registry.Count())
	}

	err = RegisterRules(registry, []RuleConfig{{ID: "one", Type: "test_always", Enabled: true}})
	if err == nil {
		t.Error("Expected duplicate milestone ID to fail registration")
	}
}
