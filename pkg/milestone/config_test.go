package milestone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("TEST_WEEK_DAYS", "5")

	path := filepath.Join(t.TempDir(), "milestones.yaml")
	content := `
milestones:
  - id: first_goal_met
    type: first_goal_met
    enabled: true
    priority: 30
    title: "Daily goal reached!"
    description: "First time"
  - id: streak_week
    type: streak_reached
    enabled: ${TEST_MONTH_ENABLED:true}
    title: "Week"
    parameters:
      days: ${TEST_WEEK_DAYS:7}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Milestones, 2)

	first := cfg.Milestones[0]
	assert.Equal(t, "first_goal_met", first.ID)
	assert.Equal(t, 30, first.Priority)
	assert.Equal(t, "Daily goal reached!", first.Title)

	week := cfg.Milestones[1]
	assert.True(t, week.Enabled)
	assert.Equal(t, 5, week.GetInt("days", 7))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid",
			config: Config{Milestones: []RuleConfig{{ID: "a", Type: "t"}, {ID: "b", Type: "t"}}},
		},
		{
			name:    "empty id",
			config:  Config{Milestones: []RuleConfig{{Type: "t"}}},
			wantErr: true,
		},
		{
			name:    "duplicate id",
			config:  Config{Milestones: []RuleConfig{{ID: "a", Type: "t"}, {ID: "a", Type: "t"}}},
			wantErr: true,
		},
		{
			name:    "empty type",
			config:  Config{Milestones: []RuleConfig{{ID: "a"}}},
			wantErr: true,
		},
		{
			name: "zero days",
			config: Config{Milestones: []RuleConfig{
				{ID: "a", Type: "streak_reached", Parameters: map[string]interface{}{"days": 0}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRuleConfig_GetInt(t *testing.T) {
	cfg := RuleConfig{Parameters: map[string]interface{}{
		"int":    3,
		"int64":  int64(4),
		"float":  float64(5),
		"string": "6",
	}}

	assert.Equal(t, 3, cfg.GetInt("int", 0))
	assert.Equal(t, 4, cfg.GetInt("int64", 0))
	assert.Equal(t, 5, cfg.GetInt("float", 0))
	assert.Equal(t, 9, cfg.GetInt("string", 9))
	assert.Equal(t, 9, cfg.GetInt("missing", 9))
	assert.Equal(t, "6", cfg.GetString("string", ""))
}
