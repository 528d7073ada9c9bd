// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package milestone

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleConfig is the configuration for one milestone.
// This is typically loaded from YAML configuration files.
type RuleConfig struct {
	ID          string                 `yaml:"id" json:"id"`
	Name        string                 `yaml:"name" json:"name"`
	Type        string                 `yaml:"type" json:"type"` // e.g., "streak_reached"
	Enabled     bool                   `yaml:"enabled" json:"enabled"`
	Priority    int                    `yaml:"priority" json:"priority"`
	Title       string                 `yaml:"title" json:"title"`
	Description string                 `yaml:"description" json:"description"`
	Parameters  map[string]interface{} `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// GetInt retrieves an integer value from parameters with a default.
// YAML and JSON decoders disagree on number types, so every numeric kind is accepted.
func (c *RuleConfig) GetInt(key string, defaultValue int) int {
	val, ok := c.Parameters[key]
	if !ok {
		return defaultValue
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultValue
}

// GetString retrieves a string value from parameters with a default.
func (c *RuleConfig) GetString(key string, defaultValue string) string {
	if val, ok := c.Parameters[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// Config is the milestones file.
type Config struct {
	Milestones []RuleConfig `yaml:"milestones"`
}

// LoadConfig loads milestone configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read milestones file %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates milestone configuration from YAML bytes.
func ParseConfig(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse milestones YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid milestones configuration: %w", err)
	}

	return &config, nil
}

// Validate checks for empty or duplicate IDs, empty types and
// non-positive "days" parameters.
func (c *Config) Validate() error {
	ids := make(map[string]bool)
	for _, m := range c.Milestones {
		if m.ID == "" {
			return fmt.Errorf("milestone with empty ID found")
		}
		if ids[m.ID] {
			return fmt.Errorf("duplicate milestone ID: %s", m.ID)
		}
		ids[m.ID] = true

		if m.Type == "" {
			return fmt.Errorf("milestone %s has empty type", m.ID)
		}

		if _, ok := m.Parameters["days"]; ok && m.GetInt("days", 0) < 1 {
			return fmt.Errorf("milestone %s: days must be at least 1", m.ID)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
