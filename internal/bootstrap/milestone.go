// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/AccelByte/extend-learning-progress/pkg/milestone"
	milestoneBuiltin "github.com/AccelByte/extend-learning-progress/pkg/milestone/builtin"
	"github.com/sirupsen/logrus"
)

// InitMilestoneEngine builds the milestone engine from the YAML file at path.
// An empty path, or a missing file, falls back to the builtin milestones.
//
// ============================================================
// DEVELOPER: Register custom milestone types here.
// ============================================================
// Steps to add a new milestone:
// 1. Implement milestone.Rule in pkg/milestone/builtin/
// 2. Register the type in pkg/milestone/builtin/init.go
// 3. Add an entry to config/milestones.yaml
// ============================================================
func InitMilestoneEngine(path string) (*milestone.Engine, error) {
	var cfg *milestone.Config

	if path != "" {
		loaded, err := milestone.LoadConfig(path)
		switch {
		case err == nil:
			cfg = loaded
			logrus.Infof("loaded %d milestones from %s", len(cfg.Milestones), path)
		case errors.Is(err, fs.ErrNotExist):
			logrus.Warnf("milestones file %s not found, using builtin milestones", path)
		default:
			return nil, fmt.Errorf("failed to load milestones from %s: %w", path, err)
		}
	}

	engine, err := milestoneBuiltin.NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	logrus.Infof("initialized milestone engine with %d milestones", engine.GetRegistry().Count())
	return engine, nil
}
