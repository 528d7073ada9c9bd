// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker struct {
	name   string
	pinger Pinger
}

// NewHealthChecker creates a health checker for the given store.
func NewHealthChecker(name string, pinger Pinger) *HealthChecker {
	return &HealthChecker{name: name, pinger: pinger}
}

// Name returns the store driver name.
func (h *HealthChecker) Name() string {
	return h.name
}

// Check pings the store with a short timeout.
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		logrus.Errorf("%s health check failed: %v", h.name, err)
		return err
	}

	logrus.Debugf("%s health check passed", h.name)
	return nil
}

// IsHealthy returns true if the store is accessible.
func (h *HealthChecker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx) == nil
}
