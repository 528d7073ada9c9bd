// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoNotifiers indicates that a dispatcher was built without any sink.
var ErrNoNotifiers = errors.New("no notifiers configured")

// Notification is a celebratory message for a profile, shown once as a toast.
type Notification struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profileId"`
	MilestoneID string    `json:"milestoneId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewNotification creates a notification with a fresh ID.
func NewNotification(profileID, milestoneID, title, description string, createdAt time.Time) Notification {
	return Notification{
		ID:          uuid.NewString(),
		ProfileID:   profileID,
		MilestoneID: milestoneID,
		Title:       title,
		Description: description,
		CreatedAt:   createdAt,
	}
}

// Notifier delivers notifications to a sink. Delivery is fire-and-forget:
// callers log failures and move on.
type Notifier interface {
	// Name identifies the sink in logs and metrics.
	Name() string

	// Notify delivers a single notification.
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Name() string { return "nop" }

func (NopNotifier) Notify(ctx context.Context, n Notification) error { return nil }
