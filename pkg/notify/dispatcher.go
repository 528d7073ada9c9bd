// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AccelByte/extend-learning-progress/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Dispatcher fans a notification out to every registered notifier in order.
// A failing notifier does not stop the remaining ones.
type Dispatcher struct {
	mu        sync.RWMutex
	notifiers []Notifier
}

// NewDispatcher creates a dispatcher over the given notifiers.
func NewDispatcher(notifiers ...Notifier) *Dispatcher {
	d := &Dispatcher{}
	for _, n := range notifiers {
		d.Add(n)
	}
	return d
}

// Add registers another notifier. Nil notifiers are ignored.
func (d *Dispatcher) Add(n Notifier) {
	if n == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifiers = append(d.notifiers, n)
}

// Count returns the number of registered notifiers.
func (d *Dispatcher) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.notifiers)
}

func (d *Dispatcher) Name() string {
	return "dispatcher"
}

// Notify delivers n to every notifier. Failures are logged, counted and joined
// into the returned error.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) error {
	d.mu.RLock()
	notifiers := make([]Notifier, len(d.notifiers))
	copy(notifiers, d.notifiers)
	d.mu.RUnlock()

	if len(notifiers) == 0 {
		return ErrNoNotifiers
	}

	var errs []error
	for _, notifier := range notifiers {
		if err := notifier.Notify(ctx, n); err != nil {
			logrus.Errorf("notifier %s failed for notification %s: %v", notifier.Name(), n.ID, err)
			metrics.NotificationFailures.WithLabelValues(notifier.Name()).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}

	return errors.Join(errs...)
}
