// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progress

import (
	"context"

	"github.com/AccelByte/extend-learning-progress/pkg/store"
)

// StreakKeyPrefix prefixes the per-profile storage key.
const StreakKeyPrefix = "learning_progress:streaks:"

// StorageKey returns the storage key of a profile's progress state.
func StorageKey(profileID string) string {
	return StreakKeyPrefix + profileID
}

// Directory hands out trackers bound to per-profile storage keys. The store
// is the source of truth: Get loads the persisted state and every mutation
// re-reads it, so processes sharing one store build on each other's writes.
// Trackers of the same profile share a lock within the process; nothing else
// is retained between calls.
type Directory struct {
	store store.Store
	opts  []Option
	locks *profileLocks
}

// NewDirectory creates a directory whose trackers share s and opts.
func NewDirectory(s store.Store, opts ...Option) *Directory {
	return &Directory{
		store: s,
		opts:  opts,
		locks: newProfileLocks(),
	}
}

// Get loads the tracker of profileID from the store.
func (d *Directory) Get(ctx context.Context, profileID string) *Tracker {
	opts := make([]Option, 0, len(d.opts)+3)
	opts = append(opts, d.opts...)
	opts = append(opts,
		WithProfileID(profileID),
		WithStorageKey(StorageKey(profileID)),
		withLocker(d.locks.locker(profileID)),
	)

	return NewTracker(ctx, d.store, opts...)
}

// Locked returns the number of profiles with an operation in flight.
func (d *Directory) Locked() int {
	return d.locks.len()
}
