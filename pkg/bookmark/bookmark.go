// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bookmark

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/AccelByte/extend-learning-progress/pkg/metrics"
	"github.com/AccelByte/extend-learning-progress/pkg/store"
	"github.com/sirupsen/logrus"
)

// KeyPrefix prefixes the per-profile bookmark list key.
const KeyPrefix = "learning_progress:bookmarks:"

const metricsKind = "bookmarks"

var whitespace = regexp.MustCompile(`\s+`)

// Snippet is the saved content of a bookmark.
type Snippet struct {
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Image   string `json:"image"`
	Content string `json:"content"`
	Example string `json:"example"`
}

// Bookmark is a saved snippet.
type Bookmark struct {
	ID string `json:"id"`
	Snippet
	SavedAt time.Time `json:"savedAt"`
}

// ID derives the bookmark ID from topic and title.
func ID(topic, title string) string {
	return whitespace.ReplaceAllString(strings.ToLower(topic+"-"+title), "-")
}

// Key returns the storage key of a profile's bookmarks.
func Key(profileID string) string {
	return KeyPrefix + profileID
}

// Service stores bookmark lists, newest first.
type Service struct {
	mu    sync.Mutex
	store store.Store
	now   func() time.Time
}

// NewService creates a bookmark service over s.
func NewService(s store.Store) *Service {
	return &Service{
		store: s,
		now:   time.Now,
	}
}

// WithNow overrides the time source.
func (s *Service) WithNow(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// load returns the saved list. Unparseable data is treated as an empty list.
func (s *Service) load(ctx context.Context, profileID string) ([]Bookmark, error) {
	raw, found, err := s.store.Get(ctx, Key(profileID))
	if err != nil {
		metrics.StateLoadFallbacks.WithLabelValues(metricsKind, "read_error").Inc()
		return nil, fmt.Errorf("failed to read bookmarks of %s: %w", profileID, err)
	}
	if !found {
		return []Bookmark{}, nil
	}

	var list []Bookmark
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logrus.Warnf("corrupt bookmarks for %s, starting empty: %v", profileID, err)
		metrics.StateLoadFallbacks.WithLabelValues(metricsKind, "corrupt").Inc()
		return []Bookmark{}, nil
	}
	if list == nil {
		list = []Bookmark{}
	}
	return list, nil
}

func (s *Service) save(ctx context.Context, profileID string, list []Bookmark) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}
	if err := s.store.Set(ctx, Key(profileID), string(data)); err != nil {
		metrics.StatePersistFailures.WithLabelValues(metricsKind).Inc()
		return fmt.Errorf("failed to save bookmarks of %s: %w", profileID, err)
	}
	return nil
}

// List returns the saved bookmarks, newest first.
func (s *Service) List(ctx context.Context, profileID string) ([]Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, profileID)
}

// Add saves snippet unless it is already bookmarked. It returns the stored
// bookmark and whether it was newly added.
func (s *Service) Add(ctx context.Context, profileID string, snippet Snippet) (Bookmark, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.add(ctx, profileID, snippet)
}

func (s *Service) add(ctx context.Context, profileID string, snippet Snippet) (Bookmark, bool, error) {
	list, err := s.load(ctx, profileID)
	if err != nil {
		return Bookmark{}, false, err
	}

	id := ID(snippet.Topic, snippet.Title)
	for _, b := range list {
		if b.ID == id {
			return b, false, nil
		}
	}

	b := Bookmark{ID: id, Snippet: snippet, SavedAt: s.now().UTC()}
	list = append([]Bookmark{b}, list...)
	if err := s.save(ctx, profileID, list); err != nil {
		return Bookmark{}, false, err
	}
	return b, true, nil
}

// Remove deletes the bookmark with id. It reports whether one was removed.
func (s *Service) Remove(ctx context.Context, profileID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(ctx, profileID, id)
}

func (s *Service) remove(ctx context.Context, profileID, id string) (bool, error) {
	list, err := s.load(ctx, profileID)
	if err != nil {
		return false, err
	}

	kept := make([]Bookmark, 0, len(list))
	for _, b := range list {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(list) {
		return false, nil
	}
	return true, s.save(ctx, profileID, kept)
}

// IsBookmarked reports whether topic/title is saved.
func (s *Service) IsBookmarked(ctx context.Context, profileID, topic, title string) (bool, error) {
	list, err := s.List(ctx, profileID)
	if err != nil {
		return false, err
	}

	id := ID(topic, title)
	for _, b := range list {
		if b.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Toggle removes the snippet when saved, adds it otherwise. It returns
// whether the snippet is bookmarked afterwards.
func (s *Service) Toggle(ctx context.Context, profileID string, snippet Snippet) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.remove(ctx, profileID, ID(snippet.Topic, snippet.Title))
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	if _, _, err := s.add(ctx, profileID, snippet); err != nil {
		return false, err
	}
	return true, nil
}

// Clear deletes every bookmark of the profile.
func (s *Service) Clear(ctx context.Context, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, Key(profileID)); err != nil {
		return fmt.Errorf("failed to clear bookmarks of %s: %w", profileID, err)
	}
	return nil
}
