// Package service implements the preferences store: per-user travel
// preferences loaded lazily, merged section by section and saved wholesale.
package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/wanderplan/wanderplan-backend/errors"
	"github.com/wanderplan/wanderplan-backend/internal/store"
	"github.com/wanderplan/wanderplan-backend/logger"
	"github.com/wanderplan/wanderplan-backend/types"
)

// Service caches the signed-in user's preferences and applies partial
// updates optimistically. Safe for concurrent use.
type Service struct {
	store store.PreferenceStore
	log   *zap.SugaredLogger

	mu      sync.Mutex
	userID  string
	current *types.Preferences
	loaded  bool
}

// NewService creates a preferences store over the given backing store.
func NewService(prefStore store.PreferenceStore) *Service {
	return &Service{
		store: prefStore,
		log:   logger.GetLogger(),
	}
}

// FetchPreferences loads the user's stored preferences, falling back to the
// all-empty defaults when nothing is stored yet. The absence of a stored
// record is not an error.
func (s *Service) FetchPreferences(ctx context.Context, userID string) (*types.Preferences, error) {
	if userID == "" {
		return nil, apperrors.AuthenticationRequired("sign in to load preferences")
	}

	prefs, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		return nil, apperrors.RemoteFailed(err, "fetch preferences")
	}
	if prefs == nil {
		prefs = types.DefaultPreferences()
	}

	s.mu.Lock()
	s.userID = userID
	s.current = prefs
	s.loaded = true
	s.mu.Unlock()
	return prefs.Clone(), nil
}

// Current returns a copy of the cached preferences, or nil when nothing has
// been loaded yet.
func (s *Service) Current() *types.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil
	}
	return s.current.Clone()
}

// UpdatePreferences merges the non-nil sections of update into the cached
// preferences, applies the merge locally first and then saves the whole
// record. On a failed save the pre-mutation snapshot is restored, so a
// retried read never observes the unsaved merge.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, update types.PreferencesUpdate) (*types.Preferences, error) {
	if userID == "" {
		return nil, apperrors.AuthenticationRequired("sign in to update preferences")
	}

	s.mu.Lock()
	if !s.loaded || s.userID != userID {
		s.mu.Unlock()
		if _, err := s.FetchPreferences(ctx, userID); err != nil {
			return nil, err
		}
		s.mu.Lock()
	}
	snapshot := s.current
	merged := s.current.Merge(update)
	s.current = merged
	s.mu.Unlock()

	if err := s.store.SavePreferences(ctx, userID, merged); err != nil {
		s.mu.Lock()
		// Restore only if no later update has already replaced our merge.
		if s.current == merged {
			s.current = snapshot
		}
		s.mu.Unlock()
		s.log.Warnw("Preference save failed, restored snapshot", "userID", userID, "error", err)
		return nil, apperrors.RemoteFailed(err, "save preferences")
	}
	return merged.Clone(), nil
}

// ResetPreferences overwrites the stored record with the defaults.
func (s *Service) ResetPreferences(ctx context.Context, userID string) (*types.Preferences, error) {
	if userID == "" {
		return nil, apperrors.AuthenticationRequired("sign in to reset preferences")
	}

	defaults := types.DefaultPreferences()
	if err := s.store.SavePreferences(ctx, userID, defaults); err != nil {
		return nil, apperrors.RemoteFailed(err, "reset preferences")
	}

	s.mu.Lock()
	s.userID = userID
	s.current = defaults
	s.loaded = true
	s.mu.Unlock()
	return defaults.Clone(), nil
}
