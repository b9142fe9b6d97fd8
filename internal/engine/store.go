// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package engine

import (
	"sync"
	"time"

	"github.com/excursio/excursio/internal/metrics"
	"github.com/excursio/excursio/internal/models"
)

// profileStore owns the per-user profiles. Profiles are created lazily on
// first request and their explicit preferences are replaced wholesale on
// every request that carries them.
type profileStore struct {
	mu       sync.RWMutex
	profiles map[string]*models.UserProfile
}

func newProfileStore() *profileStore {
	return &profileStore{profiles: make(map[string]*models.UserProfile)}
}

// getOrCreate returns a snapshot of the user's profile, creating it if
// needed and replacing its stored preferences with the supplied ones.
func (p *profileStore) getOrCreate(userID string, prefs models.UserPreferences, now time.Time) *models.UserProfile {
	p.mu.Lock()
	defer p.mu.Unlock()

	prof, ok := p.profiles[userID]
	if !ok {
		prof = &models.UserProfile{UserID: userID}
		p.profiles[userID] = prof
		metrics.KnownUsers.Set(float64(len(p.profiles)))
	}
	prof.Preferences = prefs
	prof.LastUpdated = now

	return snapshotProfile(prof)
}

// appendInteraction records an interaction against the user's history,
// creating the profile if the user is unknown.
func (p *profileStore) appendInteraction(userID string, interaction models.Interaction) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prof, ok := p.profiles[userID]
	if !ok {
		prof = &models.UserProfile{UserID: userID}
		p.profiles[userID] = prof
		metrics.KnownUsers.Set(float64(len(p.profiles)))
	}
	prof.InteractionHistory = append(prof.InteractionHistory, interaction)
	prof.LastUpdated = interaction.Timestamp
}

// replacePreferences swaps the stored explicit preferences for an
// existing user and returns a snapshot. Unknown users return ok=false and
// are not created.
func (p *profileStore) replacePreferences(userID string, prefs models.UserPreferences, now time.Time) (*models.UserProfile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prof, ok := p.profiles[userID]
	if !ok {
		return nil, false
	}
	prof.Preferences = prefs
	prof.LastUpdated = now
	return snapshotProfile(prof), true
}

// counts returns the number of known users and total recorded
// interactions.
func (p *profileStore) counts() (users, interactions int) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, prof := range p.profiles {
		interactions += len(prof.InteractionHistory)
	}
	return len(p.profiles), interactions
}

func snapshotProfile(prof *models.UserProfile) *models.UserProfile {
	out := &models.UserProfile{
		UserID:      prof.UserID,
		Preferences: prof.Preferences,
		LastUpdated: prof.LastUpdated,
	}
	out.InteractionHistory = make([]models.Interaction, len(prof.InteractionHistory))
	copy(out.InteractionHistory, prof.InteractionHistory)
	return out
}

// historyStore keeps the bounded per-user recommendation history used for
// feedback lookup and retrieval. Expiry is enforced at read time.
type historyStore struct {
	limit int

	mu      sync.RWMutex
	byUser  map[string][]models.RecommendationResult
	entries int
}

func newHistoryStore(limit int) *historyStore {
	return &historyStore{
		limit:  limit,
		byUser: make(map[string][]models.RecommendationResult),
	}
}

// append records freshly generated recommendations, evicting the oldest
// entries beyond the per-user limit.
func (h *historyStore) append(userID string, results []models.RecommendationResult) {
	if len(results) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	stored := append(h.byUser[userID], results...)
	if len(stored) > h.limit {
		stored = stored[len(stored)-h.limit:]
	}
	h.entries += len(stored) - len(h.byUser[userID])
	h.byUser[userID] = stored
}

// find looks up a stored recommendation by ID within a user's history.
func (h *historyStore) find(userID, recommendationID string) (models.RecommendationResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, rec := range h.byUser[userID] {
		if rec.ID == recommendationID {
			return rec, true
		}
	}
	return models.RecommendationResult{}, false
}

// active returns up to limit non-expired recommendations for a user, most
// recent first.
func (h *historyStore) active(userID string, limit int, now time.Time) []models.RecommendationResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stored := h.byUser[userID]
	out := make([]models.RecommendationResult, 0, limit)
	for i := len(stored) - 1; i >= 0 && len(out) < limit; i-- {
		if stored[i].Expired(now) {
			continue
		}
		out = append(out, stored[i])
	}
	return out
}

// total returns the number of stored recommendations across all users.
func (h *historyStore) total() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries
}
