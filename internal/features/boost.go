// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package features

import (
	"math"
	"strings"

	"github.com/excursio/excursio/internal/models"
)

// PreferenceBoost scales a base content score by how well the item fits
// the user's explicit preferences: interest overlap, budget band fit,
// group-type affinity, and duration fit against the activity level.
//
// Note the budget bands used here are the disjoint boost bands, not the
// zero-based bands used for hard filtering.
func PreferenceBoost(item *models.Item, prefs *models.UserPreferences, base float64) float64 {
	boost := 1.0

	if interestOverlap(item, prefs.Interests) {
		boost *= 1.2
	}

	minCost, maxCost := prefs.BudgetRange.BoostBand()
	switch {
	case item.EstimatedCost >= minCost && item.EstimatedCost <= maxCost:
		boost *= 1.1
	case item.EstimatedCost > maxCost:
		boost *= 0.8
	}

	switch {
	case prefs.GroupType == models.GroupFamily && item.HasCategory("family-friendly"):
		boost *= 1.15
	case prefs.GroupType == models.GroupCouple && item.HasCategory("romantic"):
		boost *= 1.15
	}

	preferred := prefs.ActivityLevel.PreferredDuration()
	durationDiff := math.Abs(float64(item.EstimatedDuration)-preferred) / preferred
	switch {
	case durationDiff < 0.3:
		boost *= 1.1
	case durationDiff > 0.7:
		boost *= 0.9
	}

	return base * boost
}

// ContentScore combines cosine similarity between the user vector and the
// item with preference boosting. This is the content signal consumed by
// the hybrid engine.
func (s *Store) ContentScore(userVec []float64, item *models.Item, prefs *models.UserPreferences) float64 {
	return PreferenceBoost(item, prefs, s.Similarity(userVec, item.ID))
}

func interestOverlap(item *models.Item, interests []string) bool {
	if len(interests) == 0 {
		return false
	}
	for _, c := range item.Categories {
		for _, interest := range interests {
			if strings.EqualFold(c, interest) {
				return true
			}
		}
	}
	return false
}
