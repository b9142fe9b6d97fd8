// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package models

import "time"

// RecommendationRequest is the input to recommendation generation.
type RecommendationRequest struct {
	UserID      string          `json:"user_id" validate:"required"`
	Preferences UserPreferences `json:"preferences"`

	// ContextualFactors are consumed in list order.
	ContextualFactors []ContextualFactor `json:"contextual_factors"`

	// RecommendationTypes restricts candidates to the given item types.
	// Empty means all types.
	RecommendationTypes []ItemType `json:"recommendation_types" validate:"dive,oneof=attraction restaurant activity"`

	MaxResults          int  `json:"max_results" validate:"omitempty,min=1,max=100"`
	IncludeAlternatives bool `json:"include_alternatives"`
}

// RecommendationResult is one scored, explained recommendation.
type RecommendationResult struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Item   Item   `json:"item"`

	// PersonalizedScore is designed around a 0-1 base range but is
	// unbounded above 0 after contextual boosting.
	PersonalizedScore float64 `json:"personalized_score"`

	ContextualFactors []ContextualFactor `json:"contextual_factors,omitempty"`
	Reasoning         string             `json:"reasoning"`

	// Alternatives holds up to 2 similar items.
	Alternatives []Item `json:"alternatives,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
	ValidUntil  time.Time `json:"valid_until"`
}

// Expired reports whether the recommendation is past its TTL at the given
// instant.
func (r *RecommendationResult) Expired(now time.Time) bool {
	return !r.ValidUntil.After(now)
}
