// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package models

import "time"

// InteractionType describes how a user engaged with an item.
type InteractionType string

// Interaction types, roughly ordered by signal strength.
const (
	InteractionView  InteractionType = "view"
	InteractionLike  InteractionType = "like"
	InteractionVisit InteractionType = "visit"
	InteractionRate  InteractionType = "rate"
	InteractionShare InteractionType = "share"
	InteractionSave  InteractionType = "save"
)

// Interaction records a single user-item event. Interactions are
// append-only: they are owned by the user's profile and mirrored into the
// collaborative model's interaction index.
type Interaction struct {
	UserID string          `json:"user_id"`
	ItemID string          `json:"item_id"`
	Type   InteractionType `json:"interaction_type"`

	// Rating is the explicit 1-5 rating, present only for rate interactions.
	Rating *float64 `json:"rating,omitempty"`

	Timestamp time.Time `json:"timestamp"`

	// Context carries free-form situational keys recorded with the
	// interaction, e.g. "weather", "time_of_day", "district".
	Context map[string]string `json:"context,omitempty"`
}

// MatrixWeight is the interaction strength used by the collaborative
// model's user-item matrix: a base weight by type, scaled by rating/5 when
// a rating is present.
func (in *Interaction) MatrixWeight() float64 {
	var base float64
	switch in.Type {
	case InteractionView:
		base = 1.0
	case InteractionLike:
		base = 2.0
	case InteractionVisit:
		base = 3.0
	case InteractionRate:
		base = 4.0
	default:
		base = 1.0
	}
	if in.Rating != nil {
		return base * (*in.Rating / 5.0)
	}
	return base
}

// LearningWeight is the interaction strength used by the preference
// learner, on a 0-1 base scale.
func (in *Interaction) LearningWeight() float64 {
	var base float64
	switch in.Type {
	case InteractionView:
		base = 0.1
	case InteractionLike:
		base = 0.3
	case InteractionVisit:
		base = 0.7
	case InteractionRate:
		base = 1.0
	case InteractionShare:
		base = 0.4
	case InteractionSave:
		base = 0.5
	default:
		base = 0.1
	}
	if in.Rating != nil {
		return base * (*in.Rating / 5.0)
	}
	return base
}
