// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package models

import "time"

// BudgetRange is a user's spending tier.
type BudgetRange string

// Budget tiers.
const (
	BudgetLow    BudgetRange = "low"
	BudgetMedium BudgetRange = "medium"
	BudgetHigh   BudgetRange = "high"
	BudgetLuxury BudgetRange = "luxury"
)

// FilterBand returns the cost band used during candidate filtering.
// Bands intentionally start at 0 so that a high-budget user still sees
// cheap items; the disjoint bands used for preference boosting live in
// BoostBand. The two are deliberately different (see PreferenceBoost in
// the features package) and must not be unified.
func (b BudgetRange) FilterBand() (minCost, maxCost float64) {
	switch b {
	case BudgetLow:
		return 0, 100
	case BudgetMedium:
		return 0, 300
	case BudgetHigh:
		return 0, 800
	case BudgetLuxury:
		return 0, maxCostUnbounded
	default:
		return 0, maxCostUnbounded
	}
}

// BoostBand returns the disjoint cost band used for preference boosting.
func (b BudgetRange) BoostBand() (minCost, maxCost float64) {
	switch b {
	case BudgetLow:
		return 0, 100
	case BudgetMedium:
		return 50, 300
	case BudgetHigh:
		return 200, 800
	case BudgetLuxury:
		return 500, maxCostUnbounded
	default:
		return 0, maxCostUnbounded
	}
}

const maxCostUnbounded = 1e18

// GroupType describes who the user is traveling with.
type GroupType string

// Group types.
const (
	GroupSolo    GroupType = "solo"
	GroupCouple  GroupType = "couple"
	GroupFamily  GroupType = "family"
	GroupFriends GroupType = "friends"
)

// ActivityLevel is a user's preferred intensity of activities.
type ActivityLevel string

// Activity levels.
const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
	ActivityExtreme  ActivityLevel = "extreme"
)

// PreferredDuration maps the activity level to a preferred item duration
// in minutes, used for duration-fit boosting.
func (a ActivityLevel) PreferredDuration() float64 {
	switch a {
	case ActivityLow:
		return 120
	case ActivityModerate:
		return 240
	case ActivityHigh:
		return 480
	case ActivityExtreme:
		return 720
	default:
		return 240
	}
}

// UserPreferences holds a user's explicit preferences as supplied with a
// recommendation request. Preferences are replaced wholesale on update,
// never merged.
type UserPreferences struct {
	Interests           []string      `json:"interests"`
	BudgetRange         BudgetRange   `json:"budget_range" validate:"omitempty,oneof=low medium high luxury"`
	GroupType           GroupType     `json:"group_type" validate:"omitempty,oneof=solo couple family friends"`
	ActivityLevel       ActivityLevel `json:"activity_level" validate:"omitempty,oneof=low moderate high extreme"`
	DietaryRestrictions []string      `json:"dietary_restrictions"`

	// WeatherPreferences carries tags such as "indoor_preferred" or
	// "outdoor_preferred".
	WeatherPreferences []string `json:"weather_preferences"`
}

// HasWeatherPreference reports whether the given tag is present.
func (p *UserPreferences) HasWeatherPreference(tag string) bool {
	for _, t := range p.WeatherPreferences {
		if t == tag {
			return true
		}
	}
	return false
}

// UserProfile is the per-user state: explicit preferences plus the ordered
// interaction history. One profile exists per user ID, created lazily on
// first request.
type UserProfile struct {
	UserID             string          `json:"user_id"`
	Preferences        UserPreferences `json:"preferences"`
	InteractionHistory []Interaction   `json:"interaction_history"`
	LastUpdated        time.Time       `json:"last_updated"`
}

// InteractedItemIDs returns the set of item IDs present in the history.
func (u *UserProfile) InteractedItemIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(u.InteractionHistory))
	for i := range u.InteractionHistory {
		ids[u.InteractionHistory[i].ItemID] = struct{}{}
	}
	return ids
}
