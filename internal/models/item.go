// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package models

import "strings"

// ItemType classifies a catalog item.
type ItemType string

// Item types supported by the catalog.
const (
	ItemAttraction ItemType = "attraction"
	ItemRestaurant ItemType = "restaurant"
	ItemActivity   ItemType = "activity"
)

// CrowdLevel is the typical crowding of an item on a fixed 5-value scale.
type CrowdLevel string

// Crowd levels from least to most crowded.
const (
	CrowdVeryLow  CrowdLevel = "very_low"
	CrowdLow      CrowdLevel = "low"
	CrowdModerate CrowdLevel = "moderate"
	CrowdHigh     CrowdLevel = "high"
	CrowdVeryHigh CrowdLevel = "very_high"
)

// Ordinal encodes the crowd level on a 0-1 scale.
// Unknown levels default to 0.5 (moderate).
func (c CrowdLevel) Ordinal() float64 {
	switch c {
	case CrowdVeryLow:
		return 0.0
	case CrowdLow:
		return 0.25
	case CrowdModerate:
		return 0.5
	case CrowdHigh:
		return 0.75
	case CrowdVeryHigh:
		return 1.0
	default:
		return 0.5
	}
}

// GeoLocation is a geographic coordinate with optional address metadata.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	District  string  `json:"district,omitempty"`
}

// Item is a candidate experience in the catalog.
// Items are loaded once and treated as read-only during scoring.
type Item struct {
	ID          string   `json:"id"`
	Type        ItemType `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`

	// Categories is an unordered, deduplicated tag set.
	Categories []string `json:"categories"`

	Location GeoLocation `json:"location"`

	// Rating is the aggregate rating in [0, 5].
	Rating float64 `json:"rating"`

	// EstimatedDuration is the typical visit length in minutes.
	EstimatedDuration int `json:"estimated_duration"`

	// EstimatedCost is the typical cost per person, >= 0.
	EstimatedCost float64 `json:"estimated_cost"`

	// WeatherDependent marks items whose appeal depends on conditions.
	WeatherDependent bool `json:"weather_dependent"`

	CrowdLevel CrowdLevel `json:"crowd_level"`

	// AuthenticityScore rates how local (vs. touristy) the item is, in [0, 1].
	AuthenticityScore float64 `json:"local_authenticity_score"`
}

// SearchText returns the lowercased text blob used for keyword matching
// and term weighting: name, description and categories joined by spaces.
func (i *Item) SearchText() string {
	parts := make([]string, 0, 2+len(i.Categories))
	parts = append(parts, i.Name, i.Description)
	parts = append(parts, i.Categories...)
	return strings.ToLower(strings.Join(parts, " "))
}

// HasCategory reports whether the item carries the given category,
// case-insensitively.
func (i *Item) HasCategory(category string) bool {
	for _, c := range i.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}
