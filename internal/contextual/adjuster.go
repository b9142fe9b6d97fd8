// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

// Package contextual applies situational multipliers (weather, crowd,
// time of day, location proximity, season) to recommendation scores.
//
// Every factor's raw adjustment is blended toward 1.0 by the factor's
// confidence: final = 1 + (raw - 1) * confidence. Factors compose
// multiplicatively in list order. Malformed factors (nil payloads) are
// no-ops; the adjuster never fails a request.
package contextual

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/excursio/excursio/internal/models"
)

// weatherImpact maps a condition to indoor/outdoor multipliers.
type weatherImpact struct {
	outdoor float64
	indoor  float64
}

var weatherImpacts = map[string]weatherImpact{
	"sunny":  {outdoor: 1.2, indoor: 0.9},
	"cloudy": {outdoor: 1.0, indoor: 1.0},
	"rainy":  {outdoor: 0.3, indoor: 1.3},
	"stormy": {outdoor: 0.1, indoor: 1.4},
	"hot":    {outdoor: 0.8, indoor: 1.1},
	"humid":  {outdoor: 0.7, indoor: 1.2},
	"cool":   {outdoor: 1.1, indoor: 0.95},
	"windy":  {outdoor: 0.9, indoor: 1.0},
}

var crowdImpacts = map[models.CrowdLevel]float64{
	models.CrowdVeryLow:  1.1,
	models.CrowdLow:      1.05,
	models.CrowdModerate: 1.0,
	models.CrowdHigh:     0.8,
	models.CrowdVeryHigh: 0.5,
}

// timeImpacts maps a period to category multipliers. Only the first
// matching category of an item applies, in category order.
var timeImpacts = map[string]map[string]float64{
	"morning":   {"cultural": 1.2, "outdoor": 1.3, "shopping": 0.8},
	"afternoon": {"cultural": 1.0, "outdoor": 1.1, "shopping": 1.2},
	"evening":   {"cultural": 0.9, "outdoor": 0.8, "shopping": 1.1, "dining": 1.3},
	"night":     {"cultural": 0.7, "outdoor": 0.5, "shopping": 0.6, "dining": 1.2, "nightlife": 1.4},
}

var seasonImpacts = map[string]map[string]float64{
	"spring": {"outdoor": 1.1, "flowers": 1.3, "hiking": 1.2},
	"summer": {"beach": 1.3, "water": 1.2, "indoor": 1.1, "outdoor": 0.9},
	"autumn": {"hiking": 1.2, "outdoor": 1.1, "cultural": 1.1},
	"winter": {"indoor": 1.2, "hot springs": 1.3, "cultural": 1.1, "outdoor": 0.8},
}

var (
	outdoorKeywords = []string{"outdoor", "hiking", "beach", "park", "garden", "mountain", "trail"}
	indoorKeywords  = []string{"indoor", "museum", "mall", "restaurant", "theater", "gallery"}
)

// Environment classifications for weather adjustment.
const (
	envOutdoor = "outdoor"
	envIndoor  = "indoor"
	envMixed   = "mixed"
)

// Adjuster applies contextual factors to score vectors. It is stateless
// apart from its logger and safe for concurrent use.
type Adjuster struct {
	logger zerolog.Logger
}

// NewAdjuster creates a context adjuster.
func NewAdjuster(logger zerolog.Logger) *Adjuster {
	return &Adjuster{logger: logger.With().Str("component", "contextual").Logger()}
}

// Apply returns a new score slice with every factor applied in order.
// Items and scores must be parallel; on length mismatch the input scores
// are returned unchanged.
func (a *Adjuster) Apply(items []models.Item, scores []float64, factors []models.ContextualFactor, prefs *models.UserPreferences) []float64 {
	if len(items) != len(scores) {
		a.logger.Error().
			Int("items", len(items)).
			Int("scores", len(scores)).
			Msg("item and score lengths differ, skipping contextual scoring")
		return scores
	}

	adjusted := make([]float64, len(scores))
	copy(adjusted, scores)

	for fi := range factors {
		factor := &factors[fi]
		if factor.Payload == nil {
			continue
		}
		for i := range items {
			raw := a.rawAdjustment(&items[i], factor, prefs)
			adjusted[i] *= 1.0 + (raw-1.0)*factor.Confidence
		}
	}
	return adjusted
}

// rawAdjustment computes the unblended multiplier for one item under one
// factor, dispatching on the payload's concrete type.
func (a *Adjuster) rawAdjustment(item *models.Item, factor *models.ContextualFactor, prefs *models.UserPreferences) float64 {
	switch payload := factor.Payload.(type) {
	case models.WeatherPayload:
		return weatherAdjustment(item, payload, prefs)
	case models.CrowdPayload:
		return crowdAdjustment(item, payload)
	case models.TimePayload:
		return timeAdjustment(item, payload)
	case models.LocationPayload:
		return locationAdjustment(item, payload)
	case models.SeasonPayload:
		return seasonAdjustment(item, payload)
	default:
		return 1.0
	}
}

func weatherAdjustment(item *models.Item, w models.WeatherPayload, prefs *models.UserPreferences) float64 {
	adjustment := 1.0
	environment := classifyEnvironment(item)

	if item.WeatherDependent {
		if impact, ok := weatherImpacts[w.Condition]; ok {
			switch environment {
			case envOutdoor:
				adjustment *= impact.outdoor
			case envIndoor:
				adjustment *= impact.indoor
			}
		}
	}

	switch {
	case w.Temperature > 30:
		if item.HasCategory("outdoor") || item.HasCategory("hiking") {
			adjustment *= 0.7
		} else if item.HasCategory("indoor") || item.HasCategory("mall") {
			adjustment *= 1.2
		}
	case w.Temperature < 15:
		if item.HasCategory("outdoor") {
			adjustment *= 0.9
		} else if item.HasCategory("hot springs") || item.HasCategory("indoor") {
			adjustment *= 1.1
		}
	}

	if w.Humidity > 80 {
		if item.HasCategory("outdoor") {
			adjustment *= 0.8
		} else if item.HasCategory("air-conditioned") {
			adjustment *= 1.1
		}
	}

	if prefs != nil {
		switch {
		case prefs.HasWeatherPreference("indoor_preferred"):
			if environment == envIndoor {
				adjustment *= 1.1
			}
		case prefs.HasWeatherPreference("outdoor_preferred"):
			if environment == envOutdoor {
				adjustment *= 1.1
			}
		}
	}

	return adjustment
}

// classifyEnvironment classifies an item as indoor, outdoor or mixed by
// keyword overlap in its name, description and categories.
func classifyEnvironment(item *models.Item) string {
	text := item.SearchText()

	var outdoorScore, indoorScore int
	for _, kw := range outdoorKeywords {
		if strings.Contains(text, kw) {
			outdoorScore++
		}
	}
	for _, kw := range indoorKeywords {
		if strings.Contains(text, kw) {
			indoorScore++
		}
	}

	switch {
	case outdoorScore > indoorScore:
		return envOutdoor
	case indoorScore > outdoorScore:
		return envIndoor
	default:
		return envMixed
	}
}

func crowdAdjustment(item *models.Item, c models.CrowdPayload) float64 {
	adjustment, ok := crowdImpacts[item.CrowdLevel]
	if !ok {
		adjustment = 1.0
	}

	// City-wide crowding boosts the quieter alternatives.
	if c.OverallLevel == models.CrowdHigh {
		if item.CrowdLevel == models.CrowdVeryLow || item.CrowdLevel == models.CrowdLow {
			adjustment *= 1.2
		}
	}
	return adjustment
}

func timeAdjustment(item *models.Item, t models.TimePayload) float64 {
	period := Period(t.Hour)
	weights := timeImpacts[period]

	adjustment := 1.0
	for _, category := range item.Categories {
		if w, ok := weights[strings.ToLower(category)]; ok {
			adjustment *= w
			break
		}
	}

	switch period {
	case "morning":
		if item.HasCategory("breakfast") || item.HasCategory("dim sum") {
			adjustment *= 1.3
		}
	case "evening":
		if item.HasCategory("sunset") || item.HasCategory("night view") {
			adjustment *= 1.2
		}
	case "night":
		if item.HasCategory("night market") || item.HasCategory("bar") {
			adjustment *= 1.3
		}
	}
	return adjustment
}

// Period maps an hour of day to its named period.
func Period(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

func locationAdjustment(item *models.Item, loc models.LocationPayload) float64 {
	distance := haversineKM(loc.Latitude, loc.Longitude, item.Location.Latitude, item.Location.Longitude)

	switch {
	case distance < 1:
		return 1.2
	case distance < 5:
		return 1.1
	case distance < 10:
		return 1.0
	case distance < 20:
		return 0.9
	default:
		return 0.8
	}
}

// haversineKM returns the great-circle distance between two coordinates
// in kilometers.
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0

	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	lat1, lon1, lat2, lon2 = toRad(lat1), toRad(lon1), toRad(lat2), toRad(lon2)

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

func seasonAdjustment(item *models.Item, s models.SeasonPayload) float64 {
	weights := seasonImpacts[s.Season]

	adjustment := 1.0
	for _, category := range item.Categories {
		if w, ok := weights[strings.ToLower(category)]; ok {
			adjustment *= w
			break
		}
	}
	return adjustment
}

// Explanations generates short natural-language notes for factors whose
// net effect on the item's score exceeded +-0.1. It never changes scores.
func (a *Adjuster) Explanations(item *models.Item, factors []models.ContextualFactor, scoreChange float64) []string {
	var explanations []string

	for fi := range factors {
		factor := &factors[fi]
		if factor.Payload == nil {
			continue
		}

		switch payload := factor.Payload.(type) {
		case models.WeatherPayload:
			if scoreChange > 0.1 {
				explanations = append(explanations, fmt.Sprintf("Great choice for %s weather!", payload.Condition))
			} else if scoreChange < -0.1 {
				explanations = append(explanations, fmt.Sprintf("Consider indoor alternatives due to %s conditions", payload.Condition))
			}
		case models.CrowdPayload:
			switch item.CrowdLevel {
			case models.CrowdVeryLow, models.CrowdLow:
				if scoreChange > 0 {
					explanations = append(explanations, "Perfect timing - low crowds expected!")
				}
			case models.CrowdHigh, models.CrowdVeryHigh:
				explanations = append(explanations, "Popular spot - consider visiting during off-peak hours")
			}
		case models.TimePayload:
			if scoreChange > 0.1 {
				explanations = append(explanations, fmt.Sprintf("Ideal for %s visits", Period(payload.Hour)))
			}
		case models.LocationPayload:
			if scoreChange > 0.1 {
				explanations = append(explanations, "Conveniently located near you")
			} else if scoreChange < -0.1 {
				explanations = append(explanations, "A bit further away, but worth the journey")
			}
		}
	}
	return explanations
}
