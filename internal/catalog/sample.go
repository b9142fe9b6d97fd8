// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package catalog

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/excursio/excursio/internal/models"
)

// SampleItems returns the built-in demo catalog used when no catalog file
// is configured.
func SampleItems() []models.Item {
	return []models.Item{
		{
			ID:          "item_1",
			Type:        models.ItemAttraction,
			Name:        "Victoria Peak",
			Description: "Iconic mountain peak with panoramic city views",
			Categories:  []string{"outdoor", "scenic", "tourist", "mountain"},
			Location: models.GeoLocation{
				Latitude:  22.2783,
				Longitude: 114.1747,
				Address:   "Victoria Peak, Hong Kong",
				District:  "Central",
			},
			Rating:            4.5,
			EstimatedDuration: 180,
			EstimatedCost:     65.0,
			WeatherDependent:  true,
			CrowdLevel:        models.CrowdHigh,
			AuthenticityScore: 0.6,
		},
		{
			ID:          "item_2",
			Type:        models.ItemRestaurant,
			Name:        "Tim Ho Wan",
			Description: "Michelin-starred dim sum restaurant",
			Categories:  []string{"dining", "dim sum", "local", "authentic"},
			Location: models.GeoLocation{
				Latitude:  22.2793,
				Longitude: 114.1628,
				Address:   "Central, Hong Kong",
				District:  "Central",
			},
			Rating:            4.3,
			EstimatedDuration: 90,
			EstimatedCost:     150.0,
			WeatherDependent:  false,
			CrowdLevel:        models.CrowdModerate,
			AuthenticityScore: 0.9,
		},
		{
			ID:          "item_3",
			Type:        models.ItemActivity,
			Name:        "Star Ferry Ride",
			Description: "Historic ferry crossing Victoria Harbour",
			Categories:  []string{"transport", "scenic", "historic", "water"},
			Location: models.GeoLocation{
				Latitude:  22.2944,
				Longitude: 114.1694,
				Address:   "Tsim Sha Tsui, Hong Kong",
				District:  "Tsim Sha Tsui",
			},
			Rating:            4.2,
			EstimatedDuration: 30,
			EstimatedCost:     3.0,
			WeatherDependent:  true,
			CrowdLevel:        models.CrowdLow,
			AuthenticityScore: 0.8,
		},
	}
}

// LoadFile reads a JSON catalog file containing an array of items.
func LoadFile(path string) ([]models.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(items))
	for i := range items {
		if items[i].ID == "" {
			return nil, fmt.Errorf("catalog item %d has no id", i)
		}
		if _, dup := seen[items[i].ID]; dup {
			return nil, fmt.Errorf("duplicate catalog item id %q", items[i].ID)
		}
		seen[items[i].ID] = struct{}{}
	}
	return items, nil
}
