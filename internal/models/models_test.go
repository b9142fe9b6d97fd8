// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package models

import (
	"math"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestCrowdLevelOrdinal(t *testing.T) {
	tests := []struct {
		level CrowdLevel
		want  float64
	}{
		{CrowdVeryLow, 0.0},
		{CrowdLow, 0.25},
		{CrowdModerate, 0.5},
		{CrowdHigh, 0.75},
		{CrowdVeryHigh, 1.0},
		{CrowdLevel("bogus"), 0.5},
	}
	for _, tt := range tests {
		if got := tt.level.Ordinal(); got != tt.want {
			t.Errorf("Ordinal(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestMatrixWeight(t *testing.T) {
	rating := 4.0
	tests := []struct {
		name string
		in   Interaction
		want float64
	}{
		{"view", Interaction{Type: InteractionView}, 1.0},
		{"like", Interaction{Type: InteractionLike}, 2.0},
		{"visit", Interaction{Type: InteractionVisit}, 3.0},
		{"rate without rating", Interaction{Type: InteractionRate}, 4.0},
		{"rate with rating", Interaction{Type: InteractionRate, Rating: &rating}, 4.0 * 4.0 / 5.0},
		{"unknown type", Interaction{Type: InteractionType("poke")}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.MatrixWeight(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MatrixWeight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLearningWeight(t *testing.T) {
	tests := []struct {
		typ  InteractionType
		want float64
	}{
		{InteractionView, 0.1},
		{InteractionLike, 0.3},
		{InteractionVisit, 0.7},
		{InteractionRate, 1.0},
		{InteractionShare, 0.4},
		{InteractionSave, 0.5},
	}
	for _, tt := range tests {
		in := Interaction{Type: tt.typ}
		if got := in.LearningWeight(); got != tt.want {
			t.Errorf("LearningWeight(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestFilterBandStartsAtZero(t *testing.T) {
	for _, b := range []BudgetRange{BudgetLow, BudgetMedium, BudgetHigh, BudgetLuxury} {
		minCost, maxCost := b.FilterBand()
		if minCost != 0 {
			t.Errorf("FilterBand(%q) min = %v, want 0", b, minCost)
		}
		if maxCost <= 0 {
			t.Errorf("FilterBand(%q) max = %v, want positive", b, maxCost)
		}
	}
}

func TestFilterBandOrdering(t *testing.T) {
	_, low := BudgetLow.FilterBand()
	_, medium := BudgetMedium.FilterBand()
	_, high := BudgetHigh.FilterBand()
	_, luxury := BudgetLuxury.FilterBand()

	if !(low < medium && medium < high && high < luxury) {
		t.Errorf("filter band ceilings not increasing: %v %v %v %v", low, medium, high, luxury)
	}
}

func TestBoostBandDisjointFromFilterBand(t *testing.T) {
	minCost, maxCost := BudgetHigh.BoostBand()
	if minCost != 200 || maxCost != 800 {
		t.Errorf("BoostBand(high) = (%v, %v), want (200, 800)", minCost, maxCost)
	}
}

func TestRecommendationExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := RecommendationResult{ValidUntil: now.Add(24 * time.Hour)}

	if rec.Expired(now) {
		t.Error("fresh recommendation reported expired")
	}
	if !rec.Expired(now.Add(24 * time.Hour)) {
		t.Error("recommendation at exact TTL boundary should be expired")
	}
	if !rec.Expired(now.Add(48 * time.Hour)) {
		t.Error("stale recommendation not reported expired")
	}
}

func TestSearchText(t *testing.T) {
	item := Item{
		Name:        "Victoria Peak",
		Description: "Iconic views",
		Categories:  []string{"Outdoor", "Scenic"},
	}
	want := "victoria peak iconic views outdoor scenic"
	if got := item.SearchText(); got != want {
		t.Errorf("SearchText() = %q, want %q", got, want)
	}
}

func TestHasCategory(t *testing.T) {
	item := Item{Categories: []string{"Outdoor", "dim sum"}}

	if !item.HasCategory("outdoor") {
		t.Error("HasCategory should match case-insensitively")
	}
	if !item.HasCategory("Dim Sum") {
		t.Error("HasCategory should match multi-word categories")
	}
	if item.HasCategory("indoor") {
		t.Error("HasCategory matched an absent category")
	}
}

func TestContextualFactorUnmarshalWeather(t *testing.T) {
	tests := []struct {
		name string
		body string
		want WeatherPayload
	}{
		{
			name: "full payload",
			body: `{"type":"weather","value":{"condition":"Sunny","temperature":31,"humidity":55},"confidence":0.9}`,
			want: WeatherPayload{Condition: "sunny", Temperature: 31, Humidity: 55},
		},
		{
			name: "defaults applied",
			body: `{"type":"weather","value":{},"confidence":0.5}`,
			want: WeatherPayload{Condition: "cloudy", Temperature: 25, Humidity: 70},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f ContextualFactor
			if err := json.Unmarshal([]byte(tt.body), &f); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			got, ok := f.Payload.(WeatherPayload)
			if !ok {
				t.Fatalf("payload type = %T, want WeatherPayload", f.Payload)
			}
			if got != tt.want {
				t.Errorf("payload = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestContextualFactorUnmarshalTime(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantHour int
		wantNil  bool
	}{
		{"integer hour", `{"type":"time","value":{"current_time":14}}`, 14, false},
		{"clock string", `{"type":"time","value":{"current_time":"09:30"}}`, 9, false},
		{"missing key", `{"type":"time","value":{}}`, 0, true},
		{"out of range", `{"type":"time","value":{"current_time":25}}`, 0, true},
		{"garbage string", `{"type":"time","value":{"current_time":"soon"}}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f ContextualFactor
			if err := json.Unmarshal([]byte(tt.body), &f); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if tt.wantNil {
				if f.Payload != nil {
					t.Fatalf("payload = %v, want nil", f.Payload)
				}
				return
			}
			got, ok := f.Payload.(TimePayload)
			if !ok {
				t.Fatalf("payload type = %T, want TimePayload", f.Payload)
			}
			if got.Hour != tt.wantHour {
				t.Errorf("hour = %d, want %d", got.Hour, tt.wantHour)
			}
		})
	}
}

func TestContextualFactorUnmarshalLocation(t *testing.T) {
	var full ContextualFactor
	if err := json.Unmarshal([]byte(`{"type":"location","value":{"latitude":22.3,"longitude":114.2}}`), &full); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	loc, ok := full.Payload.(LocationPayload)
	if !ok {
		t.Fatalf("payload type = %T, want LocationPayload", full.Payload)
	}
	if loc.Latitude != 22.3 || loc.Longitude != 114.2 {
		t.Errorf("payload = %+v", loc)
	}

	var partial ContextualFactor
	if err := json.Unmarshal([]byte(`{"type":"location","value":{"latitude":22.3}}`), &partial); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if partial.Payload != nil {
		t.Errorf("location with missing longitude should decode to nil payload, got %v", partial.Payload)
	}
}

func TestContextualFactorUnmarshalUnknownType(t *testing.T) {
	var f ContextualFactor
	if err := json.Unmarshal([]byte(`{"type":"tide","value":{"height":2}}`), &f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f.Payload != nil {
		t.Errorf("unknown factor type should decode to nil payload, got %v", f.Payload)
	}
}

func TestInteractedItemIDs(t *testing.T) {
	profile := UserProfile{
		InteractionHistory: []Interaction{
			{ItemID: "a"}, {ItemID: "b"}, {ItemID: "a"},
		},
	}
	ids := profile.InteractedItemIDs()
	if len(ids) != 2 {
		t.Fatalf("len = %d, want 2", len(ids))
	}
	for _, id := range []string{"a", "b"} {
		if _, ok := ids[id]; !ok {
			t.Errorf("missing %q", id)
		}
	}
}
