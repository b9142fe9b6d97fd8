// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package features

import (
	"math"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/excursio/excursio/internal/catalog"
	"github.com/excursio/excursio/internal/models"
)

func testItems() []models.Item {
	return []models.Item{
		{
			ID: "peak", Type: models.ItemAttraction,
			Name:        "Victoria Peak",
			Description: "Iconic mountain peak with panoramic city views",
			Categories:  []string{"outdoor", "scenic", "mountain"},
			Rating:      4.5, EstimatedDuration: 180, EstimatedCost: 65,
			WeatherDependent: true, CrowdLevel: models.CrowdHigh, AuthenticityScore: 0.6,
		},
		{
			ID: "trail", Type: models.ItemActivity,
			Name:        "Dragon's Back Trail",
			Description: "Scenic mountain hiking trail with coastal views",
			Categories:  []string{"outdoor", "hiking", "mountain"},
			Rating:      4.6, EstimatedDuration: 240, EstimatedCost: 0,
			WeatherDependent: true, CrowdLevel: models.CrowdLow, AuthenticityScore: 0.8,
		},
		{
			ID: "dimsum", Type: models.ItemRestaurant,
			Name:        "Tim Ho Wan",
			Description: "Michelin-starred dim sum restaurant",
			Categories:  []string{"dining", "dim sum", "local"},
			Rating:      4.3, EstimatedDuration: 90, EstimatedCost: 150,
			WeatherDependent: false, CrowdLevel: models.CrowdModerate, AuthenticityScore: 0.9,
		},
	}
}

func newTestStore(t *testing.T) (*Store, *catalog.Store) {
	t.Helper()
	cat := catalog.NewStore()
	cat.Replace(testItems())
	s := NewStore(cat, 0, zerolog.Nop())
	s.Rebuild()
	return s, cat
}

func TestRebuildDimensions(t *testing.T) {
	s, _ := newTestStore(t)
	if s.Dimensions() <= numericFeatures {
		t.Errorf("dimensions = %d, want more than the %d numeric slots", s.Dimensions(), numericFeatures)
	}
}

func TestItemVectorSelfSimilarity(t *testing.T) {
	s, _ := newTestStore(t)
	for _, id := range []string{"peak", "trail", "dimsum"} {
		if got := s.ItemSimilarity(id, id); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("self similarity of %s = %v, want 1", id, got)
		}
	}
}

func TestItemSimilarityReflectsContent(t *testing.T) {
	s, _ := newTestStore(t)

	outdoorPair := s.ItemSimilarity("peak", "trail")
	mixedPair := s.ItemSimilarity("peak", "dimsum")
	if outdoorPair <= mixedPair {
		t.Errorf("similar outdoor items (%v) should score above dissimilar pair (%v)", outdoorPair, mixedPair)
	}
}

func TestEnsureCurrentTracksVersion(t *testing.T) {
	s, cat := newTestStore(t)
	before := s.Dimensions()

	items := append(testItems(), models.Item{
		ID: "museum", Type: models.ItemAttraction,
		Name: "History Museum", Description: "Indoor exhibits on local heritage",
		Categories: []string{"indoor", "cultural", "museum"},
		Rating:     4.1, EstimatedDuration: 120, EstimatedCost: 20,
		CrowdLevel: models.CrowdModerate, AuthenticityScore: 0.7,
	})
	cat.Replace(items)
	s.EnsureCurrent()

	if _, ok := s.ItemVector("museum"); !ok {
		t.Fatal("new item missing after EnsureCurrent")
	}
	if s.Dimensions() <= before {
		t.Errorf("dimensions did not grow with the vocabulary: %d -> %d", before, s.Dimensions())
	}
}

func TestUserVectorBlendsInteractions(t *testing.T) {
	s, _ := newTestStore(t)

	coldProfile := &models.UserProfile{
		UserID:      "cold",
		Preferences: models.UserPreferences{Interests: []string{"hiking", "mountain"}},
	}
	warmProfile := &models.UserProfile{
		UserID:      "warm",
		Preferences: models.UserPreferences{Interests: []string{"hiking", "mountain"}},
		InteractionHistory: []models.Interaction{
			{UserID: "warm", ItemID: "trail", Type: models.InteractionVisit},
		},
	}

	coldSim := s.Similarity(s.UserVector(coldProfile), "trail")
	warmSim := s.Similarity(s.UserVector(warmProfile), "trail")
	if warmSim <= coldSim {
		t.Errorf("interaction history should pull the user vector toward the item: cold=%v warm=%v", coldSim, warmSim)
	}
}

func TestUserVectorUnknownInteractionsIgnored(t *testing.T) {
	s, _ := newTestStore(t)

	profile := &models.UserProfile{
		UserID: "u",
		InteractionHistory: []models.Interaction{
			{UserID: "u", ItemID: "ghost", Type: models.InteractionVisit},
		},
	}
	vec := s.UserVector(profile)
	if len(vec) != s.Dimensions() {
		t.Fatalf("vector length = %d, want %d", len(vec), s.Dimensions())
	}
}

func TestTopSimilarDeterministic(t *testing.T) {
	s, _ := newTestStore(t)

	first := s.TopSimilar("peak", 3, -1)
	second := s.TopSimilar("peak", 3, -1)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("TopSimilar not deterministic: %v vs %v", first, second)
	}
	for i := 1; i < len(first); i++ {
		if first[i].Score > first[i-1].Score {
			t.Errorf("results not sorted descending: %v", first)
		}
	}
}

func TestTopSimilarFloorAndUnknown(t *testing.T) {
	s, _ := newTestStore(t)

	if got := s.TopSimilar("ghost", 3, 0); got != nil {
		t.Errorf("unknown item should yield nil, got %v", got)
	}
	for _, si := range s.TopSimilar("peak", 3, 0.99) {
		if si.Score <= 0.99 {
			t.Errorf("result below floor: %+v", si)
		}
	}
}

func TestPreferenceBoostInterests(t *testing.T) {
	item := testItems()[1] // trail: outdoor/hiking/mountain, cost 0, 240 min

	base := 0.5
	neutral := models.UserPreferences{BudgetRange: models.BudgetLow, ActivityLevel: models.ActivityModerate}
	matching := neutral
	matching.Interests = []string{"hiking"}

	without := PreferenceBoost(&item, &neutral, base)
	with := PreferenceBoost(&item, &matching, base)
	if math.Abs(with/without-1.2) > 1e-9 {
		t.Errorf("interest overlap boost = %v, want 1.2x", with/without)
	}
}

func TestPreferenceBoostBudget(t *testing.T) {
	item := models.Item{ID: "pricey", EstimatedCost: 900, EstimatedDuration: 240}
	prefs := models.UserPreferences{BudgetRange: models.BudgetLow, ActivityLevel: models.ActivityModerate}

	boosted := PreferenceBoost(&item, &prefs, 1.0)
	inBand := models.Item{ID: "cheap", EstimatedCost: 50, EstimatedDuration: 240}
	inBandScore := PreferenceBoost(&inBand, &prefs, 1.0)

	if boosted >= inBandScore {
		t.Errorf("over-budget item (%v) should score below in-band item (%v)", boosted, inBandScore)
	}
}

func TestPreferenceBoostGroupType(t *testing.T) {
	item := models.Item{
		ID: "kids", Categories: []string{"family-friendly"},
		EstimatedCost: 50, EstimatedDuration: 240,
	}
	family := models.UserPreferences{
		GroupType: models.GroupFamily, BudgetRange: models.BudgetMedium,
		ActivityLevel: models.ActivityModerate,
	}
	solo := family
	solo.GroupType = models.GroupSolo

	if PreferenceBoost(&item, &family, 1.0) <= PreferenceBoost(&item, &solo, 1.0) {
		t.Error("family-friendly item should boost for family groups")
	}
}
