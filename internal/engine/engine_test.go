// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/excursio/excursio/internal/catalog"
	"github.com/excursio/excursio/internal/collaborative"
	"github.com/excursio/excursio/internal/contextual"
	"github.com/excursio/excursio/internal/features"
	"github.com/excursio/excursio/internal/models"
	"github.com/excursio/excursio/internal/preference"
)

func testCatalogItems() []models.Item {
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
			Description: "Scenic outdoor hiking trail with coastal views",
			Categories:  []string{"outdoor", "hiking"},
			Rating:      4.6, EstimatedDuration: 240, EstimatedCost: 0,
			WeatherDependent: true, CrowdLevel: models.CrowdLow, AuthenticityScore: 0.8,
		},
		{
			ID: "dimsum", Type: models.ItemRestaurant,
			Name:        "Tim Ho Wan",
			Description: "Michelin-starred dim sum restaurant with pork buns",
			Categories:  []string{"dining", "dim sum", "local"},
			Rating:      4.3, EstimatedDuration: 90, EstimatedCost: 150,
			CrowdLevel: models.CrowdModerate, AuthenticityScore: 0.9,
		},
		{
			ID: "museum", Type: models.ItemAttraction,
			Name:        "History Museum",
			Description: "Indoor museum with exhibits on local heritage",
			Categories:  []string{"indoor", "cultural", "museum"},
			Rating:      4.1, EstimatedDuration: 120, EstimatedCost: 20,
			CrowdLevel: models.CrowdModerate, AuthenticityScore: 0.7,
		},
		{
			ID: "yacht", Type: models.ItemActivity,
			Name:        "Private Yacht Charter",
			Description: "Luxury yacht cruise around the harbour",
			Categories:  []string{"water", "luxury", "scenic"},
			Rating:      4.8, EstimatedDuration: 360, EstimatedCost: 2500,
			WeatherDependent: true, CrowdLevel: models.CrowdVeryLow, AuthenticityScore: 0.4,
		},
	}
}

// newTestEngine builds an engine over the test catalog with a fixed clock.
func newTestEngine(t *testing.T) (*Engine, *time.Time) {
	t.Helper()

	log := zerolog.Nop()
	cat := catalog.NewStore()
	cat.Replace(testCatalogItems())

	feat := features.NewStore(cat, 0, log)
	collab := collaborative.NewModel(collaborative.DefaultConfig(), log)
	learner := preference.NewLearner(preference.DefaultConfig(), log)
	adjuster := contextual.NewAdjuster(log)

	eng, err := NewEngine(DefaultConfig(), cat, feat, collab, learner, adjuster, log)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := &now
	eng.now = func() time.Time { return *clock }
	return eng, clock
}

func basicRequest(userID string) *models.RecommendationRequest {
	return &models.RecommendationRequest{
		UserID: userID,
		Preferences: models.UserPreferences{
			Interests:     []string{"outdoor", "hiking"},
			BudgetRange:   models.BudgetMedium,
			ActivityLevel: models.ActivityModerate,
			GroupType:     models.GroupSolo,
		},
	}
}

func TestGenerateRecommendationsBasic(t *testing.T) {
	eng, _ := newTestEngine(t)

	results := eng.GenerateRecommendations(basicRequest("alice"))
	if len(results) == 0 {
		t.Fatal("no recommendations generated")
	}

	for i := range results {
		r := &results[i]
		if r.ID == "" || !strings.HasPrefix(r.ID, "rec-") {
			t.Errorf("recommendation id = %q, want rec- prefix", r.ID)
		}
		if r.UserID != "alice" {
			t.Errorf("user id = %q", r.UserID)
		}
		if r.Reasoning == "" {
			t.Error("empty reasoning")
		}
		if !r.ValidUntil.After(r.GeneratedAt) {
			t.Error("ValidUntil not after GeneratedAt")
		}
		if i > 0 && results[i].PersonalizedScore > results[i-1].PersonalizedScore {
			t.Errorf("results not sorted descending at %d", i)
		}
	}
}

func TestGenerateRecommendationsBudgetHardFilter(t *testing.T) {
	eng, _ := newTestEngine(t)

	req := basicRequest("alice")
	req.Preferences.BudgetRange = models.BudgetLow

	for _, r := range eng.GenerateRecommendations(req) {
		if r.Item.EstimatedCost > 100 {
			t.Errorf("item %s at cost %v leaked through the low-budget filter", r.Item.ID, r.Item.EstimatedCost)
		}
	}
}

func TestGenerateRecommendationsCheapItemsSurviveLuxury(t *testing.T) {
	eng, _ := newTestEngine(t)

	req := basicRequest("alice")
	req.Preferences.BudgetRange = models.BudgetLuxury

	found := false
	for _, r := range eng.GenerateRecommendations(req) {
		if r.Item.ID == "trail" {
			found = true
		}
	}
	if !found {
		t.Error("free item should remain visible to luxury-budget users")
	}
}

func TestGenerateRecommendationsTypeFilter(t *testing.T) {
	eng, _ := newTestEngine(t)

	req := basicRequest("alice")
	req.RecommendationTypes = []models.ItemType{models.ItemRestaurant}

	results := eng.GenerateRecommendations(req)
	if len(results) == 0 {
		t.Fatal("no restaurant recommendations")
	}
	for _, r := range results {
		if r.Item.Type != models.ItemRestaurant {
			t.Errorf("non-restaurant item %s in filtered results", r.Item.ID)
		}
	}
}

func TestGenerateRecommendationsDietaryRestrictions(t *testing.T) {
	eng, _ := newTestEngine(t)

	req := basicRequest("alice")
	req.RecommendationTypes = []models.ItemType{models.ItemRestaurant}
	req.Preferences.DietaryRestrictions = []string{"pork"}

	for _, r := range eng.GenerateRecommendations(req) {
		if r.Item.ID == "dimsum" {
			t.Error("restaurant mentioning a restricted ingredient was recommended")
		}
	}
}

func TestGenerateRecommendationsMaxResults(t *testing.T) {
	eng, _ := newTestEngine(t)

	req := basicRequest("alice")
	req.MaxResults = 2

	if got := eng.GenerateRecommendations(req); len(got) > 2 {
		t.Errorf("returned %d results, want at most 2", len(got))
	}
}

func TestGenerateRecommendationsSunnyOutdoorRanking(t *testing.T) {
	eng, _ := newTestEngine(t)

	req := basicRequest("alice")
	req.Preferences.Interests = nil
	req.ContextualFactors = []models.ContextualFactor{
		{
			Type:       models.ContextWeather,
			Payload:    models.WeatherPayload{Condition: "sunny", Temperature: 25, Humidity: 60},
			Confidence: 1.0,
		},
	}

	results := eng.GenerateRecommendations(req)
	if len(results) == 0 {
		t.Fatal("no recommendations")
	}

	pos := map[string]int{}
	for i, r := range results {
		pos[r.Item.ID] = i
	}
	trailPos, trailOK := pos["trail"]
	museumPos, museumOK := pos["museum"]
	if trailOK && museumOK && trailPos > museumPos {
		t.Errorf("sunny weather should rank the outdoor trail (%d) above the indoor museum (%d)", trailPos, museumPos)
	}
}

func TestGenerateRecommendationsAlternatives(t *testing.T) {
	eng, _ := newTestEngine(t)

	req := basicRequest("alice")
	req.IncludeAlternatives = true

	for _, r := range eng.GenerateRecommendations(req) {
		if len(r.Alternatives) > DefaultConfig().MaxAlternatives {
			t.Errorf("item %s has %d alternatives, want at most %d",
				r.Item.ID, len(r.Alternatives), DefaultConfig().MaxAlternatives)
		}
		for _, alt := range r.Alternatives {
			if alt.ID == r.Item.ID {
				t.Errorf("item %s lists itself as an alternative", r.Item.ID)
			}
		}
	}
}

func TestGenerateRecommendationsNoCandidates(t *testing.T) {
	eng, _ := newTestEngine(t)

	req := basicRequest("alice")
	req.RecommendationTypes = []models.ItemType{models.ItemRestaurant}
	req.Preferences.BudgetRange = models.BudgetLow // the only restaurant costs 150

	results := eng.GenerateRecommendations(req)
	if results == nil || len(results) != 0 {
		t.Errorf("want empty non-nil slice, got %v", results)
	}
}

func TestProcessFeedbackUnknownRecommendation(t *testing.T) {
	eng, _ := newTestEngine(t)
	eng.GenerateRecommendations(basicRequest("alice"))

	before := eng.GetStats()
	if err := eng.ProcessFeedback("alice", "rec-does-not-exist", 5, "great"); err != nil {
		t.Fatalf("unknown recommendation id should be a no-op, got error: %v", err)
	}
	after := eng.GetStats()
	if after.TotalInteractions != before.TotalInteractions {
		t.Error("no-op feedback changed interaction state")
	}
}

func TestProcessFeedbackInvalidRating(t *testing.T) {
	eng, _ := newTestEngine(t)

	for _, rating := range []float64{0, 0.5, 5.5, -1} {
		if err := eng.ProcessFeedback("alice", "rec-x", rating, ""); err == nil {
			t.Errorf("rating %v accepted, want error", rating)
		}
	}
}

func TestProcessFeedbackRecordsInteraction(t *testing.T) {
	eng, _ := newTestEngine(t)

	results := eng.GenerateRecommendations(basicRequest("alice"))
	if len(results) == 0 {
		t.Fatal("no recommendations")
	}

	before := eng.GetStats()
	if err := eng.ProcessFeedback("alice", results[0].ID, 5, "amazing views"); err != nil {
		t.Fatalf("ProcessFeedback: %v", err)
	}
	after := eng.GetStats()
	if after.TotalInteractions != before.TotalInteractions+1 {
		t.Errorf("interactions %d -> %d, want +1", before.TotalInteractions, after.TotalInteractions)
	}
}

func TestFeedbackShiftsFutureScores(t *testing.T) {
	eng, _ := newTestEngine(t)

	req := basicRequest("alice")
	req.Preferences.Interests = nil

	first := eng.GenerateRecommendations(req)
	if len(first) == 0 {
		t.Fatal("no recommendations")
	}

	// Find the dim sum recommendation and pan it.
	var dimsumRec *models.RecommendationResult
	for i := range first {
		if first[i].Item.ID == "dimsum" {
			dimsumRec = &first[i]
		}
	}
	if dimsumRec == nil {
		t.Fatal("dimsum not in first batch")
	}
	if err := eng.ProcessFeedback("alice", dimsumRec.ID, 1, "touristy and expensive"); err != nil {
		t.Fatalf("ProcessFeedback: %v", err)
	}

	// The learner now predicts below-neutral for dining items, dragging
	// the preference signal for a similar restaurant down.
	item := testCatalogItems()[2]
	if got := eng.learner.PredictRating("alice", &item, &models.UserPreferences{}); got >= 3.0 {
		t.Errorf("predicted rating after 1-star feedback = %v, want below neutral", got)
	}
}

func TestGetUserRecommendationsOrderAndExpiry(t *testing.T) {
	eng, clock := newTestEngine(t)

	eng.GenerateRecommendations(basicRequest("alice"))
	firstBatchTime := *clock

	*clock = firstBatchTime.Add(1 * time.Hour)
	eng.GenerateRecommendations(basicRequest("alice"))

	recs := eng.GetUserRecommendations("alice", 50)
	if len(recs) == 0 {
		t.Fatal("no stored recommendations")
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].GeneratedAt.After(recs[i-1].GeneratedAt) {
			t.Error("recommendations not in most-recent-first order")
		}
	}

	// Jump past the TTL of the first batch only.
	*clock = firstBatchTime.Add(DefaultConfig().TTL + time.Minute)
	fresh := eng.GetUserRecommendations("alice", 50)
	for _, r := range fresh {
		if r.GeneratedAt.Equal(firstBatchTime) {
			t.Error("expired recommendation returned")
		}
	}
	if len(fresh) == 0 {
		t.Error("second batch should still be valid")
	}

	// Jump past everything.
	*clock = firstBatchTime.Add(48 * time.Hour)
	if got := eng.GetUserRecommendations("alice", 50); len(got) != 0 {
		t.Errorf("all recommendations should be expired, got %d", len(got))
	}
}

func TestGetUserRecommendationsUnknownUser(t *testing.T) {
	eng, _ := newTestEngine(t)
	if got := eng.GetUserRecommendations("nobody", 10); len(got) != 0 {
		t.Errorf("unknown user should yield no recommendations, got %d", len(got))
	}
}

func TestHistoryBounded(t *testing.T) {
	eng, clock := newTestEngine(t)

	// Exceed the history limit across many batches.
	for i := 0; i < 30; i++ {
		*clock = clock.Add(time.Minute)
		eng.GenerateRecommendations(basicRequest("alice"))
	}

	if got := len(eng.GetUserRecommendations("alice", 1000)); got > DefaultConfig().HistoryLimit {
		t.Errorf("history grew to %d, limit is %d", got, DefaultConfig().HistoryLimit)
	}
}

func TestUpdateUserPreferences(t *testing.T) {
	eng, _ := newTestEngine(t)

	// Unknown user is a no-op and must not create a profile.
	eng.UpdateUserPreferences("ghost", models.UserPreferences{Interests: []string{"outdoor"}})
	if got := eng.GetStats().TotalUsers; got != 0 {
		t.Errorf("no-op preference update created a profile: users = %d", got)
	}

	eng.GenerateRecommendations(basicRequest("alice"))
	eng.UpdateUserPreferences("alice", models.UserPreferences{
		Interests:   []string{"dining"},
		BudgetRange: models.BudgetHigh,
	})
	if got := eng.GetStats().TotalUsers; got != 1 {
		t.Errorf("users = %d, want 1", got)
	}
}

func TestGetStats(t *testing.T) {
	eng, _ := newTestEngine(t)

	stats := eng.GetStats()
	if stats.AvailableItems != len(testCatalogItems()) {
		t.Errorf("available items = %d, want %d", stats.AvailableItems, len(testCatalogItems()))
	}
	if stats.Weights != DefaultWeights() {
		t.Errorf("weights = %+v", stats.Weights)
	}

	eng.GenerateRecommendations(basicRequest("alice"))
	eng.GenerateRecommendations(basicRequest("bob"))

	stats = eng.GetStats()
	if stats.TotalUsers != 2 {
		t.Errorf("users = %d, want 2", stats.TotalUsers)
	}
	if stats.TotalRecommendations == 0 {
		t.Error("no recommendations counted")
	}
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	log := zerolog.Nop()
	cat := catalog.NewStore()
	feat := features.NewStore(cat, 0, log)
	collab := collaborative.NewModel(collaborative.DefaultConfig(), log)
	learner := preference.NewLearner(preference.DefaultConfig(), log)
	adjuster := contextual.NewAdjuster(log)

	bad := DefaultConfig()
	bad.TTL = 0
	if _, err := NewEngine(bad, cat, feat, collab, learner, adjuster, log); err == nil {
		t.Error("expected config validation error")
	}
}
