// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

// Package engine implements the hybrid recommendation orchestrator. It
// filters candidates, blends the content, collaborative and
// preference-learning signals under fixed weights, applies contextual
// adjustment, ranks and explains results, and manages the per-user
// recommendation lifecycle including feedback ingestion.
package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/excursio/excursio/internal/catalog"
	"github.com/excursio/excursio/internal/collaborative"
	"github.com/excursio/excursio/internal/contextual"
	"github.com/excursio/excursio/internal/features"
	"github.com/excursio/excursio/internal/metrics"
	"github.com/excursio/excursio/internal/models"
	"github.com/excursio/excursio/internal/preference"
)

// neutralScore fills in for signals that produced no value for an item.
const neutralScore = 0.5

// Engine coordinates the scoring components. It owns the per-user
// profile map and recommendation history; both are guarded by the store's
// mutexes and safe for concurrent requests.
type Engine struct {
	config   Config
	logger   zerolog.Logger
	catalog  *catalog.Store
	features *features.Store
	collab   *collaborative.Model
	learner  *preference.Learner
	adjuster *contextual.Adjuster

	profiles *profileStore
	history  *historyStore

	// now is the clock; injectable for tests.
	now func() time.Time
}

// NewEngine creates the orchestrator over the given components.
func NewEngine(
	cfg Config,
	cat *catalog.Store,
	feat *features.Store,
	collab *collaborative.Model,
	learner *preference.Learner,
	adjuster *contextual.Adjuster,
	logger zerolog.Logger,
) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "engine").Logger(),
		catalog:  cat,
		features: feat,
		collab:   collab,
		learner:  learner,
		adjuster: adjuster,
		profiles: newProfileStore(),
		history:  newHistoryStore(cfg.HistoryLimit),
		now:      time.Now,
	}, nil
}

// signalScores holds the per-signal scores for one candidate.
type signalScores struct {
	content       float64
	collaborative float64
	preference    float64
}

// GenerateRecommendations produces the ranked, explained recommendation
// list for a request. It never returns an error; any internal fault is
// logged and degrades to an empty result.
func (e *Engine) GenerateRecommendations(req *models.RecommendationRequest) []models.RecommendationResult {
	start := e.now()
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = e.config.DefaultMaxResults
	}

	profile := e.profiles.getOrCreate(req.UserID, req.Preferences, start)

	// Refresh learning state over the full history before scoring.
	e.learner.LearnFromInteractions(req.UserID, profile.InteractionHistory, e.catalog)
	e.features.EnsureCurrent()

	candidates := e.filterCandidates(req)
	if len(candidates) == 0 {
		e.logger.Debug().Str("user_id", req.UserID).Msg("no candidates after filtering")
		return []models.RecommendationResult{}
	}

	results, scores := e.scoreCandidates(req, profile, candidates, start)

	if len(req.ContextualFactors) > 0 {
		e.applyContextualPass(results, scores, candidates, req)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PersonalizedScore > results[j].PersonalizedScore
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	if req.IncludeAlternatives {
		e.attachAlternatives(results, candidates)
	}

	e.history.append(req.UserID, results)
	metrics.RecommendationsGenerated.Add(float64(len(results)))
	metrics.RecommendationLatency.Observe(e.now().Sub(start).Seconds())

	e.logger.Debug().
		Str("user_id", req.UserID).
		Int("candidates", len(candidates)).
		Int("returned", len(results)).
		Dur("elapsed", e.now().Sub(start)).
		Msg("recommendations generated")

	return results
}

// filterCandidates applies the hard constraints: item type, budget cost
// band (bands start at zero), and dietary-restriction text exclusion for
// restaurants.
func (e *Engine) filterCandidates(req *models.RecommendationRequest) []models.Item {
	items := e.catalog.Items()
	minCost, maxCost := req.Preferences.BudgetRange.FilterBand()

	candidates := make([]models.Item, 0, len(items))
	for i := range items {
		item := &items[i]

		if len(req.RecommendationTypes) > 0 && !containsType(req.RecommendationTypes, item.Type) {
			continue
		}
		if item.EstimatedCost < minCost || item.EstimatedCost > maxCost {
			continue
		}
		if item.Type == models.ItemRestaurant && violatesDietaryRestrictions(item, req.Preferences.DietaryRestrictions) {
			continue
		}
		candidates = append(candidates, *item)
	}
	return candidates
}

func containsType(types []models.ItemType, t models.ItemType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func violatesDietaryRestrictions(item *models.Item, restrictions []string) bool {
	if len(restrictions) == 0 {
		return false
	}
	description := strings.ToLower(item.Description)
	for _, restriction := range restrictions {
		if restriction != "" && strings.Contains(description, strings.ToLower(restriction)) {
			return true
		}
	}
	return false
}

// scoreCandidates computes the weighted base score and reasoning for
// every candidate. The returned scores slice is parallel to results and
// feeds the contextual pass.
func (e *Engine) scoreCandidates(
	req *models.RecommendationRequest,
	profile *models.UserProfile,
	candidates []models.Item,
	now time.Time,
) ([]models.RecommendationResult, []float64) {
	userVec := e.features.UserVector(profile)
	interacted := profile.InteractedItemIDs()

	candidateIDs := make([]string, len(candidates))
	for i := range candidates {
		candidateIDs[i] = candidates[i].ID
	}
	collabScores := e.collab.ScoreItems(req.UserID, candidateIDs)

	results := make([]models.RecommendationResult, 0, len(candidates))
	finalScores := make([]float64, 0, len(candidates))

	for i := range candidates {
		item := &candidates[i]

		scores := signalScores{content: neutralScore, collaborative: neutralScore}
		if _, seen := interacted[item.ID]; !seen {
			scores.content = e.features.ContentScore(userVec, item, &req.Preferences)
		}
		if s, ok := collabScores[item.ID]; ok {
			scores.collaborative = s
		}
		predicted := e.learner.PredictRating(req.UserID, item, &req.Preferences)
		scores.preference = (predicted - 1) / 4

		// The contextual slot is combined as a neutral 0.5; the real
		// adjustment is the multiplicative pass that follows.
		final := scores.content*e.config.Weights.Content +
			scores.collaborative*e.config.Weights.Collaborative +
			scores.preference*e.config.Weights.Preference +
			neutralScore*e.config.Weights.Contextual

		results = append(results, models.RecommendationResult{
			ID:                "rec-" + uuid.NewString(),
			UserID:            req.UserID,
			Item:              *item,
			PersonalizedScore: final,
			ContextualFactors: req.ContextualFactors,
			Reasoning:         e.buildReasoning(item, scores, &req.Preferences),
			GeneratedAt:       now,
			ValidUntil:        now.Add(e.config.TTL),
		})
		finalScores = append(finalScores, final)
	}
	return results, finalScores
}

// applyContextualPass runs the adjuster over the full score vector and
// appends any generated explanations to each item's reasoning.
func (e *Engine) applyContextualPass(
	results []models.RecommendationResult,
	baseScores []float64,
	candidates []models.Item,
	req *models.RecommendationRequest,
) {
	adjusted := e.adjuster.Apply(candidates, baseScores, req.ContextualFactors, &req.Preferences)

	for i := range results {
		change := adjusted[i] - results[i].PersonalizedScore
		results[i].PersonalizedScore = adjusted[i]

		explanations := e.adjuster.Explanations(&results[i].Item, req.ContextualFactors, change)
		if len(explanations) > 0 {
			results[i].Reasoning += " " + strings.Join(explanations, " ")
		}
	}
}

// buildReasoning assembles the explanation from whichever signals cleared
// their thresholds, falling back to a generic string.
func (e *Engine) buildReasoning(item *models.Item, scores signalScores, prefs *models.UserPreferences) string {
	var reasons []string

	if scores.content > 0.6 {
		if matches := matchingInterests(item, prefs.Interests); len(matches) > 0 {
			reasons = append(reasons, "Matches your interests in "+strings.Join(matches, ", "))
		}
	}
	if scores.collaborative > 0.6 {
		reasons = append(reasons, "Popular among users with similar preferences")
	}
	if item.Rating >= 4.0 {
		reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f/5.0)", item.Rating))
	}
	if item.AuthenticityScore >= 0.8 {
		reasons = append(reasons, "Authentic local experience")
	}
	minCost, maxCost := prefs.BudgetRange.FilterBand()
	if item.EstimatedCost >= minCost && item.EstimatedCost <= maxCost {
		reasons = append(reasons, "Fits your budget preferences")
	}

	if len(reasons) == 0 {
		return "Recommended based on your profile"
	}
	return strings.Join(reasons, ". ")
}

// matchingInterests returns the sorted intersection of item categories
// and user interests, lowercased.
func matchingInterests(item *models.Item, interests []string) []string {
	if len(interests) == 0 {
		return nil
	}
	interestSet := make(map[string]struct{}, len(interests))
	for _, in := range interests {
		interestSet[strings.ToLower(in)] = struct{}{}
	}

	var matches []string
	for _, c := range item.Categories {
		lc := strings.ToLower(c)
		if _, ok := interestSet[lc]; ok {
			matches = append(matches, lc)
		}
	}
	sort.Strings(matches)
	return matches
}

// attachAlternatives looks up content-similar items above the similarity
// floor within the candidate set, capped per recommendation.
func (e *Engine) attachAlternatives(results []models.RecommendationResult, candidates []models.Item) {
	candidateSet := make(map[string]struct{}, len(candidates))
	for i := range candidates {
		candidateSet[candidates[i].ID] = struct{}{}
	}

	for i := range results {
		similar := e.features.TopSimilar(results[i].Item.ID, e.config.MaxAlternatives+1, e.config.AlternativeFloor)

		alternatives := make([]models.Item, 0, e.config.MaxAlternatives)
		for _, s := range similar {
			if len(alternatives) >= e.config.MaxAlternatives {
				break
			}
			if _, ok := candidateSet[s.ID]; !ok {
				continue
			}
			if item, ok := e.catalog.Get(s.ID); ok {
				alternatives = append(alternatives, item)
			}
		}
		results[i].Alternatives = alternatives
	}
}

// ProcessFeedback feeds an explicit rating on a stored recommendation
// back into the learning state. Feedback against an unknown
// recommendation ID is a logged no-op; invalid input is the one core path
// that surfaces an error, since silently dropping explicit feedback would
// corrupt learning state.
func (e *Engine) ProcessFeedback(userID, recommendationID string, rating float64, feedback string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be within [1, 5], got %g", rating)
	}

	rec, ok := e.history.find(userID, recommendationID)
	if !ok {
		e.logger.Warn().
			Str("user_id", userID).
			Str("recommendation_id", recommendationID).
			Msg("feedback for unknown recommendation")
		return nil
	}

	e.learner.UpdateFromFeedback(userID, rating, feedback, &rec.Item)

	interaction := models.Interaction{
		UserID:    userID,
		ItemID:    rec.Item.ID,
		Type:      models.InteractionRate,
		Rating:    &rating,
		Timestamp: e.now(),
		Context:   map[string]string{"recommendation_id": recommendationID},
	}
	e.profiles.appendInteraction(userID, interaction)
	e.collab.UpdateInteractions(userID, []models.Interaction{interaction})

	metrics.FeedbackProcessed.Inc()
	return nil
}

// GetUserRecommendations returns the user's stored recommendations,
// most recent first, filtered to non-expired entries. A non-positive
// limit applies the default of 10.
func (e *Engine) GetUserRecommendations(userID string, limit int) []models.RecommendationResult {
	if limit <= 0 {
		limit = 10
	}
	return e.history.active(userID, limit, e.now())
}

// UpdateUserPreferences replaces the user's stored explicit preferences
// and retriggers preference learning over the existing history. Unknown
// users are a no-op.
func (e *Engine) UpdateUserPreferences(userID string, prefs models.UserPreferences) {
	profile, ok := e.profiles.replacePreferences(userID, prefs, e.now())
	if !ok {
		return
	}
	e.learner.LearnFromInteractions(userID, profile.InteractionHistory, e.catalog)
}

// Stats summarizes the engine's in-memory state.
type Stats struct {
	TotalUsers           int     `json:"total_users"`
	TotalRecommendations int     `json:"total_recommendations"`
	TotalInteractions    int     `json:"total_interactions"`
	AvailableItems       int     `json:"available_items"`
	Weights              Weights `json:"weights"`
}

// GetStats returns current engine statistics.
func (e *Engine) GetStats() Stats {
	users, interactions := e.profiles.counts()
	return Stats{
		TotalUsers:           users,
		TotalRecommendations: e.history.total(),
		TotalInteractions:    interactions,
		AvailableItems:       e.catalog.Len(),
		Weights:              e.config.Weights,
	}
}
