// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

// Package preference implements online preference learning. Each user has
// a signed-weight map keyed by signal name (category_<x>, budget_<tier>,
// duration_<bucket>, quality_<tier>, authenticity_<tier>, crowd_<level>,
// weather_<condition>, time_<period>, district_<name>). Weights grow from
// implicit interactions and explicit feedback and shrink under temporal
// decay.
package preference

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/excursio/excursio/internal/models"
)

// ItemSource resolves item IDs against the catalog. Interactions whose
// item cannot be resolved are silently skipped.
type ItemSource interface {
	Get(id string) (models.Item, bool)
}

// Config holds learner parameters.
type Config struct {
	// LearningRate scales every weight update. Default 0.1.
	LearningRate float64

	// DecayFactor multiplies every signal after a learning batch.
	// Default 0.95.
	DecayFactor float64
}

// DefaultConfig returns the reference learning parameters.
func DefaultConfig() Config {
	return Config{LearningRate: 0.1, DecayFactor: 0.95}
}

// decayFloor resets signals whose magnitude falls below it, keeping noise
// out of the map.
const decayFloor = 0.01

// explicitWeight is the fixed additive weight explicit preferences carry
// over learned ones when merging for prediction.
const explicitWeight = 1.5

// Learner maintains per-user learned preference maps. Updates for one
// user are atomic relative to reads of that user's map.
type Learner struct {
	config Config
	logger zerolog.Logger

	mu    sync.RWMutex
	users map[string]map[string]float64
}

// NewLearner creates a preference learner.
func NewLearner(cfg Config, logger zerolog.Logger) *Learner {
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.1
	}
	if cfg.DecayFactor <= 0 {
		cfg.DecayFactor = 0.95
	}
	return &Learner{
		config: cfg,
		logger: logger.With().Str("component", "preference").Logger(),
		users:  make(map[string]map[string]float64),
	}
}

// LearnFromInteractions folds a batch of interactions into the user's
// signal map, then applies temporal decay to every existing signal.
// It returns a snapshot of the resulting map.
func (l *Learner) LearnFromInteractions(userID string, interactions []models.Interaction, items ItemSource) map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefs := l.userMapLocked(userID)

	for i := range interactions {
		inter := &interactions[i]
		item, ok := items.Get(inter.ItemID)
		if !ok {
			continue
		}

		weight := inter.LearningWeight()
		for _, category := range item.Categories {
			prefs["category_"+strings.ToLower(category)] += weight * l.config.LearningRate
		}
		l.learnAttributesLocked(prefs, &item, weight)
		l.learnContextLocked(prefs, inter.Context, weight)
	}

	if len(interactions) > 0 {
		l.decayLocked(prefs)
	}

	return copyMap(prefs)
}

// learnAttributesLocked adds the attribute-derived signals for one item.
func (l *Learner) learnAttributesLocked(prefs map[string]float64, item *models.Item, weight float64) {
	step := weight * l.config.LearningRate

	prefs[budgetSignal(item.EstimatedCost)] += step
	prefs[durationSignal(item.EstimatedDuration)] += step
	prefs[qualitySignal(item.Rating)] += step
	prefs[authenticitySignal(item.AuthenticityScore)] += step
	prefs["crowd_"+string(item.CrowdLevel)] += step
}

func (l *Learner) learnContextLocked(prefs map[string]float64, ctx map[string]string, weight float64) {
	if ctx == nil {
		return
	}
	step := weight * l.config.LearningRate

	if weather, ok := ctx["weather"]; ok {
		prefs["weather_"+strings.ToLower(weather)] += step
	}
	if period, ok := ctx["time_of_day"]; ok {
		prefs["time_"+strings.ToLower(period)] += step
	}
	if district, ok := ctx["district"]; ok {
		prefs["district_"+strings.ToLower(district)] += step
	}
}

func (l *Learner) decayLocked(prefs map[string]float64) {
	for key := range prefs {
		prefs[key] *= l.config.DecayFactor
		if math.Abs(prefs[key]) < decayFloor {
			prefs[key] = 0
		}
	}
}

// UpdateFromFeedback converts an explicit 1-5 rating into a signed weight
// ((rating-3)/2, so 1 maps to -1 and 5 to +1) and applies it to the rated
// item's category and attribute signals. Free-text feedback is scanned
// against fixed keyword dictionaries for further signals.
func (l *Learner) UpdateFromFeedback(userID string, rating float64, feedback string, item *models.Item) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefs := l.userMapLocked(userID)
	weight := (rating - 3.0) / 2.0
	step := weight * l.config.LearningRate

	for _, category := range item.Categories {
		prefs["category_"+strings.ToLower(category)] += step
	}

	prefs[budgetSignal(item.EstimatedCost)] += step
	prefs[durationSignal(item.EstimatedDuration)] += step
	prefs["crowd_"+string(item.CrowdLevel)] += step

	if feedback != "" {
		l.learnFromTextLocked(prefs, feedback, weight)
	}
}

// Keyword dictionaries for free-text feedback. Positive matches add to
// the mapped signal, negative matches subtract.
var (
	positiveKeywords = map[string]string{
		"authentic": "authenticity_high",
		"local":     "authenticity_high",
		"quiet":     "crowd_low",
		"peaceful":  "crowd_low",
		"affordable": "budget_low",
		"cheap":     "budget_low",
		"quick":     "duration_short",
		"fast":      "duration_short",
		"beautiful": "quality_high",
		"amazing":   "quality_high",
		"excellent": "quality_high",
	}

	negativeKeywords = map[string]string{
		"crowded":   "crowd_high",
		"busy":      "crowd_high",
		"expensive": "budget_high",
		"costly":    "budget_high",
		"long":      "duration_long",
		"slow":      "duration_long",
		"touristy":  "authenticity_low",
		"fake":      "authenticity_low",
		"poor":      "quality_low",
		"bad":       "quality_low",
	}
)

func (l *Learner) learnFromTextLocked(prefs map[string]float64, feedback string, weight float64) {
	text := strings.ToLower(feedback)
	step := math.Abs(weight) * l.config.LearningRate

	for keyword, signal := range positiveKeywords {
		if strings.Contains(text, keyword) {
			prefs[signal] += step
		}
	}
	for keyword, signal := range negativeKeywords {
		if strings.Contains(text, keyword) {
			prefs[signal] -= step
		}
	}
}

// LearnedPreferences returns the user's signal map scaled so the maximum
// absolute value is at most 1. Normalization preserves the relative
// ordering of signed magnitudes and is idempotent; unknown users yield an
// empty map.
func (l *Learner) LearnedPreferences(userID string) map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	prefs, ok := l.users[userID]
	if !ok {
		return map[string]float64{}
	}

	out := copyMap(prefs)
	var maxAbs float64
	for _, v := range out {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs > 1.0 {
		for k := range out {
			out[k] /= maxAbs
		}
	}
	return out
}

// Merge combines explicit preferences with learned signals for
// prediction. Explicit-derived signals carry a fixed additive weight of
// 1.5 on top of whatever was learned.
func Merge(explicit *models.UserPreferences, learned map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(learned)+len(explicit.Interests)+2)
	for k, v := range learned {
		merged[k] = v
	}

	for _, interest := range explicit.Interests {
		merged["category_"+strings.ToLower(interest)] += explicitWeight
	}
	if explicit.BudgetRange != "" {
		merged["budget_"+string(explicit.BudgetRange)] += explicitWeight
	}
	if key := activityDurationSignal(explicit.ActivityLevel); key != "" {
		merged[key] += explicitWeight
	}
	return merged
}

func activityDurationSignal(level models.ActivityLevel) string {
	switch level {
	case models.ActivityLow:
		return "duration_short"
	case models.ActivityModerate:
		return "duration_medium"
	case models.ActivityHigh, models.ActivityExtreme:
		return "duration_long"
	default:
		return ""
	}
}

// PredictRating predicts a 1-5 rating for an item from merged explicit
// and learned preferences. The prediction starts from a neutral 3.0, adds
// matching category signals, averages matching attribute signals, and
// clamps to [1, 5]. With no applicable signals it returns exactly 3.0.
func (l *Learner) PredictRating(userID string, item *models.Item, explicit *models.UserPreferences) float64 {
	merged := Merge(explicit, l.LearnedPreferences(userID))
	if len(merged) == 0 {
		return 3.0
	}

	predicted := 3.0
	var totalWeight float64

	for _, category := range item.Categories {
		if v, ok := merged["category_"+strings.ToLower(category)]; ok {
			predicted += v
			totalWeight += math.Abs(v)
		}
	}

	var attributeScores []float64
	if v, ok := merged[budgetSignal(item.EstimatedCost)]; ok {
		attributeScores = append(attributeScores, v)
	}
	if v, ok := merged[durationSignal(item.EstimatedDuration)]; ok {
		attributeScores = append(attributeScores, v)
	}
	if v, ok := merged["crowd_"+string(item.CrowdLevel)]; ok {
		attributeScores = append(attributeScores, v)
	}
	if len(attributeScores) > 0 {
		var sum float64
		for _, v := range attributeScores {
			sum += v
		}
		predicted += sum / float64(len(attributeScores))
		totalWeight += 1.0
	}

	if totalWeight == 0 {
		return 3.0
	}
	return math.Max(1.0, math.Min(5.0, predicted))
}

// SignalRank pairs a signal name with its learned weight.
type SignalRank struct {
	Signal string  `json:"signal"`
	Weight float64 `json:"weight"`
}

// Insights summarizes a user's learned preferences: the top signals by
// magnitude grouped by signal family, plus overall learning strength.
type Insights struct {
	TopSignals       []SignalRank            `json:"top_signals"`
	ByFamily         map[string][]SignalRank `json:"by_family"`
	TotalSignals     int                     `json:"total_signals"`
	LearningStrength float64                 `json:"learning_strength"`
}

// UserInsights returns preference insights for a user, or the zero value
// for unknown users.
func (l *Learner) UserInsights(userID string) Insights {
	l.mu.RLock()
	defer l.mu.RUnlock()

	prefs, ok := l.users[userID]
	if !ok {
		return Insights{ByFamily: map[string][]SignalRank{}}
	}

	ranked := make([]SignalRank, 0, len(prefs))
	var strength float64
	for k, v := range prefs {
		ranked = append(ranked, SignalRank{Signal: k, Weight: v})
		strength += math.Abs(v)
	}
	sort.Slice(ranked, func(i, j int) bool {
		ai, aj := math.Abs(ranked[i].Weight), math.Abs(ranked[j].Weight)
		if ai != aj {
			return ai > aj
		}
		return ranked[i].Signal < ranked[j].Signal
	})

	top := ranked
	if len(top) > 10 {
		top = top[:10]
	}

	byFamily := make(map[string][]SignalRank)
	for _, r := range top {
		family := r.Signal
		if idx := strings.IndexByte(r.Signal, '_'); idx > 0 {
			family = r.Signal[:idx]
		}
		byFamily[family] = append(byFamily[family], r)
	}

	return Insights{
		TopSignals:       top,
		ByFamily:         byFamily,
		TotalSignals:     len(prefs),
		LearningStrength: strength,
	}
}

func (l *Learner) userMapLocked(userID string) map[string]float64 {
	prefs, ok := l.users[userID]
	if !ok {
		prefs = make(map[string]float64)
		l.users[userID] = prefs
	}
	return prefs
}

func copyMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Bucket thresholds shared by learning, feedback and prediction.

func budgetSignal(cost float64) string {
	switch {
	case cost < 100:
		return "budget_low"
	case cost < 300:
		return "budget_medium"
	case cost < 800:
		return "budget_high"
	default:
		return "budget_luxury"
	}
}

func durationSignal(minutes int) string {
	switch {
	case minutes < 120:
		return "duration_short"
	case minutes < 240:
		return "duration_medium"
	default:
		return "duration_long"
	}
}

func qualitySignal(rating float64) string {
	switch {
	case rating >= 4.5:
		return "quality_high"
	case rating >= 3.5:
		return "quality_medium"
	default:
		return "quality_low"
	}
}

func authenticitySignal(score float64) string {
	switch {
	case score >= 0.8:
		return "authenticity_high"
	case score >= 0.5:
		return "authenticity_medium"
	default:
		return "authenticity_low"
	}
}
