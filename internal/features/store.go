// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package features

import (
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/excursio/excursio/internal/catalog"
	"github.com/excursio/excursio/internal/models"
)

// numericFeatures is the number of scaled numeric attributes appended
// after the term block. Their order is fixed: rating, duration (hours),
// log(1+cost), weather-dependency, crowd ordinal, authenticity.
const numericFeatures = 6

// Offsets of the numeric attributes within the numeric block.
const (
	numRating = iota
	numDuration
	numCost
	numWeather
	numCrowd
	numAuthenticity
)

// Weights for blending explicit preferences and interaction history into
// a user profile vector.
const (
	preferenceWeight  = 0.3
	interactionWeight = 0.7
)

// SimilarItem pairs an item ID with its content similarity score.
type SimilarItem struct {
	ID    string
	Score float64
}

// Store builds and serves feature vectors for the current catalog.
// It is safe for concurrent use; Rebuild excludes concurrent reads.
type Store struct {
	catalog  *catalog.Store
	logger   zerolog.Logger
	maxTerms int

	mu           sync.RWMutex
	terms        []string
	vocab        map[string]int
	idf          []float64
	dim          int
	vectors      map[string][]float64
	built        bool
	builtVersion uint64
}

// NewStore creates a feature store bound to the given catalog.
// maxTerms caps the vocabulary size; zero means the default of 1000.
func NewStore(cat *catalog.Store, maxTerms int, logger zerolog.Logger) *Store {
	if maxTerms <= 0 {
		maxTerms = 1000
	}
	return &Store{
		catalog:  cat,
		logger:   logger.With().Str("component", "features").Logger(),
		maxTerms: maxTerms,
		vocab:    make(map[string]int),
		vectors:  make(map[string][]float64),
	}
}

// EnsureCurrent rebuilds the store if the catalog changed since the last
// build. Rebuilding is O(items), deterministic and idempotent for a fixed
// catalog.
func (s *Store) EnsureCurrent() {
	s.mu.RLock()
	current := s.built && s.builtVersion == s.catalog.Version()
	s.mu.RUnlock()
	if current {
		return
	}
	s.Rebuild()
}

// Rebuild recomputes all item vectors from the current catalog.
func (s *Store) Rebuild() {
	items := s.catalog.Items()
	version := s.catalog.Version()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.buildLocked(items)
	s.builtVersion = version
	s.built = true

	s.logger.Debug().
		Int("items", len(items)).
		Int("vocabulary", len(s.terms)).
		Int("dimensions", s.dim).
		Msg("feature store rebuilt")
}

func (s *Store) buildLocked(items []models.Item) {
	docs := make([]map[string]int, len(items))
	docFreq := make(map[string]int)
	for i := range items {
		counts := termCounts(tokenize(items[i].SearchText()))
		docs[i] = counts
		for term := range counts {
			docFreq[term]++
		}
	}

	s.terms = selectVocabulary(docFreq, s.maxTerms)
	s.vocab = make(map[string]int, len(s.terms))
	for i, t := range s.terms {
		s.vocab[t] = i
	}

	s.idf = make([]float64, len(s.terms))
	for i, t := range s.terms {
		s.idf[i] = smoothIDF(len(items), docFreq[t])
	}

	s.dim = len(s.terms) + numericFeatures
	numericStart := len(s.terms)

	// Raw numeric attribute rows, standardized below.
	numeric := make([][numericFeatures]float64, len(items))
	for i := range items {
		it := &items[i]
		numeric[i] = [numericFeatures]float64{
			it.Rating,
			float64(it.EstimatedDuration) / 60.0,
			math.Log1p(it.EstimatedCost),
			boolToFloat(it.WeatherDependent),
			it.CrowdLevel.Ordinal(),
			it.AuthenticityScore,
		}
	}
	means, stds := columnStats(numeric)

	s.vectors = make(map[string][]float64, len(items))
	for i := range items {
		vec := make([]float64, s.dim)
		textBlock := vec[:numericStart]
		for term, count := range docs[i] {
			if idx, ok := s.vocab[term]; ok {
				textBlock[idx] = float64(count) * s.idf[idx]
			}
		}
		l2Normalize(textBlock)

		for j := 0; j < numericFeatures; j++ {
			if stds[j] > 0 {
				vec[numericStart+j] = (numeric[i][j] - means[j]) / stds[j]
			}
		}
		s.vectors[items[i].ID] = vec
	}
}

// selectVocabulary picks up to maxTerms terms by descending document
// frequency (ties alphabetical) and returns them sorted alphabetically so
// axis order is deterministic.
func selectVocabulary(docFreq map[string]int, maxTerms int) []string {
	terms := make([]string, 0, len(docFreq))
	for t := range docFreq {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	if len(terms) > maxTerms {
		sort.SliceStable(terms, func(i, j int) bool {
			return docFreq[terms[i]] > docFreq[terms[j]]
		})
		terms = terms[:maxTerms]
		sort.Strings(terms)
	}
	return terms
}

func columnStats(rows [][numericFeatures]float64) (means, stds [numericFeatures]float64) {
	n := float64(len(rows))
	if n == 0 {
		return means, stds
	}
	for i := range rows {
		for j := 0; j < numericFeatures; j++ {
			means[j] += rows[i][j]
		}
	}
	for j := 0; j < numericFeatures; j++ {
		means[j] /= n
	}
	for i := range rows {
		for j := 0; j < numericFeatures; j++ {
			d := rows[i][j] - means[j]
			stds[j] += d * d
		}
	}
	for j := 0; j < numericFeatures; j++ {
		stds[j] = math.Sqrt(stds[j] / n)
	}
	return means, stds
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Dimensions returns the current feature vector length, 0 before the
// first build.
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// ItemVector returns a copy of the vector for the given item, if built.
func (s *Store) ItemVector(itemID string) ([]float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vec, ok := s.vectors[itemID]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(vec))
	copy(out, vec)
	return out, true
}

// UserVector synthesizes a profile vector in the item feature space:
// 0.3 x an encoding of the explicit preferences plus 0.7 x the
// interaction-weighted average of interacted item vectors.
func (s *Store) UserVector(profile *models.UserProfile) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vec := make([]float64, s.dim)
	if s.dim == 0 {
		return vec
	}

	pref := s.encodePreferencesLocked(&profile.Preferences)
	for i := range vec {
		vec[i] += pref[i] * preferenceWeight
	}

	if len(profile.InteractionHistory) > 0 {
		inter := s.encodeInteractionsLocked(profile.InteractionHistory)
		for i := range vec {
			vec[i] += inter[i] * interactionWeight
		}
	}
	return vec
}

// encodePreferencesLocked maps explicit preferences into feature space:
// interest terms through the TF-IDF vocabulary, budget and activity level
// projected onto the cost and duration axes.
func (s *Store) encodePreferencesLocked(prefs *models.UserPreferences) []float64 {
	vec := make([]float64, s.dim)
	numericStart := len(s.terms)

	if len(prefs.Interests) > 0 {
		textBlock := vec[:numericStart]
		for _, interest := range prefs.Interests {
			for _, term := range tokenize(interest) {
				if idx, ok := s.vocab[term]; ok {
					textBlock[idx] += s.idf[idx]
				}
			}
		}
		l2Normalize(textBlock)
	}

	// Lower budget maps to stronger low-cost preference.
	vec[numericStart+numCost] = 1.0 - budgetScore(prefs.BudgetRange)
	vec[numericStart+numDuration] = activityScore(prefs.ActivityLevel)
	return vec
}

func budgetScore(b models.BudgetRange) float64 {
	switch b {
	case models.BudgetLow:
		return 0.2
	case models.BudgetMedium:
		return 0.5
	case models.BudgetHigh:
		return 0.8
	case models.BudgetLuxury:
		return 1.0
	default:
		return 0.5
	}
}

func activityScore(a models.ActivityLevel) float64 {
	switch a {
	case models.ActivityLow:
		return 0.2
	case models.ActivityModerate:
		return 0.5
	case models.ActivityHigh:
		return 0.8
	case models.ActivityExtreme:
		return 1.0
	default:
		return 0.5
	}
}

// encodeInteractionsLocked averages interacted item vectors weighted by
// interaction strength. Interactions against unknown items are skipped;
// zero total weight yields the zero vector.
func (s *Store) encodeInteractionsLocked(history []models.Interaction) []float64 {
	vec := make([]float64, s.dim)
	var totalWeight float64

	for i := range history {
		itemVec, ok := s.vectors[history[i].ItemID]
		if !ok {
			continue
		}
		w := history[i].MatrixWeight()
		for j := range vec {
			vec[j] += itemVec[j] * w
		}
		totalWeight += w
	}

	if totalWeight > 0 {
		for j := range vec {
			vec[j] /= totalWeight
		}
	}
	return vec
}

// Similarity returns the cosine similarity between a user vector and an
// item's vector. Unknown items and unbuilt stores score 0.
func (s *Store) Similarity(userVec []float64, itemID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	itemVec, ok := s.vectors[itemID]
	if !ok {
		return 0
	}
	return cosine(userVec, itemVec)
}

// ItemSimilarity returns the cosine similarity between two items.
func (s *Store) ItemSimilarity(aID, bID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, okA := s.vectors[aID]
	b, okB := s.vectors[bID]
	if !okA || !okB {
		return 0
	}
	return cosine(a, b)
}

// TopSimilar returns up to k items most similar to itemID with similarity
// strictly above floor, sorted by score descending with ID as the
// tie-break so results are deterministic.
func (s *Store) TopSimilar(itemID string, k int, floor float64) []SimilarItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	source, ok := s.vectors[itemID]
	if !ok {
		return nil
	}

	similar := make([]SimilarItem, 0, len(s.vectors))
	for otherID, otherVec := range s.vectors {
		if otherID == itemID {
			continue
		}
		score := cosine(source, otherVec)
		if score > floor {
			similar = append(similar, SimilarItem{ID: otherID, Score: score})
		}
	}

	sort.Slice(similar, func(i, j int) bool {
		if similar[i].Score != similar[j].Score {
			return similar[i].Score > similar[j].Score
		}
		return similar[i].ID < similar[j].ID
	})

	if len(similar) > k {
		similar = similar[:k]
	}
	return similar
}
