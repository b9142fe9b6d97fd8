// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package collaborative

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/excursio/excursio/internal/metrics"
	"github.com/excursio/excursio/internal/models"
)

// maxMatrixWeight is the largest possible interaction weight (a rated
// "rate" interaction at 5/5). Scores are scaled by it so the
// collaborative signal lands in the 0-1 range the engine combines.
const maxMatrixWeight = 4.0

// defaultNeighbors is how many similar users contribute to scoring.
const defaultNeighbors = 10

// Config holds collaborative model parameters.
type Config struct {
	// NComponents is the truncated factorization rank. Matrices with at
	// most this many item columns are used raw.
	NComponents int

	// MinInteractions is the update batch size that triggers a full
	// similarity recomputation.
	MinInteractions int
}

// DefaultConfig returns the reference parameters.
func DefaultConfig() Config {
	return Config{NComponents: 50, MinInteractions: 5}
}

// UserSimilarity pairs a user ID with a similarity score in [-1, 1].
type UserSimilarity struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
}

// ScoredItem pairs an item ID with a collaborative score.
type ScoredItem struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// SimilarityStats summarizes a user's similarity distribution.
type SimilarityStats struct {
	Mean         float64 `json:"mean_similarity"`
	Max          float64 `json:"max_similarity"`
	Min          float64 `json:"min_similarity"`
	StdDev       float64 `json:"std_similarity"`
	SimilarUsers int     `json:"num_similar_users"`
}

// Model is the collaborative filtering model. It owns a mirror of user
// interaction histories and the derived similarity table. All methods are
// safe for concurrent use; similarity reads proceed concurrently while a
// rebuild holds the write lock.
type Model struct {
	config Config
	logger zerolog.Logger

	mu           sync.RWMutex
	profiles     map[string]*models.UserProfile
	userOrder    []string
	itemOrder    []string
	matrix       [][]float64
	similarities map[string]map[string]float64
}

// NewModel creates a collaborative model with the given configuration.
func NewModel(cfg Config, logger zerolog.Logger) *Model {
	if cfg.NComponents <= 0 {
		cfg.NComponents = 50
	}
	if cfg.MinInteractions <= 0 {
		cfg.MinInteractions = 5
	}
	return &Model{
		config:       cfg,
		logger:       logger.With().Str("component", "collaborative").Logger(),
		profiles:     make(map[string]*models.UserProfile),
		similarities: make(map[string]map[string]float64),
	}
}

// UpdateInteractions appends interactions to the model's mirror of the
// user's history, creating the mirror entry on first sight. A batch at or
// above the minimum-interaction threshold triggers a full matrix and
// similarity recomputation.
func (m *Model) UpdateInteractions(userID string, interactions []models.Interaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prof, ok := m.profiles[userID]
	if !ok {
		prof = &models.UserProfile{UserID: userID, LastUpdated: time.Now()}
		m.profiles[userID] = prof
		m.userOrder = append(m.userOrder, userID)
	}
	prof.InteractionHistory = append(prof.InteractionHistory, interactions...)
	prof.LastUpdated = time.Now()

	if len(interactions) >= m.config.MinInteractions && len(m.profiles) >= m.config.MinInteractions {
		m.rebuildLocked()
	}
}

// Rebuild recomputes the matrix and similarity table from all known
// profiles, regardless of thresholds.
func (m *Model) Rebuild() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuildLocked()
}

func (m *Model) rebuildLocked() {
	start := time.Now()

	// Item columns in first-seen order across users, so the layout is
	// deterministic for a fixed update sequence.
	itemIndex := make(map[string]int)
	m.itemOrder = m.itemOrder[:0]
	for _, userID := range m.userOrder {
		history := m.profiles[userID].InteractionHistory
		for i := range history {
			id := history[i].ItemID
			if _, seen := itemIndex[id]; !seen {
				itemIndex[id] = len(m.itemOrder)
				m.itemOrder = append(m.itemOrder, id)
			}
		}
	}

	m.matrix = make([][]float64, len(m.userOrder))
	for u, userID := range m.userOrder {
		row := make([]float64, len(m.itemOrder))
		history := m.profiles[userID].InteractionHistory
		for i := range history {
			row[itemIndex[history[i].ItemID]] = history[i].MatrixWeight()
		}
		m.matrix[u] = row
	}

	reduced := m.matrix
	if len(m.itemOrder) > m.config.NComponents {
		reduced = reduceDimensions(m.matrix, m.config.NComponents)
	}

	m.similarities = make(map[string]map[string]float64, len(m.userOrder))
	for i, userID := range m.userOrder {
		row := make(map[string]float64, len(m.userOrder)-1)
		for j, otherID := range m.userOrder {
			if i == j {
				continue
			}
			row[otherID] = cosineRows(reduced[i], reduced[j])
		}
		m.similarities[userID] = row
	}

	metrics.SimilarityRebuilds.Inc()
	m.logger.Debug().
		Int("users", len(m.userOrder)).
		Int("items", len(m.itemOrder)).
		Dur("elapsed", time.Since(start)).
		Msg("similarity table rebuilt")
}

// FindSimilarUsers returns the top-k neighbors of userID by similarity
// descending. Ties keep user registration order (stable sort). Unknown
// users yield an empty slice.
func (m *Model) FindSimilarUsers(userID string, topK int) []UserSimilarity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findSimilarUsersLocked(userID, topK)
}

func (m *Model) findSimilarUsersLocked(userID string, topK int) []UserSimilarity {
	row, ok := m.similarities[userID]
	if !ok {
		return nil
	}

	neighbors := make([]UserSimilarity, 0, len(row))
	for _, otherID := range m.userOrder {
		if score, present := row[otherID]; present {
			neighbors = append(neighbors, UserSimilarity{UserID: otherID, Score: score})
		}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Score > neighbors[j].Score
	})

	if len(neighbors) > topK {
		neighbors = neighbors[:topK]
	}
	return neighbors
}

// ScoreItems scores the given candidate items for a user from neighbor
// interactions. Items the user already interacted with are never scored,
// and items with no neighbor overlap are omitted rather than scored zero.
// Scores are scaled to the 0-1 range.
func (m *Model) ScoreItems(userID string, itemIDs []string) map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	neighbors := m.findSimilarUsersLocked(userID, defaultNeighbors)
	if len(neighbors) == 0 {
		return nil
	}

	prof, ok := m.profiles[userID]
	if !ok {
		return nil
	}
	interacted := prof.InteractedItemIDs()

	scores := make(map[string]float64)
	for _, itemID := range itemIDs {
		if _, seen := interacted[itemID]; seen {
			continue
		}

		var score, totalWeight float64
		for _, neighbor := range neighbors {
			neighborProf := m.profiles[neighbor.UserID]
			if neighborProf == nil {
				continue
			}
			for i := range neighborProf.InteractionHistory {
				inter := &neighborProf.InteractionHistory[i]
				if inter.ItemID != itemID {
					continue
				}
				score += neighbor.Score * inter.MatrixWeight()
				totalWeight += neighbor.Score
				break
			}
		}

		if totalWeight > 0 {
			scores[itemID] = score / totalWeight / maxMatrixWeight
		}
	}
	return scores
}

// Recommend returns the top-k collaborative recommendations among the
// given items, sorted by score descending with input order as tie-break.
func (m *Model) Recommend(userID string, items []models.Item, topK int) []ScoredItem {
	itemIDs := make([]string, len(items))
	for i := range items {
		itemIDs[i] = items[i].ID
	}

	scores := m.ScoreItems(userID, itemIDs)
	if len(scores) == 0 {
		return nil
	}

	ranked := make([]ScoredItem, 0, len(scores))
	for _, id := range itemIDs {
		if score, ok := scores[id]; ok {
			ranked = append(ranked, ScoredItem{ItemID: id, Score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// Stats returns summary statistics over a user's similarity row. Unknown
// users and empty rows yield the zero value.
func (m *Model) Stats(userID string) SimilarityStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.similarities[userID]
	if !ok || len(row) == 0 {
		return SimilarityStats{}
	}

	stats := SimilarityStats{Max: math.Inf(-1), Min: math.Inf(1)}
	var sum float64
	for _, s := range row {
		sum += s
		if s > stats.Max {
			stats.Max = s
		}
		if s < stats.Min {
			stats.Min = s
		}
		if s > 0.1 {
			stats.SimilarUsers++
		}
	}
	stats.Mean = sum / float64(len(row))

	var variance float64
	for _, s := range row {
		d := s - stats.Mean
		variance += d * d
	}
	stats.StdDev = math.Sqrt(variance / float64(len(row)))
	return stats
}
