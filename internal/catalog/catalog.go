// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

// Package catalog provides the in-memory item catalog shared by all
// scoring components. The catalog is effectively read-only during scoring;
// replacing its contents bumps a version counter so dependents such as the
// feature store can detect staleness and rebuild.
package catalog

import (
	"sync"

	"github.com/excursio/excursio/internal/metrics"
	"github.com/excursio/excursio/internal/models"
)

// Store holds the item catalog. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	items   []models.Item
	byID    map[string]int
	version uint64
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

// Replace swaps the full catalog contents and bumps the version.
func (s *Store) Replace(items []models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]models.Item, len(items))
	copy(s.items, items)
	s.byID = make(map[string]int, len(items))
	for i := range s.items {
		s.byID[s.items[i].ID] = i
	}
	s.version++
	metrics.CatalogItems.Set(float64(len(s.items)))
}

// Items returns a snapshot of all catalog items.
func (s *Store) Items() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item with the given ID, if present.
func (s *Store) Get(id string) (models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return models.Item{}, false
	}
	return s.items[idx], true
}

// Len returns the number of items in the catalog.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Version returns the current catalog version. The version changes on
// every Replace, never otherwise.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
