// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

// Package models defines the shared domain types for the recommendation
// service: catalog items, user interactions and profiles, contextual
// factors, and recommendation results.
//
// The package has no dependencies on other internal packages so that the
// scoring components (features, collaborative, preference, contextual) can
// share types without import cycles.
package models
