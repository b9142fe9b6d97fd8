// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

// Package features builds fixed-length numeric vectors for catalog items
// and synthesizes user profile vectors in the same space.
//
// An item vector is the concatenation of a TF-IDF weighted bag of terms
// over name, description and categories, and six standardized numeric
// attributes: rating, duration in hours, log(1+cost), the
// weather-dependency indicator, the crowd-level ordinal, and the
// authenticity score. All vectors built from the same catalog share
// identical length and axis semantics.
//
// Content similarity is cosine similarity. An item the store has not been
// built for scores 0 rather than producing an error.
package features
