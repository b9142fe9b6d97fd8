// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

// Package collaborative implements user-similarity collaborative
// filtering. It maintains a dense user-item interaction matrix, reduces
// its dimensionality by truncated factorization when the item count
// exceeds the configured component count, and scores candidate items for
// a user by what that user's nearest neighbors interacted with.
//
// Updating interactions for a user that crosses the minimum-interaction
// threshold triggers a full matrix and similarity recomputation. The
// O(n^2) cost is acceptable at this scale; the rebuild holds the write
// lock and excludes concurrent reads.
package collaborative
