// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package collaborative

import (
	"math"
	"math/rand"
)

// svdIterations is the number of subspace iterations used by the
// truncated factorization. A handful of sweeps is plenty for the
// similarity ranks this package needs.
const svdIterations = 7

// svdSeed fixes the random projection so reductions are deterministic.
const svdSeed = 42

// reduceDimensions projects the rows of matrix (users x items) onto the
// top-k right singular directions via randomized subspace iteration,
// returning a users x k matrix. If k >= items the input is returned
// unchanged.
func reduceDimensions(matrix [][]float64, k int) [][]float64 {
	users := len(matrix)
	if users == 0 {
		return matrix
	}
	items := len(matrix[0])
	if k >= items || k <= 0 {
		return matrix
	}

	rng := rand.New(rand.NewSource(svdSeed)) //nolint:gosec // deterministic projection, not cryptography

	// Random orthonormal basis of the item space.
	basis := make([][]float64, items)
	for i := range basis {
		basis[i] = make([]float64, k)
		for j := range basis[i] {
			basis[i][j] = rng.NormFloat64()
		}
	}
	orthonormalize(basis, k)

	// Subspace iteration: basis <- orth((A^T A) basis).
	for iter := 0; iter < svdIterations; iter++ {
		projected := multiply(matrix, basis)        // users x k
		basis = multiplyTranspose(matrix, projected) // items x k
		orthonormalize(basis, k)
	}

	return multiply(matrix, basis)
}

// multiply computes A (m x n) times B (n x k).
func multiply(a, b [][]float64) [][]float64 {
	m := len(a)
	if m == 0 {
		return nil
	}
	n := len(a[0])
	k := len(b[0])

	out := make([][]float64, m)
	for i := 0; i < m; i++ {
		row := make([]float64, k)
		for l := 0; l < n; l++ {
			v := a[i][l]
			if v == 0 {
				continue
			}
			for j := 0; j < k; j++ {
				row[j] += v * b[l][j]
			}
		}
		out[i] = row
	}
	return out
}

// multiplyTranspose computes A^T (n x m) times B (m x k).
func multiplyTranspose(a, b [][]float64) [][]float64 {
	m := len(a)
	if m == 0 {
		return nil
	}
	n := len(a[0])
	k := len(b[0])

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, k)
	}
	for l := 0; l < m; l++ {
		for i := 0; i < n; i++ {
			v := a[l][i]
			if v == 0 {
				continue
			}
			for j := 0; j < k; j++ {
				out[i][j] += v * b[l][j]
			}
		}
	}
	return out
}

// orthonormalize applies modified Gram-Schmidt to the first k columns of
// the given row-major matrix, in place. Columns that collapse to zero are
// re-seeded as unit basis vectors to keep the basis full rank.
func orthonormalize(m [][]float64, k int) {
	rows := len(m)
	for j := 0; j < k; j++ {
		for prev := 0; prev < j; prev++ {
			var dot float64
			for i := 0; i < rows; i++ {
				dot += m[i][j] * m[i][prev]
			}
			for i := 0; i < rows; i++ {
				m[i][j] -= dot * m[i][prev]
			}
		}

		var norm float64
		for i := 0; i < rows; i++ {
			norm += m[i][j] * m[i][j]
		}
		norm = math.Sqrt(norm)
		if norm < 1e-12 {
			for i := 0; i < rows; i++ {
				m[i][j] = 0
			}
			m[j%rows][j] = 1
			continue
		}
		for i := 0; i < rows; i++ {
			m[i][j] /= norm
		}
	}
}

// cosineRows computes cosine similarity between two rows.
func cosineRows(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
