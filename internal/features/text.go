// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package features

import (
	"math"
	"strings"
	"unicode"
)

// stopWords is a compact English stop-word list. Terms in this set never
// enter the vocabulary.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"to": {}, "was": {}, "were": {}, "will": {}, "with": {}, "this": {},
	"these": {}, "those": {}, "their": {}, "there": {}, "they": {}, "you": {},
	"your": {}, "our": {}, "not": {}, "but": {}, "into": {}, "over": {},
	"under": {}, "more": {}, "most": {}, "other": {}, "some": {}, "such": {},
}

// tokenize lowercases the text and splits it into terms on any
// non-alphanumeric rune, dropping stop words and single characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// termCounts returns the term frequency map for a document.
func termCounts(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}

// smoothIDF computes the smoothed inverse document frequency for a term
// seen in docFreq of numDocs documents: ln((1+n)/(1+df)) + 1.
func smoothIDF(numDocs, docFreq int) float64 {
	return math.Log(float64(1+numDocs)/float64(1+docFreq)) + 1
}

// l2Normalize scales the slice in place to unit Euclidean norm.
// Zero vectors are left untouched.
func l2Normalize(v []float64) {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i := range v {
		v[i] /= norm
	}
}

// cosine computes cosine similarity between two equal-length vectors.
// Degenerate inputs (mismatched length, zero norm) yield 0.
func cosine(a, b []float64) float64 {
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
