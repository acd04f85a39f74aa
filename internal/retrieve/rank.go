package retrieve

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// stopwords drop connective tokens that would inflate overlap scores
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "and": true, "or": true, "by": true,
	"with": true, "as": true, "that": true, "this": true, "it": true,
	"its": true, "from": true, "has": true, "have": true, "had": true,
	"not": true, "no": true, "but": true, "their": true, "they": true,
	"which": true, "who": true, "will": true, "would": true,
}

// tokenize lowercases text and returns content tokens
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 2 || stopwords[field] {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '-' || r == '\'' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r > 127 // Keep non-ASCII letters intact
}

// lexicalScore measures how much of the claim's vocabulary the evidence
// text covers, in 0-1
func lexicalScore(claim, text string) float64 {
	claimTokens := tokenize(claim)
	if len(claimTokens) == 0 {
		return 0
	}

	textSet := make(map[string]bool)
	for _, token := range tokenize(text) {
		textSet[token] = true
	}

	matched := 0
	for _, token := range claimTokens {
		if textSet[token] {
			matched++
		}
	}
	return float64(matched) / float64(len(claimTokens))
}

// cosineSimilarity computes the cosine of two embedding vectors,
// returning 0 for mismatched or zero-norm input
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	dot := floats.Dot(a, b)
	normA := math.Sqrt(floats.Dot(a, a))
	normB := math.Sqrt(floats.Dot(b, b))
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}

// hybridScore blends lexical and semantic evidence of relevance.
// Without an embedding the lexical score stands alone. Cosine can go
// negative, so the blend is clamped back into 0-1.
func hybridScore(lexical float64, semantic float64, hasSemantic bool) float64 {
	if !hasSemantic {
		return lexical
	}
	return clamp01(0.5*lexical + 0.5*semantic)
}
