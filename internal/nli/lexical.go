package nli

import (
	"context"
	"strings"
)

// lexicalOverlapFloor is the claim-vocabulary coverage below which the
// pair is judged unrelated
const lexicalOverlapFloor = 0.3

// negations flip the polarity of a statement
var negations = map[string]bool{
	"not": true, "no": true, "never": true, "none": true,
	"cannot": true, "nor": true, "neither": true,
}

// lexicalGlue lists connective tokens excluded from overlap scoring.
// Negation words stay out of this set on purpose: they carry meaning the
// classifier must see.
var lexicalGlue = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "of": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
	"and": true, "or": true, "by": true, "with": true, "as": true,
	"that": true, "this": true, "it": true, "its": true, "from": true,
	"has": true, "have": true, "had": true, "do": true, "does": true,
	"did": true,
}

// antonymPairs lists direction words whose presence on opposite sides of
// a pair is a contradiction cue
var antonymPairs = [][2]string{
	{"increase", "decrease"}, {"increased", "decreased"},
	{"increasing", "decreasing"}, {"rise", "fall"}, {"rose", "fell"},
	{"rising", "falling"}, {"higher", "lower"}, {"more", "less"},
	{"grew", "shrank"}, {"growth", "decline"}, {"gained", "lost"},
	{"won", "lost"}, {"true", "false"}, {"alive", "dead"},
	{"legal", "illegal"}, {"guilty", "innocent"},
	{"approved", "rejected"}, {"passed", "failed"},
	{"above", "below"}, {"before", "after"},
}

// LexicalClassifier is the offline default: claim-vocabulary coverage
// plus negation and antonym cues. Deterministic, no network, no keys.
type LexicalClassifier struct{}

// NewLexicalClassifier creates the offline classifier
func NewLexicalClassifier() *LexicalClassifier {
	return &LexicalClassifier{}
}

// Name returns the classifier name
func (c *LexicalClassifier) Name() string {
	return "lexical"
}

// IsAvailable always reports true; the lexical classifier has no
// external dependency
func (c *LexicalClassifier) IsAvailable(_ context.Context) bool {
	return true
}

// Classify scores the pair from token overlap and contradiction cues
func (c *LexicalClassifier) Classify(_ context.Context, premise, hypothesis string) (Scores, error) {
	premWords := splitWords(premise)
	hypWords := splitWords(hypothesis)

	premSet := tokenSet(premWords)
	hypSet := tokenSet(hypWords)

	overlap := contentOverlap(hypWords, premSet)
	conflict := negationMismatch(premWords, hypWords) || antonymConflict(premSet, hypSet)

	var raw Scores
	switch {
	case overlap < lexicalOverlapFloor:
		// Too little shared vocabulary to decide either way
		raw = Scores{Entailment: 0.10, Contradiction: 0.10, Neutral: 0.80}
	case conflict:
		raw = Scores{Entailment: 0.05, Contradiction: 0.25 + 0.65*overlap, Neutral: 0.30}
	default:
		raw = Scores{Entailment: 0.25 + 0.65*overlap, Contradiction: 0.05, Neutral: 0.30}
	}
	return raw.Normalized(), nil
}

// splitWords lowercases text and splits it into word tokens, keeping
// hyphens and apostrophes inside words
func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return false
		case r == '-' || r == '\'' || r > 127:
			return false
		default:
			return true
		}
	})
}

func tokenSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// contentOverlap measures what share of the hypothesis's distinct
// content tokens appear in the premise
func contentOverlap(hypWords []string, premSet map[string]bool) float64 {
	seen := make(map[string]bool)
	total, matched := 0, 0
	for _, w := range hypWords {
		if len(w) < 2 || lexicalGlue[w] || seen[w] {
			continue
		}
		seen[w] = true
		total++
		if premSet[w] {
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// negationMismatch reports whether the two texts differ in negation
// parity; double negation cancels out
func negationMismatch(a, b []string) bool {
	return countNegations(a)%2 != countNegations(b)%2
}

func countNegations(words []string) int {
	count := 0
	for _, w := range words {
		if negations[w] || strings.HasSuffix(w, "n't") {
			count++
		}
	}
	return count
}

// antonymConflict reports whether one text takes one side of an antonym
// pair and the other text the opposite side. Texts mentioning both sides
// of a pair are not counted against each other.
func antonymConflict(a, b map[string]bool) bool {
	for _, pair := range antonymPairs {
		x, y := pair[0], pair[1]
		if a[x] && !a[y] && b[y] && !b[x] {
			return true
		}
		if a[y] && !a[x] && b[x] && !b[y] {
			return true
		}
	}
	return false
}
