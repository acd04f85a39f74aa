// Package nli classifies how a piece of evidence relates to a claim:
// entailment, contradiction, or neutral. Classifiers are pluggable; the
// lexical one runs offline and is the default, the rest call model APIs.
package nli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Scores holds the three class probabilities for one (premise, hypothesis)
// pair. A well-formed Scores sums to 1.
type Scores struct {
	Entailment    float64 `json:"entailment"`
	Contradiction float64 `json:"contradiction"`
	Neutral       float64 `json:"neutral"`
}

// Normalized scales the scores to sum to 1, clamping negatives to zero
// first. A pair with no mass at all becomes fully neutral.
func (s Scores) Normalized() Scores {
	e := clampNonNegative(s.Entailment)
	c := clampNonNegative(s.Contradiction)
	n := clampNonNegative(s.Neutral)

	total := e + c + n
	if total == 0 {
		return Scores{Neutral: 1}
	}
	return Scores{
		Entailment:    e / total,
		Contradiction: c / total,
		Neutral:       n / total,
	}
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Classifier scores one (premise, hypothesis) pair. The premise is the
// evidence text, the hypothesis is the claim.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, premise, hypothesis string) (Scores, error)
	IsAvailable(ctx context.Context) bool
}

// classifySystemPrompt instructs chat models to emit raw class scores.
// The shared parser normalizes whatever comes back, so models that
// return unnormalized weights still work.
const classifySystemPrompt = `You are a natural language inference classifier. Given a PREMISE (evidence text) and a HYPOTHESIS (a factual claim), score how the premise relates to the hypothesis.

Respond with only a JSON object: {"entailment": <0-1>, "contradiction": <0-1>, "neutral": <0-1>}

entailment: the premise supports or confirms the hypothesis.
contradiction: the premise refutes or conflicts with the hypothesis.
neutral: the premise is unrelated or insufficient to decide.`

// classifyUserPrompt renders one pair for the chat classifiers
func classifyUserPrompt(premise, hypothesis string) string {
	return fmt.Sprintf("PREMISE: %s\n\nHYPOTHESIS: %s", premise, hypothesis)
}

// parseScores decodes a model's JSON answer into normalized scores.
// Models sometimes wrap the object in prose, so the parser cuts the text
// down to the outermost braces first.
func parseScores(raw string) (Scores, error) {
	payload := extractJSONObject(raw)
	if payload == "" {
		return Scores{}, fmt.Errorf("no JSON object in classifier response: %q", truncate(raw, 200))
	}

	var s Scores
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return Scores{}, fmt.Errorf("decode classifier response: %w", err)
	}

	if s.Entailment <= 0 && s.Contradiction <= 0 && s.Neutral <= 0 {
		return Scores{}, fmt.Errorf("classifier response carries no score mass: %q", truncate(raw, 200))
	}
	return s.Normalized(), nil
}

// extractJSONObject returns the substring between the first '{' and the
// last '}', or "" when there is none
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
