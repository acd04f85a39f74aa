// Package intake loads claims from files and fills in what upstream
// extractors left blank: ids and claim types.
package intake

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/veridict/veridict/internal/model"
)

// Keyword cues per claim type, matched against lowercased text. Order of
// evaluation: statistical, legal, historical, current_event. Numbers are
// the strongest routing signal, authoritative-registry types come before
// the catch-all temporal cues.
var (
	statisticalKeywords = []string{
		"percent", "%", " rate", "average", "median", "per capita",
		"gdp", "population", "million", "billion", "unemployment",
		"inflation", "grew by", "fell by", "increased by", "decreased by",
	}
	legalKeywords = []string{
		"court", "ruled", "ruling", "statute", "lawsuit", "illegal",
		"legal", "legislation", "unconstitutional", "convicted",
		"acquitted", "regulation", "treaty", "under the act", "under the law",
	}
	historicalKeywords = []string{
		"founded", "established", "invented", "discovered", "originated",
		"first introduced", "century", "ancient", "empire", "dynasty",
	}
	currentEventKeywords = []string{
		"today", "yesterday", "this week", "this month", "this year",
		"recently", "currently", "ongoing", "announced", "latest",
	}
)

// historicalYear matches years 1000-1949 as standalone tokens
var historicalYear = regexp.MustCompile(`\b1[0-8]\d{2}\b|\b19[0-4]\d\b`)

// ClassifyType assigns a claim type from keyword heuristics. Claims
// matching nothing fall back to ClaimTypeOther.
func ClassifyType(text string) model.ClaimType {
	lower := strings.ToLower(text)

	if containsAny(lower, statisticalKeywords) {
		return model.ClaimTypeStatistical
	}
	if containsAny(lower, legalKeywords) {
		return model.ClaimTypeLegal
	}
	if containsAny(lower, historicalKeywords) || historicalYear.MatchString(lower) {
		return model.ClaimTypeHistorical
	}
	if containsAny(lower, currentEventKeywords) {
		return model.ClaimTypeCurrentEvent
	}
	return model.ClaimTypeOther
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// NewClaim builds a single ad-hoc claim, assigning an id and a type.
// An empty typeLabel means classify from the text.
func NewClaim(text, typeLabel string) model.Claim {
	claim := model.Claim{
		ID:   uuid.NewString(),
		Text: strings.TrimSpace(text),
	}
	if typeLabel != "" {
		claim.ClaimType = model.ParseClaimType(typeLabel)
	} else {
		claim.ClaimType = ClassifyType(claim.Text)
	}
	return claim
}
