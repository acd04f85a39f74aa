package model

// Claim represents a factual assertion handed to the pipeline by an
// upstream extractor. Claims are read-only once verification starts.
type Claim struct {
	ID                    string    `json:"id" yaml:"id"`
	Text                  string    `json:"text" yaml:"text"`
	ClaimType             ClaimType `json:"claim_type" yaml:"claim_type"`
	RequiresPrimarySource bool      `json:"requires_primary_source,omitempty" yaml:"requires_primary_source,omitempty"`
	Position              int       `json:"position" yaml:"position"` // Ordinal in the source document (0-based)
}

// ClaimType categorizes the nature of the claim and drives adapter routing
type ClaimType string

const (
	ClaimTypeStatistical  ClaimType = "statistical"   // Numeric/quantitative claims
	ClaimTypeLegal        ClaimType = "legal"         // Claims about laws, rulings, official status
	ClaimTypeHistorical   ClaimType = "historical"    // Claims about past events, origins, dates
	ClaimTypeCurrentEvent ClaimType = "current_event" // Claims about recent or ongoing events
	ClaimTypeOther        ClaimType = "other"         // Everything else
)

// ParseClaimType maps a free-form type label to a known ClaimType.
// Unknown labels fall back to ClaimTypeOther.
func ParseClaimType(s string) ClaimType {
	switch ClaimType(s) {
	case ClaimTypeStatistical, ClaimTypeLegal, ClaimTypeHistorical, ClaimTypeCurrentEvent, ClaimTypeOther:
		return ClaimType(s)
	}
	switch s {
	case "current-event", "news":
		return ClaimTypeCurrentEvent
	case "statistic", "numeric":
		return ClaimTypeStatistical
	}
	return ClaimTypeOther
}
