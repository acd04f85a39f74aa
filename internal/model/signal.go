package model

// Relationship classifies how a piece of evidence relates to a claim
type Relationship string

const (
	RelationshipEntails     Relationship = "entails"
	RelationshipContradicts Relationship = "contradicts"
	RelationshipNeutral     Relationship = "neutral"
)

// VerificationSignal is the outcome of verifying one (claim, evidence)
// pair. Credibility and provider identity are copied from the snippet at
// creation time so aggregation never dereferences the original evidence.
// Signals are immutable.
type VerificationSignal struct {
	ClaimID      string       `json:"claim_id"`
	EvidenceID   string       `json:"evidence_id"`
	Relationship Relationship `json:"relationship"`

	EntailmentScore    float64 `json:"entailment_score"`    // Three probabilities, summing to ~1
	ContradictionScore float64 `json:"contradiction_score"`
	NeutralScore       float64 `json:"neutral_score"`

	EvidenceCredibility    float64 `json:"evidence_credibility"`
	ExternalSourceProvider string  `json:"external_source_provider,omitempty"`
	PrimarySource          bool    `json:"primary_source,omitempty"`
}
