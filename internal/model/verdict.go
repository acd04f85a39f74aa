package model

// Verdict is the final classification of a claim
type Verdict string

const (
	VerdictSupported    Verdict = "supported"
	VerdictContradicted Verdict = "contradicted"
	VerdictUncertain    Verdict = "uncertain"
)

// AbstainReason explains why the judge declined to render a verdict.
// Abstention is a legitimate terminal outcome, not an error.
type AbstainReason string

const (
	AbstainInsufficientEvidence AbstainReason = "insufficient_evidence"
	AbstainLowCredibilityPool   AbstainReason = "low_credibility_pool"
	AbstainNoEvidence           AbstainReason = "no_evidence_available"
)

// ConsensusVerdict is the terminal output of the consensus judge for one
// claim. It is never mutated after creation; a correction requires a new
// verdict. When Abstained is set, Verdict holds VerdictUncertain and
// AbstainReason says why the judge declined.
type ConsensusVerdict struct {
	ClaimID string  `json:"claim_id"`
	Verdict Verdict `json:"verdict"`

	Confidence        int     `json:"confidence"`         // 0-100
	ConsensusStrength float64 `json:"consensus_strength"` // 0-1, full precision

	SupportingEvidenceIDs    []string `json:"supporting_evidence_ids,omitempty"`
	ContradictingEvidenceIDs []string `json:"contradicting_evidence_ids,omitempty"`

	Abstained     bool          `json:"abstained"`
	AbstainReason AbstainReason `json:"abstain_reason,omitempty"`

	Explanation string `json:"explanation,omitempty"` // Deterministic rationale for the decision
}
