// Package judge renders the final verdict for a claim from its
// verification signals. Judging is pure and deterministic: identical
// signal lists always produce bit-identical verdicts, and every
// threshold comparison runs on full-precision floats, never on values
// rounded for display.
package judge

import (
	"fmt"
	"math"

	"github.com/veridict/veridict/internal/model"
)

// Default gates, used when the config leaves them zero
const (
	defaultMinSources           = 3
	defaultMinConsensusStrength = 0.50
	defaultMinPoolCredibility   = 0.60
)

// Judge aggregates verification signals into a consensus verdict
type Judge struct {
	cfg model.JudgeConfig
}

// NewJudge creates a judge. Zero config fields fall back to the
// defaults.
func NewJudge(cfg model.JudgeConfig) *Judge {
	if cfg.MinSources == 0 {
		cfg.MinSources = defaultMinSources
	}
	if cfg.MinConsensusStrength == 0 {
		cfg.MinConsensusStrength = defaultMinConsensusStrength
	}
	if cfg.MinPoolCredibility == 0 {
		cfg.MinPoolCredibility = defaultMinPoolCredibility
	}
	return &Judge{cfg: cfg}
}

// weights holds the credibility-weighted mass on each side
type weights struct {
	supporting    float64
	contradicting float64
	neutral       float64

	supportingCount    int
	contradictingCount int
	neutralCount       int

	credibilitySum float64
}

func (w weights) total() float64 {
	return w.supporting + w.contradicting + w.neutral
}

// Judge renders the verdict for one claim. Abstention is a legitimate
// outcome, not an error: the caller always gets a verdict object.
func (j *Judge) Judge(claim model.Claim, signals []model.VerificationSignal) model.ConsensusVerdict {
	// 1. Minimum-evidence gate
	if len(signals) == 0 {
		return j.abstain(claim.ID, model.AbstainNoEvidence,
			"no adapter returned usable evidence")
	}
	if len(signals) < j.cfg.MinSources {
		return j.abstain(claim.ID, model.AbstainInsufficientEvidence,
			fmt.Sprintf("%d signals, need at least %d", len(signals), j.cfg.MinSources))
	}

	// 2. Credibility-weighted aggregation. Weighting by credibility
	// keeps many low-trust sources from outvoting one high-trust
	// primary.
	w := aggregate(signals)

	// 3. Primary-source override candidate
	overrideSide := primaryOverride(signals)

	// 4. Pool credibility gate, checked before any verdict (override
	// included) is finalized
	meanCredibility := w.credibilitySum / float64(len(signals))
	if meanCredibility < j.cfg.MinPoolCredibility {
		return j.abstain(claim.ID, model.AbstainLowCredibilityPool,
			fmt.Sprintf("mean pool credibility %.2f below %.2f", meanCredibility, j.cfg.MinPoolCredibility))
	}

	// 5. Decision
	verdict, strength, explanation := j.decide(w, overrideSide)

	supportingIDs, contradictingIDs := evidenceIDs(signals)

	return model.ConsensusVerdict{
		ClaimID:           claim.ID,
		Verdict:           verdict,
		Confidence:        confidence(strength, meanCredibility),
		ConsensusStrength: strength,

		SupportingEvidenceIDs:    supportingIDs,
		ContradictingEvidenceIDs: contradictingIDs,

		Explanation: explanation,
	}
}

// decide picks the verdict and the consensus strength. An override side
// wins outright; otherwise the dominant side must clear the strength
// threshold on the raw float.
func (j *Judge) decide(w weights, overrideSide model.Relationship) (model.Verdict, float64, string) {
	total := w.total()

	switch overrideSide {
	case model.RelationshipEntails:
		strength := safeShare(w.supporting, total)
		return model.VerdictSupported, strength,
			fmt.Sprintf("primary sources unanimously support the claim; %s", w.describe())

	case model.RelationshipContradicts:
		strength := safeShare(w.contradicting, total)
		return model.VerdictContradicted, strength,
			fmt.Sprintf("primary sources unanimously contradict the claim; %s", w.describe())
	}

	strength := safeShare(math.Max(w.supporting, w.contradicting), total)
	if strength < j.cfg.MinConsensusStrength {
		return model.VerdictUncertain, strength,
			fmt.Sprintf("consensus %.3f below threshold %.2f; %s", strength, j.cfg.MinConsensusStrength, w.describe())
	}

	switch {
	case w.supporting > w.contradicting:
		return model.VerdictSupported, strength,
			fmt.Sprintf("consensus %.3f supports the claim; %s", strength, w.describe())
	case w.contradicting > w.supporting:
		return model.VerdictContradicted, strength,
			fmt.Sprintf("consensus %.3f contradicts the claim; %s", strength, w.describe())
	default:
		// Exact tie: neither side dominates
		return model.VerdictUncertain, strength,
			fmt.Sprintf("supporting and contradicting weight tied at %.3f; %s", w.supporting, w.describe())
	}
}

func (j *Judge) abstain(claimID string, reason model.AbstainReason, detail string) model.ConsensusVerdict {
	return model.ConsensusVerdict{
		ClaimID:       claimID,
		Verdict:       model.VerdictUncertain,
		Abstained:     true,
		AbstainReason: reason,
		Explanation:   fmt.Sprintf("abstained (%s): %s", reason, detail),
	}
}

func aggregate(signals []model.VerificationSignal) weights {
	var w weights
	for _, s := range signals {
		w.credibilitySum += s.EvidenceCredibility
		switch s.Relationship {
		case model.RelationshipEntails:
			w.supporting += s.EvidenceCredibility
			w.supportingCount++
		case model.RelationshipContradicts:
			w.contradicting += s.EvidenceCredibility
			w.contradictingCount++
		default:
			w.neutral += s.EvidenceCredibility
			w.neutralCount++
		}
	}
	return w
}

// primaryOverride returns the side primary sources unanimously take, or
// "" when there is none. Neutral primaries are silent; primaries split
// across both sides disagree and produce no override.
func primaryOverride(signals []model.VerificationSignal) model.Relationship {
	var side model.Relationship
	for _, s := range signals {
		if !s.PrimarySource || s.Relationship == model.RelationshipNeutral {
			continue
		}
		if side == "" {
			side = s.Relationship
			continue
		}
		if side != s.Relationship {
			return ""
		}
	}
	return side
}

// confidence scales consensus strength by pool credibility into 0-100.
// Monotonic in both inputs.
func confidence(strength, meanCredibility float64) int {
	return int(math.Round(100 * strength * (0.5 + 0.5*meanCredibility)))
}

func evidenceIDs(signals []model.VerificationSignal) (supporting, contradicting []string) {
	for _, s := range signals {
		switch s.Relationship {
		case model.RelationshipEntails:
			supporting = append(supporting, s.EvidenceID)
		case model.RelationshipContradicts:
			contradicting = append(contradicting, s.EvidenceID)
		}
	}
	return supporting, contradicting
}

func safeShare(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total
}

func (w weights) describe() string {
	return fmt.Sprintf("%d supporting (weight %.2f), %d contradicting (weight %.2f), %d neutral (weight %.2f)",
		w.supportingCount, w.supporting,
		w.contradictingCount, w.contradicting,
		w.neutralCount, w.neutral)
}
