package nli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/veridict/veridict/internal/logger"
	"github.com/veridict/veridict/internal/model"
)

// Default decision thresholds, used when the config leaves them zero
const (
	defaultEntailmentThreshold    = 0.40
	defaultContradictionThreshold = 0.40
	defaultNeutralCeiling         = 0.65
)

// Verifier turns classifier scores into verification signals. The
// credibility and provider identity of the evidence are copied onto the
// signal so aggregation never reaches back into the snippet pool.
type Verifier struct {
	classifier Classifier
	cfg        model.VerifyConfig
	log        *slog.Logger
}

// NewVerifier creates a verifier around a classifier. Zero thresholds in
// the config fall back to the defaults.
func NewVerifier(classifier Classifier, cfg model.VerifyConfig) *Verifier {
	if cfg.EntailmentThreshold == 0 {
		cfg.EntailmentThreshold = defaultEntailmentThreshold
	}
	if cfg.ContradictionThreshold == 0 {
		cfg.ContradictionThreshold = defaultContradictionThreshold
	}
	if cfg.NeutralCeiling == 0 {
		cfg.NeutralCeiling = defaultNeutralCeiling
	}
	return &Verifier{
		classifier: classifier,
		cfg:        cfg,
		log:        logger.New("verify"),
	}
}

// ClassifierName reports which classifier backs this verifier
func (v *Verifier) ClassifierName() string {
	return v.classifier.Name()
}

// Verify classifies one (claim, evidence) pair into a signal. The
// evidence text is the premise, the claim is the hypothesis.
func (v *Verifier) Verify(ctx context.Context, claim model.Claim, evidence model.EvidenceSnippet) (model.VerificationSignal, error) {
	scores, err := v.classifier.Classify(ctx, evidence.Text, claim.Text)
	if err != nil {
		return model.VerificationSignal{}, fmt.Errorf("classify claim %s against %s: %w", claim.ID, evidence.ID, err)
	}

	return model.VerificationSignal{
		ClaimID:      claim.ID,
		EvidenceID:   evidence.ID,
		Relationship: v.decide(scores),

		EntailmentScore:    scores.Entailment,
		ContradictionScore: scores.Contradiction,
		NeutralScore:       scores.Neutral,

		EvidenceCredibility:    evidence.CredibilityScore,
		ExternalSourceProvider: evidence.ExternalSourceProvider,
		PrimarySource:          evidence.IsPrimary(),
	}, nil
}

// VerifyPool classifies a claim against every snippet in the pool. A
// failed pair drops that one signal; it never fails the claim.
func (v *Verifier) VerifyPool(ctx context.Context, claim model.Claim, pool []model.EvidenceSnippet) []model.VerificationSignal {
	signals := make([]model.VerificationSignal, 0, len(pool))
	for _, evidence := range pool {
		signal, err := v.Verify(ctx, claim, evidence)
		if err != nil {
			v.log.Warn("dropping signal", "claim", claim.ID, "evidence", evidence.ID, "error", err)
			continue
		}
		signals = append(signals, signal)
	}
	return signals
}

// decide maps normalized scores to a relationship. A class wins only
// when it clears its threshold, beats the opposing class, and neutrality
// stays under the ceiling; everything else is neutral.
func (v *Verifier) decide(s Scores) model.Relationship {
	switch {
	case s.Entailment > v.cfg.EntailmentThreshold &&
		s.Entailment > s.Contradiction &&
		s.Neutral < v.cfg.NeutralCeiling:
		return model.RelationshipEntails

	case s.Contradiction > v.cfg.ContradictionThreshold &&
		s.Contradiction > s.Entailment &&
		s.Neutral < v.cfg.NeutralCeiling:
		return model.RelationshipContradicts

	default:
		return model.RelationshipNeutral
	}
}
