package judge

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/veridict/veridict/internal/model"
)

func makeSignal(id string, rel model.Relationship, cred float64, primary bool) model.VerificationSignal {
	return model.VerificationSignal{
		ClaimID:             "c1",
		EvidenceID:          id,
		Relationship:        rel,
		EvidenceCredibility: cred,
		PrimarySource:       primary,
	}
}

func defaultJudge() *Judge {
	return NewJudge(model.DefaultConfig().Judge)
}

func TestJudge_NoEvidenceAbstains(t *testing.T) {
	verdict := defaultJudge().Judge(model.Claim{ID: "c1"}, nil)

	if !verdict.Abstained {
		t.Error("expected abstention with no signals")
	}
	if verdict.AbstainReason != model.AbstainNoEvidence {
		t.Errorf("expected no_evidence_available, got %s", verdict.AbstainReason)
	}
	if verdict.Verdict != model.VerdictUncertain {
		t.Errorf("abstained verdicts carry uncertain, got %s", verdict.Verdict)
	}
}

func TestJudge_TwoSignalsAbstainRegardlessOfStrength(t *testing.T) {
	// Two perfectly credible, perfectly agreeing signals still sit
	// below the minimum-evidence gate
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 1.0, true),
		makeSignal("e2", model.RelationshipEntails, 1.0, true),
	}

	verdict := defaultJudge().Judge(model.Claim{ID: "c1"}, signals)

	if !verdict.Abstained {
		t.Error("expected abstention with 2 signals and MinSources 3")
	}
	if verdict.AbstainReason != model.AbstainInsufficientEvidence {
		t.Errorf("expected insufficient_evidence, got %s", verdict.AbstainReason)
	}
}

func TestJudge_LowCredibilityPoolAbstains(t *testing.T) {
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 0.5, false),
		makeSignal("e2", model.RelationshipEntails, 0.5, false),
		makeSignal("e3", model.RelationshipEntails, 0.5, false),
	}

	verdict := defaultJudge().Judge(model.Claim{ID: "c1"}, signals)

	if !verdict.Abstained {
		t.Error("expected abstention for a 0.50 mean credibility pool")
	}
	if verdict.AbstainReason != model.AbstainLowCredibilityPool {
		t.Errorf("expected low_credibility_pool, got %s", verdict.AbstainReason)
	}
}

func TestJudge_ThresholdBoundaryIsInclusive(t *testing.T) {
	// supporting 1.5, contradicting 0.75, neutral 0.75: strength is
	// exactly 0.50 in float arithmetic, which must meet a 0.50
	// threshold
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 0.75, false),
		makeSignal("e2", model.RelationshipEntails, 0.75, false),
		makeSignal("e3", model.RelationshipContradicts, 0.75, false),
		makeSignal("e4", model.RelationshipNeutral, 0.75, false),
	}

	judge := NewJudge(model.JudgeConfig{MinSources: 3, MinConsensusStrength: 0.50, MinPoolCredibility: 0.60})
	verdict := judge.Judge(model.Claim{ID: "c1"}, signals)

	if verdict.ConsensusStrength != 0.50 {
		t.Fatalf("expected consensus strength exactly 0.50, got %v", verdict.ConsensusStrength)
	}
	if verdict.Verdict != model.VerdictSupported {
		t.Errorf("strength equal to the threshold must decide, got %s", verdict.Verdict)
	}
	if verdict.Abstained {
		t.Error("decided verdict must not be abstained")
	}
}

func TestJudge_PrimaryOverrideBeatsSecondaryMajority(t *testing.T) {
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 0.98, true),
		makeSignal("e2", model.RelationshipContradicts, 0.60, false),
		makeSignal("e3", model.RelationshipContradicts, 0.60, false),
		makeSignal("e4", model.RelationshipContradicts, 0.60, false),
	}

	verdict := defaultJudge().Judge(model.Claim{ID: "c1"}, signals)

	if verdict.Verdict != model.VerdictSupported {
		t.Errorf("expected primary override to support, got %s (%s)", verdict.Verdict, verdict.Explanation)
	}
	if verdict.Abstained {
		t.Error("override verdict must not be abstained")
	}
	if !strings.Contains(verdict.Explanation, "primary sources unanimously support") {
		t.Errorf("explanation should name the override, got %q", verdict.Explanation)
	}
	// The supporting share is well under the weighted threshold; only
	// the override can have produced this verdict
	if verdict.ConsensusStrength >= 0.50 {
		t.Errorf("expected supporting share below 0.50, got %v", verdict.ConsensusStrength)
	}
}

func TestJudge_ConflictingPrimariesFallThroughToWeighting(t *testing.T) {
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 0.98, true),
		makeSignal("e2", model.RelationshipContradicts, 0.97, true),
		makeSignal("e3", model.RelationshipEntails, 0.70, false),
		makeSignal("e4", model.RelationshipEntails, 0.70, false),
	}

	verdict := defaultJudge().Judge(model.Claim{ID: "c1"}, signals)

	if verdict.Verdict != model.VerdictSupported {
		t.Errorf("expected weighted supported verdict, got %s", verdict.Verdict)
	}
	if strings.Contains(verdict.Explanation, "unanimously") {
		t.Errorf("conflicting primaries must not report an override, got %q", verdict.Explanation)
	}
}

func TestJudge_NeutralPrimariesAreSilent(t *testing.T) {
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipNeutral, 0.95, true),
		makeSignal("e2", model.RelationshipEntails, 0.98, true),
		makeSignal("e3", model.RelationshipEntails, 0.70, false),
	}

	verdict := defaultJudge().Judge(model.Claim{ID: "c1"}, signals)

	if verdict.Verdict != model.VerdictSupported {
		t.Errorf("neutral primary should not block the override, got %s", verdict.Verdict)
	}
	if !strings.Contains(verdict.Explanation, "unanimously") {
		t.Errorf("expected override explanation, got %q", verdict.Explanation)
	}
}

func TestJudge_StatisticsScenario(t *testing.T) {
	// A statistics-registry signal plus two general web signals
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 0.95, true),
		makeSignal("e2", model.RelationshipEntails, 0.70, false),
		makeSignal("e3", model.RelationshipNeutral, 0.70, false),
	}

	judge := NewJudge(model.JudgeConfig{MinSources: 3, MinConsensusStrength: 0.45, MinPoolCredibility: 0.60})
	verdict := judge.Judge(model.Claim{ID: "c1", Text: "UK unemployment is 5.2%"}, signals)

	if verdict.Verdict != model.VerdictSupported {
		t.Errorf("expected supported, got %s (%s)", verdict.Verdict, verdict.Explanation)
	}
	if verdict.ConsensusStrength < 0.45 {
		t.Errorf("expected strength at least 0.45, got %v", verdict.ConsensusStrength)
	}
	if verdict.Abstained {
		t.Error("expected abstained=false")
	}
}

func TestJudge_TieIsUncertainNotAbstained(t *testing.T) {
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 0.8, false),
		makeSignal("e2", model.RelationshipEntails, 0.8, false),
		makeSignal("e3", model.RelationshipContradicts, 0.8, false),
		makeSignal("e4", model.RelationshipContradicts, 0.8, false),
	}

	verdict := defaultJudge().Judge(model.Claim{ID: "c1"}, signals)

	if verdict.Verdict != model.VerdictUncertain {
		t.Errorf("expected uncertain on an exact tie, got %s", verdict.Verdict)
	}
	if verdict.Abstained {
		t.Error("uncertain is a terminal verdict, not an abstention")
	}
}

func TestJudge_BelowThresholdIsUncertain(t *testing.T) {
	// 0.75 is exactly representable, so the strength comes out as an
	// exact 0.25
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 0.75, false),
		makeSignal("e2", model.RelationshipNeutral, 0.75, false),
		makeSignal("e3", model.RelationshipNeutral, 0.75, false),
		makeSignal("e4", model.RelationshipNeutral, 0.75, false),
	}

	verdict := defaultJudge().Judge(model.Claim{ID: "c1"}, signals)

	if verdict.Verdict != model.VerdictUncertain {
		t.Errorf("expected uncertain below the threshold, got %s", verdict.Verdict)
	}
	if verdict.Abstained {
		t.Error("below-threshold verdict is uncertain, not abstained")
	}
	if verdict.ConsensusStrength != 0.25 {
		t.Errorf("expected strength 0.25, got %v", verdict.ConsensusStrength)
	}
}

func TestJudge_EvidenceIDsInSignalOrder(t *testing.T) {
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 0.9, false),
		makeSignal("e2", model.RelationshipContradicts, 0.9, false),
		makeSignal("e3", model.RelationshipEntails, 0.9, false),
		makeSignal("e4", model.RelationshipContradicts, 0.9, false),
		makeSignal("e5", model.RelationshipEntails, 0.9, false),
	}

	verdict := defaultJudge().Judge(model.Claim{ID: "c1"}, signals)

	wantSupporting := []string{"e1", "e3", "e5"}
	wantContradicting := []string{"e2", "e4"}
	if !reflect.DeepEqual(verdict.SupportingEvidenceIDs, wantSupporting) {
		t.Errorf("expected supporting ids %v, got %v", wantSupporting, verdict.SupportingEvidenceIDs)
	}
	if !reflect.DeepEqual(verdict.ContradictingEvidenceIDs, wantContradicting) {
		t.Errorf("expected contradicting ids %v, got %v", wantContradicting, verdict.ContradictingEvidenceIDs)
	}
}

func TestJudge_Idempotent(t *testing.T) {
	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 0.95, true),
		makeSignal("e2", model.RelationshipContradicts, 0.61, false),
		makeSignal("e3", model.RelationshipEntails, 0.73, false),
		makeSignal("e4", model.RelationshipNeutral, 0.55, false),
	}

	judge := defaultJudge()
	first := judge.Judge(model.Claim{ID: "c1"}, signals)
	for i := 0; i < 20; i++ {
		again := judge.Judge(model.Claim{ID: "c1"}, signals)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\nfirst: %+v\nagain: %+v", i, first, again)
		}
	}
}

func TestJudge_MoreSourcesNeverLowerConfidence(t *testing.T) {
	// The same quality distribution at twice the pool size must not
	// produce a lower confidence
	small := make([]model.VerificationSignal, 0, 5)
	for i := 0; i < 4; i++ {
		small = append(small, makeSignal(fmt.Sprintf("s%d", i), model.RelationshipEntails, 0.8, false))
	}
	small = append(small, makeSignal("s4", model.RelationshipNeutral, 0.8, false))

	large := make([]model.VerificationSignal, 0, 10)
	large = append(large, small...)
	for i := range small {
		dup := small[i]
		dup.EvidenceID = fmt.Sprintf("d%d", i)
		large = append(large, dup)
	}

	judge := defaultJudge()
	smallVerdict := judge.Judge(model.Claim{ID: "c1"}, small)
	largeVerdict := judge.Judge(model.Claim{ID: "c1"}, large)

	if largeVerdict.Confidence < smallVerdict.Confidence {
		t.Errorf("confidence fell from %d to %d when the pool doubled",
			smallVerdict.Confidence, largeVerdict.Confidence)
	}
	if largeVerdict.ConsensusStrength < smallVerdict.ConsensusStrength {
		t.Errorf("strength fell from %v to %v when the pool doubled",
			smallVerdict.ConsensusStrength, largeVerdict.ConsensusStrength)
	}
}

func TestJudge_ZeroConfigGetsDefaults(t *testing.T) {
	judge := NewJudge(model.JudgeConfig{})

	signals := []model.VerificationSignal{
		makeSignal("e1", model.RelationshipEntails, 1.0, false),
		makeSignal("e2", model.RelationshipEntails, 1.0, false),
	}

	verdict := judge.Judge(model.Claim{ID: "c1"}, signals)
	if verdict.AbstainReason != model.AbstainInsufficientEvidence {
		t.Errorf("default MinSources should be 3, got %+v", verdict)
	}
}

func TestConfidence_Monotonic(t *testing.T) {
	if confidence(0.5, 0.8) <= confidence(0.4, 0.8) {
		t.Error("confidence should grow with strength")
	}
	if confidence(0.5, 0.9) <= confidence(0.5, 0.6) {
		t.Error("confidence should grow with credibility")
	}
	if got := confidence(1.0, 1.0); got != 100 {
		t.Errorf("full strength and credibility should score 100, got %d", got)
	}
	if got := confidence(0, 0.9); got != 0 {
		t.Errorf("zero strength should score 0, got %d", got)
	}
}
