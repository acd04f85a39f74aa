// Package score derives diagnostic signals about an evidence pool and
// its verdict. Diagnostics never change a verdict; they give report
// readers the data behind it.
package score

import (
	"fmt"
	"math"
	"time"

	"github.com/veridict/veridict/internal/model"
)

// staleAfter is the evidence age beyond which a current-event claim's
// sources are considered stale
const staleAfter = 365 * 24 * time.Hour

// splitConsensusBand is the weight-share distance from a perfect split
// inside which consensus counts as contested
const splitConsensusBand = 0.10

// Scorer analyzes evidence pools. The clock is injectable for tests.
type Scorer struct {
	minSources int
	now        func() time.Time
}

// NewScorer creates a scorer; minSources is the judge's evidence floor
func NewScorer(minSources int) *Scorer {
	return &Scorer{
		minSources: minSources,
		now:        time.Now,
	}
}

// Analyze produces the diagnostic signals for one judged claim
func (s *Scorer) Analyze(claim model.Claim, evidence []model.EvidenceSnippet, signals []model.VerificationSignal, verdict model.ConsensusVerdict) []model.Signal {
	diagnostics := []model.Signal{
		s.volumeSignal(evidence),
	}

	if len(evidence) > 0 {
		diagnostics = append(diagnostics, s.credibilitySignal(evidence), s.classMixSignal(claim, evidence))
	}

	if sig, ok := s.primarySignal(signals, verdict); ok {
		diagnostics = append(diagnostics, sig)
	}
	if sig, ok := s.splitSignal(signals); ok {
		diagnostics = append(diagnostics, sig)
	}
	if sig, ok := s.staleSignal(claim, evidence); ok {
		diagnostics = append(diagnostics, sig)
	}

	return diagnostics
}

// volumeSignal reports pool size against the minimum-evidence floor
func (s *Scorer) volumeSignal(evidence []model.EvidenceSnippet) model.Signal {
	count := len(evidence)

	severity := model.SeverityInfo
	if count < s.minSources {
		severity = model.SeverityCritical
	} else if count == s.minSources {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalEvidenceVolume,
		Severity:    severity,
		Description: fmt.Sprintf("Evidence pool holds %d snippets (floor %d)", count, s.minSources),
		Data: map[string]interface{}{
			"count": count,
			"floor": s.minSources,
		},
	}
}

// credibilitySignal reports the trust profile of the pool
func (s *Scorer) credibilitySignal(evidence []model.EvidenceSnippet) model.Signal {
	sum := 0.0
	lowest := 1.0
	for _, e := range evidence {
		sum += e.CredibilityScore
		lowest = math.Min(lowest, e.CredibilityScore)
	}
	mean := sum / float64(len(evidence))

	severity := model.SeverityInfo
	if mean < 0.60 {
		severity = model.SeverityCritical
	} else if mean < 0.75 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalCredibilityProfile,
		Severity:    severity,
		Description: fmt.Sprintf("Mean credibility %.2f, minimum %.2f", mean, lowest),
		Data: map[string]interface{}{
			"mean":    mean,
			"min":     lowest,
			"count":   len(evidence),
			"formula": "mean = sum(credibility) / count",
		},
	}
}

// classMixSignal reports the source-class composition of the pool
func (s *Scorer) classMixSignal(claim model.Claim, evidence []model.EvidenceSnippet) model.Signal {
	counts := map[model.SourceClass]int{}
	for _, e := range evidence {
		counts[e.SourceClass]++
	}

	primary := counts[model.SourceClassPrimary]
	registry := counts[model.SourceClassRegistry]
	web := counts[model.SourceClassWeb]

	severity := model.SeverityInfo
	description := fmt.Sprintf("Source mix: %d primary, %d registry, %d web", primary, registry, web)
	switch {
	case primary == 0 && claim.RequiresPrimarySource:
		severity = model.SeverityCritical
		description += " (claim requires a primary source)"
	case primary == 0 && registry == 0:
		severity = model.SeverityWarning
		description += " (general web only)"
	}

	return model.Signal{
		Type:        model.SignalClassMix,
		Severity:    severity,
		Description: description,
		Data: map[string]interface{}{
			"primary":  primary,
			"registry": registry,
			"web":      web,
		},
	}
}

// primarySignal reports how primary sources behaved: an internal
// conflict, or unanimous weight behind a decided verdict
func (s *Scorer) primarySignal(signals []model.VerificationSignal, verdict model.ConsensusVerdict) (model.Signal, bool) {
	var entails, contradicts int
	for _, sig := range signals {
		if !sig.PrimarySource {
			continue
		}
		switch sig.Relationship {
		case model.RelationshipEntails:
			entails++
		case model.RelationshipContradicts:
			contradicts++
		}
	}

	switch {
	case entails > 0 && contradicts > 0:
		return model.Signal{
			Type:        model.SignalConflictingPrimaries,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("Primary sources disagree: %d entail, %d contradict", entails, contradicts),
			Data: map[string]interface{}{
				"entails":     entails,
				"contradicts": contradicts,
			},
		}, true

	case (entails > 0 || contradicts > 0) && !verdict.Abstained && verdict.Verdict != model.VerdictUncertain:
		side := "support"
		if contradicts > 0 {
			side = "contradiction"
		}
		return model.Signal{
			Type:        model.SignalPrimaryOverride,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("Unanimous primary sources weigh in on %s", side),
			Data: map[string]interface{}{
				"entails":     entails,
				"contradicts": contradicts,
				"verdict":     string(verdict.Verdict),
			},
		}, true
	}

	return model.Signal{}, false
}

// splitSignal fires when support and contradiction are nearly balanced
func (s *Scorer) splitSignal(signals []model.VerificationSignal) (model.Signal, bool) {
	var supporting, contradicting float64
	for _, sig := range signals {
		switch sig.Relationship {
		case model.RelationshipEntails:
			supporting += sig.EvidenceCredibility
		case model.RelationshipContradicts:
			contradicting += sig.EvidenceCredibility
		}
	}

	contested := supporting + contradicting
	if supporting == 0 || contradicting == 0 || contested == 0 {
		return model.Signal{}, false
	}

	share := supporting / contested
	if math.Abs(share-0.5) > splitConsensusBand {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalSplitConsensus,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("Evidence splits %.0f%%/%.0f%% between support and contradiction", share*100, (1-share)*100),
		Data: map[string]interface{}{
			"supporting_weight":    supporting,
			"contradicting_weight": contradicting,
			"supporting_share":     share,
		},
	}, true
}

// staleSignal fires for current-event claims whose dated evidence is all
// older than a year
func (s *Scorer) staleSignal(claim model.Claim, evidence []model.EvidenceSnippet) (model.Signal, bool) {
	if claim.ClaimType != model.ClaimTypeCurrentEvent {
		return model.Signal{}, false
	}

	cutoff := s.now().Add(-staleAfter)
	dated, stale := 0, 0
	for _, e := range evidence {
		if e.PublishedDate == nil {
			continue
		}
		dated++
		if e.PublishedDate.Before(cutoff) {
			stale++
		}
	}

	if dated == 0 || stale < dated {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalStaleEvidence,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("All %d dated sources for a current-event claim are over a year old", dated),
		Data: map[string]interface{}{
			"dated":  dated,
			"stale":  stale,
			"cutoff": cutoff.Format("2006-01-02"),
		},
	}, true
}
