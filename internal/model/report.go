package model

import "time"

// VerificationReport is the complete output of one pipeline run: every
// claim with its evidence pool, verification signals, and verdict, plus
// run-level summary and cache efficiency figures.
type VerificationReport struct {
	Subject     string    `json:"subject"`      // Label for the run (input file name or claim text)
	GeneratedAt time.Time `json:"generated_at"`

	Results []ClaimResult `json:"results"`

	Summary    Summary       `json:"summary"`
	CacheStats []SourceStats `json:"cache_stats,omitempty"`
}

// ClaimResult bundles everything the pipeline produced for one claim.
// Evidence is ordered by final rank, descending; the downstream
// presentation layer cites from this list.
type ClaimResult struct {
	Claim       Claim                `json:"claim"`
	Evidence    []EvidenceSnippet    `json:"evidence"`
	Signals     []VerificationSignal `json:"signals,omitempty"`
	Verdict     ConsensusVerdict     `json:"verdict"`
	Diagnostics []Signal             `json:"diagnostics,omitempty"` // Pool-quality signals with transparent data
	ElapsedMS   int64                `json:"elapsed_ms,omitempty"`  // Wall time spent on this claim
}

// Summary aggregates verdict counts across a run
type Summary struct {
	Total          int     `json:"total"`
	Supported      int     `json:"supported"`
	Contradicted   int     `json:"contradicted"`
	Uncertain      int     `json:"uncertain"`
	Abstained      int     `json:"abstained"`
	MeanConfidence float64 `json:"mean_confidence"` // Over non-abstained verdicts
}

// SourceStats reports cache efficiency for one evidence source
type SourceStats struct {
	Source  string  `json:"source"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"` // hits / (hits + misses), 0 when no lookups
	Status  string  `json:"status"`   // excellent, good, acceptable, needs_optimization
}

// Signal is a diagnostic about an evidence pool or run, with transparent
// scoring data so every figure in a report can be traced to its inputs
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Formulas and inputs behind the description
}

// SignalType classifies the diagnostic
type SignalType string

const (
	SignalEvidenceVolume       SignalType = "evidence_volume"       // Pool size vs the configured floor
	SignalCredibilityProfile   SignalType = "credibility_profile"   // Mean/min credibility of the pool
	SignalClassMix             SignalType = "class_mix"             // Primary/registry/web composition
	SignalPrimaryOverride      SignalType = "primary_override"      // Unanimous primaries decided the verdict
	SignalConflictingPrimaries SignalType = "conflicting_primaries" // Primary sources disagree with each other
	SignalSplitConsensus       SignalType = "split_consensus"       // Support and contradiction nearly balanced
	SignalStaleEvidence        SignalType = "stale_evidence"        // Old sources backing a current-event claim
)

// SignalSeverity indicates how much a diagnostic should worry the reader
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
