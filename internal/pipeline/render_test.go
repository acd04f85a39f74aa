package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/veridict/veridict/internal/model"
)

func sampleReport() *model.VerificationReport {
	published := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)
	return &model.VerificationReport{
		Subject:     "claims.json",
		GeneratedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
		Results: []model.ClaimResult{
			{
				Claim: model.Claim{
					ID:        "c1",
					Text:      "The unemployment rate fell in 2019",
					ClaimType: model.ClaimTypeStatistical,
				},
				Evidence: []model.EvidenceSnippet{
					{
						ID:                     "e1",
						Text:                   "The rate fell to 3.9 percent.",
						SourceName:             "statistics",
						Title:                  "Labour market overview",
						URL:                    "https://stats.example.org/1",
						CredibilityScore:       0.95,
						SourceClass:            model.SourceClassPrimary,
						ExternalSourceProvider: "data.worldbank.org",
						PublishedDate:          &published,
					},
					{
						ID:               "e2",
						Text:             "Economy coverage.",
						SourceName:       "web_search",
						URL:              "https://news.example.com/econ",
						CredibilityScore: 0.70,
						SourceClass:      model.SourceClassWeb,
					},
				},
				Signals: []model.VerificationSignal{
					{ClaimID: "c1", EvidenceID: "e1", Relationship: model.RelationshipEntails},
					{ClaimID: "c1", EvidenceID: "e2", Relationship: model.RelationshipNeutral},
				},
				Verdict: model.ConsensusVerdict{
					ClaimID:           "c1",
					Verdict:           model.VerdictSupported,
					Confidence:        82,
					ConsensusStrength: 0.76,
					Explanation:       "2 supporting (weight 1.65), 0 contradicting (weight 0.00), 1 neutral (weight 0.70)",
				},
				Diagnostics: []model.Signal{
					{
						Type:        model.SignalEvidenceVolume,
						Severity:    model.SeverityWarning,
						Description: "evidence pool at the minimum of 3 sources",
					},
				},
				ElapsedMS: 420,
			},
			{
				Claim: model.Claim{ID: "c2", Text: "Unverifiable claim", ClaimType: model.ClaimTypeOther},
				Verdict: model.ConsensusVerdict{
					ClaimID:       "c2",
					Verdict:       model.VerdictUncertain,
					Abstained:     true,
					AbstainReason: model.AbstainInsufficientEvidence,
					Explanation:   "abstained (insufficient_evidence): 2 signals, need at least 3",
				},
			},
		},
		Summary: model.Summary{
			Total:          2,
			Supported:      1,
			Abstained:      1,
			MeanConfidence: 82,
		},
		CacheStats: []model.SourceStats{
			{Source: "statistics", Hits: 3, Misses: 1, HitRate: 0.75, Status: "excellent"},
		},
	}
}

func TestRenderer_Markdown(t *testing.T) {
	markdown := NewRenderer(true).Markdown(sampleReport())

	wantFragments := []string{
		"# Verification Report",
		"**Subject:** claims.json",
		"| Supported | 1 |",
		"| Abstained | 1 |",
		"**Mean confidence (decided claims):** 82.0",
		"### 1. The unemployment rate fell in 2019",
		"**Verdict:** supported (confidence 82/100, consensus 0.760)",
		"> 2 supporting (weight 1.65)",
		"| 1 | data.worldbank.org | 0.95 | entails | Labour market overview |",
		"| 2 | web_search | 0.70 | neutral | untitled |",
		"- `warning` evidence_volume: evidence pool at the minimum of 3 sources",
		"### 2. Unverifiable claim",
		"**Verdict:** abstained (insufficient_evidence)",
		"| statistics | 3 | 1 | 75% | excellent |",
		"veridict measures evidence consensus",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(markdown, fragment) {
			t.Errorf("Markdown missing %q", fragment)
		}
	}
}

func TestRenderer_MarkdownFooterToggle(t *testing.T) {
	markdown := NewRenderer(false).Markdown(sampleReport())
	if strings.Contains(markdown, "veridict measures evidence consensus") {
		t.Error("Expected no footer when disabled")
	}
}

func TestRenderer_RenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out.json")

	if err := NewRenderer(true).RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}

	var decoded model.VerificationReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if decoded.Subject != "claims.json" {
		t.Errorf("Expected subject claims.json, got %s", decoded.Subject)
	}
	if len(decoded.Results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(decoded.Results))
	}
	if decoded.Results[0].Evidence[0].ExternalSourceProvider != "data.worldbank.org" {
		t.Error("Provider field lost in JSON rendering")
	}
}

func TestRenderer_RenderMarkdownWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")

	if err := NewRenderer(true).RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "# Verification Report") {
		t.Error("Markdown file missing report header")
	}
}

func TestRenderer_Summary(t *testing.T) {
	summary := NewRenderer(true).Summary(sampleReport())

	if !strings.Contains(summary, "Verified 2 claims: 1 supported, 0 contradicted, 0 uncertain, 1 abstained") {
		t.Errorf("Unexpected summary header:\n%s", summary)
	}
	if !strings.Contains(summary, "[supported] The unemployment rate fell in 2019 (confidence 82)") {
		t.Errorf("Missing supported line:\n%s", summary)
	}
	if !strings.Contains(summary, "[abstained] Unverifiable claim (insufficient_evidence)") {
		t.Errorf("Missing abstained line:\n%s", summary)
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		max  int
		want string
	}{
		{desc: "pipe escaped", in: "a|b", max: 10, want: "a\\|b"},
		{desc: "newline flattened", in: "a\nb", max: 10, want: "a b"},
		{desc: "long text truncated", in: "abcdefghij", max: 4, want: "abcd..."},
		{desc: "empty becomes untitled", in: "", max: 10, want: "untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := cellText(tt.in, tt.max); got != tt.want {
				t.Errorf("cellText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
