package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/veridict/veridict/internal/model"
)

// Renderer writes verification reports as JSON, Markdown and console
// summaries. Rendering never mutates the report.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.VerificationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeReportFile(path, append(data, '\n'))
}

// RenderMarkdown writes the human-readable report
func (r *Renderer) RenderMarkdown(report *model.VerificationReport, path string) error {
	return writeReportFile(path, []byte(r.Markdown(report)))
}

func writeReportFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Markdown renders the report body
func (r *Renderer) Markdown(report *model.VerificationReport) string {
	var b strings.Builder

	b.WriteString("# Verification Report\n\n")
	fmt.Fprintf(&b, "**Subject:** %s\n", report.Subject)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04 UTC"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Verdict | Count |\n|---------|------:|\n")
	fmt.Fprintf(&b, "| Supported | %d |\n", report.Summary.Supported)
	fmt.Fprintf(&b, "| Contradicted | %d |\n", report.Summary.Contradicted)
	fmt.Fprintf(&b, "| Uncertain | %d |\n", report.Summary.Uncertain)
	fmt.Fprintf(&b, "| Abstained | %d |\n\n", report.Summary.Abstained)
	if decided := report.Summary.Total - report.Summary.Abstained; decided > 0 {
		fmt.Fprintf(&b, "**Mean confidence (decided claims):** %.1f\n\n", report.Summary.MeanConfidence)
	}

	b.WriteString("## Claims\n")
	for i, result := range report.Results {
		b.WriteString("\n")
		r.writeClaim(&b, i+1, result)
	}

	if len(report.CacheStats) > 0 {
		b.WriteString("\n## Cache\n\n")
		b.WriteString("| Source | Hits | Misses | Hit rate | Status |\n")
		b.WriteString("|--------|-----:|-------:|---------:|--------|\n")
		for _, stats := range report.CacheStats {
			fmt.Fprintf(&b, "| %s | %d | %d | %.0f%% | %s |\n",
				stats.Source, stats.Hits, stats.Misses, stats.HitRate*100, stats.Status)
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("veridict measures evidence consensus; it does not determine truth.\n")
	}
	return b.String()
}

func (r *Renderer) writeClaim(b *strings.Builder, number int, result model.ClaimResult) {
	fmt.Fprintf(b, "### %d. %s\n\n", number, result.Claim.Text)

	verdict := result.Verdict
	if verdict.Abstained {
		fmt.Fprintf(b, "**Verdict:** abstained (%s)\n\n", verdict.AbstainReason)
	} else {
		fmt.Fprintf(b, "**Verdict:** %s (confidence %d/100, consensus %.3f)\n\n",
			verdict.Verdict, verdict.Confidence, verdict.ConsensusStrength)
	}
	if verdict.Explanation != "" {
		fmt.Fprintf(b, "> %s\n\n", verdict.Explanation)
	}

	if len(result.Evidence) > 0 {
		relations := relationByEvidence(result.Signals)
		b.WriteString("**Evidence:**\n\n")
		b.WriteString("| # | Source | Credibility | Relation | Title |\n")
		b.WriteString("|--:|--------|------------:|----------|-------|\n")
		for i, snippet := range result.Evidence {
			relation, ok := relations[snippet.ID]
			if !ok {
				relation = "unscored"
			}
			fmt.Fprintf(b, "| %d | %s | %.2f | %s | %s |\n",
				i+1, sourceLabel(snippet), snippet.CredibilityScore, relation, cellText(snippet.Title, 60))
		}
		b.WriteString("\n")
	}

	for _, diagnostic := range result.Diagnostics {
		fmt.Fprintf(b, "- `%s` %s: %s\n", diagnostic.Severity, diagnostic.Type, diagnostic.Description)
	}
}

// relationByEvidence indexes each signal's relationship by evidence id
func relationByEvidence(signals []model.VerificationSignal) map[string]model.Relationship {
	relations := make(map[string]model.Relationship, len(signals))
	for _, signal := range signals {
		relations[signal.EvidenceID] = signal.Relationship
	}
	return relations
}

// sourceLabel prefers the specialized provider over the adapter name
func sourceLabel(snippet model.EvidenceSnippet) string {
	if snippet.ExternalSourceProvider != "" {
		return snippet.ExternalSourceProvider
	}
	return snippet.SourceName
}

// cellText makes a string safe for a Markdown table cell
func cellText(s string, max int) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > max {
		s = s[:max] + "..."
	}
	if s == "" {
		return "untitled"
	}
	return s
}

// Summary renders the short console recap printed after every run
func (r *Renderer) Summary(report *model.VerificationReport) string {
	var b strings.Builder

	s := report.Summary
	fmt.Fprintf(&b, "Verified %d claims: %d supported, %d contradicted, %d uncertain, %d abstained\n",
		s.Total, s.Supported, s.Contradicted, s.Uncertain, s.Abstained)
	if decided := s.Total - s.Abstained; decided > 0 {
		fmt.Fprintf(&b, "Mean confidence (decided): %.1f\n", s.MeanConfidence)
	}

	for _, result := range report.Results {
		verdict := result.Verdict
		if verdict.Abstained {
			fmt.Fprintf(&b, "  [abstained] %s (%s)\n", snippetOf(result.Claim.Text), verdict.AbstainReason)
			continue
		}
		fmt.Fprintf(&b, "  [%s] %s (confidence %d)\n", verdict.Verdict, snippetOf(result.Claim.Text), verdict.Confidence)
	}
	return b.String()
}

// RenderSummary prints the console recap to stdout
func (r *Renderer) RenderSummary(report *model.VerificationReport) {
	fmt.Print(r.Summary(report))
}

func snippetOf(text string) string {
	if len(text) > 70 {
		return text[:70] + "..."
	}
	return text
}
