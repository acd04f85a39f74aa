package intake

import (
	"testing"

	"github.com/veridict/veridict/internal/model"
)

func TestClassifyType(t *testing.T) {
	tests := []struct {
		desc string
		text string
		want model.ClaimType
	}{
		{
			desc: "percentage is statistical",
			text: "Unemployment fell to 3.9 percent in May 2024",
			want: model.ClaimTypeStatistical,
		},
		{
			desc: "court ruling is legal",
			text: "The Supreme Court ruled the statute unconstitutional",
			want: model.ClaimTypeLegal,
		},
		{
			desc: "founding is historical",
			text: "The company was founded in Ohio",
			want: model.ClaimTypeHistorical,
		},
		{
			desc: "bare old year is historical",
			text: "The bridge opened in 1932",
			want: model.ClaimTypeHistorical,
		},
		{
			desc: "recent year alone is not historical",
			text: "The stadium opened in 1999",
			want: model.ClaimTypeOther,
		},
		{
			desc: "announcement is current event",
			text: "The ministry announced the new policy today",
			want: model.ClaimTypeCurrentEvent,
		},
		{
			desc: "numbers beat legal cues",
			text: "The court fined the company 2 million dollars",
			want: model.ClaimTypeStatistical,
		},
		{
			desc: "legal cues beat temporal cues",
			text: "The court announced its ruling yesterday",
			want: model.ClaimTypeLegal,
		},
		{
			desc: "no cues falls back to other",
			text: "Water boils at a lower temperature at high altitude",
			want: model.ClaimTypeOther,
		},
		{
			desc: "matching is case insensitive",
			text: "GDP PER CAPITA DOUBLED",
			want: model.ClaimTypeStatistical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := ClassifyType(tt.text); got != tt.want {
				t.Errorf("ClassifyType(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestNewClaim(t *testing.T) {
	claim := NewClaim("  The tax was repealed in 1921  ", "")
	if claim.ID == "" {
		t.Error("Expected generated id")
	}
	if claim.Text != "The tax was repealed in 1921" {
		t.Errorf("Expected trimmed text, got %q", claim.Text)
	}

	typed := NewClaim("Something happened", "news")
	if typed.ClaimType != model.ClaimTypeCurrentEvent {
		t.Errorf("Expected news alias to map to current_event, got %s", typed.ClaimType)
	}

	classified := NewClaim("Exports grew by 12 percent", "")
	if classified.ClaimType != model.ClaimTypeStatistical {
		t.Errorf("Expected statistical, got %s", classified.ClaimType)
	}
}
