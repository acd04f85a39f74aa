package adapters

import (
	"context"
	"testing"

	"github.com/veridict/veridict/internal/model"
)

// namedAdapter is a minimal adapter with just a name
type namedAdapter struct {
	name string
}

func (a *namedAdapter) Name() string                   { return a.name }
func (a *namedAdapter) SourceClass() model.SourceClass { return model.SourceClassWeb }
func (a *namedAdapter) Credibility() float64           { return 0.5 }
func (a *namedAdapter) Search(ctx context.Context, query string, limit int) ([]model.EvidenceSnippet, error) {
	return nil, nil
}

func allAdapters() []Adapter {
	return []Adapter{
		&namedAdapter{name: SourceWebSearch},
		&namedAdapter{name: SourceStatistics},
		&namedAdapter{name: SourcePrimaryDocs},
		&namedAdapter{name: SourceBibliographic},
		&namedAdapter{name: SourceKnowledgeBase},
	}
}

func names(adapters []Adapter) []string {
	out := make([]string, len(adapters))
	for i, a := range adapters {
		out[i] = a.Name()
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRouter_Routes(t *testing.T) {
	router := NewRouter(allAdapters())

	tests := []struct {
		claimType model.ClaimType
		want      []string
		desc      string
	}{
		{
			claimType: model.ClaimTypeLegal,
			want:      []string{SourcePrimaryDocs, SourceWebSearch},
			desc:      "legal claims hit primary documents first",
		},
		{
			claimType: model.ClaimTypeHistorical,
			want:      []string{SourceBibliographic, SourcePrimaryDocs, SourceWebSearch},
			desc:      "historical claims hit bibliographic first",
		},
		{
			claimType: model.ClaimTypeStatistical,
			want:      []string{SourceStatistics, SourceWebSearch},
			desc:      "statistical claims hit the statistics registry first",
		},
		{
			claimType: model.ClaimTypeCurrentEvent,
			want:      []string{SourceWebSearch},
			desc:      "current events only use web search",
		},
		{
			claimType: model.ClaimTypeOther,
			want:      []string{SourceKnowledgeBase, SourceWebSearch},
			desc:      "other claims use the knowledge base plus web search",
		},
		{
			claimType: model.ClaimType("unheard-of"),
			want:      []string{SourceKnowledgeBase, SourceWebSearch},
			desc:      "unknown types route like other",
		},
	}

	for _, tt := range tests {
		got := names(router.Route(tt.claimType))
		if !equalNames(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestRouter_DegradesWhenAdapterMissing(t *testing.T) {
	// No statistics adapter registered
	router := NewRouter([]Adapter{
		&namedAdapter{name: SourceWebSearch},
		&namedAdapter{name: SourceKnowledgeBase},
	})

	got := names(router.Route(model.ClaimTypeStatistical))
	want := []string{SourceWebSearch}
	if !equalNames(got, want) {
		t.Errorf("expected degraded route %v, got %v", want, got)
	}
}

func TestRouter_FallsBackToWebSearch(t *testing.T) {
	// Only web search available; current_event route still works and
	// a fully unmatched route falls back to it
	router := NewRouter([]Adapter{&namedAdapter{name: SourceWebSearch}})

	got := names(router.Route(model.ClaimTypeLegal))
	want := []string{SourceWebSearch}
	if !equalNames(got, want) {
		t.Errorf("expected web search fallback, got %v", got)
	}
}

func TestRouter_EmptyWhenNothingRegistered(t *testing.T) {
	router := NewRouter(nil)

	if got := router.Route(model.ClaimTypeLegal); len(got) != 0 {
		t.Errorf("expected no adapters, got %v", names(got))
	}
}

func TestRouter_SetRoute(t *testing.T) {
	router := NewRouter(allAdapters())
	router.SetRoute(model.ClaimTypeCurrentEvent, []string{SourceKnowledgeBase, SourceWebSearch})

	got := names(router.Route(model.ClaimTypeCurrentEvent))
	want := []string{SourceKnowledgeBase, SourceWebSearch}
	if !equalNames(got, want) {
		t.Errorf("expected overridden route %v, got %v", want, got)
	}
}

func TestBuildAdapters_HonorsEnabledFlags(t *testing.T) {
	cfg := model.DefaultConfig().Sources
	cfg.Statistics.Enabled = false
	cfg.Bibliographic.Enabled = false

	built := BuildAdapters(cfg, Deps{UserAgent: "test-agent"})

	got := make(map[string]bool)
	for _, adapter := range built {
		got[adapter.Name()] = true
	}

	if len(built) != 3 {
		t.Errorf("expected 3 adapters, got %d", len(built))
	}
	if got[SourceStatistics] {
		t.Error("statistics should be disabled")
	}
	if got[SourceBibliographic] {
		t.Error("bibliographic should be disabled")
	}
	if !got[SourceWebSearch] || !got[SourcePrimaryDocs] || !got[SourceKnowledgeBase] {
		t.Errorf("expected remaining adapters to be built, got %v", got)
	}
}
