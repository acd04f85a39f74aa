package retrieve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/veridict/veridict/internal/model"
)

func TestEnrich_ReplacesThinSnippets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><head><title>Full Article</title></head><body><p>The full article text has plenty of words to work with here.</p></body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "veridict-test", 0, nil, nil)
	enricher := NewEnricher(fetcher, 2, 10)

	longText := strings.Repeat("word ", 50)
	candidates := []model.EvidenceSnippet{
		{ID: "thin", URL: server.URL + "/a", Text: "short", WordCount: 1},
		{ID: "long", URL: server.URL + "/b", Text: longText, WordCount: 50},
		{ID: "beyond", URL: server.URL + "/c", Text: "also short", WordCount: 2},
	}

	enricher.Enrich(context.Background(), candidates)

	if !strings.Contains(candidates[0].Text, "full article text") {
		t.Errorf("thin snippet should be replaced, got %q", candidates[0].Text)
	}
	if candidates[0].WordCount <= 1 {
		t.Errorf("word count should be recomputed, got %d", candidates[0].WordCount)
	}
	if candidates[0].Title != "Full Article" {
		t.Errorf("empty title should be filled from the page, got %q", candidates[0].Title)
	}
	if candidates[0].Metadata["enriched"] != "true" {
		t.Error("replaced snippet should be marked enriched")
	}

	if candidates[1].Text != longText {
		t.Error("snippet above the word threshold should be untouched")
	}
	if candidates[2].Text != "also short" {
		t.Error("snippet beyond topN should be untouched")
	}
}

func TestEnrich_FetchFailureLeavesSnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "veridict-test", 0, nil, nil)
	enricher := NewEnricher(fetcher, 3, 10)

	candidates := []model.EvidenceSnippet{
		{ID: "thin", URL: server.URL, Text: "original snippet", WordCount: 2},
	}

	enricher.Enrich(context.Background(), candidates)

	if candidates[0].Text != "original snippet" {
		t.Errorf("failed fetch must leave the snippet as-is, got %q", candidates[0].Text)
	}
	if candidates[0].Metadata["enriched"] == "true" {
		t.Error("failed fetch must not mark the snippet enriched")
	}
}

func TestEnrich_CapsReplacementLength(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("token ", 500))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", long)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "veridict-test", 0, nil, nil)
	enricher := NewEnricher(fetcher, 1, 10)

	candidates := []model.EvidenceSnippet{
		{ID: "thin", URL: server.URL, Text: "short", WordCount: 1},
	}

	enricher.Enrich(context.Background(), candidates)

	if candidates[0].WordCount != enrichMaxWords {
		t.Errorf("replacement should cap at %d words, got %d", enrichMaxWords, candidates[0].WordCount)
	}
}

func TestTrimWords(t *testing.T) {
	tests := []struct {
		desc     string
		text     string
		n        int
		expected string
	}{
		{"under limit", "one two three", 5, "one two three"},
		{"at limit", "one two three", 3, "one two three"},
		{"over limit", "one two three four", 2, "one two"},
		{"collapses whitespace", "one\n\ntwo   three", 5, "one two three"},
		{"empty", "", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := trimWords(tt.text, tt.n); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
