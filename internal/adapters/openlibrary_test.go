package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/veridict/veridict/internal/model"
)

func TestOpenLibraryAdapter_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("expected /search.json, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "moby dick" {
			t.Errorf("expected q='moby dick', got %q", got)
		}

		fmt.Fprint(w, `{
			"numFound": 1,
			"docs": [
				{
					"title": "Moby Dick",
					"key": "/works/OL102749W",
					"author_name": ["Herman Melville"],
					"first_publish_year": 1851,
					"first_sentence": ["Call me Ishmael."]
				}
			]
		}`)
	}))
	defer server.Close()

	adapter := NewOpenLibraryAdapter(model.SourceEndpoint{Enabled: true, BaseURL: server.URL}, testDeps(server))

	snippets, err := adapter.Search(context.Background(), "moby dick", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(snippets) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(snippets))
	}

	got := snippets[0]
	want := "Moby Dick by Herman Melville, first published in 1851. Opening: Call me Ishmael."
	if got.Text != want {
		t.Errorf("expected %q, got %q", want, got.Text)
	}
	if got.URL != server.URL+"/works/OL102749W" {
		t.Errorf("unexpected record URL %q", got.URL)
	}
	if got.ExternalSourceProvider != "open_library" {
		t.Errorf("expected open_library provider, got %q", got.ExternalSourceProvider)
	}
	if got.SourceClass != model.SourceClassRegistry {
		t.Errorf("expected registry class, got %q", got.SourceClass)
	}
}

func TestDescribeWork(t *testing.T) {
	tests := []struct {
		title   string
		authors []string
		year    int
		opening []string
		want    string
		desc    string
	}{
		{
			title:   "Moby Dick",
			authors: []string{"Herman Melville"},
			year:    1851,
			opening: []string{"Call me Ishmael."},
			want:    "Moby Dick by Herman Melville, first published in 1851. Opening: Call me Ishmael.",
			desc:    "full record",
		},
		{
			title: "Anonymous Pamphlet",
			want:  "Anonymous Pamphlet.",
			desc:  "title only",
		},
		{
			title:   "Collected Essays",
			authors: []string{"A. Writer", "B. Writer"},
			want:    "Collected Essays by A. Writer, B. Writer.",
			desc:    "multiple authors, no year",
		},
	}

	for _, tt := range tests {
		if got := describeWork(tt.title, tt.authors, tt.year, tt.opening); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.desc, got, tt.want)
		}
	}
}
