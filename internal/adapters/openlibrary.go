package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/util"
)

const openLibraryCredibility = 0.82

// OpenLibraryAdapter searches the Open Library catalog. Records are
// bibliographic facts about published works, useful for historical and
// attribution claims.
type OpenLibraryAdapter struct {
	api     apiClient
	baseURL string
}

// NewOpenLibraryAdapter creates a bibliographic adapter
func NewOpenLibraryAdapter(endpoint model.SourceEndpoint, deps Deps) *OpenLibraryAdapter {
	return &OpenLibraryAdapter{
		api:     apiClient{deps: deps, source: SourceBibliographic},
		baseURL: endpoint.BaseURL,
	}
}

// Name returns the adapter name
func (a *OpenLibraryAdapter) Name() string {
	return SourceBibliographic
}

// SourceClass returns the trust class
func (a *OpenLibraryAdapter) SourceClass() model.SourceClass {
	return model.SourceClassRegistry
}

// Credibility returns the baseline credibility prior
func (a *OpenLibraryAdapter) Credibility() float64 {
	return openLibraryCredibility
}

type openLibraryResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Title            string   `json:"title"`
		Key              string   `json:"key"`
		AuthorName       []string `json:"author_name"`
		FirstPublishYear int      `json:"first_publish_year"`
		FirstSentence    []string `json:"first_sentence"`
	} `json:"docs"`
}

// Search queries the catalog search endpoint
func (a *OpenLibraryAdapter) Search(ctx context.Context, query string, limit int) ([]model.EvidenceSnippet, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("fields", "title,key,author_name,first_publish_year,first_sentence")
	searchURL := a.baseURL + "/search.json?" + params.Encode()

	var resp openLibraryResponse
	if err := a.api.getJSON(ctx, searchURL, &resp); err != nil {
		return nil, err
	}

	snippets := make([]model.EvidenceSnippet, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		if doc.Title == "" || doc.Key == "" {
			continue
		}

		recordURL := a.baseURL + doc.Key
		text := describeWork(doc.Title, doc.AuthorName, doc.FirstPublishYear, doc.FirstSentence)

		snippets = append(snippets, model.EvidenceSnippet{
			ID:                     util.SnippetID(recordURL),
			Text:                   text,
			SourceName:             SourceBibliographic,
			URL:                    recordURL,
			Title:                  doc.Title,
			WordCount:              wordCount(text),
			CredibilityScore:       openLibraryCredibility,
			ExternalSourceProvider: "open_library",
			SourceClass:            model.SourceClassRegistry,
		})
	}
	return snippets, nil
}

// describeWork renders a catalog record as a plain-text statement the
// verifier can compare against a claim
func describeWork(title string, authors []string, year int, firstSentence []string) string {
	var sb strings.Builder
	sb.WriteString(title)
	if len(authors) > 0 {
		sb.WriteString(" by ")
		sb.WriteString(strings.Join(authors, ", "))
	}
	if year > 0 {
		fmt.Fprintf(&sb, ", first published in %d", year)
	}
	sb.WriteString(".")
	if len(firstSentence) > 0 && firstSentence[0] != "" {
		sb.WriteString(" Opening: ")
		sb.WriteString(firstSentence[0])
	}
	return sb.String()
}
