package adapters

import (
	"context"
	"net/url"

	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/util"
)

const searxCredibility = 0.55

// SearxAdapter queries a SearxNG metasearch instance. It is the
// general-purpose fallback behind every claim type.
type SearxAdapter struct {
	api     apiClient
	baseURL string
	cred    *CredibilityClassifier
}

// NewSearxAdapter creates a web search adapter
func NewSearxAdapter(endpoint model.SourceEndpoint, deps Deps) *SearxAdapter {
	return &SearxAdapter{
		api:     apiClient{deps: deps, source: SourceWebSearch},
		baseURL: endpoint.BaseURL,
		cred:    deps.Credibility,
	}
}

// Name returns the adapter name
func (a *SearxAdapter) Name() string {
	return SourceWebSearch
}

// SourceClass returns the trust class
func (a *SearxAdapter) SourceClass() model.SourceClass {
	return model.SourceClassWeb
}

// Credibility returns the baseline credibility prior
func (a *SearxAdapter) Credibility() float64 {
	return searxCredibility
}

type searxResponse struct {
	Results []struct {
		URL           string `json:"url"`
		Title         string `json:"title"`
		Content       string `json:"content"`
		PublishedDate string `json:"publishedDate"`
		Engine        string `json:"engine"`
	} `json:"results"`
}

// Search queries the instance's JSON API
func (a *SearxAdapter) Search(ctx context.Context, query string, limit int) ([]model.EvidenceSnippet, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("language", "en")
	searchURL := a.baseURL + "/search?" + params.Encode()

	var resp searxResponse
	if err := a.api.getJSON(ctx, searchURL, &resp); err != nil {
		return nil, err
	}

	snippets := make([]model.EvidenceSnippet, 0, limit)
	for _, result := range resp.Results {
		if len(snippets) >= limit {
			break
		}
		if result.URL == "" || result.Content == "" {
			continue
		}

		snippet := model.EvidenceSnippet{
			ID:               util.SnippetID(result.URL),
			Text:             result.Content,
			SourceName:       SourceWebSearch,
			URL:              result.URL,
			Title:            result.Title,
			PublishedDate:    parseDate(result.PublishedDate),
			WordCount:        wordCount(result.Content),
			CredibilityScore: a.cred.Score(result.URL, searxCredibility),
			SourceClass:      model.SourceClassWeb,
		}
		// A result pointing at an authoritative domain is primary
		// evidence no matter which adapter surfaced it
		if a.cred.IsPrimaryDomain(result.URL) {
			snippet.SourceClass = model.SourceClassPrimary
		}
		if result.Engine != "" {
			snippet.Metadata = map[string]string{"engine": result.Engine}
		}

		snippets = append(snippets, snippet)
	}
	return snippets, nil
}
