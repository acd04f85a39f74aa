package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/util"
)

const wikipediaCredibility = 0.70

// WikipediaAdapter queries the MediaWiki search API of an encyclopedia
// instance. Results are secondary sources but broadly useful for claims
// with no specialized backend.
type WikipediaAdapter struct {
	api     apiClient
	baseURL string
	cred    *CredibilityClassifier
}

// NewWikipediaAdapter creates a knowledge base adapter
func NewWikipediaAdapter(endpoint model.SourceEndpoint, deps Deps) *WikipediaAdapter {
	return &WikipediaAdapter{
		api:     apiClient{deps: deps, source: SourceKnowledgeBase},
		baseURL: endpoint.BaseURL,
		cred:    deps.Credibility,
	}
}

// Name returns the adapter name
func (a *WikipediaAdapter) Name() string {
	return SourceKnowledgeBase
}

// SourceClass returns the trust class
func (a *WikipediaAdapter) SourceClass() model.SourceClass {
	return model.SourceClassRegistry
}

// Credibility returns the baseline credibility prior
func (a *WikipediaAdapter) Credibility() float64 {
	return wikipediaCredibility
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title     string `json:"title"`
			Snippet   string `json:"snippet"`
			Timestamp string `json:"timestamp"`
			WordCount int    `json:"wordcount"`
			PageID    int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

// Search runs a full-text search via the action API
func (a *WikipediaAdapter) Search(ctx context.Context, query string, limit int) ([]model.EvidenceSnippet, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", limit))
	params.Set("srprop", "snippet|timestamp|wordcount")
	params.Set("format", "json")
	searchURL := a.baseURL + "/w/api.php?" + params.Encode()

	var resp wikiSearchResponse
	if err := a.api.getJSON(ctx, searchURL, &resp); err != nil {
		return nil, err
	}

	snippets := make([]model.EvidenceSnippet, 0, len(resp.Query.Search))
	for _, result := range resp.Query.Search {
		// Search snippets come back as HTML with match highlighting
		text := stripHTML(result.Snippet)
		if text == "" {
			continue
		}

		pageURL := a.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(result.Title, " ", "_"))

		snippets = append(snippets, model.EvidenceSnippet{
			ID:                     util.SnippetID(pageURL),
			Text:                   text,
			SourceName:             SourceKnowledgeBase,
			URL:                    pageURL,
			Title:                  result.Title,
			PublishedDate:          parseDate(result.Timestamp), // Last-edit time; the API has no publication date
			WordCount:              wordCount(text),
			CredibilityScore:       a.cred.Score(pageURL, wikipediaCredibility),
			ExternalSourceProvider: "wikipedia",
			SourceClass:            model.SourceClassRegistry,
			Metadata: map[string]string{
				"pageid": fmt.Sprintf("%d", result.PageID),
			},
		})
	}
	return snippets, nil
}
