package adapters

import (
	"context"
	"net/url"

	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/util"
)

const courtListenerCredibility = 0.97

// CourtListenerAdapter searches court opinions via the CourtListener
// REST API. Everything it returns is a primary legal document.
type CourtListenerAdapter struct {
	api     apiClient
	baseURL string
}

// NewCourtListenerAdapter creates a primary documents adapter. An API
// key is optional; anonymous access is rate limited harder upstream.
func NewCourtListenerAdapter(endpoint model.SourceEndpoint, deps Deps) *CourtListenerAdapter {
	api := apiClient{deps: deps, source: SourcePrimaryDocs}
	if endpoint.APIKey != "" {
		api.header = map[string]string{"Authorization": "Token " + endpoint.APIKey}
	}
	return &CourtListenerAdapter{
		api:     api,
		baseURL: endpoint.BaseURL,
	}
}

// Name returns the adapter name
func (a *CourtListenerAdapter) Name() string {
	return SourcePrimaryDocs
}

// SourceClass returns the trust class
func (a *CourtListenerAdapter) SourceClass() model.SourceClass {
	return model.SourceClassPrimary
}

// Credibility returns the baseline credibility prior
func (a *CourtListenerAdapter) Credibility() float64 {
	return courtListenerCredibility
}

type courtListenerResponse struct {
	Count   int `json:"count"`
	Results []struct {
		CaseName     string `json:"caseName"`
		AbsoluteURL  string `json:"absolute_url"`
		DateFiled    string `json:"dateFiled"`
		Snippet      string `json:"snippet"`
		Court        string `json:"court"`
		DocketNumber string `json:"docketNumber"`
	} `json:"results"`
}

// Search queries the opinion search endpoint
func (a *CourtListenerAdapter) Search(ctx context.Context, query string, limit int) ([]model.EvidenceSnippet, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "o") // Opinions
	params.Set("order_by", "score desc")
	searchURL := a.baseURL + "/api/rest/v4/search/?" + params.Encode()

	var resp courtListenerResponse
	if err := a.api.getJSON(ctx, searchURL, &resp); err != nil {
		return nil, err
	}

	snippets := make([]model.EvidenceSnippet, 0, limit)
	for _, result := range resp.Results {
		if len(snippets) >= limit {
			break
		}
		if result.AbsoluteURL == "" {
			continue
		}

		text := stripHTML(result.Snippet)
		if text == "" {
			text = result.CaseName
		}
		opinionURL := a.baseURL + result.AbsoluteURL

		snippet := model.EvidenceSnippet{
			ID:                     util.SnippetID(opinionURL),
			Text:                   text,
			SourceName:             SourcePrimaryDocs,
			URL:                    opinionURL,
			Title:                  result.CaseName,
			PublishedDate:          parseDate(result.DateFiled),
			WordCount:              wordCount(text),
			CredibilityScore:       courtListenerCredibility,
			ExternalSourceProvider: "courtlistener",
			SourceClass:            model.SourceClassPrimary,
		}
		meta := make(map[string]string)
		if result.Court != "" {
			meta["court"] = result.Court
		}
		if result.DocketNumber != "" {
			meta["docket_number"] = result.DocketNumber
		}
		if len(meta) > 0 {
			snippet.Metadata = meta
		}

		snippets = append(snippets, snippet)
	}
	return snippets, nil
}
