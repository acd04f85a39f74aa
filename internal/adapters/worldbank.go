package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/util"
)

const worldBankCredibility = 0.90

// WorldBankAdapter searches the World Bank Documents & Reports API for
// statistical publications
type WorldBankAdapter struct {
	api     apiClient
	baseURL string
}

// NewWorldBankAdapter creates a statistics adapter
func NewWorldBankAdapter(endpoint model.SourceEndpoint, deps Deps) *WorldBankAdapter {
	return &WorldBankAdapter{
		api:     apiClient{deps: deps, source: SourceStatistics},
		baseURL: endpoint.BaseURL,
	}
}

// Name returns the adapter name
func (a *WorldBankAdapter) Name() string {
	return SourceStatistics
}

// SourceClass returns the trust class
func (a *WorldBankAdapter) SourceClass() model.SourceClass {
	return model.SourceClassPrimary
}

// Credibility returns the baseline credibility prior
func (a *WorldBankAdapter) Credibility() float64 {
	return worldBankCredibility
}

// wdsResponse keys documents by their upstream id; values are decoded
// lazily because the map also carries non-document entries like facets
type wdsResponse struct {
	Total     int                        `json:"total"`
	Documents map[string]json.RawMessage `json:"documents"`
}

type wdsDocument struct {
	ID           string `json:"id"`
	DisplayTitle string `json:"display_title"`
	DocDate      string `json:"docdt"`
	URL          string `json:"url"`
	PDFURL       string `json:"pdfurl"`
	Abstracts    struct {
		CData string `json:"cdata!"`
	} `json:"abstracts"`
}

// Search queries the documents search endpoint
func (a *WorldBankAdapter) Search(ctx context.Context, query string, limit int) ([]model.EvidenceSnippet, error) {
	params := url.Values{}
	params.Set("qterm", query)
	params.Set("format", "json")
	params.Set("rows", fmt.Sprintf("%d", limit))
	params.Set("fl", "display_title,docdt,url,pdfurl,abstracts")
	searchURL := a.baseURL + "?" + params.Encode()

	var resp wdsResponse
	if err := a.api.getJSON(ctx, searchURL, &resp); err != nil {
		return nil, err
	}

	// Map order is random; sort ids so output order is stable
	ids := make([]string, 0, len(resp.Documents))
	for id := range resp.Documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snippets := make([]model.EvidenceSnippet, 0, limit)
	for _, id := range ids {
		if len(snippets) >= limit {
			break
		}

		// Entries like facets either fail to decode or decode to an
		// empty document; both get skipped
		var doc wdsDocument
		if err := json.Unmarshal(resp.Documents[id], &doc); err != nil {
			continue
		}
		if doc.DisplayTitle == "" {
			continue
		}

		docURL := doc.URL
		if docURL == "" {
			docURL = doc.PDFURL
		}
		if docURL == "" {
			continue
		}

		text := doc.Abstracts.CData
		if text == "" {
			text = doc.DisplayTitle
		}

		snippets = append(snippets, model.EvidenceSnippet{
			ID:                     util.SnippetID(docURL),
			Text:                   text,
			SourceName:             SourceStatistics,
			URL:                    docURL,
			Title:                  doc.DisplayTitle,
			PublishedDate:          parseDate(doc.DocDate),
			WordCount:              wordCount(text),
			CredibilityScore:       worldBankCredibility,
			ExternalSourceProvider: "world_bank",
			SourceClass:            model.SourceClassPrimary,
			Metadata: map[string]string{
				"document_id": id,
			},
		})
	}
	return snippets, nil
}
