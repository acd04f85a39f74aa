package retrieve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/veridict/veridict/internal/logger"
	"github.com/veridict/veridict/internal/model"
)

// enrichMaxWords caps replacement text so one long page cannot dominate
// downstream inference
const enrichMaxWords = 300

// Enricher replaces thin snippet texts with page extracts for the top
// ranked candidates
type Enricher struct {
	fetcher  *Fetcher
	topN     int
	minWords int
	log      *slog.Logger
}

// NewEnricher creates an enricher acting on the first topN candidates
// whose text is shorter than minWords
func NewEnricher(fetcher *Fetcher, topN, minWords int) *Enricher {
	return &Enricher{
		fetcher:  fetcher,
		topN:     topN,
		minWords: minWords,
		log:      logger.New("enrich"),
	}
}

// Enrich fetches source pages for thin snippets in place. Fetch failures
// leave the snippet as-is.
func (e *Enricher) Enrich(ctx context.Context, candidates []model.EvidenceSnippet) {
	for i := range candidates {
		if i >= e.topN {
			break
		}
		if candidates[i].WordCount >= e.minWords {
			continue
		}

		page, err := e.fetcher.FetchText(ctx, candidates[i].URL)
		if err != nil {
			e.log.Debug("enrichment fetch failed", "url", candidates[i].URL, "error", err)
			continue
		}
		text := trimWords(page.Text, enrichMaxWords)
		if text == "" {
			continue
		}

		candidates[i].Text = text
		candidates[i].WordCount = len(strings.Fields(text))
		if candidates[i].Title == "" && page.Title != "" {
			candidates[i].Title = page.Title
		}
		if candidates[i].Metadata == nil {
			candidates[i].Metadata = make(map[string]string)
		}
		candidates[i].Metadata["enriched"] = "true"
	}
}

// trimWords cuts text to at most n words
func trimWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:n], " ")
}
