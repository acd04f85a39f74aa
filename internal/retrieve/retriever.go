package retrieve

import (
	"context"
	"log/slog"
	"sync"

	"github.com/veridict/veridict/internal/adapters"
	"github.com/veridict/veridict/internal/cache"
	"github.com/veridict/veridict/internal/logger"
	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/util"
)

// Retriever gathers, dedupes and ranks evidence for one claim. The
// cache handle is injected so tests can substitute a deterministic fake.
type Retriever struct {
	router   *adapters.Router
	store    *cache.EvidenceStore
	reranker Reranker
	embedder *Embedder // nil disables semantic scoring
	enricher *Enricher // nil disables snippet enrichment
	cfg      model.RetrievalConfig
	log      *slog.Logger
}

// NewRetriever wires the retrieval stage. embedder and enricher may be
// nil; everything else is required.
func NewRetriever(router *adapters.Router, store *cache.EvidenceStore, reranker Reranker, embedder *Embedder, enricher *Enricher, cfg model.RetrievalConfig) *Retriever {
	return &Retriever{
		router:   router,
		store:    store,
		reranker: reranker,
		embedder: embedder,
		enricher: enricher,
		cfg:      cfg,
		log:      logger.New("retrieve"),
	}
}

// Retrieve returns up to maxSources snippets for the claim, ordered by
// final rank descending. A non-positive maxSources falls back to the
// configured default. Adapter failures shrink the pool; they never fail
// the call.
func (r *Retriever) Retrieve(ctx context.Context, claim model.Claim, maxSources int) []model.EvidenceSnippet {
	if maxSources <= 0 {
		maxSources = r.cfg.MaxSources
	}
	if maxSources <= 0 {
		maxSources = 10
	}

	factor := r.cfg.OversampleFactor
	if factor < 2 {
		factor = 2
	}
	sampleSize := maxSources * factor

	routed := r.router.Route(claim.ClaimType)
	if len(routed) == 0 {
		return []model.EvidenceSnippet{}
	}

	// Fan out one goroutine per adapter; each writes only its own slot
	results := make([][]model.EvidenceSnippet, len(routed))
	var wg sync.WaitGroup
	for i, adapter := range routed {
		wg.Add(1)
		go func(slot int, a adapters.Adapter) {
			defer wg.Done()
			results[slot] = r.searchOne(ctx, a, claim.Text, sampleSize)
		}(i, adapter)
	}
	wg.Wait()

	candidates := mergeDedupe(results)
	if len(candidates) == 0 {
		return []model.EvidenceSnippet{}
	}

	r.scoreInitial(ctx, claim, candidates)

	if r.enricher != nil {
		sortByRelevance(candidates)
		r.enricher.Enrich(ctx, candidates)
		// Enrichment rewrote some texts, so their scores are stale
		r.scoreInitial(ctx, claim, candidates)
	}

	candidates = r.reranker.Rerank(ctx, claim, candidates)

	if len(candidates) > maxSources {
		candidates = candidates[:maxSources]
	}
	return candidates
}

// searchOne resolves one adapter's snippets, cache first
func (r *Retriever) searchOne(ctx context.Context, adapter adapters.Adapter, query string, limit int) []model.EvidenceSnippet {
	source := adapter.Name()

	if snippets, ok := r.store.Lookup(source, query); ok {
		return snippets
	}

	searchCtx := ctx
	if r.cfg.AdapterTimeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, r.cfg.AdapterTimeout)
		defer cancel()
	}

	snippets, err := adapters.SearchWithRetry(searchCtx, adapter, query, limit)
	if err != nil {
		r.log.Warn("adapter search failed", "source", source, "error", err)
		return nil
	}

	r.store.Store(source, query, snippets)
	return snippets
}

// mergeDedupe flattens per-adapter results in routing order, dropping
// later snippets whose normalized URL was already seen
func mergeDedupe(results [][]model.EvidenceSnippet) []model.EvidenceSnippet {
	seen := make(map[string]bool)
	var merged []model.EvidenceSnippet

	for _, batch := range results {
		for _, snippet := range batch {
			key := util.NormalizeURL(snippet.URL)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, snippet)
		}
	}
	return merged
}

// scoreInitial assigns the hybrid lexical/semantic relevance to every
// candidate. Embedding failures degrade to lexical-only scoring.
func (r *Retriever) scoreInitial(ctx context.Context, claim model.Claim, candidates []model.EvidenceSnippet) {
	var claimVector []float64
	var vectors [][]float64

	if r.embedder != nil {
		texts := make([]string, 0, len(candidates)+1)
		texts = append(texts, claim.Text)
		for _, candidate := range candidates {
			texts = append(texts, candidate.Text)
		}

		embedded, err := r.embedder.Embed(ctx, texts)
		if err != nil {
			r.log.Warn("embeddings unavailable, scoring lexical-only", "error", err)
		} else {
			claimVector = embedded[0]
			vectors = embedded[1:]
		}
	}

	for i := range candidates {
		lexical := lexicalScore(claim.Text, candidates[i].Text)
		if vectors != nil {
			semantic := cosineSimilarity(claimVector, vectors[i])
			candidates[i].RelevanceScore = hybridScore(lexical, semantic, true)
		} else {
			candidates[i].RelevanceScore = hybridScore(lexical, 0, false)
		}
	}
}
