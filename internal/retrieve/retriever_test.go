package retrieve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/veridict/veridict/internal/adapters"
	"github.com/veridict/veridict/internal/cache"
	"github.com/veridict/veridict/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubAdapter returns canned snippets and records the limits it was
// asked for
type stubAdapter struct {
	name      string
	snippets  []model.EvidenceSnippet
	err       error
	calls     int32
	lastLimit int32
	block     bool // Block until the context ends
}

func (a *stubAdapter) Name() string                   { return a.name }
func (a *stubAdapter) SourceClass() model.SourceClass { return model.SourceClassWeb }
func (a *stubAdapter) Credibility() float64           { return 0.5 }

func (a *stubAdapter) Search(ctx context.Context, query string, limit int) ([]model.EvidenceSnippet, error) {
	atomic.AddInt32(&a.calls, 1)
	atomic.StoreInt32(&a.lastLimit, int32(limit))
	if a.block {
		<-ctx.Done()
		return nil, &adapters.AdapterError{Source: a.name, Retryable: false, Err: ctx.Err()}
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.snippets, nil
}

func webSnippet(url, text string) model.EvidenceSnippet {
	return model.EvidenceSnippet{
		ID:          url,
		Text:        text,
		SourceName:  adapters.SourceWebSearch,
		URL:         url,
		WordCount:   len(text),
		SourceClass: model.SourceClassWeb,
	}
}

func testStore() *cache.EvidenceStore {
	cfg := model.DefaultConfig().Cache
	return cache.NewEvidenceStore(cache.NewMemoryCache(time.Hour, 0), cfg, nil)
}

func testRetriever(router *adapters.Router, store *cache.EvidenceStore) *Retriever {
	cfg := model.RetrievalConfig{
		MaxSources:       4,
		OversampleFactor: 2,
		AdapterTimeout:   2 * time.Second,
	}
	return NewRetriever(router, store, &hybridReranker{}, nil, nil, cfg)
}

func TestRetriever_FanOutAndRank(t *testing.T) {
	claim := model.Claim{ID: "c1", Text: "the treaty was signed in 1957", ClaimType: model.ClaimTypeOther}

	knowledge := &stubAdapter{
		name: adapters.SourceKnowledgeBase,
		snippets: []model.EvidenceSnippet{
			webSnippet("https://kb.example.com/treaty", "The treaty was signed in 1957 in Rome."),
		},
	}
	web := &stubAdapter{
		name: adapters.SourceWebSearch,
		snippets: []model.EvidenceSnippet{
			webSnippet("https://web.example.com/unrelated", "Gardening tips for spring."),
			webSnippet("https://web.example.com/treaty-news", "Anniversary of the treaty signed in 1957."),
		},
	}

	router := adapters.NewRouter([]adapters.Adapter{knowledge, web})
	retriever := testRetriever(router, testStore())

	got := retriever.Retrieve(context.Background(), claim, 4)
	if len(got) != 3 {
		t.Fatalf("expected 3 snippets, got %d", len(got))
	}

	// Most relevant first; the gardening snippet ranks last
	if got[len(got)-1].URL != "https://web.example.com/unrelated" {
		t.Errorf("expected unrelated snippet last, got %q", got[len(got)-1].URL)
	}
	for i := 1; i < len(got); i++ {
		if got[i].RelevanceScore > got[i-1].RelevanceScore {
			t.Errorf("ranking not descending at %d: %v > %v", i, got[i].RelevanceScore, got[i-1].RelevanceScore)
		}
	}
}

func TestRetriever_OversamplesAdapters(t *testing.T) {
	web := &stubAdapter{name: adapters.SourceWebSearch}
	router := adapters.NewRouter([]adapters.Adapter{web})
	retriever := testRetriever(router, testStore())

	retriever.Retrieve(context.Background(), model.Claim{ID: "c1", Text: "x y z", ClaimType: model.ClaimTypeCurrentEvent}, 4)

	if got := atomic.LoadInt32(&web.lastLimit); got != 8 {
		t.Errorf("expected adapters asked for 2x max sources (8), got %d", got)
	}
}

func TestRetriever_DedupesByNormalizedURL(t *testing.T) {
	claim := model.Claim{ID: "c1", Text: "alpha beta", ClaimType: model.ClaimTypeOther}

	knowledge := &stubAdapter{
		name: adapters.SourceKnowledgeBase,
		snippets: []model.EvidenceSnippet{
			{ID: "kb1", URL: "https://Example.com/Page/", Text: "alpha beta from the registry", SourceName: adapters.SourceKnowledgeBase},
		},
	}
	web := &stubAdapter{
		name: adapters.SourceWebSearch,
		snippets: []model.EvidenceSnippet{
			{ID: "web1", URL: "http://example.com/page?utm=1", Text: "alpha beta from the web", SourceName: adapters.SourceWebSearch},
			{ID: "web2", URL: "https://other.example.com/", Text: "alpha beta elsewhere", SourceName: adapters.SourceWebSearch},
		},
	}

	router := adapters.NewRouter([]adapters.Adapter{knowledge, web})
	retriever := testRetriever(router, testStore())

	got := retriever.Retrieve(context.Background(), claim, 4)
	if len(got) != 2 {
		t.Fatalf("expected 2 snippets after dedupe, got %d", len(got))
	}

	// Routing order wins: the knowledge base copy survives
	for _, snippet := range got {
		if snippet.ID == "web1" {
			t.Error("duplicate URL from the lower-priority adapter survived dedupe")
		}
	}
}

func TestRetriever_CacheFirst(t *testing.T) {
	claim := model.Claim{ID: "c1", Text: "cached topic", ClaimType: model.ClaimTypeCurrentEvent}
	store := testStore()

	cached := []model.EvidenceSnippet{webSnippet("https://cached.example.com", "cached topic coverage")}
	store.Store(adapters.SourceWebSearch, claim.Text, cached)

	web := &stubAdapter{name: adapters.SourceWebSearch, snippets: []model.EvidenceSnippet{webSnippet("https://live.example.com", "live result")}}
	router := adapters.NewRouter([]adapters.Adapter{web})
	retriever := testRetriever(router, store)

	got := retriever.Retrieve(context.Background(), claim, 4)

	if atomic.LoadInt32(&web.calls) != 0 {
		t.Error("adapter was queried despite a cache hit")
	}
	if len(got) != 1 || got[0].URL != "https://cached.example.com" {
		t.Errorf("expected the cached snippet, got %+v", got)
	}

	stats := store.Metrics().Stats(adapters.SourceWebSearch)
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit recorded, got %d", stats.Hits)
	}
}

func TestRetriever_StoresLiveResults(t *testing.T) {
	claim := model.Claim{ID: "c1", Text: "fresh topic", ClaimType: model.ClaimTypeCurrentEvent}
	store := testStore()

	web := &stubAdapter{name: adapters.SourceWebSearch, snippets: []model.EvidenceSnippet{webSnippet("https://live.example.com", "fresh topic report")}}
	router := adapters.NewRouter([]adapters.Adapter{web})
	retriever := testRetriever(router, store)

	retriever.Retrieve(context.Background(), claim, 4)
	retriever.Retrieve(context.Background(), claim, 4)

	if got := atomic.LoadInt32(&web.calls); got != 1 {
		t.Errorf("expected second retrieve to hit the cache, adapter called %d times", got)
	}
}

func TestRetriever_AdapterFailureShrinksPool(t *testing.T) {
	claim := model.Claim{ID: "c1", Text: "alpha beta", ClaimType: model.ClaimTypeStatistical}

	failing := &stubAdapter{
		name: adapters.SourceStatistics,
		err:  &adapters.AdapterError{Source: adapters.SourceStatistics, StatusCode: 403, Retryable: false, Err: errors.New("forbidden")},
	}
	web := &stubAdapter{
		name:     adapters.SourceWebSearch,
		snippets: []model.EvidenceSnippet{webSnippet("https://web.example.com/a", "alpha beta report")},
	}

	router := adapters.NewRouter([]adapters.Adapter{failing, web})
	retriever := testRetriever(router, testStore())

	got := retriever.Retrieve(context.Background(), claim, 4)
	if len(got) != 1 {
		t.Fatalf("expected surviving adapter's snippet, got %d", len(got))
	}
	if got[0].URL != "https://web.example.com/a" {
		t.Errorf("unexpected snippet %q", got[0].URL)
	}
}

func TestRetriever_AllAdaptersFailedYieldsEmptyPool(t *testing.T) {
	claim := model.Claim{ID: "c1", Text: "anything", ClaimType: model.ClaimTypeCurrentEvent}

	failing := &stubAdapter{
		name: adapters.SourceWebSearch,
		err:  &adapters.AdapterError{Source: adapters.SourceWebSearch, StatusCode: 500, Retryable: false, Err: errors.New("down")},
	}
	router := adapters.NewRouter([]adapters.Adapter{failing})
	retriever := testRetriever(router, testStore())

	got := retriever.Retrieve(context.Background(), claim, 4)
	if len(got) != 0 {
		t.Errorf("expected empty pool, got %d snippets", len(got))
	}
}

func TestRetriever_SlowAdapterDoesNotBlockOthers(t *testing.T) {
	claim := model.Claim{ID: "c1", Text: "alpha beta", ClaimType: model.ClaimTypeStatistical}

	slow := &stubAdapter{name: adapters.SourceStatistics, block: true}
	web := &stubAdapter{
		name:     adapters.SourceWebSearch,
		snippets: []model.EvidenceSnippet{webSnippet("https://web.example.com/a", "alpha beta data")},
	}

	router := adapters.NewRouter([]adapters.Adapter{slow, web})
	store := testStore()
	retriever := NewRetriever(router, store, &hybridReranker{}, nil, nil, model.RetrievalConfig{
		MaxSources:       4,
		OversampleFactor: 2,
		AdapterTimeout:   50 * time.Millisecond,
	})

	start := time.Now()
	got := retriever.Retrieve(context.Background(), claim, 4)
	elapsed := time.Since(start)

	if len(got) != 1 {
		t.Fatalf("expected the fast adapter's snippet, got %d", len(got))
	}
	if elapsed > 2*time.Second {
		t.Errorf("retrieve took %v; the adapter timeout did not fire", elapsed)
	}
}

func TestRetriever_CutsToMaxSources(t *testing.T) {
	var snippets []model.EvidenceSnippet
	for i := 0; i < 10; i++ {
		snippets = append(snippets, webSnippet(fmt.Sprintf("https://web.example.com/%d", i), "alpha beta"))
	}

	web := &stubAdapter{name: adapters.SourceWebSearch, snippets: snippets}
	router := adapters.NewRouter([]adapters.Adapter{web})
	retriever := testRetriever(router, testStore())

	got := retriever.Retrieve(context.Background(), model.Claim{ID: "c1", Text: "alpha beta", ClaimType: model.ClaimTypeCurrentEvent}, 4)
	if len(got) != 4 {
		t.Errorf("expected cut to 4 sources, got %d", len(got))
	}
}
