package cache

import (
	"encoding/json"
	"log/slog"

	"github.com/veridict/veridict/internal/logger"
	"github.com/veridict/veridict/internal/model"
)

// EvidenceStore is the typed evidence cache: (source, query) pairs map to
// the snippet lists adapters returned for them, with per-source TTLs.
// Backend failures never reach the caller; a broken cache behaves like a
// cache full of misses.
type EvidenceStore struct {
	backend Cache
	cfg     model.CacheConfig
	metrics *Metrics
	log     *slog.Logger
}

// NewEvidenceStore wraps a cache backend. A nil backend disables caching
// entirely; lookups are still counted as misses so hit-rate metrics
// reflect reality.
func NewEvidenceStore(backend Cache, cfg model.CacheConfig, metrics *Metrics) *EvidenceStore {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &EvidenceStore{
		backend: backend,
		cfg:     cfg,
		metrics: metrics,
		log:     logger.New("cache"),
	}
}

// Lookup returns the cached snippets for a (source, query) pair. Every
// call counts as exactly one hit or miss for the source.
func (s *EvidenceStore) Lookup(source, query string) ([]model.EvidenceSnippet, bool) {
	if s.backend == nil {
		s.metrics.RecordMiss(source)
		return nil, false
	}

	data, found := s.backend.Get(CacheKey(source, query))
	if !found {
		s.metrics.RecordMiss(source)
		return nil, false
	}

	var snippets []model.EvidenceSnippet
	if err := json.Unmarshal(data, &snippets); err != nil {
		// Treat a corrupt entry as a miss and move on
		s.log.Warn("corrupt cache entry", "source", source, "error", err)
		s.metrics.RecordMiss(source)
		return nil, false
	}

	s.metrics.RecordHit(source)
	return snippets, true
}

// Store caches the snippets an adapter returned for a query, using the
// source's configured TTL. Failures are logged and swallowed.
func (s *EvidenceStore) Store(source, query string, snippets []model.EvidenceSnippet) {
	if s.backend == nil {
		return
	}

	data, err := json.Marshal(snippets)
	if err != nil {
		s.log.Warn("marshal cache entry", "source", source, "error", err)
		return
	}

	if err := s.backend.Set(CacheKey(source, query), data, s.cfg.TTLFor(source)); err != nil {
		s.log.Warn("write cache entry", "source", source, "error", err)
	}
}

// Metrics exposes the hit/miss registry backing this store
func (s *EvidenceStore) Metrics() *Metrics {
	return s.metrics
}
