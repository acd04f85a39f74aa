package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/veridict/veridict/internal/model"
)

// Metrics tracks cache hits and misses per evidence source. Counters are
// independent of the cached entries, so expiry and Clear never reset
// them. All methods are safe for concurrent use.
type Metrics struct {
	mu      sync.RWMutex
	sources map[string]*sourceCounters
}

type sourceCounters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMetrics creates an empty metrics registry
func NewMetrics() *Metrics {
	return &Metrics{
		sources: make(map[string]*sourceCounters),
	}
}

// RecordHit increments the hit counter for a source
func (m *Metrics) RecordHit(source string) {
	m.counters(source).hits.Add(1)
}

// RecordMiss increments the miss counter for a source
func (m *Metrics) RecordMiss(source string) {
	m.counters(source).misses.Add(1)
}

// counters returns the counter pair for a source, creating it on first
// use. Double-checked so the common path stays on the read lock.
func (m *Metrics) counters(source string) *sourceCounters {
	m.mu.RLock()
	c, exists := m.sources[source]
	m.mu.RUnlock()
	if exists {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, exists = m.sources[source]; exists {
		return c
	}
	c = &sourceCounters{}
	m.sources[source] = c
	return c
}

// Stats returns the counters for one source. A source that was never
// looked up reports zero counts.
func (m *Metrics) Stats(source string) model.SourceStats {
	m.mu.RLock()
	c, exists := m.sources[source]
	m.mu.RUnlock()
	if !exists {
		return model.SourceStats{Source: source, Status: StatusFor(0)}
	}
	return statsFrom(source, c.hits.Load(), c.misses.Load())
}

// All returns stats for every source seen so far, sorted by source name
func (m *Metrics) All() []model.SourceStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make([]model.SourceStats, 0, len(m.sources))
	for source, c := range m.sources {
		stats = append(stats, statsFrom(source, c.hits.Load(), c.misses.Load()))
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Source < stats[j].Source })
	return stats
}

func statsFrom(source string, hits, misses int64) model.SourceStats {
	stats := model.SourceStats{
		Source: source,
		Hits:   hits,
		Misses: misses,
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	stats.Status = StatusFor(stats.HitRate)
	return stats
}

// StatusFor maps a hit rate to its qualitative tier
func StatusFor(hitRate float64) string {
	switch {
	case hitRate >= 0.75:
		return "excellent"
	case hitRate >= 0.60:
		return "good"
	case hitRate >= 0.40:
		return "acceptable"
	default:
		return "needs_optimization"
	}
}

// metricsSnapshot is the on-disk form of the registry
type metricsSnapshot struct {
	Sources map[string]counterSnapshot `json:"sources"`
}

type counterSnapshot struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// LoadMetrics reads a metrics snapshot from path. A missing file yields
// an empty registry, not an error.
func LoadMetrics(path string) (*Metrics, error) {
	m := NewMetrics()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("read metrics: %w", err)
	}

	var snap metricsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse metrics: %w", err)
	}

	for source, c := range snap.Sources {
		counters := m.counters(source)
		counters.hits.Store(c.Hits)
		counters.misses.Store(c.Misses)
	}
	return m, nil
}

// Save writes the current counters to path
func (m *Metrics) Save(path string) error {
	m.mu.RLock()
	snap := metricsSnapshot{Sources: make(map[string]counterSnapshot, len(m.sources))}
	for source, c := range m.sources {
		snap.Sources[source] = counterSnapshot{
			Hits:   c.hits.Load(),
			Misses: c.misses.Load(),
		}
	}
	m.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
