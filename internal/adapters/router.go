package adapters

import (
	"github.com/veridict/veridict/internal/model"
)

// Router maps claim types to the adapters worth querying for them, in
// priority order
type Router struct {
	adapters map[string]Adapter
	routes   map[model.ClaimType][]string
}

// NewRouter creates a router over the given adapters with the built-in
// routing table. Adapters missing from the list degrade gracefully:
// routes simply skip them.
func NewRouter(available []Adapter) *Router {
	router := &Router{
		adapters: make(map[string]Adapter, len(available)),
		routes:   defaultRoutes(),
	}
	for _, adapter := range available {
		router.adapters[adapter.Name()] = adapter
	}
	return router
}

// defaultRoutes returns the built-in claim type to source mapping
func defaultRoutes() map[model.ClaimType][]string {
	return map[model.ClaimType][]string{
		model.ClaimTypeLegal:        {SourcePrimaryDocs, SourceWebSearch},
		model.ClaimTypeHistorical:   {SourceBibliographic, SourcePrimaryDocs, SourceWebSearch},
		model.ClaimTypeStatistical:  {SourceStatistics, SourceWebSearch},
		model.ClaimTypeCurrentEvent: {SourceWebSearch},
		model.ClaimTypeOther:        {SourceKnowledgeBase, SourceWebSearch},
	}
}

// SetRoute overrides the source list for one claim type
func (r *Router) SetRoute(claimType model.ClaimType, sources []string) {
	r.routes[claimType] = sources
}

// Route returns the adapters to query for a claim type in priority
// order. Unknown types route like ClaimTypeOther; if every routed
// source is unavailable the router falls back to web search alone.
func (r *Router) Route(claimType model.ClaimType) []Adapter {
	names, ok := r.routes[claimType]
	if !ok {
		names = r.routes[model.ClaimTypeOther]
	}

	matched := make([]Adapter, 0, len(names))
	for _, name := range names {
		if adapter, ok := r.adapters[name]; ok {
			matched = append(matched, adapter)
		}
	}

	if len(matched) == 0 {
		if adapter, ok := r.adapters[SourceWebSearch]; ok {
			matched = append(matched, adapter)
		}
	}
	return matched
}

// BuildAdapters constructs every enabled adapter from configuration
func BuildAdapters(cfg model.SourcesConfig, deps Deps) []Adapter {
	if deps.Credibility == nil {
		deps.Credibility = NewCredibilityClassifier()
	}

	var adapters []Adapter
	if cfg.WebSearch.Enabled {
		adapters = append(adapters, NewSearxAdapter(cfg.WebSearch, deps))
	}
	if cfg.Statistics.Enabled {
		adapters = append(adapters, NewWorldBankAdapter(cfg.Statistics, deps))
	}
	if cfg.PrimaryDocs.Enabled {
		adapters = append(adapters, NewCourtListenerAdapter(cfg.PrimaryDocs, deps))
	}
	if cfg.Bibliographic.Enabled {
		adapters = append(adapters, NewOpenLibraryAdapter(cfg.Bibliographic, deps))
	}
	if cfg.KnowledgeBase.Enabled {
		adapters = append(adapters, NewWikipediaAdapter(cfg.KnowledgeBase, deps))
	}
	return adapters
}
