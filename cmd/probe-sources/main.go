// Manual probe for the live evidence source APIs.
// Run it to check connectivity and see what each adapter returns for a
// sample query before pointing a real verification run at them.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/veridict/veridict/internal/adapters"
	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/worker"
)

// One query per adapter, chosen to return results on the default
// backends
var probeQueries = map[string]string{
	adapters.SourceWebSearch:     "global literacy rate",
	adapters.SourceStatistics:    "unemployment rate",
	adapters.SourcePrimaryDocs:   "clean air act",
	adapters.SourceBibliographic: "history of the printing press",
	adapters.SourceKnowledgeBase: "Bretton Woods system",
}

func main() {
	fmt.Println("=== Evidence Source Probe ===")
	fmt.Println()

	cfg := model.DefaultConfig()
	deps := adapters.Deps{
		HTTPClient:  adapters.NewHTTPClient(cfg.HTTP),
		Limiter:     worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		UserAgent:   cfg.HTTP.UserAgent,
		Credibility: adapters.NewCredibilityClassifier(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	healthy := 0
	probed := 0
	for _, adapter := range adapters.BuildAdapters(cfg.Sources, deps) {
		probed++
		query := probeQueries[adapter.Name()]

		fmt.Printf("Probing: %s (%s, credibility %.2f)\n", adapter.Name(), adapter.SourceClass(), adapter.Credibility())
		fmt.Printf("Query:   %q\n", query)
		fmt.Println(strings.Repeat("-", 60))

		snippets, err := adapters.SearchWithRetry(ctx, adapter, query, 3)
		if err != nil {
			fmt.Printf("  ✗ %v\n\n", err)
			continue
		}
		if len(snippets) == 0 {
			fmt.Printf("  ⚠️  no results\n\n")
			continue
		}

		healthy++
		for i, snippet := range snippets {
			title := snippet.Title
			if title == "" {
				title = snippet.URL
			}
			fmt.Printf("  %d. %s\n", i+1, title)
			if snippet.ExternalSourceProvider != "" {
				fmt.Printf("     provider: %s\n", snippet.ExternalSourceProvider)
			}
			fmt.Printf("     %s\n", clip(snippet.Text, 140))
		}
		fmt.Println()
	}

	fmt.Println("=== Probe Complete ===")
	fmt.Printf("\n%d/%d sources returned evidence.\n", healthy, probed)
	fmt.Println("\nNote: results depend on live upstream APIs.")
	fmt.Println("Empty results usually mean the query matched nothing, not an outage.")
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
