package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/worker"
	"golang.org/x/net/html"
)

// Canonical adapter names. Routing tables, cache TTL keys and report
// stats all key on these strings.
const (
	SourceWebSearch     = "web_search"
	SourceStatistics    = "statistics"
	SourcePrimaryDocs   = "primary_documents"
	SourceBibliographic = "bibliographic"
	SourceKnowledgeBase = "knowledge_base"
)

const searchMaxRetries = 3

// retrySleepFunc is the sleep function used between retries (injectable for tests)
var retrySleepFunc = time.Sleep

// Adapter defines the interface for evidence source backends
type Adapter interface {
	// Name returns the canonical adapter name
	Name() string

	// SourceClass returns the trust class of evidence this adapter produces
	SourceClass() model.SourceClass

	// Credibility returns the baseline credibility prior for this adapter
	Credibility() float64

	// Search queries the backend once and returns up to limit snippets
	Search(ctx context.Context, query string, limit int) ([]model.EvidenceSnippet, error)
}

// AdapterError wraps a failed adapter call with enough context to decide
// whether retrying can help
type AdapterError struct {
	Source     string
	StatusCode int // 0 for transport-level failures
	Retryable  bool
	Err        error
}

// Error returns the error message
func (e *AdapterError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error
func (e *AdapterError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a search error is worth retrying.
// Rate limiting and server-side failures are transient; client errors
// are not.
func IsRetryable(err error) bool {
	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) {
		return adapterErr.Retryable
	}
	return false
}

// statusRetryable returns true for HTTP statuses that indicate transient failures
func statusRetryable(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status < 600
}

// SearchWithRetry retries transient search failures with exponential
// backoff. Non-retryable errors and context expiry return immediately.
func SearchWithRetry(ctx context.Context, adapter Adapter, query string, limit int) ([]model.EvidenceSnippet, error) {
	var lastErr error
	for attempt := 0; attempt < searchMaxRetries; attempt++ {
		snippets, err := adapter.Search(ctx, query, limit)
		if err == nil {
			return snippets, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return nil, err
		}
		if attempt < searchMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			retrySleepFunc(backoff)
			if ctx.Err() != nil {
				return nil, lastErr
			}
		}
	}
	return nil, lastErr
}

// Deps carries the shared plumbing every adapter needs
type Deps struct {
	HTTPClient  *http.Client
	Limiter     *worker.Limiter
	UserAgent   string
	Credibility *CredibilityClassifier
}

// apiClient maps one backend's HTTP traffic onto AdapterError semantics
type apiClient struct {
	deps   Deps
	source string
	header map[string]string
}

// getJSON performs a rate-limited GET and decodes a JSON response
func (c apiClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	if c.deps.Limiter != nil {
		if err := c.deps.Limiter.Wait(ctx, rawURL); err != nil {
			return &AdapterError{Source: c.source, Retryable: false, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &AdapterError{Source: c.source, Retryable: false, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", c.deps.UserAgent)
	req.Header.Set("Accept", "application/json")
	for key, val := range c.header {
		req.Header.Set(key, val)
	}

	httpClient := c.deps.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		// A dead parent context makes retrying pointless; any other
		// transport failure (timeout, refused connection) may recover
		return &AdapterError{Source: c.source, Retryable: ctx.Err() == nil, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &AdapterError{
			Source:     c.source,
			StatusCode: resp.StatusCode,
			Retryable:  statusRetryable(resp.StatusCode),
			Err:        fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &AdapterError{Source: c.source, Retryable: false, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// dateLayouts covers the formats the upstream APIs actually emit
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate parses a provider date string, returning nil when no layout matches
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// stripHTML extracts plain text from an HTML fragment
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}

// wordCount counts whitespace-separated tokens
func wordCount(s string) int {
	return len(strings.Fields(s))
}
