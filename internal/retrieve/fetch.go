package retrieve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/veridict/veridict/internal/util"
	"github.com/veridict/veridict/internal/worker"
	"golang.org/x/net/html"
)

// Fetcher retrieves and extracts page text for snippet enrichment. It
// honors robots.txt and the shared per-host rate limiter.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
}

// NewFetcher creates a fetcher. robots and limiter may be nil, which
// disables the respective gate.
func NewFetcher(httpClient *http.Client, userAgent string, maxBytes int64, robots *util.RobotsChecker, limiter *worker.Limiter) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
		robots:     robots,
		limiter:    limiter,
	}
}

// PageText is the extracted content of one fetched page
type PageText struct {
	Title    string
	Text     string
	FinalURL string
}

// FetchText downloads a page and extracts its title and paragraph text
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (*PageText, error) {
	if f.robots != nil && !f.robots.Allowed(ctx, rawURL) {
		return nil, fmt.Errorf("blocked by robots.txt: %s", rawURL)
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	// Read body with size limit
	limitedReader := io.LimitReader(resp.Body, f.maxBytes)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title, text := extractPage(doc)
	return &PageText{
		Title:    title,
		Text:     text,
		FinalURL: resp.Request.URL.String(),
	}, nil
}

// extractPage pulls the title and paragraph text out of a parsed page
func extractPage(doc *html.Node) (string, string) {
	var title string
	var paragraphs []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "aside":
				return
			case "title":
				if title == "" {
					title = strings.TrimSpace(nodeText(n))
				}
				return
			case "p":
				if text := strings.TrimSpace(nodeText(n)); text != "" {
					paragraphs = append(paragraphs, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, strings.Join(paragraphs, "\n\n")
}

// nodeText flattens a node's text content
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(nodeText(c))
		buf.WriteString(" ")
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}
