package util

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strings"
)

// NormalizeURL reduces a URL to its deduplication key: lowercased,
// query string and fragment stripped, trailing slash removed. Two result
// URLs that differ only in case, tracking parameters, or a trailing
// slash normalize to the same key.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return strings.ToLower(strings.TrimRight(raw, "/"))
	}

	parsed.RawQuery = ""
	parsed.ForceQuery = false
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.Path = strings.TrimRight(parsed.Path, "/")

	return strings.ToLower(parsed.String())
}

// SnippetID derives a deterministic evidence id from a URL. Identical
// sources produce identical ids across runs, which keeps re-verification
// reproducible.
func SnippetID(rawURL string) string {
	sum := sha1.Sum([]byte(NormalizeURL(rawURL)))
	return hex.EncodeToString(sum[:])
}
