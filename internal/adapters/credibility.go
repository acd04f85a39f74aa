package adapters

import (
	"math"
	"net/url"
	"strings"
)

// Credibility floors applied on top of adapter priors when the URL's
// domain is recognized
const (
	primaryDomainFloor   = 0.95
	secondaryDomainFloor = 0.75
)

// CredibilityClassifier refines per-snippet credibility from the URL
// domain. The adapter prior is the floor; recognized authoritative
// domains raise it.
type CredibilityClassifier struct {
	primary   map[string]bool
	secondary map[string]bool
}

// NewCredibilityClassifier creates a classifier seeded with the built-in
// domain lists
func NewCredibilityClassifier() *CredibilityClassifier {
	classifier := &CredibilityClassifier{
		primary:   make(map[string]bool),
		secondary: make(map[string]bool),
	}

	for _, domain := range []string{
		"supremecourt.gov",
		"congress.gov",
		"loc.gov",
		"archives.gov",
		"federalregister.gov",
		"courtlistener.com",
		"legislation.gov.uk",
		"eur-lex.europa.eu",
		"un.org",
		"who.int",
		"worldbank.org",
		"imf.org",
		"oecd.org",
		"census.gov",
		"bls.gov",
		"eurostat.ec.europa.eu",
	} {
		classifier.primary[domain] = true
	}

	for _, domain := range []string{
		"britannica.com",
		"reuters.com",
		"apnews.com",
		"bbc.com",
		"bbc.co.uk",
		"nature.com",
		"sciencedirect.com",
		"jstor.org",
		"archive.org",
		"openlibrary.org",
		"wikipedia.org",
	} {
		classifier.secondary[domain] = true
	}

	return classifier
}

// Score returns the credibility for a URL, never lower than base
func (c *CredibilityClassifier) Score(rawURL string, base float64) float64 {
	host := hostOf(rawURL)
	if host == "" {
		return base
	}

	if c.matchesDomain(c.primary, host) || hasAuthoritativeTLD(host) {
		return math.Max(base, primaryDomainFloor)
	}
	if c.matchesDomain(c.secondary, host) {
		return math.Max(base, secondaryDomainFloor)
	}
	return base
}

// IsPrimaryDomain reports whether the URL points at a primary-source
// domain regardless of which adapter surfaced it
func (c *CredibilityClassifier) IsPrimaryDomain(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	return c.matchesDomain(c.primary, host) || hasAuthoritativeTLD(host)
}

// matchesDomain checks the host and its parent domains against a set
func (c *CredibilityClassifier) matchesDomain(domains map[string]bool, host string) bool {
	if domains[host] {
		return true
	}
	for domain := range domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// hasAuthoritativeTLD covers government and academic suffixes that do
// not need explicit listing
func hasAuthoritativeTLD(host string) bool {
	for _, suffix := range []string{".gov", ".mil", ".edu", ".gov.uk", ".ac.uk", ".int"} {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// hostOf extracts the lowercased host without port
func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}
