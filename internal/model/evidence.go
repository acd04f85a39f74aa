package model

import "time"

// EvidenceSnippet is one piece of retrieved evidence, normalized to the
// same shape regardless of which adapter produced it. Snippets are owned
// by the retriever and handed by value to the verifier and judge.
type EvidenceSnippet struct {
	ID            string     `json:"id"`                       // Deterministic: sha1 of the normalized URL
	Text          string     `json:"text"`                     // Snippet body
	SourceName    string     `json:"source_name"`              // Adapter that produced it (e.g., "web_search")
	URL           string     `json:"url"`                      // Original URL as returned by the provider
	Title         string     `json:"title,omitempty"`          // Document/result title
	PublishedDate *time.Time `json:"published_date,omitempty"` // Publication date when the provider reports one
	WordCount     int        `json:"word_count"`

	RelevanceScore   float64 `json:"relevance_score"`   // 0-1, from initial ranking
	CredibilityScore float64 `json:"credibility_score"` // 0-1, source-trust prior

	// ExternalSourceProvider identifies the specialized adapter behind the
	// snippet (empty for generic web search). It stays a top-level field at
	// every pipeline stage; downstream aggregation reads it only here and
	// never from Metadata.
	ExternalSourceProvider string `json:"external_source_provider,omitempty"`

	SourceClass SourceClass       `json:"source_class"`
	Metadata    map[string]string `json:"metadata,omitempty"` // Adapter-specific fields
}

// IsPrimary reports whether the snippet comes from a primary/authoritative
// source class.
func (e EvidenceSnippet) IsPrimary() bool {
	return e.SourceClass == SourceClassPrimary
}

// SourceClass buckets evidence sources by their trust character
type SourceClass string

const (
	SourceClassWeb      SourceClass = "web"      // General web search results
	SourceClassRegistry SourceClass = "registry" // Curated registries (bibliographic, knowledge bases)
	SourceClassPrimary  SourceClass = "primary"  // Authoritative primary sources (legal, statistical)
)
