package model

import "time"

// Config is the full pipeline configuration. Defaults come from
// DefaultConfig; the CLI overlays config-file/env values via viper and
// then flag values on top.
type Config struct {
	Retrieval   RetrievalConfig   `json:"retrieval" yaml:"retrieval" mapstructure:"retrieval"`
	Verify      VerifyConfig      `json:"verify" yaml:"verify" mapstructure:"verify"`
	Judge       JudgeConfig       `json:"judge" yaml:"judge" mapstructure:"judge"`
	Sources     SourcesConfig     `json:"sources" yaml:"sources" mapstructure:"sources"`
	Cache       CacheConfig       `json:"cache" yaml:"cache" mapstructure:"cache"`
	HTTP        HTTPConfig        `json:"http" yaml:"http" mapstructure:"http"`
	RateLimit   RateLimitConfig   `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency ConcurrencyConfig `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	Embeddings  EmbeddingsConfig  `json:"embeddings" yaml:"embeddings" mapstructure:"embeddings"`
	Output      OutputConfig      `json:"output" yaml:"output" mapstructure:"output"`
}

// RetrievalConfig controls evidence gathering and ranking
type RetrievalConfig struct {
	MaxSources       int           `json:"max_sources" yaml:"max_sources" mapstructure:"max_sources"`                   // Evidence kept per claim after reranking
	OversampleFactor int           `json:"oversample_factor" yaml:"oversample_factor" mapstructure:"oversample_factor"` // Fetch this many times max_sources before the cut
	AdapterTimeout   time.Duration `json:"adapter_timeout" yaml:"adapter_timeout" mapstructure:"adapter_timeout"`       // Per adapter call
	ClaimDeadline    time.Duration `json:"claim_deadline" yaml:"claim_deadline" mapstructure:"claim_deadline"`          // Whole claim, retrieval through judgment
	RerankStrategy   string        `json:"rerank_strategy" yaml:"rerank_strategy" mapstructure:"rerank_strategy"`       // "hybrid" or "cross_encoder"
	EnrichTopN       int           `json:"enrich_top_n" yaml:"enrich_top_n" mapstructure:"enrich_top_n"`                // 0 disables page enrichment
	MinSnippetWords  int           `json:"min_snippet_words" yaml:"min_snippet_words" mapstructure:"min_snippet_words"` // Enrich snippets shorter than this
}

// VerifyConfig selects and tunes the NLI classifier
type VerifyConfig struct {
	Classifier string `json:"classifier" yaml:"classifier" mapstructure:"classifier"` // lexical, openai, anthropic, ollama
	Model      string `json:"model" yaml:"model" mapstructure:"model"`
	APIKey     string `json:"-" yaml:"-" mapstructure:"api_key"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout    int    `json:"timeout" yaml:"timeout" mapstructure:"timeout"` // Seconds per inference call

	EntailmentThreshold    float64 `json:"entailment_threshold" yaml:"entailment_threshold" mapstructure:"entailment_threshold"`
	ContradictionThreshold float64 `json:"contradiction_threshold" yaml:"contradiction_threshold" mapstructure:"contradiction_threshold"`
	NeutralCeiling         float64 `json:"neutral_ceiling" yaml:"neutral_ceiling" mapstructure:"neutral_ceiling"`
}

// JudgeConfig holds the consensus thresholds. Comparisons run on the raw
// floats; values are never rounded before the decision.
type JudgeConfig struct {
	MinSources           int     `json:"min_sources" yaml:"min_sources" mapstructure:"min_sources"`
	MinConsensusStrength float64 `json:"min_consensus_strength" yaml:"min_consensus_strength" mapstructure:"min_consensus_strength"`
	MinPoolCredibility   float64 `json:"min_pool_credibility" yaml:"min_pool_credibility" mapstructure:"min_pool_credibility"`
}

// SourcesConfig enables and points each evidence adapter
type SourcesConfig struct {
	WebSearch     SourceEndpoint `json:"web_search" yaml:"web_search" mapstructure:"web_search"`
	Statistics    SourceEndpoint `json:"statistics" yaml:"statistics" mapstructure:"statistics"`
	PrimaryDocs   SourceEndpoint `json:"primary_documents" yaml:"primary_documents" mapstructure:"primary_documents"`
	Bibliographic SourceEndpoint `json:"bibliographic" yaml:"bibliographic" mapstructure:"bibliographic"`
	KnowledgeBase SourceEndpoint `json:"knowledge_base" yaml:"knowledge_base" mapstructure:"knowledge_base"`
}

// SourceEndpoint configures one adapter's upstream API
type SourceEndpoint struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `json:"-" yaml:"-" mapstructure:"api_key"`
}

// CacheConfig controls the layered evidence cache
type CacheConfig struct {
	Enabled    bool                     `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Dir        string                   `json:"dir,omitempty" yaml:"dir,omitempty" mapstructure:"dir"` // Empty resolves to ~/.veridict/cache
	DefaultTTL time.Duration            `json:"default_ttl" yaml:"default_ttl" mapstructure:"default_ttl"`
	SourceTTL  map[string]time.Duration `json:"source_ttl" yaml:"source_ttl" mapstructure:"source_ttl"`
}

// TTLFor returns the cache TTL for a source, falling back to DefaultTTL
func (c CacheConfig) TTLFor(source string) time.Duration {
	if ttl, ok := c.SourceTTL[source]; ok {
		return ttl
	}
	return c.DefaultTTL
}

// HTTPConfig applies to every outbound request the pipeline makes
type HTTPConfig struct {
	UserAgent    string        `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
	Timeout      time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes int64         `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `json:"insecure_tls" yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `json:"no_proxy,omitempty" yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// RateLimitConfig bounds request rates per upstream host
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig bounds claim-level parallelism
type ConcurrencyConfig struct {
	ClaimWorkers int `json:"claim_workers" yaml:"claim_workers" mapstructure:"claim_workers"`
}

// EmbeddingsConfig enables semantic scoring in the initial ranking pass
type EmbeddingsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Model   string `json:"model" yaml:"model" mapstructure:"model"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey  string `json:"-" yaml:"-" mapstructure:"api_key"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults for every knob
func DefaultConfig() Config {
	return Config{
		Retrieval: RetrievalConfig{
			MaxSources:       10,
			OversampleFactor: 2,
			AdapterTimeout:   8 * time.Second,
			ClaimDeadline:    18 * time.Second,
			RerankStrategy:   "hybrid",
			EnrichTopN:       0,
			MinSnippetWords:  40,
		},
		Verify: VerifyConfig{
			Classifier:             "lexical",
			Model:                  "gpt-4o-mini",
			Timeout:                30,
			EntailmentThreshold:    0.40,
			ContradictionThreshold: 0.40,
			NeutralCeiling:         0.65,
		},
		Judge: JudgeConfig{
			MinSources:           3,
			MinConsensusStrength: 0.50,
			MinPoolCredibility:   0.60,
		},
		Sources: SourcesConfig{
			WebSearch:     SourceEndpoint{Enabled: true, BaseURL: "https://searx.be"},
			Statistics:    SourceEndpoint{Enabled: true, BaseURL: "https://search.worldbank.org/api/v3/wds"},
			PrimaryDocs:   SourceEndpoint{Enabled: true, BaseURL: "https://www.courtlistener.com"},
			Bibliographic: SourceEndpoint{Enabled: true, BaseURL: "https://openlibrary.org"},
			KnowledgeBase: SourceEndpoint{Enabled: true, BaseURL: "https://en.wikipedia.org"},
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Hour,
			SourceTTL: map[string]time.Duration{
				"web_search":        time.Hour,
				"statistics":        24 * time.Hour,
				"primary_documents": 14 * 24 * time.Hour,
				"bibliographic":     14 * 24 * time.Hour,
				"knowledge_base":    7 * 24 * time.Hour,
			},
		},
		HTTP: HTTPConfig{
			UserAgent:    "Veridict/0.1 (+https://github.com/veridict/veridict)",
			Timeout:      10 * time.Second,
			MaxBodyBytes: 2_000_000,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Concurrency: ConcurrencyConfig{
			ClaimWorkers: 6,
		},
		Embeddings: EmbeddingsConfig{
			Enabled: false,
			Model:   "text-embedding-3-small",
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
