package model

import (
	"runtime"
	"time"
)

// Config holds the complete runtime configuration for a lookup run.
// Everything a component needs is passed in explicitly; nothing is read
// from package-level state.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Lookup   LookupConfig   `yaml:"lookup"`
	Markers  MarkerConfig   `yaml:"markers"`
	Cache    CacheConfig    `yaml:"cache"`
	Fallback FallbackConfig `yaml:"fallback"`
	Output   OutputConfig   `yaml:"output"`
}

// HTTPConfig configures the thesaurus fetcher.
type HTTPConfig struct {
	BaseURL      string        `yaml:"base_url"`    // word lookups go to <base_url>/<word>
	Timeout      time.Duration `yaml:"timeout"`     // per-fetch timeout
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
}

// LookupConfig configures how lines are resolved.
type LookupConfig struct {
	Synonyms    int    `yaml:"synonyms"`    // synonyms wanted per line
	Sentences   int    `yaml:"sentences"`   // example sentences wanted per line
	Separators  string `yaml:"separators"`  // characters that split a line into variants
	Concurrency int    `yaml:"concurrency"` // worker count, 1 is sequential
}

// MarkerConfig names the structural markers of the thesaurus markup.
// These track the site's current class names and are data, not logic.
type MarkerConfig struct {
	SynonymClass  string `yaml:"synonym_class"`
	SentenceClass string `yaml:"sentence_class"`
}

// CacheConfig configures the in-run page cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// FallbackConfig configures the optional synonym fallback provider.
type FallbackConfig struct {
	Provider string `yaml:"provider,omitempty"` // "openai" or "" (disabled)
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"-"` // from environment, never persisted
	BaseURL  string `yaml:"base_url,omitempty"`
	Timeout  int    `yaml:"timeout,omitempty"` // seconds
}

// OutputConfig configures the result sink.
type OutputConfig struct {
	Path          string `yaml:"path"`
	IncludeHeader bool   `yaml:"include_header"`
	Verbose       bool   `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			BaseURL:      "https://www.thesaurus.com/browse",
			Timeout:      30 * time.Second,
			UserAgent:    "synsheet/0.1 (+https://github.com/synsheet/synsheet)",
			MaxBodyBytes: 2_000_000,
		},
		Lookup: LookupConfig{
			Synonyms:    3,
			Sentences:   1,
			Separators:  ",/",
			Concurrency: runtime.NumCPU(),
		},
		Markers: MarkerConfig{
			SynonymClass:  "css-1s9gh2j etbu2a30",
			SentenceClass: "css-79elbk e1dkhfa64",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Fallback: FallbackConfig{
			Timeout: 30,
		},
		Output: OutputConfig{
			Path:          "synonyms.csv",
			IncludeHeader: true,
		},
	}
}
