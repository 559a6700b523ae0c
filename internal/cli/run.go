package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/synsheet/synsheet/internal/cache"
	"github.com/synsheet/synsheet/internal/export"
	"github.com/synsheet/synsheet/internal/extract"
	"github.com/synsheet/synsheet/internal/fallback"
	"github.com/synsheet/synsheet/internal/model"
	"github.com/synsheet/synsheet/internal/pipeline"
	"github.com/synsheet/synsheet/internal/wordlist"
	"github.com/synsheet/synsheet/internal/worker"
)

var (
	synonymsWanted   int
	sentencesWanted  int
	separators       string
	concurrency      int
	outputPath       string
	noHeader         bool
	timeout          time.Duration
	userAgent        string
	maxBytes         int64
	baseURL          string
	noCache          bool
	fallbackProvider string
	fallbackModel    string
	httpProxy        string
	httpsProxy       string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <words-file>",
	Short: "Look up every line of a words file and export the results",
	Long: `Run reads a word list (one entry per line), resolves every entry
concurrently against the thesaurus site, and writes the collected
synonyms and example sentences to a CSV file with the columns
word, synonym 1..K, sentence 1..L.

A line may hold several variants separated by comma or slash
("fast/quick"). Each variant requests round(K/variants) synonyms;
example sentences come from the first variant only. A failed line is
reported and left empty; it never aborts the batch.

Example:
  synsheet run words.txt
  synsheet run words.txt --synonyms 5 --sentences 2 --output sheet.csv
  synsheet run words.txt --concurrency 1 --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addLookupFlags(runCmd)

	runCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	runCmd.Flags().StringVar(&outputPath, "output", "synonyms.csv", "output CSV path")
	runCmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the header row from the CSV output")
}

// addLookupFlags registers the flags shared by run and lookup.
func addLookupFlags(cmd *cobra.Command) {
	defaults := model.DefaultConfig()

	cmd.Flags().IntVar(&synonymsWanted, "synonyms", defaults.Lookup.Synonyms, "synonyms wanted per line")
	cmd.Flags().IntVar(&sentencesWanted, "sentences", defaults.Lookup.Sentences, "example sentences wanted per line")
	cmd.Flags().StringVar(&separators, "separators", defaults.Lookup.Separators, "characters that split a line into variants")

	cmd.Flags().DurationVar(&timeout, "timeout", defaults.HTTP.Timeout, "per-fetch timeout")
	cmd.Flags().StringVar(&userAgent, "ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", defaults.HTTP.MaxBodyBytes, "max response bytes to read")
	cmd.Flags().StringVar(&baseURL, "base-url", defaults.HTTP.BaseURL, "thesaurus browse URL prefix")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the in-run page cache")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "proxy for http requests")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "proxy for https requests")

	cmd.Flags().StringVar(&fallbackProvider, "fallback", "", "synonym fallback provider for words with empty pages (openai)")
	cmd.Flags().StringVar(&fallbackModel, "fallback-model", "", "fallback model name")
}

// configKeys maps config-file keys to the flag that overrides each one.
var configKeys = map[string]string{
	"http.base_url":       "base-url",
	"http.timeout":        "timeout",
	"http.user_agent":     "ua",
	"http.max_body_bytes": "max-bytes",
	"http.http_proxy":     "http-proxy",
	"http.https_proxy":    "https-proxy",
	"lookup.synonyms":     "synonyms",
	"lookup.sentences":    "sentences",
	"lookup.separators":   "separators",
	"lookup.concurrency":  "concurrency",
	"fallback.provider":   "fallback",
	"fallback.model":      "fallback-model",
	"output.path":         "output",
}

// bindConfigKeys seeds viper with the built-in defaults and binds the
// flags cmd actually carries, so unchanged flags never shadow the
// environment or the config file.
func bindConfigKeys(cmd *cobra.Command) {
	defaults := model.DefaultConfig()
	v := viper.GetViper()

	v.SetDefault("http.base_url", defaults.HTTP.BaseURL)
	v.SetDefault("http.timeout", defaults.HTTP.Timeout)
	v.SetDefault("http.user_agent", defaults.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", defaults.HTTP.MaxBodyBytes)
	v.SetDefault("http.http_proxy", defaults.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", defaults.HTTP.HTTPSProxy)
	v.SetDefault("lookup.synonyms", defaults.Lookup.Synonyms)
	v.SetDefault("lookup.sentences", defaults.Lookup.Sentences)
	v.SetDefault("lookup.separators", defaults.Lookup.Separators)
	v.SetDefault("lookup.concurrency", defaults.Lookup.Concurrency)
	v.SetDefault("markers.synonym_class", defaults.Markers.SynonymClass)
	v.SetDefault("markers.sentence_class", defaults.Markers.SentenceClass)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("fallback.provider", defaults.Fallback.Provider)
	v.SetDefault("fallback.model", defaults.Fallback.Model)
	v.SetDefault("fallback.base_url", defaults.Fallback.BaseURL)
	v.SetDefault("fallback.timeout", defaults.Fallback.Timeout)
	v.SetDefault("output.path", defaults.Output.Path)
	v.SetDefault("output.include_header", defaults.Output.IncludeHeader)

	for key, name := range configKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			_ = v.BindPFlag(key, flag)
		}
	}
}

// buildConfig resolves the effective configuration for cmd through the
// full hierarchy: changed flags, then SYNSHEET_* environment variables,
// then the config file, then built-in defaults.
func buildConfig(cmd *cobra.Command) *model.Config {
	bindConfigKeys(cmd)
	v := viper.GetViper()

	cfg := model.DefaultConfig()

	cfg.HTTP.BaseURL = v.GetString("http.base_url")
	cfg.HTTP.Timeout = v.GetDuration("http.timeout")
	cfg.HTTP.UserAgent = v.GetString("http.user_agent")
	cfg.HTTP.MaxBodyBytes = v.GetInt64("http.max_body_bytes")
	cfg.HTTP.HTTPProxy = v.GetString("http.http_proxy")
	cfg.HTTP.HTTPSProxy = v.GetString("http.https_proxy")

	cfg.Lookup.Synonyms = v.GetInt("lookup.synonyms")
	cfg.Lookup.Sentences = v.GetInt("lookup.sentences")
	cfg.Lookup.Separators = v.GetString("lookup.separators")
	cfg.Lookup.Concurrency = v.GetInt("lookup.concurrency")

	cfg.Markers.SynonymClass = v.GetString("markers.synonym_class")
	cfg.Markers.SentenceClass = v.GetString("markers.sentence_class")

	cfg.Cache.Enabled = v.GetBool("cache.enabled")
	cfg.Cache.TTL = v.GetDuration("cache.ttl")

	cfg.Fallback.Provider = v.GetString("fallback.provider")
	cfg.Fallback.Model = v.GetString("fallback.model")
	cfg.Fallback.BaseURL = v.GetString("fallback.base_url")
	cfg.Fallback.Timeout = v.GetInt("fallback.timeout")

	cfg.Output.Path = v.GetString("output.path")
	cfg.Output.IncludeHeader = v.GetBool("output.include_header")
	cfg.Output.Verbose = verbose

	// The inverted switches have no config key of their own; a changed
	// flag wins over cache.enabled / output.include_header.
	if cmd.Flags().Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if cmd.Flags().Changed("no-header") {
		cfg.Output.IncludeHeader = !noHeader
	}

	return cfg
}

// newResolver wires the fetcher, extractor, and optional fallback
// provider for the given configuration.
func newResolver(cfg *model.Config) (*pipeline.Resolver, error) {
	var pageCache cache.Cache
	if cfg.Cache.Enabled {
		pageCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
	}

	fetcher := pipeline.NewFetcher(cfg.HTTP, pageCache, cfg.Cache.TTL)

	extractor := extract.NewMarkerExtractor(extract.Markers{
		SynonymClass:  cfg.Markers.SynonymClass,
		SentenceClass: cfg.Markers.SentenceClass,
	})

	fbConfig := fallback.DefaultConfig()
	fbConfig.Provider = cfg.Fallback.Provider
	fbConfig.Model = cfg.Fallback.Model
	fbConfig.BaseURL = cfg.Fallback.BaseURL
	if cfg.Fallback.Timeout > 0 {
		fbConfig.Timeout = cfg.Fallback.Timeout
	}
	if fbConfig.Provider != "" {
		fbConfig.APIKey = os.Getenv("OPENAI_API_KEY")
		if fbConfig.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	fb, err := fallback.NewProvider(fbConfig)
	if err != nil {
		return nil, err
	}

	return pipeline.NewResolver(fetcher, extractor, fb, cfg.Lookup), nil
}

func runRun(cmd *cobra.Command, args []string) error {
	wordsPath := args[0]

	// Fail before any network setup when the input is missing.
	if _, err := os.Stat(wordsPath); err != nil {
		return fmt.Errorf("words file %q does not exist: create a file with one word or phrase per line", wordsPath)
	}

	lines, err := wordlist.ReadLines(wordsPath)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("words file %q has no entries", wordsPath)
	}

	cfg := buildConfig(cmd)

	if verbose {
		fmt.Fprintf(os.Stderr, "Looking up %d lines\n", len(lines))
		fmt.Fprintf(os.Stderr, "Concurrency: %d\n", cfg.Lookup.Concurrency)
		fmt.Fprintf(os.Stderr, "Synonyms: %d, sentences: %d\n", cfg.Lookup.Synonyms, cfg.Lookup.Sentences)
		fmt.Fprintln(os.Stderr)
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(resolver, cfg.Lookup.Concurrency)
	results := processor.ResolveLines(context.Background(), lines)

	records := make([]model.LookupResult, len(results))
	failed := 0
	for i, result := range results {
		records[i] = result.Record
		if result.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Warning: %v\n", result.Err)
			continue
		}
		fmt.Printf("%d) %s - %s - %s\n", i+1, result.Line,
			strings.Join(result.Record.Synonyms, ", "),
			strings.Join(result.Record.Sentences, ", "))
	}

	if failed == len(results) {
		return fmt.Errorf("all %d lookups failed", failed)
	}

	writer := export.NewWriter(export.Options{
		Path:          cfg.Output.Path,
		Synonyms:      cfg.Lookup.Synonyms,
		Sentences:     cfg.Lookup.Sentences,
		IncludeHeader: cfg.Output.IncludeHeader,
	})
	if err := writer.WriteFile(records); err != nil {
		return err
	}

	fmt.Printf("The data was saved successfully to %s\n", cfg.Output.Path)
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d lines failed; their rows are empty\n", failed, len(results))
	}

	return nil
}
