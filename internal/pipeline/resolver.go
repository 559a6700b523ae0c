package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/synsheet/synsheet/internal/extract"
	"github.com/synsheet/synsheet/internal/fallback"
	"github.com/synsheet/synsheet/internal/model"
	"github.com/synsheet/synsheet/internal/wordlist"
)

// Resolver turns one input line into a LookupResult.
type Resolver struct {
	fetcher   *Fetcher
	extractor extract.Strategy
	fallback  fallback.Provider // nil when disabled
	cfg       model.LookupConfig
}

// NewResolver creates a resolver. fb may be nil to disable the synonym
// fallback.
func NewResolver(fetcher *Fetcher, extractor extract.Strategy, fb fallback.Provider, cfg model.LookupConfig) *Resolver {
	return &Resolver{
		fetcher:   fetcher,
		extractor: extractor,
		fallback:  fb,
		cfg:       cfg,
	}
}

// Resolve splits the line into variants, fetches each one in order, and
// assembles the record.
//
// Every variant requests the same synonym budget, round(total/variants),
// so a multi-variant line can collect more than the configured total.
// That mirrors the upstream behavior and is preserved deliberately.
// Sentences come only from the first variant. A failed fetch for any
// variant fails the whole line.
func (r *Resolver) Resolve(ctx context.Context, line string) (model.LookupResult, error) {
	variants := wordlist.Split(line, r.cfg.Separators)
	budget := int(math.Round(float64(r.cfg.Synonyms) / float64(len(variants))))

	result := model.LookupResult{Line: line}
	for j, word := range variants {
		page, err := r.fetcher.Fetch(ctx, word)
		if err != nil {
			return model.LookupResult{}, fmt.Errorf("resolve %q: %w", line, err)
		}

		synonyms := r.extractor.Synonyms(page, budget)
		if len(synonyms) == 0 && budget > 0 && r.fallback != nil {
			synonyms = r.suggest(ctx, word, budget)
		}
		result.Synonyms = append(result.Synonyms, synonyms...)

		if j == 0 {
			result.Sentences = r.extractor.Sentences(page, r.cfg.Sentences)
		}
	}

	return result, nil
}

// suggest asks the fallback provider for synonyms. A provider failure
// degrades to an empty result with a warning; it never fails the line.
func (r *Resolver) suggest(ctx context.Context, word string, n int) []string {
	synonyms, err := r.fallback.Synonyms(ctx, word, n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s fallback for %q failed: %v\n", r.fallback.Name(), word, err)
		return nil
	}
	return synonyms
}
