package model

// LookupResult holds the synonyms and example sentences resolved for
// one input line. Synonyms are concatenated in variant order; sentences
// come only from the line's first variant. A result is created once by
// a single worker and never mutated afterwards.
type LookupResult struct {
	Line      string   `json:"line"`
	Synonyms  []string `json:"synonyms"`
	Sentences []string `json:"sentences"`
}
