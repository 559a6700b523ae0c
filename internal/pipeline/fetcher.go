package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/synsheet/synsheet/internal/cache"
	"github.com/synsheet/synsheet/internal/extract"
	"github.com/synsheet/synsheet/internal/model"
	"github.com/synsheet/synsheet/internal/util"
)

// ErrEmptyWord marks a word variant that came out of splitting empty.
// Its lookup URL would be the bare browse page, so the variant is
// rejected before any request goes out.
var ErrEmptyWord = errors.New("empty word variant")

// FetchError reports a failed word lookup: a transport failure, a
// timeout, or a non-2xx response. One fetch is one attempt; there is no
// retry.
type FetchError struct {
	Word       string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %q: %v", e.Word, e.Err)
	}
	return fmt.Sprintf("fetch %q: unexpected status %d", e.Word, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves and parses the thesaurus page for a single word.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxBytes   int64
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// NewFetcher creates a Fetcher. pageCache may be nil to disable the
// in-run page cache; cacheTTL <= 0 leaves the TTL to the cache.
func NewFetcher(cfg model.HTTPConfig, pageCache cache.Cache, cacheTTL time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		cache:     pageCache,
		cacheTTL:  cacheTTL,
	}
}

// LookupURL returns the browse URL for a word.
func (f *Fetcher) LookupURL(word string) string {
	return f.baseURL + "/" + url.PathEscape(word)
}

// Fetch performs one GET for the word and parses the response body.
// A transport failure, timeout expiry, or non-2xx status surfaces as a
// *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, word string) (*extract.Page, error) {
	if strings.TrimSpace(word) == "" {
		return nil, ErrEmptyWord
	}

	lookupURL := f.LookupURL(word)

	if f.cache != nil {
		if body, found := f.cache.Get(lookupURL); found {
			return extract.ParsePage(word, lookupURL, string(body))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, &FetchError{Word: word, URL: lookupURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Word: word, URL: lookupURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Word: word, URL: lookupURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, &FetchError{Word: word, URL: lookupURL, Err: fmt.Errorf("read body: %w", err)}
	}

	if f.cache != nil {
		_ = f.cache.Set(lookupURL, body, f.cacheTTL)
	}

	return extract.ParsePage(word, lookupURL, string(body))
}
