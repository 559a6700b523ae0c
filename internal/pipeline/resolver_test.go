package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/synsheet/synsheet/internal/extract"
	"github.com/synsheet/synsheet/internal/model"
	"github.com/synsheet/synsheet/internal/worker"
)

const (
	synonymMarker  = "syn-entry"
	sentenceMarker = "sentence-box"
)

// wordPage holds the canned content served for one word.
type wordPage struct {
	synonyms  []string
	sentences []string
}

func renderPage(p wordPage) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, s := range p.synonyms {
		fmt.Fprintf(&b, `<div class="%s"><a>%s</a></div>`, synonymMarker, s)
	}
	if len(p.sentences) > 0 {
		fmt.Fprintf(&b, `<div class="%s">`, sentenceMarker)
		for _, s := range p.sentences {
			fmt.Fprintf(&b, "<p>%s</p>", s)
		}
		b.WriteString("</div>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

// thesaurusServer serves canned pages per word and 404s unknown words.
func thesaurusServer(t *testing.T, pages map[string]wordPage) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		word := strings.TrimPrefix(r.URL.Path, "/")
		page, found := pages[word]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, renderPage(page))
	}))
}

func newTestResolver(serverURL string, synonyms, sentences int) *Resolver {
	fetcher := NewFetcher(model.HTTPConfig{
		BaseURL:      serverURL,
		Timeout:      5 * time.Second,
		UserAgent:    "synsheet-test",
		MaxBodyBytes: 1 << 20,
	}, nil, 0)

	extractor := extract.NewMarkerExtractor(extract.Markers{
		SynonymClass:  synonymMarker,
		SentenceClass: sentenceMarker,
	})

	return NewResolver(fetcher, extractor, nil, model.LookupConfig{
		Synonyms:   synonyms,
		Sentences:  sentences,
		Separators: ",/",
	})
}

func TestResolve_SingleVariant(t *testing.T) {
	server := thesaurusServer(t, map[string]wordPage{
		"happy": {
			synonyms:  []string{"joyful", "cheerful", "glad"},
			sentences: []string{"She felt happy."},
		},
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 3, 1)
	result, err := resolver.Resolve(context.Background(), "happy")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := model.LookupResult{
		Line:      "happy",
		Synonyms:  []string{"joyful", "cheerful", "glad"},
		Sentences: []string{"She felt happy."},
	}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("expected %+v, got %+v", want, result)
	}
}

func TestResolve_TwoVariantsBudgetAndSentences(t *testing.T) {
	// Two variants with 3 synonyms wanted: each variant requests
	// round(3/2) = 2, so up to 4 synonyms can be collected. Sentences
	// come only from the first variant.
	server := thesaurusServer(t, map[string]wordPage{
		"fast": {
			synonyms:  []string{"quick", "speedy", "swift"},
			sentences: []string{"He ran fast."},
		},
		"quick": {
			synonyms:  []string{"fast", "rapid", "brisk"},
			sentences: []string{"A quick decision."},
		},
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 3, 1)
	result, err := resolver.Resolve(context.Background(), "fast/quick")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := model.LookupResult{
		Line:      "fast/quick",
		Synonyms:  []string{"quick", "speedy", "fast", "rapid"},
		Sentences: []string{"He ran fast."},
	}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("expected %+v, got %+v", want, result)
	}

	for _, sentence := range result.Sentences {
		if sentence == "A quick decision." {
			t.Error("sentence from a non-first variant leaked into the result")
		}
	}
}

func TestResolve_BudgetRoundsHalfAwayFromZero(t *testing.T) {
	// 5 synonyms over 2 variants: 2.5 rounds to 3 per variant, so up to
	// 6 synonyms can be collected.
	server := thesaurusServer(t, map[string]wordPage{
		"fast":  {synonyms: []string{"quick", "speedy", "swift", "fleet"}},
		"quick": {synonyms: []string{"fast", "rapid", "brisk", "nimble"}},
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 5, 0)
	result, err := resolver.Resolve(context.Background(), "fast/quick")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"quick", "speedy", "swift", "fast", "rapid", "brisk"}
	if !reflect.DeepEqual(result.Synonyms, want) {
		t.Errorf("expected %v, got %v", want, result.Synonyms)
	}
}

func TestResolve_AbsentSynonymMarkerIsNotAnError(t *testing.T) {
	server := thesaurusServer(t, map[string]wordPage{
		"xylograph": {}, // page exists, markers absent
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 3, 1)
	result, err := resolver.Resolve(context.Background(), "xylograph")
	if err != nil {
		t.Fatalf("expected no error for absent markers, got %v", err)
	}
	if len(result.Synonyms) != 0 || len(result.Sentences) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	server := thesaurusServer(t, map[string]wordPage{
		"happy": {
			synonyms:  []string{"joyful", "cheerful"},
			sentences: []string{"She felt happy."},
		},
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 3, 1)

	first, err := resolver.Resolve(context.Background(), "happy")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := resolver.Resolve(context.Background(), "happy")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestResolve_VariantFetchFailureFailsLine(t *testing.T) {
	server := thesaurusServer(t, map[string]wordPage{
		"fast": {synonyms: []string{"quick"}},
		// "quirk" is not served: the second variant 404s.
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 3, 1)
	_, err := resolver.Resolve(context.Background(), "fast/quirk")
	if err == nil {
		t.Fatal("expected error when a variant fetch fails, got nil")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError in chain, got %v", err)
	}
}

func TestResolve_EmptyVariantSurfaces(t *testing.T) {
	server := thesaurusServer(t, map[string]wordPage{
		"happy": {synonyms: []string{"joyful"}},
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 3, 1)
	_, err := resolver.Resolve(context.Background(), ",happy")
	if !errors.Is(err, ErrEmptyWord) {
		t.Fatalf("expected ErrEmptyWord for leading separator, got %v", err)
	}
}

// stubFallback returns fixed synonyms or an error.
type stubFallback struct {
	synonyms []string
	err      error
	calls    int
}

func (f *stubFallback) Name() string { return "stub" }

func (f *stubFallback) Synonyms(ctx context.Context, word string, n int) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.synonyms) > n {
		return f.synonyms[:n], nil
	}
	return f.synonyms, nil
}

func TestResolve_FallbackFillsEmptyPage(t *testing.T) {
	server := thesaurusServer(t, map[string]wordPage{
		"xylograph": {},
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 3, 0)
	fb := &stubFallback{synonyms: []string{"woodcut", "engraving"}}
	resolver.fallback = fb

	result, err := resolver.Resolve(context.Background(), "xylograph")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(result.Synonyms, []string{"woodcut", "engraving"}) {
		t.Errorf("expected fallback synonyms, got %v", result.Synonyms)
	}
}

func TestResolve_FallbackNotConsultedWhenPageHasSynonyms(t *testing.T) {
	server := thesaurusServer(t, map[string]wordPage{
		"happy": {synonyms: []string{"joyful"}},
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 3, 0)
	fb := &stubFallback{synonyms: []string{"should-not-appear"}}
	resolver.fallback = fb

	result, err := resolver.Resolve(context.Background(), "happy")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if fb.calls != 0 {
		t.Errorf("expected fallback untouched, got %d calls", fb.calls)
	}
	if !reflect.DeepEqual(result.Synonyms, []string{"joyful"}) {
		t.Errorf("expected page synonyms, got %v", result.Synonyms)
	}
}

func TestResolve_FallbackFailureDegradesToEmpty(t *testing.T) {
	server := thesaurusServer(t, map[string]wordPage{
		"xylograph": {},
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 3, 0)
	resolver.fallback = &stubFallback{err: errors.New("quota exceeded")}

	result, err := resolver.Resolve(context.Background(), "xylograph")
	if err != nil {
		t.Fatalf("expected fallback failure to be absorbed, got %v", err)
	}
	if len(result.Synonyms) != 0 {
		t.Errorf("expected no synonyms, got %v", result.Synonyms)
	}
}

func TestResolveAll_EndToEndScenario(t *testing.T) {
	server := thesaurusServer(t, map[string]wordPage{
		"happy": {
			synonyms:  []string{"joyful", "cheerful", "glad"},
			sentences: []string{"She felt happy."},
		},
		"fast": {
			synonyms:  []string{"quick", "speedy"},
			sentences: []string{"He ran fast."},
		},
		"quick": {
			synonyms: []string{"fast", "rapid"},
		},
	})
	defer server.Close()

	resolver := newTestResolver(server.URL, 3, 1)
	processor := worker.NewBatchProcessor(resolver, 4)

	lines := []string{"happy", "fast/quick"}
	results := processor.ResolveLines(context.Background(), lines)

	if len(results) != len(lines) {
		t.Fatalf("expected %d results, got %d", len(lines), len(results))
	}

	want := []model.LookupResult{
		{
			Line:      "happy",
			Synonyms:  []string{"joyful", "cheerful", "glad"},
			Sentences: []string{"She felt happy."},
		},
		{
			Line:      "fast/quick",
			Synonyms:  []string{"quick", "speedy", "fast", "rapid"},
			Sentences: []string{"He ran fast."},
		},
	}
	for i, result := range results {
		if result.Err != nil {
			t.Fatalf("slot %d: unexpected error %v", i, result.Err)
		}
		if !reflect.DeepEqual(result.Record, want[i]) {
			t.Errorf("slot %d: expected %+v, got %+v", i, want[i], result.Record)
		}
	}
}
