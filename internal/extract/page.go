package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Page is the parsed markup of one word's thesaurus entry. It is an
// opaque handle: callers read it only through a Strategy.
type Page struct {
	Word string
	URL  string
	doc  *html.Node
}

// ParsePage parses raw HTML into a Page. html.Parse is error-tolerant,
// so malformed markup produces a best-effort tree; extraction on such a
// tree falls back to the absent-marker behavior (empty results).
func ParsePage(word, url, htmlContent string) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}
	return &Page{Word: word, URL: url, doc: doc}, nil
}
