package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Strategy extracts synonyms and example sentences from a fetched page.
// The markup markers live behind this interface so that a change in the
// site's structure touches one small component, never the resolver or
// the scheduler.
type Strategy interface {
	// Synonyms returns the text of up to n synonym entries in document
	// order, fewer if fewer exist, empty if the marker is absent.
	Synonyms(p *Page, n int) []string

	// Sentences returns up to n example sentences in document order,
	// empty if the sentence container is absent.
	Sentences(p *Page, n int) []string
}

// Markers identifies the structural markers of the thesaurus markup.
type Markers struct {
	SynonymClass  string // class attribute of each synonym entry
	SentenceClass string // class attribute of the example-sentences container
}

// MarkerExtractor locates entries by their exact class attribute value.
// The markers mirror the site's generated class names verbatim, which
// is why attribute equality is used instead of single-class matching.
type MarkerExtractor struct {
	markers Markers
}

// NewMarkerExtractor creates an extractor for the given markers.
func NewMarkerExtractor(markers Markers) *MarkerExtractor {
	return &MarkerExtractor{markers: markers}
}

// Synonyms returns the text of the first child of each of the first n
// synonym entries found. A page without the marker yields an empty
// result, never an error: "word has no synonyms" and "markup changed"
// are indistinguishable at this layer.
func (e *MarkerExtractor) Synonyms(p *Page, n int) []string {
	if p == nil || n <= 0 {
		return nil
	}

	var synonyms []string
	for _, node := range findAll(p.doc, func(node *html.Node) bool {
		return classAttr(node) == e.markers.SynonymClass
	}) {
		if len(synonyms) == n {
			break
		}
		synonyms = append(synonyms, firstChildText(node))
	}
	return synonyms
}

// Sentences returns the text of the first n paragraph children of the
// sentence container, or an empty result if the container is absent.
func (e *MarkerExtractor) Sentences(p *Page, n int) []string {
	if p == nil || n <= 0 {
		return nil
	}

	container := findFirst(p.doc, func(node *html.Node) bool {
		return classAttr(node) == e.markers.SentenceClass
	})
	if container == nil {
		return nil
	}

	var sentences []string
	for _, paragraph := range findAll(container, func(node *html.Node) bool {
		return node.Type == html.ElementNode && node.Data == "p"
	}) {
		if len(sentences) == n {
			break
		}
		sentences = append(sentences, nodeText(paragraph))
	}
	return sentences
}

// classAttr returns the trimmed class attribute of an element node.
func classAttr(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

// nodeText collects the concatenated text content of a node.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := nodeText(c); text != "" {
			if buf.Len() > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(text)
		}
	}
	return buf.String()
}

// firstChildText returns the text of the first child element of a node,
// falling back to the node's own text when it has no element children.
func firstChildText(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return nodeText(c)
		}
	}
	return nodeText(n)
}

// findAll returns all nodes matching the predicate, in document order.
func findAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

// findFirst returns the first node matching the predicate.
func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}
