package pipeline

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoDocument is returned when scanning a nil or empty document.
var ErrNoDocument = errors.New("no document to scan")

// ExternalMarker in an href opts a stylesheet out of inlining.
const ExternalMarker = "?external"

// relStylesheet is the only rel value that is inlined (exact match).
const relStylesheet = "stylesheet"

// LinkRef is a view onto one <link> element of a Document.
type LinkRef struct {
	Node *html.Node
}

// Attr returns the value of the named attribute and whether it is present.
// Namespaced attributes (xlink:href and friends) never match.
func (l LinkRef) Attr(key string) (string, bool) {
	for _, a := range l.Node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Rel returns the rel attribute.
func (l LinkRef) Rel() (string, bool) { return l.Attr("rel") }

// Href returns the href attribute.
func (l LinkRef) Href() (string, bool) { return l.Attr("href") }

// IsActionable reports whether the link is eligible for inlining: rel is
// exactly "stylesheet", href is non-blank and href does not carry the
// ExternalMarker opt-out.
func (l LinkRef) IsActionable() bool {
	rel, ok := l.Rel()
	if !ok || rel != relStylesheet {
		return false
	}
	href, ok := l.Href()
	if !ok || strings.TrimSpace(href) == "" {
		return false
	}
	return !IsOptedOut(href)
}

// IsOptedOut reports whether href carries the ExternalMarker.
func IsOptedOut(href string) bool {
	return strings.Contains(href, ExternalMarker)
}

// ScanLinks returns every <link> element of doc in document order
// (depth-first, left to right). The slice is a snapshot: mutating the tree
// afterwards does not change it.
func ScanLinks(doc *Document) ([]LinkRef, error) {
	if doc == nil || doc.Root == nil {
		return nil, ErrNoDocument
	}
	var refs []LinkRef
	collectLinks(doc.Root, &refs)
	return refs, nil
}

func collectLinks(n *html.Node, refs *[]LinkRef) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Link && n.Namespace == "" {
		*refs = append(*refs, LinkRef{Node: n})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLinks(c, refs)
	}
}
