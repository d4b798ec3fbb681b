package pipeline

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML tree ready for mutation.
// Fragments (input without a doctype or any <html>, <head> or <body> tag)
// are parsed in a body context and rendered back without the implied
// <html><head><body> wrapper.
type Document struct {
	Root       *html.Node
	IsFragment bool
}

// ParseDocument parses HTML content, handling both full documents and fragments.
func ParseDocument(r io.Reader) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if isFullDocument(content) {
		root, err := html.Parse(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		return &Document{Root: root}, nil
	}

	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(bytes.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	// Wrap nodes in a container for uniform traversal
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return &Document{Root: container, IsFragment: true}, nil
}

// isFullDocument reports whether content starts (after whitespace, a BOM
// and leading comments) with <!DOCTYPE, or contains an <html>, <head> or
// <body> tag anywhere. Fragment parsing would drop those tags and their
// attributes.
func isFullDocument(content []byte) bool {
	s := strings.TrimPrefix(string(content), "\uFEFF")
	for {
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, "<!--") {
			break
		}
		end := strings.Index(s, "-->")
		if end == -1 {
			return false
		}
		s = s[end+len("-->"):]
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "<!doctype") {
		return true
	}
	for _, name := range []string{"html", "head", "body"} {
		if containsTag(lower, name) {
			return true
		}
	}
	return false
}

// containsTag reports whether s holds an opening tag named name. The name
// must end at a delimiter so "<head" does not match "<header>".
func containsTag(s, name string) bool {
	open := "<" + name
	for {
		i := strings.Index(s, open)
		if i == -1 {
			return false
		}
		rest := s[i+len(open):]
		if rest == "" || strings.IndexByte(">/ \t\n\r\f", rest[0]) >= 0 {
			return true
		}
		s = rest
	}
}

// Render serializes the document. Fragments render their top-level nodes only.
func (d *Document) Render(w io.Writer) error {
	if d.IsFragment {
		for c := d.Root.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(w, c); err != nil {
				return err
			}
		}
		return nil
	}
	return html.Render(w, d.Root)
}

// Bytes renders the document into a byte slice.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
