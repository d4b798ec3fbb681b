package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-cssinline/internal/fileutil"
)

// SkipReason explains why a <link> element was left untouched.
type SkipReason string

// Skip reasons, one per recoverable per-element condition.
const (
	SkipMissingAttr   SkipReason = "missing rel or href attribute"
	SkipNotStylesheet SkipReason = "rel is not stylesheet"
	SkipEmptyHref     SkipReason = "empty href"
	SkipOptedOut      SkipReason = "href marked " + ExternalMarker
	SkipNotFound      SkipReason = "stylesheet file not found"
	SkipRemote        SkipReason = "remote stylesheet is not fetched"
	SkipUnreadable    SkipReason = "stylesheet file unreadable"
	SkipDetached      SkipReason = "link element has no parent"
)

// LinkResult is the outcome for one <link> element.
type LinkResult struct {
	Href    string     // raw href value, empty when absent
	Path    string     // resolved file path, empty when resolution was not reached
	Inlined bool       // true when the link was replaced by a <style> element
	Reason  SkipReason // set when Inlined is false
	Err     error      // read error for SkipUnreadable
}

// Report lists the outcome of every <link> element in document order.
type Report struct {
	Links []LinkResult
}

// InlinedCount returns the number of links replaced by <style> blocks.
func (r *Report) InlinedCount() int {
	n := 0
	for _, l := range r.Links {
		if l.Inlined {
			n++
		}
	}
	return n
}

// SkippedCount returns the number of links left untouched.
func (r *Report) SkippedCount() int {
	return len(r.Links) - r.InlinedCount()
}

// ResolvedPaths returns every resolved local stylesheet path, inlined or
// not, in document order. Remote hrefs are left out.
func (r *Report) ResolvedPaths() []string {
	var paths []string
	for _, l := range r.Links {
		if l.Path != "" && l.Reason != SkipRemote {
			paths = append(paths, l.Path)
		}
	}
	return paths
}

// CSSSource is the file system view the inliner needs.
type CSSSource interface {
	Exists(path string) bool
	ReadText(path string) (string, error)
}

// DiskSource reads stylesheets from the local file system.
type DiskSource struct{}

// Exists reports whether path is an existing regular file.
func (DiskSource) Exists(path string) bool { return fileutil.IsRegularFile(path) }

// ReadText reads path as UTF-8 text.
func (DiskSource) ReadText(path string) (string, error) { return fileutil.ReadText(path) }

// Inliner replaces stylesheet links with <style> blocks.
type Inliner struct {
	source CSSSource
	logger *slog.Logger
}

// NewInliner creates an Inliner. A nil source reads from disk; a nil logger
// discards diagnostics.
func NewInliner(source CSSSource, logger *slog.Logger) *Inliner {
	if source == nil {
		source = DiskSource{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Inliner{source: source, logger: logger}
}

// Inline processes every <link> element of doc, resolving hrefs against
// docDir. Links are mutated last to first, so replacing one element never
// disturbs a link that has not been visited yet.
//
// Per-element problems are logged and recorded in the Report; only a scan
// failure or context cancellation returns an error.
func (in *Inliner) Inline(ctx context.Context, doc *Document, docDir string) (*Report, error) {
	refs, err := ScanLinks(doc)
	if err != nil {
		return nil, fmt.Errorf("scanning links: %w", err)
	}

	report := &Report{Links: make([]LinkResult, len(refs))}
	for i := len(refs) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Links[i] = in.inlineLink(refs[i], docDir)
	}

	in.logger.Debug("inlining finished",
		"links", len(refs),
		"inlined", report.InlinedCount(),
		"skipped", report.SkippedCount(),
	)

	return report, nil
}

// inlineLink checks, resolves, reads and replaces a single link. Every
// early return leaves the element exactly as parsed.
func (in *Inliner) inlineLink(ref LinkRef, docDir string) LinkResult {
	rel, hasRel := ref.Rel()
	href, hasHref := ref.Href()
	result := LinkResult{Href: href}

	if !hasRel || !hasHref {
		in.logger.Warn("skipping link", "reason", SkipMissingAttr, "has_rel", hasRel, "has_href", hasHref, "href", href)
		return skip(result, SkipMissingAttr)
	}

	switch {
	case rel != relStylesheet:
		in.logger.Debug("skipping link", "reason", SkipNotStylesheet, "rel", rel, "href", href)
		return skip(result, SkipNotStylesheet)
	case strings.TrimSpace(href) == "":
		in.logger.Warn("skipping link", "reason", SkipEmptyHref)
		return skip(result, SkipEmptyHref)
	case IsOptedOut(href):
		in.logger.Info("keeping external stylesheet", "href", href)
		return skip(result, SkipOptedOut)
	}

	result.Path = ResolveCSSPath(docDir, strings.TrimSpace(href))

	if !in.source.Exists(result.Path) {
		reason := SkipNotFound
		if fileutil.IsURL(strings.TrimSpace(href)) {
			reason = SkipRemote
		}
		in.logger.Warn("skipping link", "reason", reason, "href", href, "path", result.Path)
		return skip(result, reason)
	}

	css, err := in.source.ReadText(result.Path)
	if err != nil {
		in.logger.Warn("skipping link", "reason", SkipUnreadable, "path", result.Path, "error", err)
		result.Err = err
		return skip(result, SkipUnreadable)
	}

	parent := ref.Node.Parent
	if parent == nil {
		in.logger.Warn("skipping link", "reason", SkipDetached, "href", href)
		return skip(result, SkipDetached)
	}

	parent.InsertBefore(newStyleNode(ref, css), ref.Node)
	parent.RemoveChild(ref.Node)

	in.logger.Debug("inlined stylesheet", "href", href, "path", result.Path, "bytes", len(css))
	result.Inlined = true
	return result
}

func skip(r LinkResult, reason SkipReason) LinkResult {
	r.Reason = reason
	return r
}

// newStyleNode builds <style>css</style>. The media attribute of the link,
// if any, is carried over so print and screen sheets stay scoped.
func newStyleNode(ref LinkRef, css string) *html.Node {
	style := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Style,
		Data:     "style",
	}
	if media, ok := ref.Attr("media"); ok && media != "" {
		style.Attr = []html.Attribute{{Key: "media", Val: media}}
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	return style
}
