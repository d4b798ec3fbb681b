package cssinline

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/alnah/go-cssinline/internal/pipeline"
)

// ExternalMarker in a stylesheet href keeps the link external.
const ExternalMarker = pipeline.ExternalMarker

// Skip reasons reported in LinkResult.Reason.
const (
	ReasonOptedOut = string(pipeline.SkipOptedOut)
	ReasonNotFound = string(pipeline.SkipNotFound)
	ReasonRemote   = string(pipeline.SkipRemote)
)

// Settings describes one build: where the source document lives and where
// the transformed document goes. All three fields are required.
type Settings struct {
	HTMLInputFile  string // path to the source HTML
	OutputDir      string // directory prefix for the output
	HTMLOutputFile string // output path relative to OutputDir
}

// Validate checks that every field is set. It does not touch the file system.
func (s Settings) Validate() error {
	switch {
	case s.HTMLInputFile == "":
		return fmt.Errorf("%w: html_input_file", ErrMissingSetting)
	case s.OutputDir == "":
		return fmt.Errorf("%w: output_dir", ErrMissingSetting)
	case s.HTMLOutputFile == "":
		return fmt.Errorf("%w: html_output_file", ErrMissingSetting)
	}
	return nil
}

// OutputPath returns OutputDir joined with HTMLOutputFile.
func (s Settings) OutputPath() string {
	return filepath.Join(s.OutputDir, s.HTMLOutputFile)
}

// Input is an in-memory document to inline.
type Input struct {
	HTML    []byte // source document
	BaseDir string // directory hrefs are resolved against
}

// LinkResult is the outcome for one <link> element.
type LinkResult struct {
	Href    string // raw href value
	Path    string // resolved stylesheet path, empty if resolution was not reached
	Inlined bool   // replaced by a <style> block
	Reason  string // why the link was skipped, empty when inlined
	Err     error  // read error, if any
}

// Result is the transformed document and per-link outcomes in document order.
type Result struct {
	HTML  []byte
	Links []LinkResult
}

// InlinedCount returns the number of links replaced by <style> blocks.
func (r *Result) InlinedCount() int {
	n := 0
	for _, l := range r.Links {
		if l.Inlined {
			n++
		}
	}
	return n
}

// SkippedCount returns the number of links left untouched.
func (r *Result) SkippedCount() int {
	return len(r.Links) - r.InlinedCount()
}

// StylesheetPaths returns the resolved path of every local link that
// reached path resolution, inlined or not.
func (r *Result) StylesheetPaths() []string {
	var paths []string
	for _, l := range r.Links {
		if l.Path != "" && l.Reason != ReasonRemote {
			paths = append(paths, l.Path)
		}
	}
	return paths
}

// RemoteCount returns the number of links left alone because their href
// is a URL.
func (r *Result) RemoteCount() int {
	n := 0
	for _, l := range r.Links {
		if l.Reason == ReasonRemote {
			n++
		}
	}
	return n
}

// BuildResult is the outcome of Build.
type BuildResult struct {
	Result
	InputPath  string
	OutputPath string
	Duration   time.Duration
}

// CSSSource supplies stylesheet files to the inliner.
// The default reads the local file system.
type CSSSource interface {
	Exists(path string) bool
	ReadText(path string) (string, error)
}

// Option configures an Inliner.
type Option func(*Inliner)

// WithLogger sets the structured logger for per-link diagnostics.
// Panics if l is nil (programmer error).
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("cssinline: WithLogger logger must not be nil")
	}
	return func(in *Inliner) {
		in.logger = l
	}
}

// WithSource replaces the file system used to find and read stylesheets.
// Panics if src is nil (programmer error).
func WithSource(src CSSSource) Option {
	if src == nil {
		panic("cssinline: WithSource source must not be nil")
	}
	return func(in *Inliner) {
		in.source = src
	}
}

// discardLogger is used when no logger is configured.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
