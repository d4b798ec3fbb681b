package cssinline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-cssinline/internal/fileutil"
	"github.com/alnah/go-cssinline/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.CSSSource = pipeline.DiskSource{}
	_ CSSSource          = pipeline.DiskSource{}
)

// Inliner replaces external stylesheet links with inline <style> blocks.
// It holds no per-document state and is safe for concurrent use as long as
// its CSSSource is.
type Inliner struct {
	logger *slog.Logger
	source CSSSource
}

// NewInliner creates an Inliner reading stylesheets from disk.
// Use options to customize behavior (e.g., WithLogger, WithSource).
func NewInliner(opts ...Option) *Inliner {
	in := &Inliner{
		logger: discardLogger(),
		source: pipeline.DiskSource{},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Inline parses input.HTML, replaces every actionable stylesheet link with
// the content of its file (resolved against input.BaseDir) and renders the
// document. Links that cannot be inlined are left as they were and reported
// in Result.Links; they never make Inline fail.
func (in *Inliner) Inline(ctx context.Context, input Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := pipeline.ParseDocument(bytes.NewReader(input.HTML))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseHTML, err)
	}

	report, err := pipeline.NewInliner(in.source, in.logger).Inline(ctx, doc, input.BaseDir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrScan, err)
	}

	out, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	return &Result{HTML: out, Links: toLinkResults(report)}, nil
}

// Build runs one full build described by s:
//
//  1. create the output directory
//  2. remove a previous output file, so a failed run never leaves stale output
//  3. read and inline the input document
//  4. write the result atomically
//
// Any error aborts the build before step 4, so the output file either holds
// the complete transformed document or does not exist.
func (in *Inliner) Build(ctx context.Context, s Settings) (*BuildResult, error) {
	start := time.Now()

	if err := s.Validate(); err != nil {
		return nil, err
	}

	outputPath := s.OutputPath()
	if samePath(s.HTMLInputFile, outputPath) {
		return nil, fmt.Errorf("%w: %s", ErrOutputIsInput, outputPath)
	}

	if err := fileutil.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputDir, err)
	}

	if err := fileutil.RemoveIfExists(outputPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRemoveOutput, outputPath, err)
	}

	content, err := os.ReadFile(s.HTMLInputFile) // #nosec G304 -- input path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	result, err := in.Inline(ctx, Input{
		HTML:    content,
		BaseDir: filepath.Dir(s.HTMLInputFile),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.HTMLInputFile, err)
	}

	if err := fileutil.WriteFileAtomic(outputPath, result.HTML); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	in.logger.Info("built document",
		"input", s.HTMLInputFile,
		"output", outputPath,
		"inlined", result.InlinedCount(),
		"skipped", result.SkippedCount(),
	)

	return &BuildResult{
		Result:     *result,
		InputPath:  s.HTMLInputFile,
		OutputPath: outputPath,
		Duration:   time.Since(start),
	}, nil
}

func toLinkResults(report *pipeline.Report) []LinkResult {
	links := make([]LinkResult, len(report.Links))
	for i, l := range report.Links {
		links[i] = LinkResult{
			Href:    l.Href,
			Path:    l.Path,
			Inlined: l.Inlined,
			Reason:  string(l.Reason),
			Err:     l.Err,
		}
	}
	return links
}

// samePath reports whether a and b name the same file, comparing absolute
// cleaned paths and, when both exist, file identity.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
