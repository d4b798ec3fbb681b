package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	cssinline "github.com/alnah/go-cssinline"
	"github.com/alnah/go-cssinline/internal/hints"
)

// Builder is the part of cssinline.Inliner the batch runner needs.
type Builder interface {
	Build(ctx context.Context, s cssinline.Settings) (*cssinline.BuildResult, error)
}

// Compile-time interface implementation check.
var _ Builder = (*cssinline.Inliner)(nil)

// pageResult holds the outcome of one page build.
type pageResult struct {
	Settings cssinline.Settings
	Result   *cssinline.BuildResult // nil when Err is set
	Err      error
}

// buildAll builds pages concurrently, at most jobs at a time. Results are
// returned in page order. A failing page does not stop the others.
func buildAll(ctx context.Context, b Builder, pages []cssinline.Settings, jobs int) []pageResult {
	results := make([]pageResult, len(pages))

	var g errgroup.Group
	g.SetLimit(max(jobs, 1))

	for i, page := range pages {
		g.Go(func() error {
			results[i].Settings = page
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result, results[i].Err = b.Build(ctx, page)
			return nil
		})
	}

	// Workers never return errors; failures are recorded per page.
	_ = g.Wait()
	return results
}

// resolveJobs determines the number of concurrent page builds.
// Priority: explicit flag > environment > GOMAXPROCS (adjusted by
// automaxprocs for containers). Never more than the number of pages.
func resolveJobs(flagJobs, envJobs, pages int) int {
	n := runtime.GOMAXPROCS(0)
	switch {
	case flagJobs > 0:
		n = flagJobs
	case envJobs > 0:
		n = envJobs
	}
	return max(min(n, pages), 1)
}

// printResults outputs build results and returns the number of failures.
func printResults(results []pageResult, common commonFlags, env *Environment) int {
	var succeeded, failed, remote int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Settings.HTMLInputFile, r.Err, hintFor(r.Err, ""))
			continue
		}

		succeeded++
		remote += r.Result.RemoteCount()
		if common.quiet {
			continue
		}

		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, %d inlined, %d skipped)\n",
				r.Result.InputPath, r.Result.OutputPath, r.Result.Duration.Round(time.Millisecond),
				r.Result.InlinedCount(), r.Result.SkippedCount())
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Result.OutputPath)
		}
	}

	if !common.quiet && remote > 0 {
		fmt.Fprintf(env.Stderr, "note: remote stylesheets are not fetched%s\n", hints.ForRemoteStylesheets(remote))
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}

// batchExitCode returns the exit code of the first failed page, or
// ExitSuccess when every page built.
func batchExitCode(results []pageResult) int {
	for _, r := range results {
		if r.Err != nil {
			return exitCodeFor(r.Err)
		}
	}
	return ExitSuccess
}
