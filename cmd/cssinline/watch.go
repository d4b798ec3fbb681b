package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	cssinline "github.com/alnah/go-cssinline"
	"github.com/alnah/go-cssinline/internal/hints"
	"github.com/alnah/go-cssinline/internal/watch"
)

// runWatchCommand parses watch flags and rebuilds until interrupted.
func runWatchCommand(args []string, env *Environment) int {
	flags, err := parseWatchFlags(args, env.Stderr)
	if err != nil {
		return flagExitCode(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return runWatch(ctx, flags, env)
}

// runWatch builds every page, then rebuilds the pages whose input or
// stylesheets change. It returns ExitSuccess when ctx is cancelled.
func runWatch(ctx context.Context, flags *watchFlags, env *Environment) int {
	common := flags.build.common
	logger := newLogger(env.Stderr, common.quiet, common.verbose)
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(logger, env.Environ())

	pages, err := loadPages(&flags.build, envCfg)
	if err != nil {
		reportError(env.Stderr, err, configName(&flags.build, envCfg))
		return exitCodeFor(err)
	}

	w, err := watch.New(flags.debounce, logger)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hints.ForWatchLimit())
		return ExitGeneral
	}
	defer w.Close()

	s := &watchSession{
		builder: cssinline.NewInliner(cssinline.WithLogger(logger)),
		watcher: w,
		logger:  logger,
		env:     env,
		common:  common,
		pages:   pages,
		jobs:    resolveJobs(flags.build.jobs, envCfg.Jobs, len(pages)),
		deps:    make([][]string, len(pages)),
	}

	s.rebuild(ctx, allIndices(len(pages)))
	logger.Info("watching for changes", "pages", len(pages), "dirs", len(w.WatchedDirs()))

	err = w.Run(ctx, func(ctx context.Context, changed []string) {
		indices := s.affected(changed)
		if len(indices) == 0 {
			return
		}
		logger.Info("rebuilding", "changed", changed, "pages", len(indices))
		s.rebuild(ctx, indices)
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ExitSuccess
	}
	reportError(env.Stderr, err, "")
	return exitCodeFor(err)
}

// watchSession tracks, for each page, the files its last build read.
type watchSession struct {
	builder Builder
	watcher *watch.Watcher
	logger  *slog.Logger
	env     *Environment
	common  commonFlags
	pages   []cssinline.Settings
	jobs    int
	deps    [][]string // absolute input and stylesheet paths per page
}

// rebuild builds the pages at indices, records their dependencies and
// refreshes the watched file set.
func (s *watchSession) rebuild(ctx context.Context, indices []int) {
	subset := make([]cssinline.Settings, len(indices))
	for i, idx := range indices {
		subset[i] = s.pages[idx]
	}

	results := buildAll(ctx, s.builder, subset, min(s.jobs, len(subset)))
	printResults(results, s.common, s.env)

	for i, idx := range indices {
		s.deps[idx] = pageDeps(results[i])
	}

	if err := s.watcher.SetFiles(s.allDeps()); err != nil {
		s.logger.Warn("some files cannot be watched", "error", err)
	}
}

// affected returns the indices of pages depending on any changed path.
func (s *watchSession) affected(changed []string) []int {
	var indices []int
	for i, deps := range s.deps {
		for _, c := range changed {
			if slices.Contains(deps, c) {
				indices = append(indices, i)
				break
			}
		}
	}
	return indices
}

// allDeps returns the union of every page's dependencies.
func (s *watchSession) allDeps() []string {
	var all []string
	for _, deps := range s.deps {
		for _, d := range deps {
			if !slices.Contains(all, d) {
				all = append(all, d)
			}
		}
	}
	return all
}

// pageDeps lists the files a page build depends on: its input document
// and every local stylesheet it referenced, found or not, so a stylesheet
// created later triggers a rebuild too.
func pageDeps(r pageResult) []string {
	deps := []string{absPath(r.Settings.HTMLInputFile)}
	if r.Result == nil {
		return deps
	}
	for _, p := range r.Result.StylesheetPaths() {
		deps = append(deps, absPath(p))
	}
	return deps
}

func allIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
