package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	cssinline "github.com/alnah/go-cssinline"
	"github.com/alnah/go-cssinline/internal/config"
	"github.com/alnah/go-cssinline/internal/hints"
)

// ErrDuplicateOutput is returned when two pages would write the same file.
var ErrDuplicateOutput = errors.New("pages share an output file")

// runBuildCommand parses build flags and runs a single build pass.
func runBuildCommand(args []string, env *Environment) int {
	flags, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		return flagExitCode(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return runBuild(ctx, flags, env)
}

// runBuild builds every configured page once and prints the outcome.
func runBuild(ctx context.Context, flags *buildFlags, env *Environment) int {
	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(logger, env.Environ())

	pages, err := loadPages(flags, envCfg)
	if err != nil {
		reportError(env.Stderr, err, configName(flags, envCfg))
		return exitCodeFor(err)
	}

	inliner := cssinline.NewInliner(cssinline.WithLogger(logger))
	results := buildAll(ctx, inliner, pages, resolveJobs(flags.jobs, envCfg.Jobs, len(pages)))
	printResults(results, flags.common, env)

	return batchExitCode(results)
}

// flagExitCode maps a flag parsing error to an exit code. Help requests
// succeed; everything else has already been reported by the flag set.
func flagExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	return ExitUsage
}

// configName returns the config requested by flag or environment, in
// that order, or "" for the default lookup.
func configName(flags *buildFlags, env *envConfig) string {
	if flags.common.config != "" {
		return flags.common.config
	}
	return env.ConfigPath
}

// loadPages resolves the pages to build.
// Priority: flags > environment > config file.
func loadPages(flags *buildFlags, env *envConfig) ([]cssinline.Settings, error) {
	var (
		file *config.File
		err  error
	)
	if name := configName(flags, env); name != "" {
		file, err = config.LoadConfig(name)
	} else {
		file, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if err := env.overrides().Apply(file); err != nil {
		return nil, err
	}
	if err := flags.overrides().Apply(file); err != nil {
		return nil, err
	}

	resolved, err := file.Resolve()
	if err != nil {
		return nil, err
	}

	pages := make([]cssinline.Settings, len(resolved))
	for i, s := range resolved {
		pages[i] = cssinline.Settings{
			HTMLInputFile:  s.HTMLInputFile,
			OutputDir:      s.OutputDir,
			HTMLOutputFile: s.HTMLOutputFile,
		}
	}

	if err := checkDuplicateOutputs(pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// checkDuplicateOutputs rejects configs where concurrent pages would race
// on one output file.
func checkDuplicateOutputs(pages []cssinline.Settings) error {
	seen := make(map[string]int, len(pages))
	for i, p := range pages {
		key := absPath(p.OutputPath())
		if j, ok := seen[key]; ok {
			return fmt.Errorf("%w: pages[%d] and pages[%d] both write %s", ErrDuplicateOutput, j, i, p.OutputPath())
		}
		seen[key] = i
	}
	return nil
}

// absPath returns the absolute form of p, or p cleaned if that fails.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// reportError prints err with a hint when one applies.
func reportError(w io.Writer, err error, cfgName string) {
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err, cfgName))
}

// hintFor returns an actionable hint suffix for err, or "".
func hintFor(err error, cfgName string) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		var searched []string
		if cfgName != "" && !strings.ContainsAny(cfgName, `/\`) {
			searched = config.SearchPaths(cfgName)
		}
		return hints.ForConfigNotFound(searched)
	case errors.Is(err, config.ErrNoSettings),
		errors.Is(err, config.ErrMissingField),
		errors.Is(err, cssinline.ErrMissingSetting):
		return hints.ForMissingSettings()
	case errors.Is(err, cssinline.ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}
