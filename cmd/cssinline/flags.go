package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-cssinline/internal/config"
	"github.com/alnah/go-cssinline/internal/watch"
)

// maxJobs caps --jobs; page builds are I/O bound and short.
const maxJobs = 64

// Sentinel errors for flag validation.
var (
	ErrUnexpectedArgs = errors.New("unexpected arguments")
	ErrInvalidJobs    = errors.New("invalid jobs count")
	ErrInvalidDelay   = errors.New("invalid debounce delay")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common    commonFlags
	input     string
	outputDir string
	output    string
	jobs      int
}

// watchFlags holds build flags plus the rebuild debounce.
type watchFlags struct {
	build    buildFlags
	debounce time.Duration
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-link details")
}

// addBuildFlags adds settings and concurrency flags to a FlagSet.
func addBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	fs.StringVarP(&f.input, "input", "i", "", "source HTML file (html_input_file)")
	fs.StringVarP(&f.outputDir, "output-dir", "d", "", "output directory (output_dir)")
	fs.StringVarP(&f.output, "output", "o", "", "output file relative to output dir (html_output_file)")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "parallel page builds (0 = auto)")
	addCommonFlags(fs, &f.common)
}

// overrides returns the settings overrides carried by flags.
func (f *buildFlags) overrides() config.Overrides {
	return config.Overrides{
		HTMLInputFile:  f.input,
		OutputDir:      f.outputDir,
		HTMLOutputFile: f.output,
	}
}

// parseBuildFlags parses build command flags. Parse errors are reported
// on stderr by the flag set or here, so callers only map them to an exit code.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &buildFlags{}
	addBuildFlags(fs, f)
	fs.Usage = func() { printBuildUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := checkArgs(fs.Args(), f.jobs); err != nil {
		fmt.Fprintln(stderr, err)
		return nil, err
	}
	return f, nil
}

// parseWatchFlags parses watch command flags.
func parseWatchFlags(args []string, stderr io.Writer) (*watchFlags, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &watchFlags{}
	addBuildFlags(fs, &f.build)
	fs.DurationVar(&f.debounce, "debounce", watch.DefaultDebounce, "delay before rebuilding after a change")
	fs.Usage = func() { printWatchUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := checkArgs(fs.Args(), f.build.jobs); err != nil {
		fmt.Fprintln(stderr, err)
		return nil, err
	}
	if f.debounce <= 0 {
		err := fmt.Errorf("%w: %v (must be > 0)", ErrInvalidDelay, f.debounce)
		fmt.Fprintln(stderr, err)
		return nil, err
	}
	return f, nil
}

// checkArgs rejects positional arguments and out-of-range job counts.
func checkArgs(positional []string, jobs int) error {
	if len(positional) > 0 {
		return fmt.Errorf("%w: %s (use --input for the source file)", ErrUnexpectedArgs, strings.Join(positional, " "))
	}
	return validateJobs(jobs)
}

// validateJobs checks the --jobs value. Zero means auto.
func validateJobs(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidJobs, n)
	}
	if n > maxJobs {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidJobs, n, maxJobs)
	}
	return nil
}
