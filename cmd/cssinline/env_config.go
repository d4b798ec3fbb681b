package main

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/alnah/go-cssinline/internal/config"
)

// envPrefix marks the variables this program reads.
const envPrefix = "CSSINLINE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // CSSINLINE_CONFIG: config file name or path
	Input      string // CSSINLINE_INPUT: html_input_file
	OutputDir  string // CSSINLINE_OUTPUT_DIR: output_dir
	OutputFile string // CSSINLINE_OUTPUT_FILE: html_output_file
	Jobs       int    // CSSINLINE_JOBS: parallel page builds
}

// knownEnvVars lists valid CSSINLINE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CSSINLINE_CONFIG":      true,
	"CSSINLINE_INPUT":       true,
	"CSSINLINE_OUTPUT_DIR":  true,
	"CSSINLINE_OUTPUT_FILE": true,
	"CSSINLINE_JOBS":        true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid or non-positive CSSINLINE_JOBS values are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("CSSINLINE_CONFIG"),
		Input:      getenv("CSSINLINE_INPUT"),
		OutputDir:  getenv("CSSINLINE_OUTPUT_DIR"),
		OutputFile: getenv("CSSINLINE_OUTPUT_FILE"),
	}

	if jobs := getenv("CSSINLINE_JOBS"); jobs != "" {
		if n, err := strconv.Atoi(jobs); err == nil && n > 0 {
			cfg.Jobs = n
		}
	}

	return cfg
}

// overrides returns the settings overrides carried by the environment.
func (e *envConfig) overrides() config.Overrides {
	return config.Overrides{
		HTMLInputFile:  e.Input,
		OutputDir:      e.OutputDir,
		HTMLOutputFile: e.OutputFile,
	}
}

// warnUnknownEnvVars logs warnings for unrecognized CSSINLINE_* variables.
// Helps catch typos like CSSINLINE_OUTPUTDIR instead of CSSINLINE_OUTPUT_DIR.
func warnUnknownEnvVars(logger *slog.Logger, environ []string) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}
