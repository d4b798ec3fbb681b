// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"runtime"
	"strings"
)

// GOOS is the target OS used to tailor hints. Tests override it.
var GOOS = runtime.GOOS

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating the file in the first user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(toSlash(p), "go-cssinline/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMissingSettings returns hints for incomplete build settings.
func ForMissingSettings() string {
	return format("set html_input_file, output_dir and html_output_file in cssinline.yaml, " +
		"or pass --input, --output-dir and --output")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForRemoteStylesheets returns a hint when remote stylesheets were skipped.
func ForRemoteStylesheets(count int) string {
	if count == 0 {
		return ""
	}
	return format(fmt.Sprintf("%d remote stylesheet(s) left as links; append ?external to silence the warning", count))
}

// ForWatchLimit returns hints for file watcher setup failures.
func ForWatchLimit() string {
	if GOOS == "linux" {
		return format("raise fs.inotify.max_user_watches or watch fewer directories")
	}
	return format("check the watched directories exist and are readable")
}

// toSlash normalizes separators so Windows paths match the same checks.
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
