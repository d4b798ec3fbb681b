// Package config loads build settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-cssinline/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config file exceeds maximum size")
	ErrMissingField    = errors.New("missing required field")
	ErrAmbiguousConfig = errors.New("config mixes top-level settings with pages")
	ErrNoSettings      = errors.New("no build settings")
)

// DefaultName is the config name searched when none is given.
const DefaultName = "cssinline"

// appDirName is the directory under the user config dir holding named configs.
const appDirName = "go-cssinline"

// MaxFileSize limits config input to prevent memory exhaustion (1MB).
var MaxFileSize = 1 << 20

// Settings is one page to build. Field names follow the YAML keys.
type Settings struct {
	HTMLInputFile  string `yaml:"html_input_file"`
	OutputDir      string `yaml:"output_dir"`
	HTMLOutputFile string `yaml:"html_output_file"`
}

// IsZero reports whether no field is set.
func (s Settings) IsZero() bool {
	return s == Settings{}
}

// Validate checks that all three fields are present. prefix is prepended to
// the field name in errors (e.g. "pages[2].").
func (s Settings) Validate(prefix string) error {
	var missing []string
	if s.HTMLInputFile == "" {
		missing = append(missing, prefix+"html_input_file")
	}
	if s.OutputDir == "" {
		missing = append(missing, prefix+"output_dir")
	}
	if s.HTMLOutputFile == "" {
		missing = append(missing, prefix+"html_output_file")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// File is the on-disk config. Either the top-level settings or Pages is
// used, never both.
//
//	html_input_file: src/index.html
//	output_dir: dist
//	html_output_file: index.html
//
// or
//
//	pages:
//	  - html_input_file: src/index.html
//	    output_dir: dist
//	    html_output_file: index.html
type File struct {
	HTMLInputFile  string     `yaml:"html_input_file"`
	OutputDir      string     `yaml:"output_dir"`
	HTMLOutputFile string     `yaml:"html_output_file"`
	Pages          []Settings `yaml:"pages"`
}

// Single returns the top-level settings.
func (f *File) Single() Settings {
	return Settings{
		HTMLInputFile:  f.HTMLInputFile,
		OutputDir:      f.OutputDir,
		HTMLOutputFile: f.HTMLOutputFile,
	}
}

// Overrides holds values from flags or environment that take precedence
// over the file. Empty fields leave the file value alone.
type Overrides struct {
	HTMLInputFile  string
	OutputDir      string
	HTMLOutputFile string
}

// Apply merges o into f. OutputDir applies to every page; the input and
// output file only make sense for a single page.
func (o Overrides) Apply(f *File) error {
	if len(f.Pages) > 0 {
		if o.HTMLInputFile != "" || o.HTMLOutputFile != "" {
			return fmt.Errorf("%w: input and output file overrides need a single-page config", ErrAmbiguousConfig)
		}
		if o.OutputDir != "" {
			for i := range f.Pages {
				f.Pages[i].OutputDir = o.OutputDir
			}
		}
		return nil
	}

	if o.HTMLInputFile != "" {
		f.HTMLInputFile = o.HTMLInputFile
	}
	if o.OutputDir != "" {
		f.OutputDir = o.OutputDir
	}
	if o.HTMLOutputFile != "" {
		f.HTMLOutputFile = o.HTMLOutputFile
	}
	return nil
}

// Resolve validates f and returns the pages to build. Construction is all
// or nothing: one incomplete page fails the whole config.
func (f *File) Resolve() ([]Settings, error) {
	if len(f.Pages) > 0 {
		if !f.Single().IsZero() {
			return nil, ErrAmbiguousConfig
		}
		pages := make([]Settings, len(f.Pages))
		for i, p := range f.Pages {
			if err := p.Validate(fmt.Sprintf("pages[%d].", i)); err != nil {
				return nil, err
			}
			pages[i] = p
		}
		return pages, nil
	}

	single := f.Single()
	if single.IsZero() {
		return nil, ErrNoSettings
	}
	if err := single.Validate(""); err != nil {
		return nil, err
	}
	return []Settings{single}, nil
}

// Parse decodes YAML config content. Unknown keys are rejected so typos
// like "output_directory" surface immediately.
func Parse(data []byte) (*File, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxFileSize)
	}
	var f File
	if len(strings.TrimSpace(string(data))) == 0 {
		return &f, nil
	}
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return &f, nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*File, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return f, nil
}

// LoadDefault loads the DefaultName config if one exists in the standard
// locations. A missing default config yields an empty File, not an error.
func LoadDefault() (*File, error) {
	f, err := LoadConfig(DefaultName)
	if errors.Is(err, ErrConfigNotFound) {
		return &File{}, nil
	}
	return f, err
}

// SearchPaths lists, in order, where a config name is looked up:
// the current directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.IsRegularFile(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
