package cssinline

// Notes:
// - Build is tested against real temp directories; the link-level rules are
//   covered in internal/pipeline, here we check the driver contract: output
//   is complete or absent, stale output is removed, errors are classified.
// - ErrRender is not forced: rendering into a bytes.Buffer cannot fail.

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// writeFile creates path (and parents) with content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// newSite creates src/index.html with the given body and returns settings
// that write to dist/index.html.
func newSite(t *testing.T, html string) (string, Settings) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "index.html"), html)
	return root, Settings{
		HTMLInputFile:  filepath.Join(root, "src", "index.html"),
		OutputDir:      filepath.Join(root, "dist"),
		HTMLOutputFile: "index.html",
	}
}

// ---------------------------------------------------------------------------
// TestInliner_Inline - In-memory transformation
// ---------------------------------------------------------------------------

func TestInliner_Inline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "style.css"), "body{margin:0}")

	result, err := NewInliner().Inline(context.Background(), Input{
		HTML:    []byte(`<link rel="stylesheet" href="style.css"><link rel="stylesheet" href="gone.css">`),
		BaseDir: dir,
	})
	if err != nil {
		t.Fatalf("Inline() error: %v", err)
	}

	want := `<style>body{margin:0}</style><link rel="stylesheet" href="gone.css"/>`
	if string(result.HTML) != want {
		t.Errorf("HTML = %q, want %q", result.HTML, want)
	}
	if result.InlinedCount() != 1 || result.SkippedCount() != 1 {
		t.Errorf("inlined=%d skipped=%d, want 1/1", result.InlinedCount(), result.SkippedCount())
	}
	if result.Links[1].Reason == "" {
		t.Error("skipped link should carry a reason")
	}
	if got := len(result.StylesheetPaths()); got != 2 {
		t.Errorf("StylesheetPaths() has %d entries, want 2", got)
	}
}

func TestInliner_Inline_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewInliner().Inline(ctx, Input{HTML: []byte("<p>x</p>")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestInliner_Build - Full build scenarios
// ---------------------------------------------------------------------------

func TestInliner_Build(t *testing.T) {
	t.Parallel()

	t.Run("stylesheet next to input is inlined", func(t *testing.T) {
		t.Parallel()

		root, s := newSite(t, `<link rel="stylesheet" href="style.css">`)
		writeFile(t, filepath.Join(root, "src", "style.css"), "body{margin:0}")

		result, err := NewInliner().Build(context.Background(), s)
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}

		out := readFile(t, s.OutputPath())
		if !strings.Contains(out, "<style>body{margin:0}</style>") {
			t.Errorf("output missing style block: %q", out)
		}
		if strings.Contains(out, "<link") {
			t.Errorf("output still has a link: %q", out)
		}
		if result.OutputPath != s.OutputPath() {
			t.Errorf("OutputPath = %q, want %q", result.OutputPath, s.OutputPath())
		}
	})

	t.Run("external link kept alongside inlined one", func(t *testing.T) {
		t.Parallel()

		root, s := newSite(t, `<!DOCTYPE html><html><head>`+
			`<link rel="stylesheet" href="main.css">`+
			`<link rel="stylesheet" href="theme.css?external">`+
			`</head><body></body></html>`)
		writeFile(t, filepath.Join(root, "src", "main.css"), "main{}")
		writeFile(t, filepath.Join(root, "src", "theme.css"), "theme{}")

		if _, err := NewInliner().Build(context.Background(), s); err != nil {
			t.Fatalf("Build() error: %v", err)
		}

		out := readFile(t, s.OutputPath())
		want := `<!DOCTYPE html><html><head><style>main{}</style>` +
			`<link rel="stylesheet" href="theme.css?external"/></head><body></body></html>`
		if out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
	})

	t.Run("missing stylesheet still writes output and warns", func(t *testing.T) {
		t.Parallel()

		root, s := newSite(t, `<link rel="stylesheet" href="/missing.css"><link rel="stylesheet" href="/ok.css">`)
		writeFile(t, filepath.Join(root, "src", "ok.css"), "ok{}")

		var logs bytes.Buffer
		in := NewInliner(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

		result, err := in.Build(context.Background(), s)
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}

		out := readFile(t, s.OutputPath())
		want := `<link rel="stylesheet" href="/missing.css"/><style>ok{}</style>`
		if out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
		if result.SkippedCount() != 1 {
			t.Errorf("SkippedCount() = %d, want 1", result.SkippedCount())
		}
		if !strings.Contains(logs.String(), "level=WARN") || !strings.Contains(logs.String(), "missing.css") {
			t.Errorf("expected a warning about missing.css, got %q", logs.String())
		}
	})

	t.Run("second run is byte identical", func(t *testing.T) {
		t.Parallel()

		root, s := newSite(t, `<!DOCTYPE html><html><head><link rel="stylesheet" href="a.css"></head><body><p>x</p></body></html>`)
		writeFile(t, filepath.Join(root, "src", "a.css"), "a{}")

		in := NewInliner()
		if _, err := in.Build(context.Background(), s); err != nil {
			t.Fatalf("first Build() error: %v", err)
		}
		first := readFile(t, s.OutputPath())

		if _, err := in.Build(context.Background(), s); err != nil {
			t.Fatalf("second Build() error: %v", err)
		}
		second := readFile(t, s.OutputPath())

		if first != second {
			t.Errorf("outputs differ:\n%s\n%s", first, second)
		}
	})

	t.Run("nested output path creates directories", func(t *testing.T) {
		t.Parallel()

		_, s := newSite(t, "<p>x</p>")
		s.HTMLOutputFile = filepath.Join("about", "deep", "index.html")

		if _, err := NewInliner().Build(context.Background(), s); err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		if got := readFile(t, s.OutputPath()); got != "<p>x</p>" {
			t.Errorf("output = %q", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestInliner_Build_Errors - Fatal conditions
// ---------------------------------------------------------------------------

func TestInliner_Build_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing input removes stale output", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := Settings{
			HTMLInputFile:  filepath.Join(root, "nope.html"),
			OutputDir:      filepath.Join(root, "dist"),
			HTMLOutputFile: "index.html",
		}
		writeFile(t, s.OutputPath(), "stale")

		_, err := NewInliner().Build(context.Background(), s)
		if !errors.Is(err, ErrReadInput) {
			t.Errorf("expected ErrReadInput, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist in chain, got %v", err)
		}
		if _, statErr := os.Stat(s.OutputPath()); !errors.Is(statErr, os.ErrNotExist) {
			t.Errorf("stale output should be removed, stat err = %v", statErr)
		}
	})

	t.Run("invalid settings", func(t *testing.T) {
		t.Parallel()

		_, err := NewInliner().Build(context.Background(), Settings{HTMLInputFile: "a.html"})
		if !errors.Is(err, ErrMissingSetting) {
			t.Errorf("expected ErrMissingSetting, got %v", err)
		}
	})

	t.Run("output equals input", func(t *testing.T) {
		t.Parallel()

		root, s := newSite(t, "<p>x</p>")
		s.OutputDir = filepath.Join(root, "src")

		_, err := NewInliner().Build(context.Background(), s)
		if !errors.Is(err, ErrOutputIsInput) {
			t.Errorf("expected ErrOutputIsInput, got %v", err)
		}
		if got := readFile(t, s.HTMLInputFile); got != "<p>x</p>" {
			t.Errorf("input was modified: %q", got)
		}
	})

	t.Run("output dir blocked by file", func(t *testing.T) {
		t.Parallel()

		root, s := newSite(t, "<p>x</p>")
		writeFile(t, filepath.Join(root, "blocker"), "x")
		s.OutputDir = filepath.Join(root, "blocker", "dist")

		_, err := NewInliner().Build(context.Background(), s)
		if !errors.Is(err, ErrCreateOutputDir) {
			t.Errorf("expected ErrCreateOutputDir, got %v", err)
		}
	})

	t.Run("output path is a directory", func(t *testing.T) {
		t.Parallel()

		_, s := newSite(t, "<p>x</p>")
		if err := os.MkdirAll(s.OutputPath(), 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := NewInliner().Build(context.Background(), s)
		if !errors.Is(err, ErrRemoveOutput) {
			t.Errorf("expected ErrRemoveOutput, got %v", err)
		}
	})

	t.Run("unwritable output dir", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission checks are bypassed on windows and for root")
		}

		_, s := newSite(t, "<p>x</p>")
		if err := os.MkdirAll(s.OutputDir, 0o555); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Cleanup(func() { _ = os.Chmod(s.OutputDir, 0o755) })

		_, err := NewInliner().Build(context.Background(), s)
		if !errors.Is(err, ErrWriteOutput) {
			t.Errorf("expected ErrWriteOutput, got %v", err)
		}
	})

	t.Run("cancelled context writes nothing", func(t *testing.T) {
		t.Parallel()

		_, s := newSite(t, "<p>x</p>")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewInliner().Build(ctx, s)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if _, statErr := os.Stat(s.OutputPath()); !errors.Is(statErr, os.ErrNotExist) {
			t.Errorf("output should not exist, stat err = %v", statErr)
		}
	})
}
