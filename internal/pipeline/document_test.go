package pipeline

// Notes:
// - Render error branches are not forced: html.Render only fails when the
//   writer fails, which a bytes.Buffer never does.

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseDocument - Full documents vs fragments
// ---------------------------------------------------------------------------

func TestParseDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantFragment bool
	}{
		{name: "doctype", input: "<!DOCTYPE html><html><head></head><body></body></html>", wantFragment: false},
		{name: "lowercase doctype", input: "<!doctype html><p>x</p>", wantFragment: false},
		{name: "html root", input: "<html><body>x</body></html>", wantFragment: false},
		{name: "head first", input: "<head><link rel=\"stylesheet\" href=\"a.css\"></head>", wantFragment: false},
		{name: "leading whitespace", input: "\n\n  <!DOCTYPE html><p>x</p>", wantFragment: false},
		{name: "leading comment", input: "<!-- built -->\n<!DOCTYPE html><p>x</p>", wantFragment: false},
		{name: "byte order mark", input: "\uFEFF<!DOCTYPE html><p>x</p>", wantFragment: false},
		{name: "bare link", input: `<link rel="stylesheet" href="style.css">`, wantFragment: true},
		{name: "paragraph", input: "<p>hello</p>", wantFragment: true},
		{name: "unterminated comment", input: "<!-- oops", wantFragment: true},
		{name: "body after head content", input: `<meta charset="utf-8"><title>T</title><body class="dark"><p>hi</p></body>`, wantFragment: false},
		{name: "html after comment and text", input: "<p>x</p><html lang=\"en\">", wantFragment: false},
		{name: "uppercase body later", input: "<title>T</title><BODY>x</BODY>", wantFragment: false},
		{name: "header element", input: `<header><link rel="stylesheet" href="a.css"></header><p>x</p>`, wantFragment: true},
		{name: "bodyless custom tag", input: "<body-part>x</body-part>", wantFragment: true},
		{name: "htmlish text", input: "<p>use &lt;html&gt; wisely</p>", wantFragment: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := ParseDocument(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.IsFragment != tt.wantFragment {
				t.Errorf("IsFragment = %v, want %v", doc.IsFragment, tt.wantFragment)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDocument_Bytes - Serialization round trip
// ---------------------------------------------------------------------------

func TestDocument_Bytes(t *testing.T) {
	t.Parallel()

	t.Run("fragment renders without wrapper", func(t *testing.T) {
		t.Parallel()

		doc, err := ParseDocument(strings.NewReader("<p>hello</p><p>world</p>"))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		out, err := doc.Bytes()
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		got := string(out)
		if got != "<p>hello</p><p>world</p>" {
			t.Errorf("Bytes() = %q", got)
		}
		for _, tag := range []string{"<html>", "<head>", "<body>"} {
			if strings.Contains(got, tag) {
				t.Errorf("fragment output should not contain %s", tag)
			}
		}
	})

	t.Run("full document keeps structure", func(t *testing.T) {
		t.Parallel()

		input := "<!DOCTYPE html><html><head><title>T</title></head><body><p>x</p></body></html>"
		doc, err := ParseDocument(strings.NewReader(input))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		out, err := doc.Bytes()
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if string(out) != input {
			t.Errorf("Bytes() = %q, want %q", out, input)
		}
	})

	t.Run("body attributes survive leading head content", func(t *testing.T) {
		t.Parallel()

		input := `<meta charset="utf-8"><title>T</title><link rel="stylesheet" href="a.css"><body class="dark"><p>hi</p></body>`
		got := mustRender(t, mustParse(t, input))
		if !strings.Contains(got, `<body class="dark"><p>hi</p></body>`) {
			t.Errorf("body element lost: %q", got)
		}
		if !strings.Contains(got, `<title>T</title>`) {
			t.Errorf("title lost: %q", got)
		}
	})

	t.Run("header fragment renders without wrapper", func(t *testing.T) {
		t.Parallel()

		input := `<header><p>top</p></header><p>x</p>`
		got := mustRender(t, mustParse(t, input))
		if got != input {
			t.Errorf("Bytes() = %q, want %q", got, input)
		}
	})

	t.Run("rendering is deterministic", func(t *testing.T) {
		t.Parallel()

		input := `<!DOCTYPE html><html><head><link rel="stylesheet" href="a.css"></head><body></body></html>`
		first, _ := mustParse(t, input).Bytes()
		second, _ := mustParse(t, input).Bytes()
		if string(first) != string(second) {
			t.Errorf("renders differ:\n%s\n%s", first, second)
		}
	})
}

func mustParse(t *testing.T, input string) *Document {
	t.Helper()
	doc, err := ParseDocument(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func mustRender(t *testing.T, doc *Document) string {
	t.Helper()
	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}
