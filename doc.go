// Package cssinline replaces external stylesheet links in an HTML document
// with inline <style> blocks.
//
// # Quick Start
//
// Build a document from disk:
//
//	in := cssinline.NewInliner()
//	result, err := in.Build(ctx, cssinline.Settings{
//	    HTMLInputFile:  "src/index.html",
//	    OutputDir:      "dist",
//	    HTMLOutputFile: "index.html",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("inlined %d stylesheet(s)\n", result.InlinedCount())
//
// Or transform HTML already in memory:
//
//	result, err := in.Inline(ctx, cssinline.Input{
//	    HTML:    page,
//	    BaseDir: "/srv/site",
//	})
//
// # Which links are inlined
//
// A <link> element is inlined when rel is exactly "stylesheet", href is not
// blank and href does not contain "?external". The href is resolved against
// the directory of the input document; a single leading "/" is dropped, so
// "/css/a.css" and "css/a.css" name the same file. The link is replaced by
// a <style> element, at the same position, holding the file's text as is.
//
// Remote URLs are never fetched. Links whose file is missing or unreadable
// stay in the document unchanged and are listed in Result.Links with the
// reason; they never make a build fail.
//
// # Opting out
//
// Append "?external" to keep a stylesheet as a link, e.g. for CDN assets:
//
//	<link rel="stylesheet" href="vendor/theme.css?external">
//
// # Logging
//
// Per-link diagnostics go to a log/slog logger configured with WithLogger.
// Without it, diagnostics are discarded.
package cssinline
