// Package pipeline implements the stylesheet inlining engine.
//
// The stages are:
//   - ParseDocument: HTML bytes to a mutable tree (golang.org/x/net/html)
//   - ScanLinks: every <link> element, in document order
//   - ResolveCSSPath: href to an on-disk path relative to the document
//   - Inliner.Inline: replace each actionable link with a <style> block
//   - Document.Render: tree back to HTML bytes
//
// A link is actionable when rel is exactly "stylesheet", href is non-blank
// and href does not contain "?external". Links that are not actionable, or
// whose file is missing or unreadable, stay in the tree untouched. Remote
// URLs are never fetched.
//
// Writing the result, creating directories and loading settings belong to
// the root cssinline package and the CLI.
package pipeline
