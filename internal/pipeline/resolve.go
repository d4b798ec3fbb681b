package pipeline

import (
	"path/filepath"
	"strings"
)

// ResolveCSSPath maps a stylesheet href onto the file system.
//
// A single leading "/" is stripped so root-relative hrefs resolve against
// docDir, the directory of the source document. The rest is joined as-is:
// no percent-decoding and no URL scheme handling. "https://cdn/x.css"
// therefore resolves to a path that does not exist, and the caller skips it.
func ResolveCSSPath(docDir, href string) string {
	rel := strings.TrimPrefix(href, "/")
	return filepath.Join(docDir, filepath.FromSlash(rel))
}
