package toggle

import "strings"

// Dialect is the comment-start/comment-end token pair that wraps tags in
// one kind of source file. End is empty for line-comment dialects.
type Dialect struct {
	Name  string
	Start string
	End   string
}

// lineComment reports whether tags in this dialect end at the end of line.
func (d *Dialect) lineComment() bool {
	return d.End == ""
}

var (
	cssDialect  = Dialect{Name: "css", Start: "/*", End: "*/"}
	htmlDialect = Dialect{Name: "html", Start: "<!--", End: "-->"}
	jsDialect   = Dialect{Name: "js", Start: "//", End: ""}
)

var dialectsByExt = map[string]Dialect{
	".css":  cssDialect,
	".html": htmlDialect,
	".htm":  htmlDialect,
	".js":   jsDialect,
	".mjs":  jsDialect,
	".cjs":  jsDialect,
	".jsx":  jsDialect,
	".ts":   jsDialect,
	".tsx":  jsDialect,
}

// DialectFor returns the comment dialect for a file extension (including
// the leading dot, any case), or nil when files with that extension pass
// through untouched.
func DialectFor(ext string) *Dialect {
	d, ok := dialectsByExt[strings.ToLower(ext)]
	if !ok {
		return nil
	}
	return &d
}

// SupportedExtensions returns the extensions that have a dialect.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(dialectsByExt))
	for ext := range dialectsByExt {
		exts = append(exts, ext)
	}
	return exts
}
