package toggle

import (
	"regexp"
	"sync"

	"github.com/harrison/vtoggle/internal/semver"
)

type patternKind int

const (
	kindStart patternKind = iota
	kindEnd
	kindAnyEnd
)

// patternKey identifies a compiled pattern. version is set for kindEnd
// patterns only.
type patternKey struct {
	kind    patternKind
	start   string
	end     string
	feature string
	version string
}

// PatternTable memoizes compiled tag patterns for one invocation.
// It is safe for concurrent use by the file workers of a single run and is
// never shared between runs.
type PatternTable struct {
	mu       sync.Mutex
	patterns map[patternKey]*regexp.Regexp
}

// NewPatternTable creates an empty table.
func NewPatternTable() *PatternTable {
	return &PatternTable{patterns: make(map[patternKey]*regexp.Regexp)}
}

// Len returns the number of compiled patterns held.
func (t *PatternTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.patterns)
}

// StartTag returns the pattern matching any start tag for feature in d.
// Submatch 1 is the version.
func (t *PatternTable) StartTag(d *Dialect, feature string) *regexp.Regexp {
	key := patternKey{kind: kindStart, start: d.Start, end: d.End, feature: feature}
	return t.lookup(key, func() string {
		return startTagPattern(d, feature)
	})
}

// AnyEndTag returns the pattern matching an end tag of feature at any
// well-formed version in d.
func (t *PatternTable) AnyEndTag(d *Dialect, feature string) *regexp.Regexp {
	key := patternKey{kind: kindAnyEnd, start: d.Start, end: d.End, feature: feature}
	return t.lookup(key, func() string {
		return endTagPattern(d, feature, semver.Pattern)
	})
}

// EndTag returns the pattern matching the end tag of feature at exactly
// version in d.
func (t *PatternTable) EndTag(d *Dialect, feature, version string) *regexp.Regexp {
	key := patternKey{kind: kindEnd, start: d.Start, end: d.End, feature: feature, version: version}
	return t.lookup(key, func() string {
		return endTagPattern(d, feature, regexp.QuoteMeta(version))
	})
}

func (t *PatternTable) lookup(key patternKey, build func() string) *regexp.Regexp {
	t.mu.Lock()
	defer t.mu.Unlock()

	if re, ok := t.patterns[key]; ok {
		return re
	}
	re := regexp.MustCompile(build())
	t.patterns[key] = re
	return re
}

// startTagPattern builds
//
//	S <feature> v(<N.N.N>) E
//
// A tag owns the horizontal whitespace before it and the rest of its line,
// so a tag on its own line disappears together with that line.
func startTagPattern(d *Dialect, feature string) string {
	ws := innerSpace(d)
	return `(?i)[ \t]*` + regexp.QuoteMeta(d.Start) + ws + `*` +
		regexp.QuoteMeta(feature) + ws + `+v\((` + semver.Pattern + `)\)` + ws + `*` +
		regexp.QuoteMeta(d.End) + lineTail
}

// endTagPattern builds
//
//	S end <feature> v(<version>) E
//
// version is a regular expression.
func endTagPattern(d *Dialect, feature, version string) string {
	ws := innerSpace(d)
	return `(?i)[ \t]*` + regexp.QuoteMeta(d.Start) + ws + `*end` + ws + `+` +
		regexp.QuoteMeta(feature) + ws + `+v\(` + version + `\)` + ws + `*` +
		regexp.QuoteMeta(d.End) + lineTail
}

const lineTail = `[ \t]*(?:\r?\n)?`

// innerSpace is the whitespace class allowed between tag tokens. A line
// comment cannot span lines, so it must not swallow the newline that
// separates the tag from the body.
func innerSpace(d *Dialect) string {
	if d.lineComment() {
		return `[ \t]`
	}
	return `\s`
}
