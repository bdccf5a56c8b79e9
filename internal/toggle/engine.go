// Package toggle resolves version-tagged regions in source text.
//
// A region is bracketed by comment tags naming a feature and a version:
//
//	// checkout v(2.1.0)
//	renderNewCheckout()
//	// end checkout v(2.1.0)
//
// For every condition the engine discovers all regions of the condition's
// feature, picks at most one surviving version (see Resolve), replaces each
// surviving region with its body and deletes every other region including
// its body. End tags of a processed feature never survive, so transforming
// the output again changes nothing. The engine is pure: it performs no I/O and keeps no state
// between runs beyond the PatternTable it was given.
package toggle

import (
	"sort"
	"strings"

	"github.com/harrison/vtoggle/internal/models"
)

// region is one tagged block. Offsets index the content the region was
// discovered in: [start, bodyStart) is the start tag, [bodyEnd, end) the
// end tag.
type region struct {
	version   string
	start     int
	bodyStart int
	bodyEnd   int
	end       int
}

// Report describes what a transformation did, one entry per condition.
type Report struct {
	Features []models.FeatureOutcome
}

// Regions returns the total number of regions discovered across features.
func (r *Report) Regions() int {
	n := 0
	for _, f := range r.Features {
		n += len(f.Versions)
	}
	return n
}

// Engine transforms file contents. One Engine serves one invocation.
type Engine struct {
	patterns *PatternTable
}

// NewEngine creates an Engine with a fresh pattern table.
func NewEngine() *Engine {
	return NewEngineWithPatterns(NewPatternTable())
}

// NewEngineWithPatterns creates an Engine that compiles into patterns.
func NewEngineWithPatterns(patterns *PatternTable) *Engine {
	if patterns == nil {
		patterns = NewPatternTable()
	}
	return &Engine{patterns: patterns}
}

// Transform applies conditions to content in order. A nil dialect returns
// content unchanged.
func (e *Engine) Transform(content string, dialect *Dialect, conditions []models.Condition) (string, error) {
	out, _, err := e.TransformReport(content, dialect, conditions)
	return out, err
}

// TransformReport is Transform plus a Report of what was kept and removed.
// On error the returned content is empty and must not be written.
func (e *Engine) TransformReport(content string, dialect *Dialect, conditions []models.Condition) (string, *Report, error) {
	report := &Report{}
	if dialect == nil {
		return content, report, nil
	}

	for _, cond := range conditions {
		regions, err := e.discover(content, dialect, cond.Feature)
		if err != nil {
			return "", nil, err
		}

		outcome := models.FeatureOutcome{Feature: cond.Feature}
		for _, r := range regions {
			outcome.Versions = append(outcome.Versions, r.version)
		}

		keep := func(string) bool { return false }
		if len(regions) > 0 {
			surviving, ok := Resolve(outcome.Versions, cond.Version, cond.Policy)
			if ok {
				outcome.Surviving = surviving
				keep = func(v string) bool { return v == surviving }
			}
		}

		cuts, kept := regionCuts(regions, keep)
		// End tags that closed no region are deleted as well
		for _, m := range e.patterns.AnyEndTag(dialect, cond.Feature).FindAllStringIndex(content, -1) {
			cuts = append(cuts, span{lo: m[0], hi: m[1]})
		}
		outcome.Kept = kept
		outcome.Removed = len(regions) - kept
		content = cut(content, cuts)

		report.Features = append(report.Features, outcome)
	}

	return content, report, nil
}

// discover finds every region of feature in content, in order of the start
// tags. A start tag inside another region is discovered too; whether its
// text survives is decided by regionCuts.
func (e *Engine) discover(content string, d *Dialect, feature string) ([]region, error) {
	startTag := e.patterns.StartTag(d, feature)

	var regions []region
	for _, m := range startTag.FindAllStringSubmatchIndex(content, -1) {
		version := content[m[2]:m[3]]

		// The first end tag with the same version closes the region.
		endTag := e.patterns.EndTag(d, feature, version)
		loc := endTag.FindStringIndex(content[m[1]:])
		if loc == nil {
			return nil, &MalformedRegionError{Feature: feature, Version: version}
		}

		regions = append(regions, region{
			version:   version,
			start:     m[0],
			bodyStart: m[1],
			bodyEnd:   m[1] + loc[0],
			end:       m[1] + loc[1],
		})
	}

	return regions, nil
}

// span is a half-open byte range [lo, hi) of the content being transformed.
type span struct {
	lo, hi int
}

// regionCuts returns the text to delete for regions and the number of
// regions whose body is kept.
//
// A kept region loses only its tags; any other region loses its tags and
// body. Cuts are merged, so the outer region wins: a removed region takes
// everything nested in it along, even a kept region, and a removed region
// nested in a kept body is still deleted. A kept region that starts inside
// a removed one counts as removed.
func regionCuts(regions []region, keep func(string) bool) ([]span, int) {
	cuts := make([]span, 0, 2*len(regions))
	for _, r := range regions {
		if keep(r.version) {
			cuts = append(cuts, span{r.start, r.bodyStart}, span{r.bodyEnd, r.end})
			continue
		}
		cuts = append(cuts, span{r.start, r.end})
	}

	kept := 0
	for _, r := range regions {
		if keep(r.version) && !swallowed(r, regions, keep) {
			kept++
		}
	}
	return cuts, kept
}

func swallowed(r region, regions []region, keep func(string) bool) bool {
	for _, o := range regions {
		if !keep(o.version) && o.start < r.start && r.start < o.end {
			return true
		}
	}
	return false
}

// cut returns content without the bytes covered by cuts.
func cut(content string, cuts []span) string {
	if len(cuts) == 0 {
		return content
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].lo < cuts[j].lo })

	var b strings.Builder
	b.Grow(len(content))
	cursor := 0
	for _, c := range cuts {
		if c.lo > cursor {
			b.WriteString(content[cursor:c.lo])
		}
		if c.hi > cursor {
			cursor = c.hi
		}
	}
	b.WriteString(content[cursor:])
	return b.String()
}
