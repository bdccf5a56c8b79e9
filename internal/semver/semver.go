// Package semver parses and orders three-component semantic versions
// (major.minor.patch). Pre-release and build metadata are not supported:
// only strings matching N.N.N are versions.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
)

// Pattern matches a bare version string. It is shared with the tag grammar
// so that a string the engine can discover is always a string Parse accepts.
const Pattern = `\d+\.\d+\.\d+`

var versionRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Version is a parsed major.minor.patch triple.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// Parse parses s as major.minor.patch.
// Leading zeros are accepted ("01.0.0" orders equal to "1.0.0").
func Parse(s string) (Version, error) {
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q: want major.minor.patch", s)
	}

	var parts [3]uint64
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(m[i+1], 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		parts[i] = n
	}

	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Valid reports whether s is a parseable version.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Compare returns -1, 0 or 1 as v is lower than, equal to or greater than o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmp(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmp(v.Minor, o.Minor)
	default:
		return cmp(v.Patch, o.Patch)
	}
}

// LessOrEqual reports whether v <= o.
func (v Version) LessOrEqual(o Version) bool {
	return v.Compare(o) <= 0
}

// String formats v in canonical form (no leading zeros).
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func cmp(a, b uint64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
