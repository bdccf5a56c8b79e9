package models

import (
	"fmt"
	"strings"

	"github.com/harrison/vtoggle/internal/semver"
)

// MatchPolicy selects how a condition's version picks the surviving region.
type MatchPolicy int

const (
	// PolicyExact keeps only regions whose version string equals the required one.
	PolicyExact MatchPolicy = iota
	// PolicyNearestLowerOrEqual keeps the greatest discovered version not
	// exceeding the required one.
	PolicyNearestLowerOrEqual
)

// String returns the string representation of MatchPolicy.
func (p MatchPolicy) String() string {
	switch p {
	case PolicyExact:
		return "exact"
	case PolicyNearestLowerOrEqual:
		return "nearest"
	default:
		return "unknown"
	}
}

// PolicyFromExact maps the CLI/config "exact" switch onto a MatchPolicy.
func PolicyFromExact(exact bool) MatchPolicy {
	if exact {
		return PolicyExact
	}
	return PolicyNearestLowerOrEqual
}

// Condition selects which version of one feature survives a run.
type Condition struct {
	Feature string      `yaml:"feature"`
	Version string      `yaml:"version"`
	Policy  MatchPolicy `yaml:"-"`
}

// String renders the condition in its command-line form, feature:version.
func (c Condition) String() string {
	return c.Feature + ":" + c.Version
}

// ParseCondition parses the command-line form "feature:major.minor.patch".
// The policy is left at its zero value; callers apply the run-wide policy.
func ParseCondition(s string) (Condition, error) {
	feature, version, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Condition{}, fmt.Errorf("invalid condition %q: want feature:major.minor.patch", s)
	}

	feature = strings.TrimSpace(feature)
	version = strings.TrimSpace(version)
	if feature == "" {
		return Condition{}, fmt.Errorf("invalid condition %q: empty feature name", s)
	}
	if !semver.Valid(version) {
		return Condition{}, fmt.Errorf("invalid condition %q: version must be major.minor.patch", s)
	}

	return Condition{Feature: feature, Version: version}, nil
}

// ParseConditionList parses a list of command-line conditions. Each entry
// may itself be a comma separated list, so `-c a:1.0.0,b:2.0.0` and
// `-c a:1.0.0 -c b:2.0.0` are equivalent.
func ParseConditionList(entries []string) ([]Condition, error) {
	var conditions []Condition
	for _, entry := range entries {
		for _, part := range strings.Split(entry, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			c, err := ParseCondition(part)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, c)
		}
	}
	return conditions, nil
}

// WithPolicy returns a copy of conditions with every policy set to p.
func WithPolicy(conditions []Condition, p MatchPolicy) []Condition {
	out := make([]Condition, len(conditions))
	for i, c := range conditions {
		c.Policy = p
		out[i] = c
	}
	return out
}
