package toggle

import (
	"github.com/harrison/vtoggle/internal/models"
	"github.com/harrison/vtoggle/internal/semver"
)

// Resolve picks the surviving version among the versions discovered for one
// feature. It returns false when no region of the feature survives.
//
// The required version always survives when it appears verbatim. Otherwise
// PolicyExact keeps nothing and PolicyNearestLowerOrEqual keeps the greatest
// discovered version that does not exceed required. When several distinct
// strings order equal, the first one discovered wins.
func Resolve(found []string, required string, policy models.MatchPolicy) (string, bool) {
	for _, v := range found {
		if v == required {
			return required, true
		}
	}

	if policy != models.PolicyNearestLowerOrEqual {
		return "", false
	}

	limit, err := semver.Parse(required)
	if err != nil {
		return "", false
	}

	var (
		best    semver.Version
		bestStr string
		ok      bool
	)
	for _, s := range found {
		v, err := semver.Parse(s)
		if err != nil || !v.LessOrEqual(limit) {
			continue
		}
		if !ok || v.Compare(best) > 0 {
			best, bestStr, ok = v, s, true
		}
	}

	return bestStr, ok
}
