package toggle

import (
	"errors"
	"fmt"
)

// MalformedRegionError reports a start tag with no matching end tag after
// it. It aborts the transformation of the whole file.
type MalformedRegionError struct {
	Feature string // Feature key of the unclosed tag
	Version string // Version carried by the unclosed tag
}

// Error implements the error interface for MalformedRegionError.
func (e *MalformedRegionError) Error() string {
	return fmt.Sprintf("no closing comment found for %s v(%s)", e.Feature, e.Version)
}

// IsMalformedRegion checks if the error is or wraps a MalformedRegionError.
func IsMalformedRegion(err error) bool {
	if err == nil {
		return false
	}
	var me *MalformedRegionError
	return errors.As(err, &me)
}
