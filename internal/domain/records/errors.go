package records

import "errors"

// ErrNotFound is returned by repositories when no record matches the lookup.
var ErrNotFound = errors.New("record not found")
