package memberstore

import "errors"

var (
	// ErrNotFound indicates the requested member document does not exist.
	ErrNotFound = errors.New("member not found")
)
