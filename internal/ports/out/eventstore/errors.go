package eventstore

import "errors"

var (
	// ErrNotFound indicates the requested event document does not exist.
	ErrNotFound = errors.New("event not found")
)
