package membersync

import "errors"

var (
	// ErrMissingClubID indicates a sync was requested without a club id.
	ErrMissingClubID = errors.New("club id is required")
)
