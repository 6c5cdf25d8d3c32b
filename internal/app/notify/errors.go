package notify

import "errors"

var (
	// ErrMissingEventID indicates a notification was requested without an event.
	ErrMissingEventID = errors.New("event id is required")
	// ErrMissingMessage indicates a notification was requested with an empty message.
	ErrMissingMessage = errors.New("message is required")
	// ErrMissingRecipients indicates a direct send named nobody to deliver to.
	ErrMissingRecipients = errors.New("at least one recipient is required")
	// ErrUnknownChannel indicates a direct send named a channel other than email or sms.
	ErrUnknownChannel = errors.New("channel must be email or sms")
)
