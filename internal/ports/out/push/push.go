package push

import "context"

// Message is one push notification: a device token, the visible
// title/body, and a structured data payload for client-side routing.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers push notifications. Success/failure is known synchronously
// per call but not tracked beyond the caller's immediate logging.
type Sender interface {
	Send(ctx context.Context, m Message) error
}
