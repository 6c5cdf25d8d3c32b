package outbox

import "context"

// MailMessage is one outbound email, written to the mail queuing collection.
// A delivery extension watching the collection performs the actual send.
type MailMessage struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// SMSMessage is one outbound SMS, written to the sms queuing collection.
// The SMS provider (Twilio, Vonage, MessageBird) is configured on the
// extension, not here.
type SMSMessage struct {
	To   string
	Body string
}

// Outbox enqueues outbound mail and SMS documents. Enqueue success means the
// document was durably written; delivery itself is fire-and-forget.
type Outbox interface {
	EnqueueMail(ctx context.Context, m MailMessage) (string, error)
	EnqueueSMS(ctx context.Context, m SMSMessage) (string, error)
}
