package outbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/outbox"
)

// Outbox is an in-memory mail/SMS queue for tests, with per-recipient
// failure injection.
type Outbox struct {
	mu      sync.Mutex
	mail    []outbox.MailMessage
	sms     []outbox.SMSMessage
	nextID  int
	failSMS map[string]error
}

var _ outbox.Outbox = (*Outbox)(nil)

func NewOutbox() *Outbox {
	return &Outbox{failSMS: make(map[string]error)}
}

// FailSMSFor makes EnqueueSMS fail for one recipient number.
func (o *Outbox) FailSMSFor(to string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failSMS[to] = err
}

func (o *Outbox) EnqueueMail(_ context.Context, m outbox.MailMessage) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mail = append(o.mail, m)
	o.nextID++
	return fmt.Sprintf("mail-%d", o.nextID), nil
}

func (o *Outbox) EnqueueSMS(_ context.Context, m outbox.SMSMessage) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.failSMS[m.To]; err != nil {
		return "", err
	}
	o.sms = append(o.sms, m)
	o.nextID++
	return fmt.Sprintf("sms-%d", o.nextID), nil
}

func (o *Outbox) Mail() []outbox.MailMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]outbox.MailMessage(nil), o.mail...)
}

func (o *Outbox) SMS() []outbox.SMSMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]outbox.SMSMessage(nil), o.sms...)
}
