// Package outbox implements the mail and SMS outbox on Postgres. Documents
// land in mail_outbox and sms_outbox; a delivery worker drains them.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/outbox"
)

// Outbox enqueues outbound messages as JSONB rows.
type Outbox struct {
	pool *pgxpool.Pool
}

var _ outbox.Outbox = (*Outbox)(nil)

func NewOutbox(pool *pgxpool.Pool) *Outbox {
	return &Outbox{pool: pool}
}

type mailDoc struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

type smsDoc struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (o *Outbox) EnqueueMail(ctx context.Context, m outbox.MailMessage) (string, error) {
	if o.pool == nil {
		return "", errors.New("outbox: nil pool")
	}
	doc, err := json.Marshal(mailDoc{To: m.To, Subject: m.Subject, Text: m.Text, HTML: m.HTML})
	if err != nil {
		return "", fmt.Errorf("marshal mail: %w", err)
	}
	id := uuid.NewString()
	if _, err := o.pool.Exec(ctx,
		`INSERT INTO mail_outbox (id, doc) VALUES ($1, $2)`, id, doc,
	); err != nil {
		return "", fmt.Errorf("enqueue mail: %w", err)
	}
	return id, nil
}

func (o *Outbox) EnqueueSMS(ctx context.Context, m outbox.SMSMessage) (string, error) {
	if o.pool == nil {
		return "", errors.New("outbox: nil pool")
	}
	doc, err := json.Marshal(smsDoc{To: m.To, Body: m.Body})
	if err != nil {
		return "", fmt.Errorf("marshal sms: %w", err)
	}
	id := uuid.NewString()
	if _, err := o.pool.Exec(ctx,
		`INSERT INTO sms_outbox (id, doc) VALUES ($1, $2)`, id, doc,
	); err != nil {
		return "", fmt.Errorf("enqueue sms: %w", err)
	}
	return id, nil
}
