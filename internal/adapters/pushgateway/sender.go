// Package pushgateway delivers push notifications through an Expo-compatible
// push HTTP endpoint. The mobile apps register Expo device tokens, so the
// wire format follows the Expo push API.
package pushgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/push"
)

const DefaultEndpoint = "https://exp.host/--/api/v2/push/send"

// Sender posts one message per call. Batching is deliberately absent: the
// notification services already isolate per-recipient failures, and fan-outs
// at club scale are tens of devices, not thousands.
type Sender struct {
	endpoint string
	client   *http.Client
}

var _ push.Sender = (*Sender)(nil)

func NewSender(endpoint string, client *http.Client) *Sender {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Sender{endpoint: endpoint, client: client}
}

type pushRequest struct {
	To    string            `json:"to"`
	Title string            `json:"title,omitempty"`
	Body  string            `json:"body,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound,omitempty"`
}

type pushReceipt struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

func (s *Sender) Send(ctx context.Context, m push.Message) error {
	body, err := json.Marshal(pushRequest{
		To:    m.Token,
		Title: m.Title,
		Body:  m.Body,
		Data:  m.Data,
		Sound: "default",
	})
	if err != nil {
		return fmt.Errorf("marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("read push response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push endpoint returned %d: %s", resp.StatusCode, raw)
	}

	var receipt pushReceipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		// A 200 with an unparseable body still delivered per the endpoint's
		// contract; don't fail the notification over it.
		return nil
	}
	if receipt.Data.Status == "error" {
		return fmt.Errorf("push rejected: %s", receipt.Data.Message)
	}
	return nil
}
