package push

import (
	"context"
	"sync"

	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/push"
)

// Sender is an in-memory push provider for tests, with per-token failure
// injection.
type Sender struct {
	mu   sync.Mutex
	sent []push.Message
	fail map[string]error
}

var _ push.Sender = (*Sender)(nil)

func NewSender() *Sender {
	return &Sender{fail: make(map[string]error)}
}

// FailFor makes Send fail for one device token.
func (s *Sender) FailFor(token string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[token] = err
}

func (s *Sender) Send(_ context.Context, m push.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[m.Token]; err != nil {
		return err
	}
	s.sent = append(s.sent, m)
	return nil
}

func (s *Sender) Sent() []push.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]push.Message(nil), s.sent...)
}
