// Package portal opens Clubspot member-portal sessions on behalf of members.
package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	// ErrMissingMembershipNumber indicates a session request without a member.
	ErrMissingMembershipNumber = errors.New("membership number is required")
	// ErrNoSessionURL indicates the upstream accepted the request but
	// returned no session link.
	ErrNoSessionURL = errors.New("upstream returned no session url")
)

// SessionCreator is the slice of the Clubspot client the portal needs.
type SessionCreator interface {
	CreatePortalSession(ctx context.Context, membershipNumber, initialView string) (string, error)
}

type Service struct {
	upstream SessionCreator
	log      zerolog.Logger
}

func NewService(upstream SessionCreator, log zerolog.Logger) *Service {
	return &Service{upstream: upstream, log: log}
}

// CreateSession opens a portal session for the membership number and returns
// the URL the client should open. initialView defaults upstream to "home".
func (s *Service) CreateSession(ctx context.Context, membershipNumber, initialView string) (string, error) {
	if membershipNumber == "" {
		return "", ErrMissingMembershipNumber
	}
	url, err := s.upstream.CreatePortalSession(ctx, membershipNumber, initialView)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	if url == "" {
		return "", ErrNoSessionURL
	}
	return url, nil
}
