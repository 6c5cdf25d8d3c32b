package portal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rs/zerolog"

	"github.com/Marina-Point-YC/raceday-api/internal/app/portal"
)

type fakeCreator struct {
	url  string
	err  error
	view string
}

func (f *fakeCreator) CreatePortalSession(_ context.Context, _, initialView string) (string, error) {
	f.view = initialView
	return f.url, f.err
}

func TestCreateSession_RequiresMembershipNumber(t *testing.T) {
	t.Parallel()
	svc := portal.NewService(&fakeCreator{}, zerolog.Nop())

	_, err := svc.CreateSession(context.Background(), "", "billing")
	require.ErrorIs(t, err, portal.ErrMissingMembershipNumber)
}

func TestCreateSession_ReturnsUpstreamURL(t *testing.T) {
	t.Parallel()
	creator := &fakeCreator{url: "https://portal.theclubspot.com/s/abc"}
	svc := portal.NewService(creator, zerolog.Nop())

	url, err := svc.CreateSession(context.Background(), "M-42", "billing")
	require.NoError(t, err)
	assert.Equal(t, "https://portal.theclubspot.com/s/abc", url)
	assert.Equal(t, "billing", creator.view)
}

func TestCreateSession_EmptyURLIsAnError(t *testing.T) {
	t.Parallel()
	svc := portal.NewService(&fakeCreator{url: ""}, zerolog.Nop())

	_, err := svc.CreateSession(context.Background(), "M-42", "")
	require.ErrorIs(t, err, portal.ErrNoSessionURL)
}

func TestCreateSession_UpstreamFailurePropagates(t *testing.T) {
	t.Parallel()
	svc := portal.NewService(&fakeCreator{err: errors.New("boom")}, zerolog.Nop())

	_, err := svc.CreateSession(context.Background(), "M-42", "")
	require.Error(t, err)
}
