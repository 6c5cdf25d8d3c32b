package clubspot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleeper captures requested retry pauses instead of sleeping.
type recordingSleeper struct {
	mu     sync.Mutex
	pauses []time.Duration
}

func (s *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses = append(s.pauses, d)
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingSleeper, *int) {
	t.Helper()
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	sleeper := &recordingSleeper{}
	c := NewWithOptions(
		Config{APIKey: "test-key", BaseURL: srv.URL},
		zerolog.Nop(),
		srv.Client(),
		sleeper.sleep,
	)
	return c, sleeper, &requests
}

func TestRequest_MissingAPIKeyFailsWithoutAttempt(t *testing.T) {
	t.Parallel()

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := New(Config{BaseURL: srv.URL}, zerolog.Nop())
	err := c.Request(context.Background(), http.MethodGet, "/members", nil, nil)

	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, requests, "no request should be issued without credentials")
}

func TestRequest_SendsKeyHeaderAndJSONBody(t *testing.T) {
	t.Parallel()

	var gotKey, gotContentType, gotMethod string
	var gotBody map[string]any
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		gotContentType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{}`))
	})

	err := c.Request(context.Background(), http.MethodPost, "/scores",
		map[string]string{"registration_id": "reg-1"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "reg-1", gotBody["registration_id"])
}

func TestRequest_RateLimitHonorsRetryAfter(t *testing.T) {
	t.Parallel()

	first := true
	c, sleeper, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if first {
			first = false
			w.Header().Set("Retry-After", "5")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	err := c.Request(context.Background(), http.MethodGet, "/members", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, *requests)
	assert.Equal(t, []time.Duration{5 * time.Second}, sleeper.pauses)
}

func TestRequest_RateLimitWithoutHeaderUsesLinearBackoff(t *testing.T) {
	t.Parallel()

	first := true
	c, sleeper, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if first {
			first = false
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	err := c.Request(context.Background(), http.MethodGet, "/members", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second}, sleeper.pauses)
}

func TestRequest_RateLimitExhaustsAttempts(t *testing.T) {
	t.Parallel()

	c, sleeper, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := c.Request(context.Background(), http.MethodGet, "/members", nil, nil)

	require.ErrorIs(t, err, ErrExhaustedRetries)
	assert.Equal(t, 4, *requests)
	assert.Equal(t, []time.Duration{
		2 * time.Second, 4 * time.Second, 6 * time.Second, 8 * time.Second,
	}, sleeper.pauses)
}

func TestRequest_AuthRejectionIsNotRetried(t *testing.T) {
	t.Parallel()

	c, sleeper, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.Request(context.Background(), http.MethodGet, "/members", nil, nil)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.Equal(t, 1, *requests, "401 must cause exactly one attempt")
	assert.Empty(t, sleeper.pauses)
}

func TestRequest_ServerErrorsRetriedThenSucceed(t *testing.T) {
	t.Parallel()

	failures := 2
	c, sleeper, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if failures > 0 {
			failures--
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	err := c.Request(context.Background(), http.MethodGet, "/members", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, *requests)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.pauses)
}

func TestRequest_ServerErrorAtCapIsTransientUpstreamError(t *testing.T) {
	t.Parallel()

	c, _, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.Request(context.Background(), http.MethodGet, "/members", nil, nil)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.True(t, upErr.Transient)
	assert.Equal(t, http.StatusInternalServerError, upErr.Status)
	assert.Equal(t, 4, *requests)
}

func TestRequest_ClientErrorFailsFastWithBody(t *testing.T) {
	t.Parallel()

	c, _, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"bad registration"}`))
	})

	err := c.Request(context.Background(), http.MethodGet, "/members", nil, nil)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.False(t, upErr.Transient)
	assert.Equal(t, http.StatusUnprocessableEntity, upErr.Status)
	assert.Contains(t, upErr.Body, "bad registration")
	assert.Equal(t, 1, *requests)
}

func TestRequest_MalformedResponseRetriedThenPropagates(t *testing.T) {
	t.Parallel()

	c, sleeper, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	var out map[string]any
	err := c.Request(context.Background(), http.MethodGet, "/members", nil, &out)

	require.Error(t, err)
	var upErr *UpstreamError
	assert.False(t, errors.As(err, &upErr), "decode failures are not upstream status errors")
	assert.Equal(t, 4, *requests)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second}, sleeper.pauses)
}

func TestFetchMembers_PaginatesInOrder(t *testing.T) {
	t.Parallel()

	var skips []string
	c, _, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		skips = append(skips, r.URL.Query().Get("skip"))
		if r.URL.Query().Get("skip") == "0" {
			_, _ = w.Write([]byte(`{"members":[{"id":"a"}],"has_more":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"members":[{"id":"b"}],"has_more":false}`))
	})

	got, err := c.FetchMembers(context.Background(), "club-1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Str("id"))
	assert.Equal(t, "b", got[1].Str("id"))
	assert.Equal(t, 2, *requests)
	assert.Equal(t, []string{"0", "1"}, skips)
}

func TestFetchMembers_EmptyPageTerminatesDespiteHasMore(t *testing.T) {
	t.Parallel()

	c, _, requests := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"members":[],"has_more":true}`))
	})

	got, err := c.FetchMembers(context.Background(), "club-1")

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, *requests, "a zero-row page must stop pagination")
}

func TestFetchMembers_FallsBackToDataRows(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"a"},{"id":"b"}],"has_more":false}`))
	})

	got, err := c.FetchMembers(context.Background(), "club-1")

	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestCreatePortalSession_ReturnsSessionURL(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/member-portal/sessions", r.URL.Path)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "1234", body["membership_number"])
		assert.Equal(t, "home", body["initial_view"])
		_, _ = w.Write([]byte(`{"session_url":"https://portal.example/s/abc"}`))
	})

	u, err := c.CreatePortalSession(context.Background(), "1234", "")

	require.NoError(t, err)
	assert.Equal(t, "https://portal.example/s/abc", u)
}

func TestRecord_DefensiveCoercion(t *testing.T) {
	t.Parallel()

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(
		`{"id":12345,"first_name":"Ada","member_tags":["racer",7],"membership":{"status":"active"}}`,
	), &rec))

	assert.Equal(t, "12345", rec.Str("id"))
	assert.Equal(t, "Ada", rec.Str("first_name"))
	assert.Equal(t, "", rec.Str("missing"))
	assert.Equal(t, []string{"racer", "7"}, rec.StrSlice("member_tags"))
	assert.Equal(t, "active", rec.Sub("membership").Str("status"))
	assert.Nil(t, rec.Sub("missing"))
}
