// Package clubspot is the sole point of contact with the Clubspot directory
// API. It hides authentication, retry/backoff, and pagination from callers.
package clubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production Clubspot API root.
const DefaultBaseURL = "https://api.theclubspot.com/api/v1"

const (
	// maxAttempts caps the total number of requests for one logical call,
	// including attempts consumed by rate limiting.
	maxAttempts = 4

	// backoffUnit is the linear backoff step: attempt n sleeps n*backoffUnit.
	backoffUnit = 2 * time.Second
)

// Record is one opaque upstream row. Field presence and typing are not
// guaranteed by Clubspot; callers coerce defensively.
type Record map[string]any

// Str returns the record field coerced to a string ("" when absent or not a
// scalar). Numeric ids arrive as JSON numbers; they are rendered without an
// exponent.
func (r Record) Str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// StrSlice returns the record field coerced to a string slice (nil-safe).
func (r Record) StrSlice(key string) []string {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprintf("%v", v))
		}
	}
	return out
}

// Sub returns a nested object field as a Record (nil-safe).
func (r Record) Sub(key string) Record {
	m, _ := r[key].(map[string]any)
	return Record(m)
}

// Config carries the client's deployment-provided settings.
type Config struct {
	APIKey  string
	BaseURL string // defaults to DefaultBaseURL
}

// SleepFunc suspends for d or until ctx is done. Injectable so retry pauses
// are assertable in tests.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Client issues authenticated requests to Clubspot with bounded retry.
type Client struct {
	cfg    Config
	client *http.Client
	sleep  SleepFunc
	log    zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	return NewWithOptions(cfg, log, nil, nil)
}

func NewWithOptions(cfg Config, log zerolog.Logger, httpClient *http.Client, sleep SleepFunc) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if sleep == nil {
		sleep = sleepContext
	}
	return &Client{cfg: cfg, client: httpClient, sleep: sleep, log: log}
}

func (c *Client) baseURL() string {
	if c.cfg.BaseURL != "" {
		return c.cfg.BaseURL
	}
	return DefaultBaseURL
}

// Request performs one logical call against path (relative to the API root),
// decoding the 2xx JSON response into out (which may be nil).
//
// Response handling, in priority order:
//  1. 429: wait for retry-after (seconds) when present and numeric, else
//     attempt*2s, then retry; consumes an attempt but is never an error.
//  2. 401/403: *AuthError, no retry.
//  3. 5xx: linear backoff retry up to the attempt cap, then *UpstreamError.
//  4. other non-2xx: *UpstreamError with status and body, no retry.
//
// Transport and decode failures retry with the same linear backoff; at the
// cap the original error propagates.
func (c *Client) Request(ctx context.Context, method, path string, body any, out any) error {
	if c.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}
	endpoint := c.baseURL() + path

	attempt := 0
	for attempt < maxAttempts {
		attempt++

		status, respBody, err := c.do(ctx, method, endpoint, payload)
		if err == nil {
			switch {
			case status == http.StatusTooManyRequests:
				wait := retryAfterWait(respBody.retryAfter, attempt)
				c.log.Warn().Int("attempt", attempt).Dur("wait", wait).
					Msg("clubspot rate limit reached; retrying")
				if serr := c.sleep(ctx, wait); serr != nil {
					return serr
				}
				continue

			case status == http.StatusUnauthorized || status == http.StatusForbidden:
				return &AuthError{Status: status}

			case status >= 500 && status <= 599:
				if attempt < maxAttempts {
					if serr := c.sleep(ctx, time.Duration(attempt)*backoffUnit); serr != nil {
						return serr
					}
					continue
				}
				return &UpstreamError{Status: status, Transient: true}

			case status < 200 || status > 299:
				return &UpstreamError{Status: status, Body: string(respBody.data)}

			default:
				if out == nil {
					return nil
				}
				err = json.Unmarshal(respBody.data, out)
				if err == nil {
					return nil
				}
				// fall through to the general retry path below
			}
		}

		if attempt >= maxAttempts {
			return err
		}
		if serr := c.sleep(ctx, time.Duration(attempt)*backoffUnit); serr != nil {
			return serr
		}
	}

	return ErrExhaustedRetries
}

type response struct {
	data       []byte
	retryAfter string
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) (int, response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, response{}, err
	}
	req.Header.Set("api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, response{}, err
	}
	return resp.StatusCode, response{data: data, retryAfter: resp.Header.Get("Retry-After")}, nil
}

func retryAfterWait(header string, attempt int) time.Duration {
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return time.Duration(attempt) * backoffUnit
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type memberPage struct {
	Members []Record `json:"members"`
	Data    []Record `json:"data"`
	HasMore bool     `json:"has_more"`
}

// FetchMembers pulls the full member roster for clubID, following skip-based
// pagination. Rows are returned in upstream order, without deduplication.
// Pagination stops when the upstream stops signalling has_more, or when a
// page comes back empty (safety terminator against a misbehaving flag).
func (c *Client) FetchMembers(ctx context.Context, clubID string) ([]Record, error) {
	var members []Record
	skip := 0

	for {
		path := fmt.Sprintf("/members?club_id=%s&skip=%d&primary_only=false",
			url.QueryEscape(clubID), skip)

		var page memberPage
		if err := c.Request(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}

		rows := page.Members
		if rows == nil {
			rows = page.Data
		}
		members = append(members, rows...)
		if !page.HasMore || len(rows) == 0 {
			return members, nil
		}
		skip += len(rows)
	}
}

type lineItemPage struct {
	LineItems []Record `json:"line_items"`
	HasMore   bool     `json:"has_more"`
	Data      struct {
		LineItems []Record `json:"line_items"`
		HasMore   bool     `json:"has_more"`
	} `json:"data"`
}

// FetchLineItems pulls billing line items for the date range (ISO dates),
// following the same skip-based pagination as FetchMembers.
func (c *Client) FetchLineItems(ctx context.Context, clubID, startDate, endDate string) ([]Record, error) {
	var items []Record
	skip := 0

	for {
		path := fmt.Sprintf("/line-items?start_date=%s&end_date=%s&club_id=%s&skip=%d",
			url.QueryEscape(startDate), url.QueryEscape(endDate), url.QueryEscape(clubID), skip)

		var page lineItemPage
		if err := c.Request(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}

		rows := page.LineItems
		if rows == nil {
			rows = page.Data.LineItems
		}
		items = append(items, rows...)
		if (!page.HasMore && !page.Data.HasMore) || len(rows) == 0 {
			return items, nil
		}
		skip += len(rows)
	}
}

// Score is one finish-time submission.
type Score struct {
	FinishTime     string `json:"finish_time"`
	RegistrationID string `json:"registration_id"`
	RaceNumber     int    `json:"race_number"`
}

// SubmitScore pushes one finish time upstream and returns the raw response.
func (c *Client) SubmitScore(ctx context.Context, score Score) (Record, error) {
	var out Record
	if err := c.Request(ctx, http.MethodPost, "/scores", score, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type portalSessionRequest struct {
	MembershipNumber string `json:"membership_number"`
	InitialView      string `json:"initial_view"`
}

type portalSessionResponse struct {
	SessionURL string `json:"session_url"`
	URL        string `json:"url"`
}

// CreatePortalSession opens a member-portal session for the given membership
// number and returns the session URL ("" when the upstream returned none).
func (c *Client) CreatePortalSession(ctx context.Context, membershipNumber, initialView string) (string, error) {
	if initialView == "" {
		initialView = "home"
	}
	var out portalSessionResponse
	err := c.Request(ctx, http.MethodPost, "/member-portal/sessions", portalSessionRequest{
		MembershipNumber: membershipNumber,
		InitialView:      initialView,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.SessionURL != "" {
		return out.SessionURL, nil
	}
	return out.URL, nil
}
