package pushgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/push"
)

func TestSender_Send(t *testing.T) {
	t.Parallel()

	var got pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %s", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"data":{"status":"ok"}}`))
	}))
	defer srv.Close()

	s := NewSender(srv.URL, srv.Client())
	err := s.Send(context.Background(), push.Message{
		Token: "ExponentPushToken[abc]",
		Title: "Saturday Series 4",
		Body:  "Start postponed 30 minutes",
		Data:  map[string]string{"eventId": "EV-1", "type": "postponement"},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.To != "ExponentPushToken[abc]" || got.Data["eventId"] != "EV-1" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.Sound != "default" {
		t.Fatalf("sound = %q", got.Sound)
	}
}

func TestSender_SendRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"status":"error","message":"DeviceNotRegistered"}}`))
	}))
	defer srv.Close()

	s := NewSender(srv.URL, srv.Client())
	err := s.Send(context.Background(), push.Message{Token: "ExponentPushToken[gone]"})
	if err == nil {
		t.Fatal("expected an error for a rejected push")
	}
}

func TestSender_SendHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, srv.Client())
	if err := s.Send(context.Background(), push.Message{Token: "t"}); err == nil {
		t.Fatal("expected an error for a 502")
	}
}
