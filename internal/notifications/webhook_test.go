package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kjannette/pulse-backend/internal/httputil"
	"github.com/kjannette/pulse-backend/internal/logging"
)

func TestSend_NoWebhook(t *testing.T) {
	s := NewSender("", "TestBot", logging.Discard())
	if s.Enabled() {
		t.Fatal("should not be enabled with empty URL")
	}
	if err := s.Send(context.Background(), "hello from test"); err != nil {
		t.Fatalf("log-only send should not fail: %v", err)
	}
}

func TestSend_SlackFormat(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "TestBot", logging.Discard())
	if !s.Enabled() {
		t.Fatal("should be enabled")
	}

	if err := s.Send(context.Background(), "USD/ZAR moved -4.76%"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received["username"] != "TestBot" {
		t.Fatalf("username: got %s", received["username"])
	}
	if received["text"] != "`[TestBot] USD/ZAR moved -4.76%`" {
		t.Fatalf("text: got %q", received["text"])
	}
}

func TestSend_DiscordFormat(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	// URL containing "discord" triggers Discord format
	s := NewSender(srv.URL+"/discord/webhook", "PulseBot", logging.Discard())
	if err := s.Send(context.Background(), "Bitcoin moved +7.10%"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received["content"] == "" {
		t.Fatal("content should not be empty for Discord")
	}
	if received["username"] != "PulseBot" {
		t.Fatalf("username: got %s", received["username"])
	}
	if _, hasText := received["text"]; hasText {
		t.Fatal("Discord payload should not have 'text' field")
	}
}

func TestSend_RejectedWebhook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewSender(srv.URL, "TestBot", logging.Discard()).Send(context.Background(), "x")
	var se *httputil.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 StatusError, got %v", err)
	}
}

func TestDefaultBotName(t *testing.T) {
	s := NewSender("", "", logging.Discard())
	if s.botName != defaultBotName {
		t.Fatalf("expected default bot name, got %s", s.botName)
	}
}
