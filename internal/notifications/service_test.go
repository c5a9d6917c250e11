package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cuecraft/internal/config"
	"cuecraft/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRunStarted(context.Background(), "talk.mp4"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceSendsFormattedRequests(t *testing.T) {
	type captured struct {
		title    string
		message  string
		tags     string
		priority string
	}
	var got captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyTranscriptionCompleted(context.Background(), "talk.mp4", "primary-model", 42); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got.title != "Cuecraft - Transcribed" {
		t.Fatalf("title = %q", got.title)
	}
	if got.message != "Transcribed talk.mp4 via primary-model (42 segments)" {
		t.Fatalf("message = %q", got.message)
	}
	if got.tags != "cuecraft,transcribe,completed" {
		t.Fatalf("tags = %q", got.tags)
	}

	if err := svc.NotifyRunFailed(context.Background(), "talk.mp4", "every variant exhausted"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got.priority != "high" {
		t.Fatalf("failure priority = %q, want high", got.priority)
	}
}

func TestNtfyServiceSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
