// Package notifications pushes run milestones to an ntfy topic. When no
// topic is configured every notification is a silent no-op, so callers never
// branch on whether notifications are enabled.
package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cuecraft/internal/config"
)

const userAgent = "Cuecraft/0.1.0"

// Service defines the notification surface exposed to orchestration
// components.
type Service interface {
	NotifyRunStarted(ctx context.Context, source string) error
	NotifyTranscriptionCompleted(ctx context.Context, source, variant string, segments int) error
	NotifyExportCompleted(ctx context.Context, dest, format string, cues int) error
	NotifyRunFailed(ctx context.Context, source, reason string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

// NewNop returns a notification service that discards everything.
func NewNop() Service { return noopService{} }

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, source string) error {
	data := payload{
		title:   "Cuecraft - Run Started",
		message: fmt.Sprintf("Transcribing: %s", strings.TrimSpace(source)),
		tags:    []string{"cuecraft", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTranscriptionCompleted(ctx context.Context, source, variant string, segments int) error {
	data := payload{
		title:   "Cuecraft - Transcribed",
		message: fmt.Sprintf("Transcribed %s via %s (%d segments)", strings.TrimSpace(source), variant, segments),
		tags:    []string{"cuecraft", "transcribe", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExportCompleted(ctx context.Context, dest, format string, cues int) error {
	data := payload{
		title:   "Cuecraft - Exported",
		message: fmt.Sprintf("Exported %d cues to %s (%s)", cues, strings.TrimSpace(dest), format),
		tags:    []string{"cuecraft", "export", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, source, reason string) error {
	data := payload{
		title:    "Cuecraft - Run Failed",
		message:  fmt.Sprintf("Failed on %s: %s", strings.TrimSpace(source), reason),
		tags:     []string{"cuecraft", "run", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "Cuecraft - Test",
		message: "Notifications are working.",
		tags:    []string{"cuecraft", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string) error { return nil }
func (noopService) NotifyTranscriptionCompleted(context.Context, string, string, int) error {
	return nil
}
func (noopService) NotifyExportCompleted(context.Context, string, string, int) error { return nil }
func (noopService) NotifyRunFailed(context.Context, string, string) error            { return nil }
func (noopService) TestNotification(context.Context) error                           { return nil }
