package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cutout/internal/config"
)

const userAgent = "Cutout-Go/0.1.0"

// Service defines the notification surface exposed to library components.
type Service interface {
	NotifyCaptioned(ctx context.Context, fileName string) error
	NotifyProcessed(ctx context.Context, fileName string) error
	NotifyError(ctx context.Context, err error, context string) error
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
		captions: cfg.Notifications.Captions,
		media:    cfg.Notifications.Processed,
		errors:   cfg.Notifications.Errors,
	}
}

// Noop returns a service that silently discards every notification.
func Noop() Service {
	return noopService{}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	captions bool
	media    bool
	errors   bool
}

func (n *ntfyService) NotifyCaptioned(ctx context.Context, fileName string) error {
	if !n.captions {
		return nil
	}
	fileName = strings.TrimSpace(fileName)
	data := payload{
		title:   "Cutout - Caption Ready",
		message: fmt.Sprintf("Caption generated for %s", fileName),
		tags:    []string{"cutout", "caption", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyProcessed(ctx context.Context, fileName string) error {
	if !n.media {
		return nil
	}
	fileName = strings.TrimSpace(fileName)
	data := payload{
		title:   "Cutout - Background Removed",
		message: fmt.Sprintf("Processed result ready for %s", fileName),
		tags:    []string{"cutout", "processed", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Cutout - Error",
		message:  builder.String(),
		tags:     []string{"cutout", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Cutout - Test",
		message:  "Notification system test",
		tags:     []string{"cutout", "test"},
		priority: "low",
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

func (noopService) NotifyCaptioned(context.Context, string) error    { return nil }
func (noopService) NotifyProcessed(context.Context, string) error    { return nil }
func (noopService) NotifyError(context.Context, error, string) error { return nil }
func (noopService) TestNotification(context.Context) error          { return nil }
