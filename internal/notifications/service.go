package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelpost/internal/config"
)

const userAgent = "reelpost/0.1.0"

// Event identifies an operator-facing occurrence.
type Event string

const (
	EventPublishFailed Event = "publish_failed"
	EventInvariant     Event = "invariant"
	EventDaemonStarted Event = "daemon_started"
	EventDaemonStopped Event = "daemon_stopped"
	EventTest          Event = "test"
)

// Payload carries event details keyed by name.
type Payload map[string]any

func (p Payload) str(key string) string {
	if p == nil {
		return ""
	}
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case error:
		return strings.TrimSpace(v.Error())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Service defines the notification surface exposed to the pipeline and daemon.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
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

func (n *ntfyService) Publish(ctx context.Context, event Event, p Payload) error {
	data, ok := format(event, p)
	if !ok {
		return nil
	}
	return n.send(ctx, data)
}

// format renders an event. Unrecognised events are dropped.
func format(event Event, p Payload) (payload, bool) {
	switch event {
	case EventPublishFailed:
		key := p.str("key")
		if key == "" {
			key = "unknown release"
		}
		message := fmt.Sprintf("❌ Announcement failed: %s", key)
		if files := p.str("files"); files != "" {
			message += fmt.Sprintf(" (%s files dropped)", files)
		}
		if errText := p.str("error"); errText != "" {
			message += "\n" + errText
		}
		return payload{
			title:    "reelpost - Publish Failed",
			message:  message,
			tags:     []string{"reelpost", "publish", "failed"},
			priority: "high",
		}, true
	case EventInvariant:
		detail := p.str("detail")
		if detail == "" {
			detail = "unknown fault"
		}
		message := "⚠️ Internal fault: " + detail
		if key := p.str("key"); key != "" {
			message += fmt.Sprintf(" (%s)", key)
		}
		return payload{
			title:    "reelpost - Internal Fault",
			message:  message,
			tags:     []string{"reelpost", "invariant", "alert"},
			priority: "high",
		}, true
	case EventDaemonStarted:
		return payload{
			title:   "reelpost - Started",
			message: fmt.Sprintf("▶️ Watching %s source channel(s)", orDefault(p.str("sources"), "0")),
			tags:    []string{"reelpost", "daemon", "started"},
		}, true
	case EventDaemonStopped:
		return payload{
			title:   "reelpost - Stopped",
			message: "⏹️ Daemon stopped",
			tags:    []string{"reelpost", "daemon", "stopped"},
		}, true
	case EventTest:
		return payload{
			title:    "reelpost - Test",
			message:  "🧪 Notification system test",
			tags:     []string{"reelpost", "test"},
			priority: "low",
		}, true
	default:
		return payload{}, false
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
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

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
