package event

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/fruitflow/backend/internal/infrastructure/config"
)

// Dispatcher delivers an outbox entry to its destination
type Dispatcher interface {
	Dispatch(ctx context.Context, entry *shared.OutboxEntry) error
}

// webhookPayload is the envelope posted to the automation webhook
type webhookPayload struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	OwnerID       string          `json:"owner_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Data          json.RawMessage `json:"data"`
}

// WebhookDispatcher posts bill lifecycle events to the configured automation
// webhook. Delivery failures bubble up so the outbox can retry with backoff.
type WebhookDispatcher struct {
	url    string
	client *http.Client
}

// NewWebhookDispatcher creates a dispatcher for the configured webhook URL
func NewWebhookDispatcher(cfg config.WebhookConfig) *WebhookDispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookDispatcher{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

// Dispatch posts the entry as JSON. Any status outside 2xx counts as failure.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, entry *shared.OutboxEntry) error {
	if d.url == "" {
		// No webhook configured, deliveries are silently dropped
		return nil
	}

	payload := webhookPayload{
		EventID:       entry.EventID.String(),
		EventType:     entry.EventType,
		AggregateID:   entry.AggregateID.String(),
		AggregateType: entry.AggregateType,
		OwnerID:       entry.OwnerID.String(),
		OccurredAt:    entry.CreatedAt,
		Data:          json.RawMessage(entry.Payload),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", entry.EventType)
	req.Header.Set("X-Event-ID", entry.EventID.String())

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

var _ Dispatcher = (*WebhookDispatcher)(nil)
