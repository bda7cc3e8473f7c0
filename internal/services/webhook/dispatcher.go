// Package webhook signs and delivers outbox events to merchant endpoints.
// A Dispatcher performs exactly one delivery attempt per call; the outbox
// relay owns the retry schedule, which is persisted with the event.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"paygate/internal/models"
)

const (
	HeaderSignature = "X-Signature"
	HeaderEventID   = "X-Event-Id"
	HeaderEventType = "X-Event-Type"
)

type Dispatcher struct {
	client *http.Client
}

// NewDispatcher builds a dispatcher whose HTTP client enforces the
// per-attempt delivery timeout.
func NewDispatcher(timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Deliver posts the event payload to the merchant's webhook URL, signed
// with the merchant's webhook secret. Any non-2xx response or transport
// failure is an error; the caller decides whether to retry.
func (d *Dispatcher) Deliver(ctx context.Context, merchant *models.Merchant, event *models.OutboxEvent) error {
	if merchant.WebhookURL == "" {
		return fmt.Errorf("merchant %d has no webhook URL", merchant.ID)
	}

	payload := []byte(event.Payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, merchant.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderSignature, Sign(payload, merchant.WebhookSecret))
	req.Header.Set(HeaderEventID, event.ID)
	req.Header.Set(HeaderEventType, event.EventType)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint returned %s", resp.Status)
	}
	return nil
}
