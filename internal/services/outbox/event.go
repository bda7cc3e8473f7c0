package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"paygate/internal/models"

	"github.com/google/uuid"
)

// Envelope is the canonical wire shape of a webhook event. The payload
// stored on the outbox row is the exact JSON string later signed and
// delivered, so the signature covers the bytes written at commit time.
type Envelope struct {
	EventType string      `json:"eventType"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an outbox event ready for insertion in the producing
// transaction. The event is immediately eligible for delivery.
func NewEvent(merchantID uint, eventType string, data interface{}) (*models.OutboxEvent, error) {
	now := time.Now().UTC()
	payload, err := json.Marshal(Envelope{
		EventType: eventType,
		Timestamp: now,
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &models.OutboxEvent{
		ID:            uuid.NewString(),
		MerchantID:    merchantID,
		EventType:     eventType,
		Payload:       string(payload),
		NextAttemptAt: now,
		CreatedAt:     now,
	}, nil
}
