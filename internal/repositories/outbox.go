package repositories

import (
	"context"
	"fmt"
	"time"

	"paygate/internal/models"

	"gorm.io/gorm"
)

// OutboxRepository is the relay's view of the outbox table. Events are
// inserted by CheckoutRepository/PayoutRepository inside the producing
// transaction; this interface only reads and advances delivery state.
type OutboxRepository interface {
	ListUndelivered(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	Reschedule(ctx context.Context, id string, attempts int, nextAt time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id string, attempts int, lastErr string) error
	ListFailed(ctx context.Context, limit int) ([]models.OutboxEvent, error)
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

// ListUndelivered returns pending events in creation order across all
// merchants. The relay enforces per-merchant ordering on top of this.
func (r *outboxRepository) ListUndelivered(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("delivered_at IS NULL AND failed = ?", false).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list undelivered events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"delivered_at": at, "last_error": ""}).Error
	if err != nil {
		return fmt.Errorf("failed to mark event delivered: %w", err)
	}
	return nil
}

func (r *outboxRepository) Reschedule(ctx context.Context, id string, attempts int, nextAt time.Time, lastErr string) error {
	err := r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":        attempts,
			"next_attempt_at": nextAt,
			"last_error":      lastErr,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to reschedule event: %w", err)
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, attempts int, lastErr string) error {
	err := r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   attempts,
			"failed":     true,
			"last_error": lastErr,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return nil
}

// ListFailed surfaces permanently failed events for manual inspection.
func (r *outboxRepository) ListFailed(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("failed = ?", true).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list failed events: %w", err)
	}
	return events, nil
}
