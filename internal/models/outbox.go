package models

import "time"

// Outbox event types
const (
	EventPaymentCompleted = "PAYMENT_COMPLETED"
	EventPaymentFailed    = "PAYMENT_FAILED"
	EventPayoutUpdated    = "PAYOUT_UPDATED"
)

// OutboxEvent is written in the same database transaction as the domain
// mutation that produced it. The relay delivers undelivered events per
// merchant in creation order; retry state (Attempts, NextAttemptAt) is
// persisted so delivery survives process restarts.
type OutboxEvent struct {
	ID            string `gorm:"primarykey"`
	MerchantID    uint   `gorm:"index;not null"`
	EventType     string `gorm:"not null"`
	Payload       string `gorm:"type:text;not null"`
	Attempts      int    `gorm:"default:0"`
	NextAttemptAt time.Time
	DeliveredAt   *time.Time
	Failed        bool `gorm:"default:false"`
	LastError     string
	CreatedAt     time.Time
}
