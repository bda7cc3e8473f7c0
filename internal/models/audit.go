package models

import "time"

// Audit actions
const (
	AuditActionAuth          = "AUTH"
	AuditActionPayoutHold    = "PAYOUT_HOLD"
	AuditActionPayoutResume  = "PAYOUT_RESUME"
	AuditActionPayoutReview  = "PAYOUT_REVIEW"
	AuditActionKeyRotation   = "KEY_ROTATION"
	AuditOutcomeOK           = "OK"
	AuditOutcomeUnauthorized = "UNAUTHORIZED"
	AuditOutcomeInactive     = "MERCHANT_INACTIVE"
)

// AuditLog is an append-only record of authentication attempts and
// sensitive state changes. KeyDigest holds only the hashed form of a
// presented API key, never the raw value.
type AuditLog struct {
	ID         uint  `gorm:"primarykey"`
	MerchantID *uint `gorm:"index"`
	Action     string
	Outcome    string
	KeyDigest  string
	ClientIP   string
	Detail     string
	CreatedAt  time.Time
}
