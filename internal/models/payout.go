package models

import "time"

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "PENDING"
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	PayoutStatusSuccess    PayoutStatus = "SUCCESS"
	PayoutStatusFailed     PayoutStatus = "FAILED"
	PayoutStatusRetry      PayoutStatus = "RETRY"
	PayoutStatusInReview   PayoutStatus = "IN_REVIEW"
	PayoutStatusOnHold     PayoutStatus = "ON_HOLD"
)

// Terminal reports whether the payout can never transition again.
func (s PayoutStatus) Terminal() bool {
	return s == PayoutStatusSuccess || s == PayoutStatusFailed
}

// Payout destination types
const (
	DestTypeBank   = "BANK"
	DestTypeWallet = "WALLET"
)

type Payout struct {
	ID            string `gorm:"primarykey"`
	MerchantID    uint   `gorm:"index;not null"`
	Reference     string
	DestType      string `gorm:"not null"`
	BankCode      string
	WalletCode    string
	AccountNumber string
	AccountTitle  string
	Amount        float64
	Status        PayoutStatus `gorm:"default:'PENDING'"`
	PSPReference  string
	FailureReason string
	SubmittedAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
