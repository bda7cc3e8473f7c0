package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Terminal reports whether the status is a final one.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// Checkout is a merchant-initiated payment attempt. It transitions exactly
// once from pending to a terminal status and is immutable afterward.
type Checkout struct {
	ID            string `gorm:"primarykey"`
	MerchantID    uint   `gorm:"index:idx_checkout_merchant_ref,unique;not null"`
	Reference     string `gorm:"index:idx_checkout_merchant_ref,unique;not null"`
	Amount        float64
	PaymentMethod string
	PaymentType   string
	Status        PaymentStatus `gorm:"default:'pending'"`
	StatusCode    string
	ScenarioName  string
	SuccessURL    string
	ReturnURL     string
	CheckoutURL   string
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
