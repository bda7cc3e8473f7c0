package models

import "time"

type Merchant struct {
	ID            uint   `gorm:"primarykey"`
	Name          string `gorm:"not null"`
	Email         string `gorm:"uniqueIndex;not null"`
	APIKeyHash    string `gorm:"uniqueIndex;not null" json:"-"`
	WebhookURL    string
	WebhookSecret string `json:"-"`
	Active        bool   `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MerchantBalance tracks the current and locked balance for a merchant.
// Balance must always equal the running balance on the merchant's latest
// ledger entry; availableBalance = Balance - LockedBalance and is never
// allowed below zero at a committed state.
type MerchantBalance struct {
	ID            uint    `gorm:"primarykey"`
	MerchantID    uint    `gorm:"uniqueIndex;not null"`
	Balance       float64 `gorm:"default:0"`
	LockedBalance float64 `gorm:"default:0"`
	UpdatedAt     time.Time
}

// Available returns the balance not reserved for in-flight payouts.
func (b *MerchantBalance) Available() float64 {
	return b.Balance - b.LockedBalance
}
