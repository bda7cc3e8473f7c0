package models

import "time"

// Ledger entry types
const (
	EntryTypeCredit = "credit"
	EntryTypeDebit  = "debit"
)

// LedgerEntry is an immutable record of a single balance movement.
// Balance is the merchant's running balance after applying this entry.
// Entries are never updated or deleted.
type LedgerEntry struct {
	ID          uint   `gorm:"primarykey"`
	MerchantID  uint   `gorm:"index;not null"`
	Type        string `gorm:"not null"`
	Amount      float64
	Balance     float64
	Description string
	Metadata    JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time
}

// Signed returns the entry amount with the sign implied by its type.
func (e *LedgerEntry) Signed() float64 {
	if e.Type == EntryTypeDebit {
		return -e.Amount
	}
	return e.Amount
}
