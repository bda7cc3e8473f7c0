package models

// Bank and WalletProvider form the payout destination directory.
// Seed data, treated as read-only reference tables.

type Bank struct {
	ID     uint   `gorm:"primarykey"`
	Code   string `gorm:"uniqueIndex;not null"`
	Name   string `gorm:"not null"`
	Active bool   `gorm:"default:true"`
}

type WalletProvider struct {
	ID     uint   `gorm:"primarykey"`
	Code   string `gorm:"uniqueIndex;not null"`
	Name   string `gorm:"not null"`
	Active bool   `gorm:"default:true"`
}
