package models

// ScenarioMapping maps a test mobile number to a deterministic payment
// outcome. Seed data, read-only.
type ScenarioMapping struct {
	ID          uint   `gorm:"primarykey"`
	Identifier  string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Status      PaymentStatus
	StatusCode  string
	Description string
}
