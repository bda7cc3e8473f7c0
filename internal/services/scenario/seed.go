package scenario

import "paygate/internal/models"

// DefaultMappings is the reference scenario table loaded by cmd/seed.
// Kept here so the resolver, the seeder and the tests agree on one table.
func DefaultMappings() []models.ScenarioMapping {
	return []models.ScenarioMapping{
		{
			Identifier:  "03030000000",
			Name:        "success",
			Status:      models.PaymentStatusCompleted,
			StatusCode:  "SUCCESS",
			Description: "payment completes successfully",
		},
		{
			Identifier:  "03021111111",
			Name:        "issuer_declined",
			Status:      models.PaymentStatusFailed,
			StatusCode:  "FAILED",
			Description: "payment rejected by issuer",
		},
		{
			Identifier:  "03122222222",
			Name:        "insufficient_customer_funds",
			Status:      models.PaymentStatusFailed,
			StatusCode:  "INSUFFICIENT_FUNDS",
			Description: "customer account has insufficient funds",
		},
		{
			Identifier:  "03453333333",
			Name:        "timeout",
			Status:      models.PaymentStatusFailed,
			StatusCode:  "TIMEOUT",
			Description: "issuer did not respond in time",
		},
	}
}
