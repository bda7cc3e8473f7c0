// Package validation holds the destination validators shared by the
// payout engine and the account verification service.
package validation

import (
	domainerr "paygate/internal/errors"
	"paygate/internal/models"
)

const (
	minAccountNumberLen = 10
	maxAccountNumberLen = 24
)

// AccountNumber checks the account-number format: digits only, within the
// accepted length range.
func AccountNumber(number string) error {
	if len(number) < minAccountNumberLen || len(number) > maxAccountNumberLen {
		return domainerr.ErrInvalidAccountNumber
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return domainerr.ErrInvalidAccountNumber
		}
	}
	return nil
}

// DestType checks the payout destination type.
func DestType(destType string) error {
	if destType != models.DestTypeBank && destType != models.DestTypeWallet {
		return domainerr.ErrInvalidDestination
	}
	return nil
}
