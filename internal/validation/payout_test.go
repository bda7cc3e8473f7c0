package validation

import (
	"testing"

	domainerr "paygate/internal/errors"
	"paygate/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAccountNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{"typical bank account", "0012345678901", true},
		{"minimum length", "1234567890", true},
		{"maximum length", "123456789012345678901234", true},
		{"too short", "123456789", false},
		{"too long", "1234567890123456789012345", false},
		{"letters", "00123abc45678", false},
		{"spaces", "0012 345678901", false},
		{"dashes", "0012-3456-7890", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AccountNumber(tt.number)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domainerr.ErrInvalidAccountNumber)
			}
		})
	}
}

func TestDestType(t *testing.T) {
	assert.NoError(t, DestType(models.DestTypeBank))
	assert.NoError(t, DestType(models.DestTypeWallet))
	assert.ErrorIs(t, DestType("CARD"), domainerr.ErrInvalidDestination)
	assert.ErrorIs(t, DestType("bank"), domainerr.ErrInvalidDestination)
	assert.ErrorIs(t, DestType(""), domainerr.ErrInvalidDestination)
}
