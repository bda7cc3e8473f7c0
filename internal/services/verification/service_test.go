package verification

import (
	"context"
	"testing"

	"paygate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct{}

func (fakeDirectory) ListActiveBanks(ctx context.Context) ([]models.Bank, error) {
	return nil, nil
}

func (fakeDirectory) ListActiveWallets(ctx context.Context) ([]models.WalletProvider, error) {
	return nil, nil
}

func (fakeDirectory) GetActiveBank(ctx context.Context, code string) (*models.Bank, error) {
	if code == "HBL" {
		return &models.Bank{Code: "HBL", Active: true}, nil
	}
	return nil, nil
}

func (fakeDirectory) GetActiveWallet(ctx context.Context, code string) (*models.WalletProvider, error) {
	if code == "JAZZCASH" {
		return &models.WalletProvider{Code: "JAZZCASH", Active: true}, nil
	}
	return nil, nil
}

func TestVerifyAccount(t *testing.T) {
	svc := NewService(fakeDirectory{})
	ctx := context.Background()

	tests := []struct {
		name    string
		req     Request
		isValid bool
		title   string
	}{
		{
			name:    "valid bank account",
			req:     Request{DestType: models.DestTypeBank, BankCode: "HBL", AccountNumber: "0012345671234"},
			isValid: true,
			title:   "Test Account Holder 1234",
		},
		{
			name:    "valid wallet account",
			req:     Request{DestType: models.DestTypeWallet, WalletCode: "JAZZCASH", AccountNumber: "03001234567"},
			isValid: true,
			title:   "Test Account Holder 4567",
		},
		{
			name:    "validation failure suffix",
			req:     Request{DestType: models.DestTypeBank, BankCode: "HBL", AccountNumber: "0012345670003"},
			isValid: false,
		},
		{
			name:    "blocked account suffix",
			req:     Request{DestType: models.DestTypeBank, BankCode: "HBL", AccountNumber: "0012345670005"},
			isValid: false,
		},
		{
			name:    "unknown dest type",
			req:     Request{DestType: "CARD", AccountNumber: "0012345678901"},
			isValid: false,
		},
		{
			name:    "malformed account number",
			req:     Request{DestType: models.DestTypeBank, BankCode: "HBL", AccountNumber: "12ab"},
			isValid: false,
		},
		{
			name:    "unknown bank",
			req:     Request{DestType: models.DestTypeBank, BankCode: "XYZ", AccountNumber: "0012345678901"},
			isValid: false,
		},
		{
			name:    "unknown wallet",
			req:     Request{DestType: models.DestTypeWallet, WalletCode: "NOPE", AccountNumber: "03001234567"},
			isValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.VerifyAccount(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.isValid, result.IsValid)
			assert.Equal(t, tt.title, result.AccountTitle)
			assert.NotEmpty(t, result.Message)
		})
	}
}

func TestVerifyAccountIsDeterministic(t *testing.T) {
	svc := NewService(fakeDirectory{})
	ctx := context.Background()
	req := Request{DestType: models.DestTypeBank, BankCode: "HBL", AccountNumber: "0012345671234"}

	first, err := svc.VerifyAccount(ctx, req)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.VerifyAccount(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
