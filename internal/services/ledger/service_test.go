package ledger

import (
	"context"
	"testing"

	domainerr "paygate/internal/errors"
	"paygate/internal/models"
	"paygate/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedgerRepo keeps balances and entries in memory. Transactions are
// pass-through since the tests are single-goroutine.
type fakeLedgerRepo struct {
	balances map[uint]models.MerchantBalance
	entries  []models.LedgerEntry
	nextID   uint
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{balances: make(map[uint]models.MerchantBalance)}
}

func (f *fakeLedgerRepo) ExecuteInTransaction(ctx context.Context, fn func(tx repositories.LedgerRepository) error) error {
	return fn(f)
}

func (f *fakeLedgerRepo) GetBalanceForUpdate(ctx context.Context, merchantID uint) (*models.MerchantBalance, error) {
	bal, ok := f.balances[merchantID]
	if !ok {
		bal = models.MerchantBalance{MerchantID: merchantID}
		f.balances[merchantID] = bal
	}
	copied := bal
	return &copied, nil
}

func (f *fakeLedgerRepo) SaveBalance(ctx context.Context, bal *models.MerchantBalance) error {
	f.balances[bal.MerchantID] = *bal
	return nil
}

func (f *fakeLedgerRepo) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLedgerRepo) GetBalance(ctx context.Context, merchantID uint) (*models.MerchantBalance, error) {
	return f.GetBalanceForUpdate(ctx, merchantID)
}

func (f *fakeLedgerRepo) ListEntries(ctx context.Context, merchantID uint, limit, offset int) ([]models.LedgerEntry, int64, error) {
	var out []models.LedgerEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].MerchantID == merchantID {
			out = append(out, f.entries[i])
		}
	}
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func TestCreditDebitRunningBalance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLedgerRepo()
	svc := NewService(repo, nil)

	steps := []struct {
		op      string
		amount  float64
		balance float64
	}{
		{"credit", 100, 100},
		{"credit", 50, 150},
		{"debit", 30, 120},
		{"credit", 10, 130},
		{"debit", 130, 0},
	}

	for i, step := range steps {
		var entry *models.LedgerEntry
		var err error
		switch step.op {
		case "credit":
			entry, err = svc.Credit(ctx, 1, step.amount, "test credit", nil)
		case "debit":
			entry, err = svc.Debit(ctx, 1, step.amount, "test debit", nil)
		}
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.balance, entry.Balance, "step %d", i)
	}

	bal, err := svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, bal.Balance)
	assert.Len(t, repo.entries, len(steps))
}

func TestDebitInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLedgerRepo()
	svc := NewService(repo, nil)

	_, err := svc.Credit(ctx, 1, 100, "seed", nil)
	require.NoError(t, err)

	_, err = svc.Debit(ctx, 1, 150, "too much", nil)
	assert.ErrorIs(t, err, domainerr.ErrInsufficientFunds)

	// The failed debit must leave no trace.
	bal, err := svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, bal.Balance)
	assert.Len(t, repo.entries, 1)
}

func TestDebitRespectsLockedBalance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLedgerRepo()
	svc := NewService(repo, nil)

	_, err := svc.Credit(ctx, 1, 100, "seed", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Lock(ctx, 1, 60))

	// Only 40 is available even though the balance is 100.
	_, err = svc.Debit(ctx, 1, 50, "over available", nil)
	assert.ErrorIs(t, err, domainerr.ErrInsufficientFunds)

	_, err = svc.Debit(ctx, 1, 40, "within available", nil)
	assert.NoError(t, err)
}

func TestLockUnlockWritesNoEntries(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLedgerRepo()
	svc := NewService(repo, nil)

	_, err := svc.Credit(ctx, 1, 100, "seed", nil)
	require.NoError(t, err)
	entriesBefore := len(repo.entries)

	require.NoError(t, svc.Lock(ctx, 1, 25))
	require.NoError(t, svc.Unlock(ctx, 1, 25))

	assert.Len(t, repo.entries, entriesBefore)

	bal, err := svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, bal.Balance)
	assert.Equal(t, 0.0, bal.LockedBalance)
}

func TestLockInsufficientAvailable(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLedgerRepo()
	svc := NewService(repo, nil)

	_, err := svc.Credit(ctx, 1, 100, "seed", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Lock(ctx, 1, 80))

	err = svc.Lock(ctx, 1, 30)
	assert.ErrorIs(t, err, domainerr.ErrInsufficientFunds)
}

func TestUnlockMoreThanLocked(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLedgerRepo()
	svc := NewService(repo, nil)

	_, err := svc.Credit(ctx, 1, 100, "seed", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Lock(ctx, 1, 20))

	err = svc.Unlock(ctx, 1, 30)
	assert.ErrorIs(t, err, domainerr.ErrInvalidAmount)
}

func TestInvalidAmounts(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeLedgerRepo(), nil)

	tests := []struct {
		name   string
		amount float64
	}{
		{"zero", 0},
		{"negative", -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Credit(ctx, 1, tt.amount, "x", nil)
			assert.ErrorIs(t, err, domainerr.ErrInvalidAmount)
			_, err = svc.Debit(ctx, 1, tt.amount, "x", nil)
			assert.ErrorIs(t, err, domainerr.ErrInvalidAmount)
			assert.ErrorIs(t, svc.Lock(ctx, 1, tt.amount), domainerr.ErrInvalidAmount)
		})
	}
}

func TestHistoryOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLedgerRepo()
	svc := NewService(repo, nil)

	for i := 0; i < 5; i++ {
		_, err := svc.Credit(ctx, 1, float64(i+1), "seed", nil)
		require.NoError(t, err)
	}

	entries, total, err := svc.GetHistory(ctx, 1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, 5.0, entries[0].Amount)
	assert.Equal(t, 4.0, entries[1].Amount)
}
