package payout

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerr "paygate/internal/errors"
	"paygate/internal/models"
	"paygate/internal/repositories"
	"paygate/internal/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedgerRepo struct {
	balances map[uint]models.MerchantBalance
	entries  []models.LedgerEntry
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
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLedgerRepo) GetBalance(ctx context.Context, merchantID uint) (*models.MerchantBalance, error) {
	return f.GetBalanceForUpdate(ctx, merchantID)
}

func (f *fakeLedgerRepo) ListEntries(ctx context.Context, merchantID uint, limit, offset int) ([]models.LedgerEntry, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

type fakePayoutRepo struct {
	payouts map[string]models.Payout
	events  []models.OutboxEvent
	ledger  *fakeLedgerRepo
	inTx    bool
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{
		payouts: make(map[string]models.Payout),
		ledger:  &fakeLedgerRepo{balances: make(map[uint]models.MerchantBalance)},
	}
}

func (f *fakePayoutRepo) ExecuteInTransaction(ctx context.Context, fn func(tx repositories.PayoutRepository) error) error {
	f.inTx = true
	err := fn(f)
	f.inTx = false
	return err
}

func (f *fakePayoutRepo) Create(ctx context.Context, payout *models.Payout) error {
	f.payouts[payout.ID] = *payout
	return nil
}

func (f *fakePayoutRepo) GetByID(ctx context.Context, id string) (*models.Payout, error) {
	p, ok := f.payouts[id]
	if !ok {
		return nil, domainerr.ErrPayoutNotFound
	}
	copied := p
	return &copied, nil
}

func (f *fakePayoutRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Payout, error) {
	return f.GetByID(ctx, id)
}

func (f *fakePayoutRepo) Update(ctx context.Context, payout *models.Payout) error {
	f.payouts[payout.ID] = *payout
	return nil
}

func (f *fakePayoutRepo) ListProcessingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Payout, error) {
	var out []models.Payout
	for _, p := range f.payouts {
		if p.Status == models.PayoutStatusProcessing && p.SubmittedAt != nil && p.SubmittedAt.Before(cutoff) {
			out = append(out, p)
		}
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePayoutRepo) CreateOutboxEvent(ctx context.Context, event *models.OutboxEvent) error {
	f.events = append(f.events, *event)
	return nil
}

func (f *fakePayoutRepo) Ledger() repositories.LedgerRepository {
	return f.ledger
}

type fakeDirectory struct{}

func (fakeDirectory) ListActiveBanks(ctx context.Context) ([]models.Bank, error) {
	return []models.Bank{{Code: "HBL", Name: "Habib Bank Limited", Active: true}}, nil
}

func (fakeDirectory) ListActiveWallets(ctx context.Context) ([]models.WalletProvider, error) {
	return []models.WalletProvider{{Code: "JAZZCASH", Name: "JazzCash", Active: true}}, nil
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

type fakePSP struct {
	submissions int
	err         error
	repo        *fakePayoutRepo
	calledInTx  bool
}

func (f *fakePSP) SubmitPayout(ctx context.Context, payout *models.Payout) (string, error) {
	if f.repo != nil && f.repo.inTx {
		f.calledInTx = true
	}
	if f.err != nil {
		return "", f.err
	}
	f.submissions++
	return "PSP-TESTREF", nil
}

type env struct {
	repo *fakePayoutRepo
	psp  *fakePSP
	svc  Service
}

func newEnv(cfg Config) *env {
	repo := newFakePayoutRepo()
	pspClient := &fakePSP{repo: repo}
	svc := NewService(repo, fakeDirectory{}, ledger.NewService(repo.ledger, nil), pspClient, nil, cfg)
	return &env{repo: repo, psp: pspClient, svc: svc}
}

func (e *env) credit(t *testing.T, merchantID uint, amount float64) {
	t.Helper()
	ledgerSvc := ledger.NewService(e.repo.ledger, nil)
	_, err := ledgerSvc.Credit(context.Background(), merchantID, amount, "seed", nil)
	require.NoError(t, err)
}

func bankRequest(amount float64) Request {
	return Request{
		Reference:     "wd-1",
		Amount:        amount,
		DestType:      models.DestTypeBank,
		BankCode:      "HBL",
		AccountNumber: "0012345678901",
		AccountTitle:  "Demo Merchant",
	}
}

func TestRequestLocksAndSubmits(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	ctx := context.Background()

	payout, err := e.svc.Request(ctx, &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)

	assert.Equal(t, models.PayoutStatusProcessing, payout.Status)
	assert.Equal(t, "PSP-TESTREF", payout.PSPReference)
	assert.NotNil(t, payout.SubmittedAt)
	assert.Equal(t, 1, e.psp.submissions)

	// Funds reserved, not yet moved.
	bal := e.repo.ledger.balances[1]
	assert.Equal(t, 1000.0, bal.Balance)
	assert.Equal(t, 400.0, bal.LockedBalance)
}

// The payout row lock must never be held across the PSP call.
func TestSubmitCallsPSPOutsideTransaction(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)

	payout, err := e.svc.Request(context.Background(), &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)

	assert.Equal(t, models.PayoutStatusProcessing, payout.Status)
	assert.Equal(t, 1, e.psp.submissions)
	assert.False(t, e.psp.calledInTx)
}

func TestRequestInsufficientFundsLeavesNothing(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 100)

	_, err := e.svc.Request(context.Background(), &models.Merchant{ID: 1}, bankRequest(400))
	assert.ErrorIs(t, err, domainerr.ErrInsufficientFunds)

	assert.Empty(t, e.repo.payouts)
	assert.Equal(t, 0.0, e.repo.ledger.balances[1].LockedBalance)
	assert.Equal(t, 0, e.psp.submissions)
}

func TestRequestValidation(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	ctx := context.Background()
	merchant := &models.Merchant{ID: 1}

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"zero amount", func(r *Request) { r.Amount = 0 }, domainerr.ErrInvalidAmount},
		{"bad dest type", func(r *Request) { r.DestType = "CARD" }, domainerr.ErrInvalidDestination},
		{"short account number", func(r *Request) { r.AccountNumber = "123" }, domainerr.ErrInvalidAccountNumber},
		{"non-numeric account", func(r *Request) { r.AccountNumber = "00123abc45678" }, domainerr.ErrInvalidAccountNumber},
		{"unknown bank", func(r *Request) { r.BankCode = "XYZ" }, domainerr.ErrInvalidDestination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bankRequest(100)
			tt.mutate(&req)
			_, err := e.svc.Request(ctx, merchant, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Wallet destination validated against the wallet directory.
	req := Request{
		Reference:     "wd-2",
		Amount:        100,
		DestType:      models.DestTypeWallet,
		WalletCode:    "NOPE",
		AccountNumber: "03001234567",
	}
	_, err := e.svc.Request(ctx, merchant, req)
	assert.ErrorIs(t, err, domainerr.ErrInvalidDestination)

	req.WalletCode = "JAZZCASH"
	_, err = e.svc.Request(ctx, merchant, req)
	assert.NoError(t, err)
}

func TestRequestPSPFailureLeavesPendingLocked(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	e.psp.err = errors.New("psp unavailable")

	payout, err := e.svc.Request(context.Background(), &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)

	// Submission failed but the payout and its reservation survive for
	// the sweep to pick up.
	assert.Equal(t, models.PayoutStatusPending, payout.Status)
	assert.Empty(t, payout.PSPReference)
	assert.Equal(t, 400.0, e.repo.ledger.balances[1].LockedBalance)
}

func TestCallbackSuccessDebitsAndEmits(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	ctx := context.Background()

	payout, err := e.svc.Request(ctx, &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)

	updated, err := e.svc.HandleCallback(ctx, Callback{
		PayoutID:     payout.ID,
		Status:       models.PayoutStatusSuccess,
		PSPReference: "PSP-FINAL",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PayoutStatusSuccess, updated.Status)
	assert.Equal(t, "PSP-FINAL", updated.PSPReference)
	assert.NotNil(t, updated.ProcessedAt)

	bal := e.repo.ledger.balances[1]
	assert.Equal(t, 600.0, bal.Balance)
	assert.Equal(t, 0.0, bal.LockedBalance)

	// Seed credit plus the payout debit.
	require.Len(t, e.repo.ledger.entries, 2)
	assert.Equal(t, models.EntryTypeDebit, e.repo.ledger.entries[1].Type)
	assert.Equal(t, 400.0, e.repo.ledger.entries[1].Amount)

	require.Len(t, e.repo.events, 1)
	assert.Equal(t, models.EventPayoutUpdated, e.repo.events[0].EventType)
}

func TestCallbackFailureUnlocksWithoutDebit(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	ctx := context.Background()

	payout, err := e.svc.Request(ctx, &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)

	updated, err := e.svc.HandleCallback(ctx, Callback{
		PayoutID:      payout.ID,
		Status:        models.PayoutStatusFailed,
		FailureReason: "beneficiary account closed",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PayoutStatusFailed, updated.Status)
	assert.Equal(t, "beneficiary account closed", updated.FailureReason)

	bal := e.repo.ledger.balances[1]
	assert.Equal(t, 1000.0, bal.Balance)
	assert.Equal(t, 0.0, bal.LockedBalance)
	assert.Len(t, e.repo.ledger.entries, 1)

	require.Len(t, e.repo.events, 1)
	assert.Equal(t, models.EventPayoutUpdated, e.repo.events[0].EventType)
}

func TestCallbackRejectsNonFinalStatus(t *testing.T) {
	e := newEnv(Config{})

	_, err := e.svc.HandleCallback(context.Background(), Callback{
		PayoutID: "p1",
		Status:   models.PayoutStatusProcessing,
	})
	assert.ErrorIs(t, err, domainerr.ErrInvalidCallbackStatus)
}

func TestDuplicateCallbackConflicts(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	ctx := context.Background()

	payout, err := e.svc.Request(ctx, &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)

	_, err = e.svc.HandleCallback(ctx, Callback{PayoutID: payout.ID, Status: models.PayoutStatusSuccess})
	require.NoError(t, err)

	_, err = e.svc.HandleCallback(ctx, Callback{PayoutID: payout.ID, Status: models.PayoutStatusSuccess})
	assert.ErrorIs(t, err, domainerr.ErrInvalidTransition)

	// The duplicate must not move money or emit again.
	assert.Equal(t, 600.0, e.repo.ledger.balances[1].Balance)
	assert.Len(t, e.repo.ledger.entries, 2)
	assert.Len(t, e.repo.events, 1)
}

func TestHoldAndResume(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	ctx := context.Background()

	payout, err := e.svc.Request(ctx, &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)

	require.NoError(t, e.svc.Hold(ctx, payout.ID, "manual check"))
	held, err := e.repo.GetByID(ctx, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusOnHold, held.Status)

	// A callback cannot land while the payout is held.
	_, err = e.svc.HandleCallback(ctx, Callback{PayoutID: payout.ID, Status: models.PayoutStatusSuccess})
	assert.ErrorIs(t, err, domainerr.ErrInvalidTransition)

	require.NoError(t, e.svc.Resume(ctx, payout.ID))
	resumed, err := e.repo.GetByID(ctx, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusProcessing, resumed.Status)
}

func TestHoldTerminalPayoutConflicts(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	ctx := context.Background()

	payout, err := e.svc.Request(ctx, &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)
	_, err = e.svc.HandleCallback(ctx, Callback{PayoutID: payout.ID, Status: models.PayoutStatusSuccess})
	require.NoError(t, err)

	assert.ErrorIs(t, e.svc.Hold(ctx, payout.ID, "too late"), domainerr.ErrInvalidTransition)
}

func TestReviewDenyReleasesFunds(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	ctx := context.Background()

	payout, err := e.svc.Request(ctx, &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)

	require.NoError(t, e.svc.Flag(ctx, payout.ID, "suspicious amount"))
	flagged, err := e.repo.GetByID(ctx, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusInReview, flagged.Status)

	require.NoError(t, e.svc.Review(ctx, payout.ID, false, "failed compliance"))

	denied, err := e.repo.GetByID(ctx, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusFailed, denied.Status)
	assert.Equal(t, "failed compliance", denied.FailureReason)
	assert.NotNil(t, denied.ProcessedAt)

	bal := e.repo.ledger.balances[1]
	assert.Equal(t, 1000.0, bal.Balance)
	assert.Equal(t, 0.0, bal.LockedBalance)

	require.Len(t, e.repo.events, 1)
	assert.Equal(t, models.EventPayoutUpdated, e.repo.events[0].EventType)
}

func TestReviewApproveResubmits(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	ctx := context.Background()

	payout, err := e.svc.Request(ctx, &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)
	require.NoError(t, e.svc.Flag(ctx, payout.ID, "spot check"))

	require.NoError(t, e.svc.Review(ctx, payout.ID, true, ""))

	approved, err := e.repo.GetByID(ctx, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusProcessing, approved.Status)
	// Funds stay reserved through the review.
	assert.Equal(t, 400.0, e.repo.ledger.balances[1].LockedBalance)
}

func TestRequeueStale(t *testing.T) {
	e := newEnv(Config{ProcessingDwell: 15 * time.Minute})
	e.credit(t, 1, 1000)
	ctx := context.Background()

	payout, err := e.svc.Request(ctx, &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)

	// Fresh payouts are not swept.
	n, err := e.svc.RequeueStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	stale := e.repo.payouts[payout.ID]
	old := time.Now().UTC().Add(-time.Hour)
	stale.SubmittedAt = &old
	e.repo.payouts[payout.ID] = stale

	n, err = e.svc.RequeueStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	swept, err := e.repo.GetByID(ctx, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusProcessing, swept.Status)
	assert.True(t, swept.SubmittedAt.After(old))
	assert.Equal(t, 2, e.psp.submissions)
}

func TestGetEnforcesOwnership(t *testing.T) {
	e := newEnv(Config{})
	e.credit(t, 1, 1000)
	ctx := context.Background()

	payout, err := e.svc.Request(ctx, &models.Merchant{ID: 1}, bankRequest(400))
	require.NoError(t, err)

	got, err := e.svc.Get(ctx, 1, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, payout.ID, got.ID)

	_, err = e.svc.Get(ctx, 2, payout.ID)
	assert.ErrorIs(t, err, domainerr.ErrPayoutNotFound)
}
