// Package ledger maintains per-merchant balances as an append-only entry
// stream. Every mutation appends one entry whose recorded balance equals
// the previous balance plus or minus the amount, and updates the balance
// row to the same value inside one store transaction. Mutations for a
// merchant serialize on the balance row lock; different merchants proceed
// in parallel.
package ledger

import (
	"context"
	"log"
	"time"

	domainerr "paygate/internal/errors"
	"paygate/internal/models"
	"paygate/internal/repositories"
	"paygate/internal/repositories/cache"
)

type Service interface {
	Credit(ctx context.Context, merchantID uint, amount float64, description string, metadata models.JSON) (*models.LedgerEntry, error)
	Debit(ctx context.Context, merchantID uint, amount float64, description string, metadata models.JSON) (*models.LedgerEntry, error)
	Lock(ctx context.Context, merchantID uint, amount float64) error
	Unlock(ctx context.Context, merchantID uint, amount float64) error
	GetBalance(ctx context.Context, merchantID uint) (*models.MerchantBalance, error)
	GetHistory(ctx context.Context, merchantID uint, limit, offset int) ([]models.LedgerEntry, int64, error)

	// Tx variants operate on a ledger repository already bound to the
	// caller's transaction, so a payment or payout can move money in the
	// same atomic unit as its own state change. Callers must invalidate
	// the balance cache after commit via InvalidateBalance.
	CreditTx(ctx context.Context, tx repositories.LedgerRepository, merchantID uint, amount float64, description string, metadata models.JSON) (*models.LedgerEntry, error)
	DebitTx(ctx context.Context, tx repositories.LedgerRepository, merchantID uint, amount float64, description string, metadata models.JSON) (*models.LedgerEntry, error)
	LockTx(ctx context.Context, tx repositories.LedgerRepository, merchantID uint, amount float64) error
	UnlockTx(ctx context.Context, tx repositories.LedgerRepository, merchantID uint, amount float64) error
	InvalidateBalance(ctx context.Context, merchantID uint)
}

type service struct {
	repo  repositories.LedgerRepository
	cache *cache.Service
}

func NewService(repo repositories.LedgerRepository, cacheSvc *cache.Service) Service {
	if repo == nil {
		panic("ledger repository is required")
	}
	return &service{repo: repo, cache: cacheSvc}
}

func (s *service) Credit(ctx context.Context, merchantID uint, amount float64, description string, metadata models.JSON) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		e, err := s.CreditTx(ctx, tx, merchantID, amount, description, metadata)
		entry = e
		return err
	})
	if err != nil {
		return nil, err
	}
	s.InvalidateBalance(ctx, merchantID)
	return entry, nil
}

func (s *service) Debit(ctx context.Context, merchantID uint, amount float64, description string, metadata models.JSON) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		e, err := s.DebitTx(ctx, tx, merchantID, amount, description, metadata)
		entry = e
		return err
	})
	if err != nil {
		return nil, err
	}
	s.InvalidateBalance(ctx, merchantID)
	return entry, nil
}

func (s *service) Lock(ctx context.Context, merchantID uint, amount float64) error {
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		return s.LockTx(ctx, tx, merchantID, amount)
	})
	if err != nil {
		return err
	}
	s.InvalidateBalance(ctx, merchantID)
	return nil
}

func (s *service) Unlock(ctx context.Context, merchantID uint, amount float64) error {
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		return s.UnlockTx(ctx, tx, merchantID, amount)
	})
	if err != nil {
		return err
	}
	s.InvalidateBalance(ctx, merchantID)
	return nil
}

func (s *service) CreditTx(ctx context.Context, tx repositories.LedgerRepository, merchantID uint, amount float64, description string, metadata models.JSON) (*models.LedgerEntry, error) {
	if amount <= 0 {
		return nil, domainerr.ErrInvalidAmount
	}
	bal, err := tx.GetBalanceForUpdate(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	bal.Balance += amount
	return s.append(ctx, tx, bal, models.EntryTypeCredit, amount, description, metadata)
}

func (s *service) DebitTx(ctx context.Context, tx repositories.LedgerRepository, merchantID uint, amount float64, description string, metadata models.JSON) (*models.LedgerEntry, error) {
	if amount <= 0 {
		return nil, domainerr.ErrInvalidAmount
	}
	bal, err := tx.GetBalanceForUpdate(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if bal.Balance-amount < bal.LockedBalance {
		return nil, domainerr.ErrInsufficientFunds
	}
	bal.Balance -= amount
	return s.append(ctx, tx, bal, models.EntryTypeDebit, amount, description, metadata)
}

// LockTx reserves funds for an in-flight payout. Locking moves no money,
// so no ledger entry is written; only LockedBalance changes.
func (s *service) LockTx(ctx context.Context, tx repositories.LedgerRepository, merchantID uint, amount float64) error {
	if amount <= 0 {
		return domainerr.ErrInvalidAmount
	}
	bal, err := tx.GetBalanceForUpdate(ctx, merchantID)
	if err != nil {
		return err
	}
	if bal.Available() < amount {
		return domainerr.ErrInsufficientFunds
	}
	bal.LockedBalance += amount
	bal.UpdatedAt = time.Now().UTC()
	return tx.SaveBalance(ctx, bal)
}

func (s *service) UnlockTx(ctx context.Context, tx repositories.LedgerRepository, merchantID uint, amount float64) error {
	if amount <= 0 {
		return domainerr.ErrInvalidAmount
	}
	bal, err := tx.GetBalanceForUpdate(ctx, merchantID)
	if err != nil {
		return err
	}
	if bal.LockedBalance < amount {
		return domainerr.ErrInvalidAmount
	}
	bal.LockedBalance -= amount
	bal.UpdatedAt = time.Now().UTC()
	return tx.SaveBalance(ctx, bal)
}

func (s *service) append(ctx context.Context, tx repositories.LedgerRepository, bal *models.MerchantBalance, entryType string, amount float64, description string, metadata models.JSON) (*models.LedgerEntry, error) {
	entry := &models.LedgerEntry{
		MerchantID:  bal.MerchantID,
		Type:        entryType,
		Amount:      amount,
		Balance:     bal.Balance,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	bal.UpdatedAt = entry.CreatedAt
	if err := tx.SaveBalance(ctx, bal); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) GetBalance(ctx context.Context, merchantID uint) (*models.MerchantBalance, error) {
	var cached models.MerchantBalance
	if hit, err := s.cache.Get(ctx, cache.BalanceKey(merchantID), &cached); err == nil && hit {
		return &cached, nil
	}

	bal, err := s.repo.GetBalance(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetWithTTL(ctx, cache.BalanceKey(merchantID), bal, time.Minute); err != nil {
		log.Printf("failed to cache balance: %v", err)
	}
	return bal, nil
}

func (s *service) GetHistory(ctx context.Context, merchantID uint, limit, offset int) ([]models.LedgerEntry, int64, error) {
	return s.repo.ListEntries(ctx, merchantID, limit, offset)
}

func (s *service) InvalidateBalance(ctx context.Context, merchantID uint) {
	if err := s.cache.Delete(ctx, cache.BalanceKey(merchantID)); err != nil {
		log.Printf("failed to invalidate balance cache: %v", err)
	}
}
