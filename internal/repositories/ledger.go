package repositories

import (
	"context"
	stderrors "errors"
	"fmt"

	"paygate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository serializes balance mutations for a merchant through a
// row-level lock on the MerchantBalance record. Callers mutate balances
// only inside ExecuteInTransaction using GetBalanceForUpdate.
type LedgerRepository interface {
	ExecuteInTransaction(ctx context.Context, fn func(tx LedgerRepository) error) error
	GetBalanceForUpdate(ctx context.Context, merchantID uint) (*models.MerchantBalance, error)
	SaveBalance(ctx context.Context, bal *models.MerchantBalance) error
	CreateEntry(ctx context.Context, entry *models.LedgerEntry) error
	GetBalance(ctx context.Context, merchantID uint) (*models.MerchantBalance, error)
	ListEntries(ctx context.Context, merchantID uint, limit, offset int) ([]models.LedgerEntry, int64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) ExecuteInTransaction(ctx context.Context, fn func(tx LedgerRepository) error) error {
	return runInTransaction(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}

// GetBalanceForUpdate locks the merchant's balance row for the remainder
// of the surrounding transaction, creating a zero row on first use.
func (r *ledgerRepository) GetBalanceForUpdate(ctx context.Context, merchantID uint) (*models.MerchantBalance, error) {
	var bal models.MerchantBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("merchant_id = ?", merchantID).
		First(&bal).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		bal = models.MerchantBalance{MerchantID: merchantID}
		if err := r.db.WithContext(ctx).Create(&bal).Error; err != nil {
			return nil, fmt.Errorf("failed to create balance row: %w", err)
		}
		return &bal, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock balance: %w", err)
	}
	return &bal, nil
}

func (r *ledgerRepository) SaveBalance(ctx context.Context, bal *models.MerchantBalance) error {
	if err := r.db.WithContext(ctx).Save(bal).Error; err != nil {
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}

func (r *ledgerRepository) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetBalance(ctx context.Context, merchantID uint) (*models.MerchantBalance, error) {
	var bal models.MerchantBalance
	err := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID).First(&bal).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return &models.MerchantBalance{MerchantID: merchantID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &bal, nil
}

func (r *ledgerRepository) ListEntries(ctx context.Context, merchantID uint, limit, offset int) ([]models.LedgerEntry, int64, error) {
	var entries []models.LedgerEntry
	var total int64

	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("merchant_id = ?", merchantID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, total, nil
}
