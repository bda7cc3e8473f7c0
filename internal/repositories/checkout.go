package repositories

import (
	"context"
	stderrors "errors"
	"fmt"

	domainerr "paygate/internal/errors"
	"paygate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckoutRepository persists checkouts. Ledger exposes a ledger repository
// bound to the same transaction so checkout finalization, its ledger credit
// and its outbox event commit atomically.
type CheckoutRepository interface {
	ExecuteInTransaction(ctx context.Context, fn func(tx CheckoutRepository) error) error
	Create(ctx context.Context, checkout *models.Checkout) error
	GetByID(ctx context.Context, id string) (*models.Checkout, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Checkout, error)
	GetByReference(ctx context.Context, merchantID uint, reference string) (*models.Checkout, error)
	Update(ctx context.Context, checkout *models.Checkout) error
	CreateOutboxEvent(ctx context.Context, event *models.OutboxEvent) error
	Ledger() LedgerRepository
}

type checkoutRepository struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepository{db: db}
}

func (r *checkoutRepository) ExecuteInTransaction(ctx context.Context, fn func(tx CheckoutRepository) error) error {
	return runInTransaction(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&checkoutRepository{db: tx})
	})
}

func (r *checkoutRepository) Create(ctx context.Context, checkout *models.Checkout) error {
	if err := r.db.WithContext(ctx).Create(checkout).Error; err != nil {
		return r.translateCreateError(err)
	}
	return nil
}

// translateCreateError maps the unique-index violation on
// (merchant_id, reference) to the duplicate-reference domain error.
func (r *checkoutRepository) translateCreateError(err error) error {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerr.ErrDuplicateReference
	}
	return fmt.Errorf("failed to create checkout: %w", err)
}

func (r *checkoutRepository) GetByID(ctx context.Context, id string) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&checkout).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("failed to get checkout: %w", err)
	}
	return &checkout, nil
}

func (r *checkoutRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Checkout, error) {
	var checkout models.Checkout
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&checkout).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("failed to lock checkout: %w", err)
	}
	return &checkout, nil
}

func (r *checkoutRepository) GetByReference(ctx context.Context, merchantID uint, reference string) (*models.Checkout, error) {
	var checkout models.Checkout
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND reference = ?", merchantID, reference).
		First(&checkout).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("failed to get checkout by reference: %w", err)
	}
	return &checkout, nil
}

func (r *checkoutRepository) Update(ctx context.Context, checkout *models.Checkout) error {
	if err := r.db.WithContext(ctx).Save(checkout).Error; err != nil {
		return fmt.Errorf("failed to update checkout: %w", err)
	}
	return nil
}

func (r *checkoutRepository) CreateOutboxEvent(ctx context.Context, event *models.OutboxEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *checkoutRepository) Ledger() LedgerRepository {
	return &ledgerRepository{db: r.db}
}
