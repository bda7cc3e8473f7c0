package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	domainerr "paygate/internal/errors"
	"paygate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PayoutRepository persists payouts. GetByIDForUpdate locks the payout row
// so no two callers can advance the same payout concurrently.
type PayoutRepository interface {
	ExecuteInTransaction(ctx context.Context, fn func(tx PayoutRepository) error) error
	Create(ctx context.Context, payout *models.Payout) error
	GetByID(ctx context.Context, id string) (*models.Payout, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Payout, error)
	Update(ctx context.Context, payout *models.Payout) error
	ListProcessingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Payout, error)
	CreateOutboxEvent(ctx context.Context, event *models.OutboxEvent) error
	Ledger() LedgerRepository
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) ExecuteInTransaction(ctx context.Context, fn func(tx PayoutRepository) error) error {
	return runInTransaction(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&payoutRepository{db: tx})
	})
}

func (r *payoutRepository) Create(ctx context.Context, payout *models.Payout) error {
	if err := r.db.WithContext(ctx).Create(payout).Error; err != nil {
		return fmt.Errorf("failed to create payout: %w", err)
	}
	return nil
}

func (r *payoutRepository) GetByID(ctx context.Context, id string) (*models.Payout, error) {
	var payout models.Payout
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payout).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	return &payout, nil
}

func (r *payoutRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&payout).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to lock payout: %w", err)
	}
	return &payout, nil
}

func (r *payoutRepository) Update(ctx context.Context, payout *models.Payout) error {
	if err := r.db.WithContext(ctx).Save(payout).Error; err != nil {
		return fmt.Errorf("failed to update payout: %w", err)
	}
	return nil
}

// ListProcessingBefore returns payouts stuck in PROCESSING since before the
// cutoff, used by the dwell-time sweep.
func (r *payoutRepository) ListProcessingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.WithContext(ctx).
		Where("status = ? AND submitted_at < ?", models.PayoutStatusProcessing, cutoff).
		Order("submitted_at ASC").
		Limit(limit).
		Find(&payouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale payouts: %w", err)
	}
	return payouts, nil
}

func (r *payoutRepository) CreateOutboxEvent(ctx context.Context, event *models.OutboxEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *payoutRepository) Ledger() LedgerRepository {
	return &ledgerRepository{db: r.db}
}
