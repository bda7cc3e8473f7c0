package repositories

import (
	"context"
	stderrors "errors"
	"fmt"

	domainerr "paygate/internal/errors"
	"paygate/internal/models"

	"gorm.io/gorm"
)

type MerchantRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.Merchant, error)
	Create(ctx context.Context, merchant *models.Merchant) error
	Update(ctx context.Context, merchant *models.Merchant) error
}

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	return &merchant, nil
}

func (r *merchantRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("api_key_hash = ?", hash).First(&merchant).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get merchant by key hash: %w", err)
	}
	return &merchant, nil
}

func (r *merchantRepository) Create(ctx context.Context, merchant *models.Merchant) error {
	if err := r.db.WithContext(ctx).Create(merchant).Error; err != nil {
		return fmt.Errorf("failed to create merchant: %w", err)
	}
	return nil
}

func (r *merchantRepository) Update(ctx context.Context, merchant *models.Merchant) error {
	if err := r.db.WithContext(ctx).Save(merchant).Error; err != nil {
		return fmt.Errorf("failed to update merchant: %w", err)
	}
	return nil
}
