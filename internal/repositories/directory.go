package repositories

import (
	"context"
	stderrors "errors"
	"fmt"

	"paygate/internal/models"

	"gorm.io/gorm"
)

// DirectoryRepository reads the bank/wallet reference tables.
type DirectoryRepository interface {
	ListActiveBanks(ctx context.Context) ([]models.Bank, error)
	ListActiveWallets(ctx context.Context) ([]models.WalletProvider, error)
	GetActiveBank(ctx context.Context, code string) (*models.Bank, error)
	GetActiveWallet(ctx context.Context, code string) (*models.WalletProvider, error)
}

type directoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{db: db}
}

func (r *directoryRepository) ListActiveBanks(ctx context.Context) ([]models.Bank, error) {
	var banks []models.Bank
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("code").Find(&banks).Error; err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	return banks, nil
}

func (r *directoryRepository) ListActiveWallets(ctx context.Context) ([]models.WalletProvider, error) {
	var wallets []models.WalletProvider
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("code").Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

func (r *directoryRepository) GetActiveBank(ctx context.Context, code string) (*models.Bank, error) {
	var bank models.Bank
	err := r.db.WithContext(ctx).Where("code = ? AND active = ?", code, true).First(&bank).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}
	return &bank, nil
}

func (r *directoryRepository) GetActiveWallet(ctx context.Context, code string) (*models.WalletProvider, error) {
	var wallet models.WalletProvider
	err := r.db.WithContext(ctx).Where("code = ? AND active = ?", code, true).First(&wallet).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}
