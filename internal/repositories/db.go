// Package repositories provides the data access layer. All engine
// invariants are enforced at the store-transaction boundary, so every
// mutating operation goes through ExecuteInTransaction on its repository.
package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"

	"paygate/internal/config"
	domainerr "paygate/internal/errors"
	"paygate/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the PostgreSQL connection and migrates the schema.
// The handle is returned to the caller and threaded explicitly through
// every repository constructor; there is no package-level singleton.
func InitDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetEnv("DB_HOST", "localhost"),
		config.GetEnv("DB_USER", "paygate"),
		config.GetEnv("DB_PASSWORD", "paygate"),
		config.GetEnv("DB_NAME", "paygate"),
		config.GetEnv("DB_PORT", "5432"),
		config.GetEnv("DB_SSLMODE", "disable"),
	)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Merchant{},
		&models.MerchantBalance{},
		&models.Checkout{},
		&models.LedgerEntry{},
		&models.Payout{},
		&models.OutboxEvent{},
		&models.Bank{},
		&models.WalletProvider{},
		&models.ScenarioMapping{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Println("database connection established")
	return db, nil
}

// gormConfig builds the store configuration. TranslateError must stay on:
// without it GORM surfaces raw driver errors and the unique-index
// violation on (merchant_id, reference) would never map to
// ErrDuplicateReference.
func gormConfig() *gorm.Config {
	logLevel := logger.Warn
	if !config.IsProduction() {
		logLevel = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}
}

// runInTransaction executes fn in a database transaction. Transient store
// failures are retried once; domain errors surface immediately.
func runInTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	var de *domainerr.DomainError
	if stderrors.As(err, &de) {
		return err
	}
	return db.WithContext(ctx).Transaction(fn)
}
