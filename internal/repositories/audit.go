package repositories

import (
	"context"
	"fmt"

	"paygate/internal/models"

	"gorm.io/gorm"
)

// AuditRepository appends audit records. There is deliberately no update
// or delete surface.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}
