package repositories

import (
	"context"
	"fmt"

	"paygate/internal/models"

	"gorm.io/gorm"
)

// ScenarioRepository loads the seeded scenario mappings once at boot.
type ScenarioRepository interface {
	ListMappings(ctx context.Context) ([]models.ScenarioMapping, error)
}

type scenarioRepository struct {
	db *gorm.DB
}

func NewScenarioRepository(db *gorm.DB) ScenarioRepository {
	return &scenarioRepository{db: db}
}

func (r *scenarioRepository) ListMappings(ctx context.Context) ([]models.ScenarioMapping, error) {
	var mappings []models.ScenarioMapping
	if err := r.db.WithContext(ctx).Find(&mappings).Error; err != nil {
		return nil, fmt.Errorf("failed to list scenario mappings: %w", err)
	}
	return mappings, nil
}
