package shu

import (
	"context"

	"gorm.io/gorm"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
)

// ConfigRepository manages the single cooperative-wide allocation record.
type ConfigRepository interface {
	WithTx(tx *gorm.DB) ConfigRepository
	Get(ctx context.Context) (*models.AllocationConfig, error)
	Save(ctx context.Context, cfg *models.AllocationConfig) error
}

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository returns a config repository bound to the provided database.
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) WithTx(tx *gorm.DB) ConfigRepository {
	if tx == nil {
		return r
	}
	return &configRepository{db: tx}
}

func (r *configRepository) Get(ctx context.Context) (*models.AllocationConfig, error) {
	var cfg models.AllocationConfig
	if err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *configRepository) Save(ctx context.Context, cfg *models.AllocationConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}
