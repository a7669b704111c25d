package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
)

// Repository loads the approved transaction rows the aggregator scans.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListApproved(ctx context.Context) ([]models.Transaction, error)
	ListApprovedByMember(ctx context.Context, memberID uuid.UUID) ([]models.Transaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListApproved(ctx context.Context) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("status = ?", enums.TransactionStatusApproved).
		Order("date ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) ListApprovedByMember(ctx context.Context, memberID uuid.UUID) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("member_id = ? AND status = ?", memberID, enums.TransactionStatusApproved).
		Order("date ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
