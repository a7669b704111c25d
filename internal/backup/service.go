package backup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

// SnapshotVersion marks the snapshot layout. Bump when the shape changes.
const SnapshotVersion = 1

// Snapshot is the full portable state of the cooperative: every collection
// the portal owns, round-trippable without loss.
type Snapshot struct {
	Version      int                       `json:"version"`
	ExportedAt   time.Time                 `json:"exported_at"`
	Members      []models.Member           `json:"members"`
	Transactions []models.Transaction      `json:"transactions"`
	Products     []models.Product          `json:"products"`
	Configs      []models.AllocationConfig `json:"allocation_configs"`
	Journal      []models.JournalEntry     `json:"journal_entries"`
	News         []models.News             `json:"news"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service produces and restores full-state snapshots.
type Service interface {
	Export(ctx context.Context) (*Snapshot, error)
	Import(ctx context.Context, snapshot *Snapshot) error
}

type service struct {
	db *gorm.DB
	tx txRunner
}

// NewService builds the backup service over the raw database handle; backup
// is the one place that touches every table directly.
func NewService(db *gorm.DB, tx txRunner) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{db: db, tx: tx}, nil
}

func (s *service) Export(ctx context.Context) (*Snapshot, error) {
	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC(),
	}

	gdb := s.db.WithContext(ctx)
	if err := gdb.Order("created_at ASC").Find(&snapshot.Members).Error; err != nil {
		return nil, fmt.Errorf("export members: %w", err)
	}
	if err := gdb.Order("created_at ASC").Find(&snapshot.Transactions).Error; err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	if err := gdb.Order("created_at ASC").Find(&snapshot.Products).Error; err != nil {
		return nil, fmt.Errorf("export products: %w", err)
	}
	if err := gdb.Find(&snapshot.Configs).Error; err != nil {
		return nil, fmt.Errorf("export allocation configs: %w", err)
	}
	if err := gdb.Order("created_at ASC").Find(&snapshot.Journal).Error; err != nil {
		return nil, fmt.Errorf("export journal entries: %w", err)
	}
	if err := gdb.Order("created_at ASC").Find(&snapshot.News).Error; err != nil {
		return nil, fmt.Errorf("export news: %w", err)
	}
	return snapshot, nil
}

// Import replaces the current state with the snapshot in one transaction.
// Validation failures are aggregated so the admin sees every defect at once.
func (s *service) Import(ctx context.Context, snapshot *Snapshot) error {
	if err := validate(snapshot); err != nil {
		details := make([]string, 0, len(multierr.Errors(err)))
		for _, defect := range multierr.Errors(err) {
			details = append(details, defect.Error())
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "snapshot rejected").
			WithDetails(map[string]any{"defects": details})
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		// children first, then parents
		for _, target := range []any{
			&models.Transaction{},
			&models.News{},
			&models.JournalEntry{},
			&models.AllocationConfig{},
			&models.Product{},
			&models.Member{},
		} {
			if err := tx.Where("1 = 1").Delete(target).Error; err != nil {
				return fmt.Errorf("clearing %T: %w", target, err)
			}
		}

		if len(snapshot.Members) > 0 {
			if err := tx.Create(&snapshot.Members).Error; err != nil {
				return fmt.Errorf("restore members: %w", err)
			}
		}
		if len(snapshot.Products) > 0 {
			if err := tx.Create(&snapshot.Products).Error; err != nil {
				return fmt.Errorf("restore products: %w", err)
			}
		}
		if len(snapshot.Configs) > 0 {
			if err := tx.Create(&snapshot.Configs).Error; err != nil {
				return fmt.Errorf("restore allocation configs: %w", err)
			}
		}
		if len(snapshot.Journal) > 0 {
			if err := tx.Create(&snapshot.Journal).Error; err != nil {
				return fmt.Errorf("restore journal entries: %w", err)
			}
		}
		if len(snapshot.News) > 0 {
			if err := tx.Create(&snapshot.News).Error; err != nil {
				return fmt.Errorf("restore news: %w", err)
			}
		}
		if len(snapshot.Transactions) > 0 {
			if err := tx.Create(&snapshot.Transactions).Error; err != nil {
				return fmt.Errorf("restore transactions: %w", err)
			}
		}
		return nil
	})
}

func validate(snapshot *Snapshot) error {
	if snapshot == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "snapshot is required")
	}
	var err error
	if snapshot.Version != SnapshotVersion {
		err = multierr.Append(err, fmt.Errorf("unsupported snapshot version %d", snapshot.Version))
	}
	for i, member := range snapshot.Members {
		if member.Email == "" {
			err = multierr.Append(err, fmt.Errorf("member %d: email is required", i))
		}
		if !member.Role.IsValid() {
			err = multierr.Append(err, fmt.Errorf("member %d: invalid role %q", i, member.Role))
		}
	}
	for i, txn := range snapshot.Transactions {
		if !txn.Type.IsValid() {
			err = multierr.Append(err, fmt.Errorf("transaction %d: invalid type %q", i, txn.Type))
		}
		if !txn.Status.IsValid() {
			err = multierr.Append(err, fmt.Errorf("transaction %d: invalid status %q", i, txn.Status))
		}
		if txn.Amount.IsNegative() {
			err = multierr.Append(err, fmt.Errorf("transaction %d: negative amount", i))
		}
	}
	for i, product := range snapshot.Products {
		if product.Stock < 0 {
			err = multierr.Append(err, fmt.Errorf("product %d: negative stock", i))
		}
	}
	for i, entry := range snapshot.Journal {
		if !entry.Type.IsValid() {
			err = multierr.Append(err, fmt.Errorf("journal entry %d: invalid type %q", i, entry.Type))
		}
	}
	return err
}
