package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

// Service records admin cash-book entries.
type Service interface {
	RecordEntry(ctx context.Context, input RecordEntryInput) (*models.JournalEntry, error)
	ListEntries(ctx context.Context) ([]models.JournalEntry, error)
}

// RecordEntryInput captures a manual income or expense row.
type RecordEntryInput struct {
	Date        time.Time              `json:"date"`
	Type        enums.JournalEntryType `json:"type"`
	Category    string                 `json:"category"`
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description"`
	IsCash      bool                   `json:"is_cash"`
}

type service struct {
	repo Repository
}

// NewService wires a journal service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("journal repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordEntry(ctx context.Context, input RecordEntryInput) (*models.JournalEntry, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid journal entry type %q", input.Type))
	}
	if input.Category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	entry := &models.JournalEntry{
		Date:        input.Date,
		Type:        input.Type,
		Category:    input.Category,
		Amount:      input.Amount,
		Description: input.Description,
		IsCash:      input.IsCash,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) ListEntries(ctx context.Context) ([]models.JournalEntry, error) {
	return s.repo.ListAll(ctx)
}
