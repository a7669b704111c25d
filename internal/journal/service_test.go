package journal

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

type fakeRepository struct {
	created []models.JournalEntry
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	f.created = append(f.created, *entry)
	return nil
}

func (f *fakeRepository) ListAll(ctx context.Context) ([]models.JournalEntry, error) {
	return f.created, nil
}

func TestRecordEntry(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	entry, err := svc.RecordEntry(context.Background(), RecordEntryInput{
		Date:     time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		Type:     enums.JournalEntryTypeCredit,
		Category: "sewa kios",
		Amount:   decimal.NewFromInt(750_000),
		IsCash:   true,
	})
	if err != nil {
		t.Fatalf("RecordEntry error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created entry, got %d", len(repo.created))
	}
	if entry.Type != enums.JournalEntryTypeCredit || !entry.Amount.Equal(decimal.NewFromInt(750_000)) {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestRecordEntryValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	cases := []struct {
		name  string
		input RecordEntryInput
	}{
		{"invalid type", RecordEntryInput{Type: "TRANSFER", Category: "x", Amount: decimal.NewFromInt(1)}},
		{"missing category", RecordEntryInput{Type: enums.JournalEntryTypeDebit, Amount: decimal.NewFromInt(1)}},
		{"negative amount", RecordEntryInput{Type: enums.JournalEntryTypeDebit, Category: "x", Amount: decimal.NewFromInt(-1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordEntry(context.Background(), tc.input)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
