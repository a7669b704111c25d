package news

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

type fakeRepository struct {
	items []models.News
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, item *models.News) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context, limit int) ([]models.News, error) {
	if limit > 0 && limit < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func TestPublish(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	item, err := svc.Publish(context.Background(), PublishInput{
		Title:       "Rapat Anggota Tahunan",
		Body:        "RAT digelar 14 Februari di balai desa.",
		Tags:        []string{"rat", "pengumuman"},
		PublishedAt: time.Date(2026, time.January, 20, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if item.ID == uuid.Nil || len(repo.items) != 1 {
		t.Fatalf("announcement not stored: %+v", item)
	}
}

func TestPublishValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if _, err := svc.Publish(context.Background(), PublishInput{Body: "tanpa judul"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Publish(context.Background(), PublishInput{Title: "tanpa isi"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUnpublishMissing(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	if err := svc.Unpublish(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
