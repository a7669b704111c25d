package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

// Repository manages persistence for announcements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.News) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit int) ([]models.News, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a news repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.News) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.News{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, limit int) ([]models.News, error) {
	query := r.db.WithContext(ctx).Order("published_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var items []models.News
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Service publishes cooperative announcements to the member information page.
type Service interface {
	Publish(ctx context.Context, input PublishInput) (*models.News, error)
	Unpublish(ctx context.Context, id uuid.UUID) error
	ListLatest(ctx context.Context, limit int) ([]models.News, error)
}

// PublishInput is an admin announcement payload.
type PublishInput struct {
	Title       string
	Body        string
	Tags        []string
	PublishedAt time.Time
}

type service struct {
	repo Repository
}

// NewService wires a news service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("news repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Publish(ctx context.Context, input PublishInput) (*models.News, error) {
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}
	publishedAt := input.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}

	item := &models.News{
		ID:          uuid.New(),
		Title:       input.Title,
		Body:        input.Body,
		Tags:        pq.StringArray(input.Tags),
		PublishedAt: publishedAt,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "announcement not found")
	}
	return err
}

func (s *service) ListLatest(ctx context.Context, limit int) ([]models.News, error) {
	return s.repo.List(ctx, limit)
}
