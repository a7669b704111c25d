package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// News is a cooperative announcement shown on the member information page.
type News struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Body        string         `gorm:"column:body;not null" json:"body"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]" json:"tags,omitempty"`
	PublishedAt time.Time      `gorm:"column:published_at;not null" json:"published_at"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
