package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
)

// OutboxMessage is a notification event persisted in the same transaction as
// the ledger write it describes. A separate publisher drains pending rows.
type OutboxMessage struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventType   enums.OutboxEventType `gorm:"column:event_type;not null" json:"event_type"`
	AggregateID uuid.UUID             `gorm:"column:aggregate_id;type:uuid;not null;index" json:"aggregate_id"`
	Payload     json.RawMessage       `gorm:"column:payload;type:jsonb" json:"payload"`
	Status      enums.OutboxStatus    `gorm:"column:status;not null;default:PENDING;index" json:"status"`
	Attempts    int                   `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastError   *string               `gorm:"column:last_error" json:"last_error,omitempty"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	PublishedAt *time.Time            `gorm:"column:published_at" json:"published_at,omitempty"`
}
