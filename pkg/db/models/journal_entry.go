package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
)

// JournalEntry is a manual cash-book row maintained by the admin. Together
// with shop sale profits these rows form the cooperative's net income.
type JournalEntry struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Date        time.Time              `gorm:"column:date;type:date;not null" json:"date"`
	Type        enums.JournalEntryType `gorm:"column:type;not null" json:"type"`
	Category    string                 `gorm:"column:category;not null" json:"category"`
	Amount      decimal.Decimal        `gorm:"column:amount;type:numeric(18,2);not null" json:"amount"`
	Description string                 `gorm:"column:description" json:"description"`
	IsCash      bool                   `gorm:"column:is_cash;not null;default:true" json:"is_cash"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
