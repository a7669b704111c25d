package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
)

// Transaction is the central ledger row. Amount, type and description are
// immutable after creation; only Status may change, and only away from
// PENDING. MemberID is uuid.Nil for walk-in shop sales.
type Transaction struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MemberID    uuid.UUID               `gorm:"column:member_id;type:uuid;not null;index" json:"member_id"`
	Date        time.Time               `gorm:"column:date;type:date;not null" json:"date"`
	Type        enums.TransactionType   `gorm:"column:type;not null" json:"type"`
	Category    *enums.SavingsCategory  `gorm:"column:category" json:"category,omitempty"`
	Amount      decimal.Decimal         `gorm:"column:amount;type:numeric(18,2);not null" json:"amount"`
	Status      enums.TransactionStatus `gorm:"column:status;not null;index" json:"status"`
	Description string                  `gorm:"column:description;not null" json:"description"`
	Profit      *decimal.Decimal        `gorm:"column:profit;type:numeric(18,2)" json:"profit,omitempty"`
	Quantity    *int                    `gorm:"column:quantity" json:"quantity,omitempty"`
	ProductID   *uuid.UUID              `gorm:"column:product_id;type:uuid" json:"product_id,omitempty"`
	IsCashFlow  bool                    `gorm:"column:is_cash_flow;not null;default:true" json:"is_cash_flow"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ResolvedAt  *time.Time              `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
}

// IsWalkIn reports whether the row belongs to the walk-in (non-member) buyer.
func (t Transaction) IsWalkIn() bool {
	return t.MemberID == uuid.Nil
}
