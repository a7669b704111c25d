package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
)

// TransactionSubmittedEvent signals a member self-service request awaiting review.
type TransactionSubmittedEvent struct {
	TransactionID uuid.UUID             `json:"transaction_id"`
	MemberID      uuid.UUID             `json:"member_id"`
	Type          enums.TransactionType `json:"type"`
	Amount        decimal.Decimal       `json:"amount"`
}

// TransactionResolvedEvent is emitted when an administrator approves or rejects
// a pending request.
type TransactionResolvedEvent struct {
	TransactionID uuid.UUID               `json:"transaction_id"`
	MemberID      uuid.UUID               `json:"member_id"`
	Type          enums.TransactionType   `json:"type"`
	Amount        decimal.Decimal         `json:"amount"`
	Status        enums.TransactionStatus `json:"status"`
	ResolvedAt    time.Time               `json:"resolved_at"`
}

// POSSaleRecordedEvent surfaces a completed counter sale.
type POSSaleRecordedEvent struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	MemberID      uuid.UUID       `json:"member_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Quantity      int             `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
	Profit        decimal.Decimal `json:"profit"`
	WalkIn        bool            `json:"walk_in"`
}
