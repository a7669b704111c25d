package enums

import "fmt"

// OutboxEventType labels notification events written by the transaction
// lifecycle manager. Delivery (WhatsApp relay, dashboards) happens outside the
// ledger path.
type OutboxEventType string

const (
	OutboxEventTransactionSubmitted OutboxEventType = "transaction.submitted"
	OutboxEventTransactionApproved  OutboxEventType = "transaction.approved"
	OutboxEventTransactionRejected  OutboxEventType = "transaction.rejected"
	OutboxEventPOSSaleRecorded      OutboxEventType = "pos.sale_recorded"
)

var validOutboxEventTypes = []OutboxEventType{
	OutboxEventTransactionSubmitted,
	OutboxEventTransactionApproved,
	OutboxEventTransactionRejected,
	OutboxEventPOSSaleRecorded,
}

// String implements fmt.Stringer.
func (t OutboxEventType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OutboxEventType.
func (t OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}

// OutboxStatus tracks publisher progress for an outbox row.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusPublished OutboxStatus = "PUBLISHED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// String implements fmt.Stringer.
func (s OutboxStatus) String() string {
	return string(s)
}
