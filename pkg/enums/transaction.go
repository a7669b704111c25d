package enums

import "fmt"

// TransactionType enumerates the ledger entry kinds.
type TransactionType string

const (
	TransactionTypeDeposit       TransactionType = "DEPOSIT"
	TransactionTypePayment       TransactionType = "PAYMENT"
	TransactionTypeWithdrawal    TransactionType = "WITHDRAWAL"
	TransactionTypePurchase      TransactionType = "PURCHASE"
	TransactionTypeSHUWithdrawal TransactionType = "SHU_WITHDRAWAL"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeDeposit,
	TransactionTypePayment,
	TransactionTypeWithdrawal,
	TransactionTypePurchase,
	TransactionTypeSHUWithdrawal,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsSavings reports whether the type contributes to the savings positive side.
func (t TransactionType) IsSavings() bool {
	return t == TransactionTypeDeposit || t == TransactionTypePayment
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}

// TransactionStatus models the approval state machine. PENDING is the only
// non-terminal state; APPROVED and REJECTED are terminal.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusApproved TransactionStatus = "APPROVED"
	TransactionStatusRejected TransactionStatus = "REJECTED"
)

var validTransactionStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusApproved,
	TransactionStatusRejected,
}

// String implements fmt.Stringer.
func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TransactionStatus.
func (s TransactionStatus) IsValid() bool {
	for _, candidate := range validTransactionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusApproved || s == TransactionStatusRejected
}

// ParseTransactionStatus converts raw input into a TransactionStatus.
func ParseTransactionStatus(value string) (TransactionStatus, error) {
	for _, candidate := range validTransactionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction status %q", value)
}

// SavingsCategory classifies savings transactions. The mandatory (wajib)
// category drives SHU eligibility; legacy rows without a category are matched
// against the description text instead.
type SavingsCategory string

const (
	SavingsCategoryPrincipal SavingsCategory = "POKOK"
	SavingsCategoryMandatory SavingsCategory = "WAJIB"
	SavingsCategoryVoluntary SavingsCategory = "SUKARELA"
)

var validSavingsCategories = []SavingsCategory{
	SavingsCategoryPrincipal,
	SavingsCategoryMandatory,
	SavingsCategoryVoluntary,
}

// String implements fmt.Stringer.
func (c SavingsCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known SavingsCategory.
func (c SavingsCategory) IsValid() bool {
	for _, candidate := range validSavingsCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseSavingsCategory converts raw input into a SavingsCategory.
func ParseSavingsCategory(value string) (SavingsCategory, error) {
	for _, candidate := range validSavingsCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid savings category %q", value)
}

// MandatoryStatus reports whether the monthly wajib contribution is settled.
type MandatoryStatus string

const (
	MandatoryStatusPaid   MandatoryStatus = "PAID"
	MandatoryStatusUnpaid MandatoryStatus = "UNPAID"
)

// String implements fmt.Stringer.
func (s MandatoryStatus) String() string {
	return string(s)
}
