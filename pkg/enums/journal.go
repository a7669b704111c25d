package enums

import "fmt"

// JournalEntryType is the direction of a manual cash-book entry. CREDIT rows
// are income, DEBIT rows are expenses.
type JournalEntryType string

const (
	JournalEntryTypeCredit JournalEntryType = "CREDIT"
	JournalEntryTypeDebit  JournalEntryType = "DEBIT"
)

var validJournalEntryTypes = []JournalEntryType{
	JournalEntryTypeCredit,
	JournalEntryTypeDebit,
}

// String implements fmt.Stringer.
func (t JournalEntryType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known JournalEntryType.
func (t JournalEntryType) IsValid() bool {
	for _, candidate := range validJournalEntryTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseJournalEntryType converts raw input into a JournalEntryType.
func ParseJournalEntryType(value string) (JournalEntryType, error) {
	for _, candidate := range validJournalEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid journal entry type %q", value)
}
