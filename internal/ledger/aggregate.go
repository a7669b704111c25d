package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
)

// MandatoryDeadlineDay is the last day of the month on which a wajib
// contribution still counts toward SHU eligibility.
const MandatoryDeadlineDay = 10

// mandatoryTerm matches legacy rows that carry the wajib tag in their
// description instead of an explicit category.
const mandatoryTerm = "wajib"

// IsMandatory reports whether the row is a wajib contribution. Rows written by
// this system carry the category column; older imported rows are matched on
// the description text.
func IsMandatory(txn models.Transaction) bool {
	if txn.Category != nil {
		return *txn.Category == enums.SavingsCategoryMandatory
	}
	return strings.Contains(strings.ToLower(txn.Description), mandatoryTerm)
}

// IsLate reports whether a wajib DEPOSIT/PAYMENT landed after the monthly
// deadline. Late rows stay in the savings balance but lose SHU eligibility.
func IsLate(txn models.Transaction) bool {
	if !txn.Type.IsSavings() || !IsMandatory(txn) {
		return false
	}
	return txn.Date.Day() > MandatoryDeadlineDay
}

// NetSavings sums approved DEPOSIT and PAYMENT amounts and subtracts approved
// WITHDRAWAL amounts. SHU_WITHDRAWAL draws from the profit pool, not the
// principal, so it never moves this figure.
func NetSavings(txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		if txn.Status != enums.TransactionStatusApproved {
			continue
		}
		switch {
		case txn.Type.IsSavings():
			total = total.Add(txn.Amount)
		case txn.Type == enums.TransactionTypeWithdrawal:
			total = total.Sub(txn.Amount)
		}
	}
	return total
}

// EligibleSavings is NetSavings with the SHU eligibility filter applied: late
// wajib contributions are dropped from the positive side, and SHU_WITHDRAWAL
// also reduces the figure.
func EligibleSavings(txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		if txn.Status != enums.TransactionStatusApproved {
			continue
		}
		switch {
		case txn.Type.IsSavings():
			if IsLate(txn) {
				continue
			}
			total = total.Add(txn.Amount)
		case txn.Type == enums.TransactionTypeWithdrawal,
			txn.Type == enums.TransactionTypeSHUWithdrawal:
			total = total.Sub(txn.Amount)
		}
	}
	return total
}

// NetPurchases sums approved PURCHASE amounts.
func NetPurchases(txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		if txn.Status == enums.TransactionStatusApproved && txn.Type == enums.TransactionTypePurchase {
			total = total.Add(txn.Amount)
		}
	}
	return total
}

// MemberPurchases sums approved PURCHASE amounts bought by members. Walk-in
// point-of-sale rows stay out: they can never appear in a member numerator,
// so the jasa transaksi denominator must not contain them either.
func MemberPurchases(txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		if txn.IsWalkIn() {
			continue
		}
		if txn.Status == enums.TransactionStatusApproved && txn.Type == enums.TransactionTypePurchase {
			total = total.Add(txn.Amount)
		}
	}
	return total
}

// PurchaseProfit sums the recorded margin of approved PURCHASE rows.
func PurchaseProfit(txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		if txn.Status != enums.TransactionStatusApproved || txn.Type != enums.TransactionTypePurchase {
			continue
		}
		if txn.Profit != nil {
			total = total.Add(*txn.Profit)
		}
	}
	return total
}

// MonthlyMandatoryStatus returns PAID when any approved wajib PAYMENT exists
// within the reference month, UNPAID otherwise.
func MonthlyMandatoryStatus(txns []models.Transaction, referenceMonth time.Time) enums.MandatoryStatus {
	year, month := referenceMonth.Year(), referenceMonth.Month()
	for _, txn := range txns {
		if txn.Status != enums.TransactionStatusApproved || txn.Type != enums.TransactionTypePayment {
			continue
		}
		if !IsMandatory(txn) {
			continue
		}
		if txn.Date.Year() == year && txn.Date.Month() == month {
			return enums.MandatoryStatusPaid
		}
	}
	return enums.MandatoryStatusUnpaid
}
