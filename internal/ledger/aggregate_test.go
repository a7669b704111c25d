package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
)

func onDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func txn(txType enums.TransactionType, status enums.TransactionStatus, amount int64, date time.Time) models.Transaction {
	return models.Transaction{
		MemberID: uuid.New(),
		Type:     txType,
		Status:   status,
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
	}
}

func walkIn(t models.Transaction) models.Transaction {
	t.MemberID = uuid.Nil
	return t
}

func withCategory(t models.Transaction, cat enums.SavingsCategory) models.Transaction {
	t.Category = &cat
	return t
}

func withDescription(t models.Transaction, desc string) models.Transaction {
	t.Description = desc
	return t
}

func TestNetSavings(t *testing.T) {
	day := onDay(2026, time.March, 5)
	txns := []models.Transaction{
		txn(enums.TransactionTypeDeposit, enums.TransactionStatusApproved, 500_000, day),
		txn(enums.TransactionTypePayment, enums.TransactionStatusApproved, 100_000, day),
		txn(enums.TransactionTypeWithdrawal, enums.TransactionStatusApproved, 200_000, day),
		// inert rows
		txn(enums.TransactionTypeDeposit, enums.TransactionStatusPending, 1_000_000, day),
		txn(enums.TransactionTypeWithdrawal, enums.TransactionStatusRejected, 1_000_000, day),
		// draws from the profit pool, not principal
		txn(enums.TransactionTypeSHUWithdrawal, enums.TransactionStatusApproved, 50_000, day),
	}

	got := NetSavings(txns)
	if !got.Equal(decimal.NewFromInt(400_000)) {
		t.Fatalf("NetSavings = %s, want 400000", got)
	}
}

func TestEligibleSavingsExcludesLateMandatory(t *testing.T) {
	onTime := withCategory(txn(enums.TransactionTypePayment, enums.TransactionStatusApproved, 100_000, onDay(2026, time.March, 10)), enums.SavingsCategoryMandatory)
	late := withCategory(txn(enums.TransactionTypePayment, enums.TransactionStatusApproved, 100_000, onDay(2026, time.April, 11)), enums.SavingsCategoryMandatory)
	voluntary := txn(enums.TransactionTypeDeposit, enums.TransactionStatusApproved, 300_000, onDay(2026, time.April, 25))

	txns := []models.Transaction{onTime, late, voluntary}

	net := NetSavings(txns)
	eligible := EligibleSavings(txns)

	if !net.Equal(decimal.NewFromInt(500_000)) {
		t.Fatalf("NetSavings = %s, want 500000 (late row still counts)", net)
	}
	if !eligible.Equal(decimal.NewFromInt(400_000)) {
		t.Fatalf("EligibleSavings = %s, want 400000 (late row excluded)", eligible)
	}
}

func TestEligibleSavingsSubtractsSHUWithdrawal(t *testing.T) {
	txns := []models.Transaction{
		txn(enums.TransactionTypeDeposit, enums.TransactionStatusApproved, 1_000_000, onDay(2026, time.May, 2)),
		txn(enums.TransactionTypeSHUWithdrawal, enums.TransactionStatusApproved, 250_000, onDay(2026, time.May, 20)),
	}

	got := EligibleSavings(txns)
	if !got.Equal(decimal.NewFromInt(750_000)) {
		t.Fatalf("EligibleSavings = %s, want 750000", got)
	}
}

func TestIsMandatoryFallsBackToDescription(t *testing.T) {
	legacy := withDescription(txn(enums.TransactionTypePayment, enums.TransactionStatusApproved, 50_000, onDay(2026, time.June, 3)), "Simpanan Wajib Juni")
	if !IsMandatory(legacy) {
		t.Fatal("expected description match to tag legacy row as mandatory")
	}

	tagged := withCategory(withDescription(legacy, "whatever"), enums.SavingsCategoryVoluntary)
	if IsMandatory(tagged) {
		t.Fatal("explicit category must win over description text")
	}
}

func TestIsLate(t *testing.T) {
	cases := []struct {
		name string
		txn  models.Transaction
		want bool
	}{
		{
			name: "mandatory on deadline day",
			txn:  withCategory(txn(enums.TransactionTypePayment, enums.TransactionStatusApproved, 1, onDay(2026, time.July, 10)), enums.SavingsCategoryMandatory),
			want: false,
		},
		{
			name: "mandatory after deadline",
			txn:  withCategory(txn(enums.TransactionTypePayment, enums.TransactionStatusApproved, 1, onDay(2026, time.July, 11)), enums.SavingsCategoryMandatory),
			want: true,
		},
		{
			name: "voluntary after deadline",
			txn:  withCategory(txn(enums.TransactionTypeDeposit, enums.TransactionStatusApproved, 1, onDay(2026, time.July, 28)), enums.SavingsCategoryVoluntary),
			want: false,
		},
		{
			name: "mandatory withdrawal is never late",
			txn:  withDescription(txn(enums.TransactionTypeWithdrawal, enums.TransactionStatusApproved, 1, onDay(2026, time.July, 28)), "tarik simpanan wajib"),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsLate(tc.txn); got != tc.want {
				t.Fatalf("IsLate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNetPurchasesAndProfit(t *testing.T) {
	profit := decimal.NewFromInt(30_000)
	sale := txn(enums.TransactionTypePurchase, enums.TransactionStatusApproved, 150_000, onDay(2026, time.August, 1))
	sale.Profit = &profit

	pendingProfit := decimal.NewFromInt(99_000)
	pending := txn(enums.TransactionTypePurchase, enums.TransactionStatusPending, 500_000, onDay(2026, time.August, 2))
	pending.Profit = &pendingProfit

	txns := []models.Transaction{sale, pending}

	if got := NetPurchases(txns); !got.Equal(decimal.NewFromInt(150_000)) {
		t.Fatalf("NetPurchases = %s, want 150000", got)
	}
	if got := PurchaseProfit(txns); !got.Equal(profit) {
		t.Fatalf("PurchaseProfit = %s, want %s", got, profit)
	}
}

func TestMemberPurchasesSkipsWalkInRows(t *testing.T) {
	member := txn(enums.TransactionTypePurchase, enums.TransactionStatusApproved, 100_000, onDay(2026, time.August, 3))
	pos := walkIn(txn(enums.TransactionTypePurchase, enums.TransactionStatusApproved, 400_000, onDay(2026, time.August, 3)))

	txns := []models.Transaction{member, pos}

	if got := MemberPurchases(txns); !got.Equal(decimal.NewFromInt(100_000)) {
		t.Fatalf("MemberPurchases = %s, want 100000", got)
	}
	// the unfiltered total still sees both rows
	if got := NetPurchases(txns); !got.Equal(decimal.NewFromInt(500_000)) {
		t.Fatalf("NetPurchases = %s, want 500000", got)
	}
}

func TestMonthlyMandatoryStatus(t *testing.T) {
	paid := withCategory(txn(enums.TransactionTypePayment, enums.TransactionStatusApproved, 50_000, onDay(2026, time.February, 8)), enums.SavingsCategoryMandatory)
	pendingWajib := withCategory(txn(enums.TransactionTypePayment, enums.TransactionStatusPending, 50_000, onDay(2026, time.March, 8)), enums.SavingsCategoryMandatory)
	txns := []models.Transaction{paid, pendingWajib}

	if got := MonthlyMandatoryStatus(txns, onDay(2026, time.February, 1)); got != enums.MandatoryStatusPaid {
		t.Fatalf("February status = %s, want PAID", got)
	}
	if got := MonthlyMandatoryStatus(txns, onDay(2026, time.March, 1)); got != enums.MandatoryStatusUnpaid {
		t.Fatalf("March status = %s, want UNPAID (pending rows are inert)", got)
	}
}
