package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
)

// SavingsSummary holds one member's aggregated ledger figures.
type SavingsSummary struct {
	MemberID        uuid.UUID       `json:"member_id"`
	NetSavings      decimal.Decimal `json:"net_savings"`
	EligibleSavings decimal.Decimal `json:"eligible_savings"`
	NetPurchases    decimal.Decimal `json:"net_purchases"`
}

// FinancialSummary holds the cooperative-wide totals the allocation engine
// divides by. It is recomputed from scratch on every read so the denominators
// always use the same filters as the member numerators.
type FinancialSummary struct {
	NetIncome            decimal.Decimal `json:"net_income"`
	TotalNetSavings      decimal.Decimal `json:"total_net_savings"`
	TotalEligibleSavings decimal.Decimal `json:"total_eligible_savings"`
	TotalPurchases       decimal.Decimal `json:"total_purchases"`
	PurchaseProfit       decimal.Decimal `json:"purchase_profit"`
	JournalCredit        decimal.Decimal `json:"journal_credit"`
	JournalDebit         decimal.Decimal `json:"journal_debit"`
}

type journalReader interface {
	ListAll(ctx context.Context) ([]models.JournalEntry, error)
}

// Service exposes the read-side ledger aggregations.
type Service interface {
	MemberSummary(ctx context.Context, memberID uuid.UUID) (*SavingsSummary, error)
	CooperativeSummary(ctx context.Context) (*FinancialSummary, error)
	MandatoryStatus(ctx context.Context, memberID uuid.UUID, referenceMonth time.Time) (enums.MandatoryStatus, error)
}

type service struct {
	repo    Repository
	journal journalReader
}

// NewService wires the aggregator with its transaction and journal sources.
func NewService(repo Repository, journal journalReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if journal == nil {
		return nil, fmt.Errorf("journal reader required")
	}
	return &service{repo: repo, journal: journal}, nil
}

func (s *service) MemberSummary(ctx context.Context, memberID uuid.UUID) (*SavingsSummary, error) {
	if memberID == uuid.Nil {
		return nil, fmt.Errorf("member id is required")
	}
	txns, err := s.repo.ListApprovedByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &SavingsSummary{
		MemberID:        memberID,
		NetSavings:      NetSavings(txns),
		EligibleSavings: EligibleSavings(txns),
		NetPurchases:    NetPurchases(txns),
	}, nil
}

// CooperativeSummary computes net income as approved shop sale margins plus
// manual journal credits minus journal debits. Walk-in sale margins count
// toward net income while their amounts stay out of TotalPurchases.
func (s *service) CooperativeSummary(ctx context.Context) (*FinancialSummary, error) {
	txns, err := s.repo.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.journal.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	credit, debit := decimal.Zero, decimal.Zero
	for _, entry := range entries {
		switch entry.Type {
		case enums.JournalEntryTypeCredit:
			credit = credit.Add(entry.Amount)
		case enums.JournalEntryTypeDebit:
			debit = debit.Add(entry.Amount)
		}
	}

	profit := PurchaseProfit(txns)
	return &FinancialSummary{
		NetIncome:            profit.Add(credit).Sub(debit),
		TotalNetSavings:      NetSavings(txns),
		TotalEligibleSavings: EligibleSavings(txns),
		TotalPurchases:       MemberPurchases(txns),
		PurchaseProfit:       profit,
		JournalCredit:        credit,
		JournalDebit:         debit,
	}, nil
}

func (s *service) MandatoryStatus(ctx context.Context, memberID uuid.UUID, referenceMonth time.Time) (enums.MandatoryStatus, error) {
	if memberID == uuid.Nil {
		return "", fmt.Errorf("member id is required")
	}
	txns, err := s.repo.ListApprovedByMember(ctx, memberID)
	if err != nil {
		return "", err
	}
	return MonthlyMandatoryStatus(txns, referenceMonth), nil
}
