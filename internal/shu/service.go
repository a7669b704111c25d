package shu

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ubqurrotul/koperasi-backend/internal/ledger"
	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

// Service exposes allocation configuration management and per-member SHU
// computation.
type Service interface {
	GetConfig(ctx context.Context) (*models.AllocationConfig, error)
	SaveConfig(ctx context.Context, input SaveConfigInput) (*models.AllocationConfig, error)
	CooperativeBreakdown(ctx context.Context) (*Breakdown, error)
	MemberSHU(ctx context.Context, memberID uuid.UUID) (*MemberShare, error)
}

// SaveConfigInput is the admin payload for an allocation change.
type SaveConfigInput struct {
	NetIncome   *decimal.Decimal `json:"net_income,omitempty"`
	Allocations Allocations      `json:"allocations"`
}

type service struct {
	configs ConfigRepository
	ledger  ledger.Service
}

// NewService wires the SHU engine with its configuration store and the
// ledger aggregator.
func NewService(configs ConfigRepository, ledgerSvc ledger.Service) (Service, error) {
	if configs == nil {
		return nil, fmt.Errorf("config repository required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	return &service{configs: configs, ledger: ledgerSvc}, nil
}

// GetConfig returns the stored allocation record, falling back to the default
// split when the cooperative has never saved one.
func (s *service) GetConfig(ctx context.Context) (*models.AllocationConfig, error) {
	cfg, err := s.configs.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := DefaultAllocations()
		return &models.AllocationConfig{
			JasaModalPct:      defaults.JasaModalPct,
			CadanganModalPct:  defaults.CadanganModalPct,
			JasaPengurusPct:   defaults.JasaPengurusPct,
			JasaTransaksiPct:  defaults.JasaTransaksiPct,
			DanaPendidikanPct: defaults.DanaPendidikanPct,
			InfaqPct:          defaults.InfaqPct,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig validates and persists an allocation change. On validation
// failure nothing is written and the stored record stays as it was.
func (s *service) SaveConfig(ctx context.Context, input SaveConfigInput) (*models.AllocationConfig, error) {
	if err := input.Allocations.Validate(); err != nil {
		return nil, err
	}
	if input.NetIncome != nil && input.NetIncome.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "net income must not be negative")
	}

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	cfg.JasaModalPct = input.Allocations.JasaModalPct
	cfg.CadanganModalPct = input.Allocations.CadanganModalPct
	cfg.JasaPengurusPct = input.Allocations.JasaPengurusPct
	cfg.JasaTransaksiPct = input.Allocations.JasaTransaksiPct
	cfg.DanaPendidikanPct = input.Allocations.DanaPendidikanPct
	cfg.InfaqPct = input.Allocations.InfaqPct
	if input.NetIncome != nil {
		income := *input.NetIncome
		cfg.NetIncome = &income
	}

	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CooperativeBreakdown splits the effective net income across the six pools.
func (s *service) CooperativeBreakdown(ctx context.Context) (*Breakdown, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	netIncome, err := s.effectiveNetIncome(ctx, cfg)
	if err != nil {
		return nil, err
	}
	breakdown := ComputeBreakdown(netIncome, allocationsFromModel(cfg))
	return &breakdown, nil
}

// effectiveNetIncome prefers the admin-entered figure and falls back to the
// ledger-derived one while no override has ever been stored.
func (s *service) effectiveNetIncome(ctx context.Context, cfg *models.AllocationConfig) (decimal.Decimal, error) {
	if cfg.NetIncome != nil {
		return *cfg.NetIncome, nil
	}
	totals, err := s.ledger.CooperativeSummary(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.NetIncome, nil
}

// MemberSHU recomputes the member's entitlement from scratch. Numerators and
// denominators come from the same ledger scan so the ratio bases line up.
func (s *service) MemberSHU(ctx context.Context, memberID uuid.UUID) (*MemberShare, error) {
	if memberID == uuid.Nil {
		return nil, fmt.Errorf("member id is required")
	}

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.ledger.CooperativeSummary(ctx)
	if err != nil {
		return nil, err
	}
	member, err := s.ledger.MemberSummary(ctx, memberID)
	if err != nil {
		return nil, err
	}

	netIncome := totals.NetIncome
	if cfg.NetIncome != nil {
		netIncome = *cfg.NetIncome
	}

	share := ComputeMemberShare(
		netIncome,
		allocationsFromModel(cfg),
		member.EligibleSavings, totals.TotalEligibleSavings,
		member.NetPurchases, totals.TotalPurchases,
	)
	return &share, nil
}

func allocationsFromModel(cfg *models.AllocationConfig) Allocations {
	return Allocations{
		JasaModalPct:      cfg.JasaModalPct,
		CadanganModalPct:  cfg.CadanganModalPct,
		JasaPengurusPct:   cfg.JasaPengurusPct,
		JasaTransaksiPct:  cfg.JasaTransaksiPct,
		DanaPendidikanPct: cfg.DanaPendidikanPct,
		InfaqPct:          cfg.InfaqPct,
	}
}
