package shu

import (
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

// Tolerance is the allowed deviation of the percentage sum from 100.
var tolerance = decimal.NewFromFloat(0.1)

var hundred = decimal.NewFromInt(100)

// Allocations holds the six named percentage splits of the distributable net
// income. The sum must stay within tolerance of 100 before a save is accepted.
type Allocations struct {
	JasaModalPct      decimal.Decimal `json:"jasa_modal_pct"`
	CadanganModalPct  decimal.Decimal `json:"cadangan_modal_pct"`
	JasaPengurusPct   decimal.Decimal `json:"jasa_pengurus_pct"`
	JasaTransaksiPct  decimal.Decimal `json:"jasa_transaksi_pct"`
	DanaPendidikanPct decimal.Decimal `json:"dana_pendidikan_pct"`
	InfaqPct          decimal.Decimal `json:"infaq_pct"`
}

// DefaultAllocations returns the cooperative's standard split.
func DefaultAllocations() Allocations {
	return Allocations{
		JasaModalPct:      decimal.NewFromInt(30),
		CadanganModalPct:  decimal.NewFromInt(25),
		JasaPengurusPct:   decimal.NewFromInt(15),
		JasaTransaksiPct:  decimal.NewFromInt(20),
		DanaPendidikanPct: decimal.NewFromInt(5),
		InfaqPct:          decimal.NewFromInt(5),
	}
}

// Total sums the six percentages.
func (a Allocations) Total() decimal.Decimal {
	return a.JasaModalPct.
		Add(a.CadanganModalPct).
		Add(a.JasaPengurusPct).
		Add(a.JasaTransaksiPct).
		Add(a.DanaPendidikanPct).
		Add(a.InfaqPct)
}

// Validate rejects splits whose sum deviates from 100 by more than the
// tolerance. The computed total is reported so the caller can correct it.
func (a Allocations) Validate() error {
	total := a.Total()
	if total.Sub(hundred).Abs().GreaterThan(tolerance) {
		return pkgerrors.New(
			pkgerrors.CodeConfiguration,
			fmt.Sprintf("allocation percentages must sum to 100, got %s", total),
		)
	}
	return nil
}
