package shu

import (
	"github.com/shopspring/decimal"
)

// Breakdown is the pool amount carved out of net income per allocation
// category.
type Breakdown struct {
	NetIncome      decimal.Decimal `json:"net_income"`
	JasaModal      decimal.Decimal `json:"jasa_modal"`
	CadanganModal  decimal.Decimal `json:"cadangan_modal"`
	JasaPengurus   decimal.Decimal `json:"jasa_pengurus"`
	JasaTransaksi  decimal.Decimal `json:"jasa_transaksi"`
	DanaPendidikan decimal.Decimal `json:"dana_pendidikan"`
	Infaq          decimal.Decimal `json:"infaq"`
}

// MemberShare is one member's computed entitlement.
type MemberShare struct {
	CapitalShare     decimal.Decimal `json:"capital_share"`
	TransactionShare decimal.Decimal `json:"transaction_share"`
	Total            decimal.Decimal `json:"total"`
}

// ComputeBreakdown applies the percentage split to the net income figure.
func ComputeBreakdown(netIncome decimal.Decimal, alloc Allocations) Breakdown {
	pool := func(pct decimal.Decimal) decimal.Decimal {
		return netIncome.Mul(pct).Div(hundred)
	}
	return Breakdown{
		NetIncome:      netIncome,
		JasaModal:      pool(alloc.JasaModalPct),
		CadanganModal:  pool(alloc.CadanganModalPct),
		JasaPengurus:   pool(alloc.JasaPengurusPct),
		JasaTransaksi:  pool(alloc.JasaTransaksiPct),
		DanaPendidikan: pool(alloc.DanaPendidikanPct),
		Infaq:          pool(alloc.InfaqPct),
	}
}

// proportionalShare returns pool * numerator / denominator, resolving a
// non-positive denominator to zero instead of an error.
func proportionalShare(pool, numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return pool.Mul(numerator).Div(denominator)
}

// ComputeMemberShare derives one member's SHU from the cooperative-wide
// totals. Both denominators must be aggregated with the same filters as the
// member numerators or the ratios are meaningless; the ledger service
// guarantees that by computing all four from the same approved row set.
func ComputeMemberShare(
	netIncome decimal.Decimal,
	alloc Allocations,
	memberEligibleSavings, totalEligibleSavings decimal.Decimal,
	memberPurchases, totalPurchases decimal.Decimal,
) MemberShare {
	breakdown := ComputeBreakdown(netIncome, alloc)
	capital := proportionalShare(breakdown.JasaModal, memberEligibleSavings, totalEligibleSavings)
	transaction := proportionalShare(breakdown.JasaTransaksi, memberPurchases, totalPurchases)
	return MemberShare{
		CapitalShare:     capital,
		TransactionShare: transaction,
		Total:            capital.Add(transaction),
	}
}
