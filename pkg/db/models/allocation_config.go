package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationConfig is the single cooperative-wide SHU allocation record. The
// six percentage columns must sum to 100 (±0.1) before a save is accepted.
// NetIncome is nil until an admin enters an explicit figure; the SHU engine
// then stops deriving it from the ledger.
type AllocationConfig struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NetIncome         *decimal.Decimal `gorm:"column:net_income;type:numeric(18,2)" json:"net_income,omitempty"`
	JasaModalPct      decimal.Decimal  `gorm:"column:jasa_modal_pct;type:numeric(6,2);not null" json:"jasa_modal_pct"`
	CadanganModalPct  decimal.Decimal  `gorm:"column:cadangan_modal_pct;type:numeric(6,2);not null" json:"cadangan_modal_pct"`
	JasaPengurusPct   decimal.Decimal  `gorm:"column:jasa_pengurus_pct;type:numeric(6,2);not null" json:"jasa_pengurus_pct"`
	JasaTransaksiPct  decimal.Decimal  `gorm:"column:jasa_transaksi_pct;type:numeric(6,2);not null" json:"jasa_transaksi_pct"`
	DanaPendidikanPct decimal.Decimal  `gorm:"column:dana_pendidikan_pct;type:numeric(6,2);not null" json:"dana_pendidikan_pct"`
	InfaqPct          decimal.Decimal  `gorm:"column:infaq_pct;type:numeric(6,2);not null" json:"infaq_pct"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
