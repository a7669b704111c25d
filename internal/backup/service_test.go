package backup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

type gormRunner struct {
	db *gorm.DB
}

func (g gormRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE members (
			id            text PRIMARY KEY,
			full_name     text NOT NULL,
			email         text NOT NULL UNIQUE,
			password_hash text NOT NULL,
			phone         text,
			address       text,
			role          text NOT NULL DEFAULT 'ORDINARY_MEMBER',
			status        text NOT NULL DEFAULT 'ACTIVE',
			join_date     date NOT NULL,
			avatar_url    text,
			created_at    datetime,
			updated_at    datetime
		)`,
		`CREATE TABLE transactions (
			id           text PRIMARY KEY,
			member_id    text NOT NULL,
			date         date NOT NULL,
			type         text NOT NULL,
			category     text,
			amount       numeric NOT NULL,
			status       text NOT NULL,
			description  text NOT NULL,
			profit       numeric,
			quantity     integer,
			product_id   text,
			is_cash_flow boolean NOT NULL DEFAULT true,
			created_at   datetime,
			resolved_at  datetime
		)`,
		`CREATE TABLE products (
			id             text PRIMARY KEY,
			name           text NOT NULL,
			category       text NOT NULL,
			sell_price     numeric NOT NULL,
			cost_price     numeric NOT NULL,
			stock          integer NOT NULL DEFAULT 0,
			sku            text,
			description    text,
			supplier_phone text,
			image_url      text,
			created_at     datetime,
			updated_at     datetime
		)`,
		`CREATE TABLE allocation_configs (
			id                  text PRIMARY KEY,
			net_income          numeric,
			jasa_modal_pct      numeric NOT NULL,
			cadangan_modal_pct  numeric NOT NULL,
			jasa_pengurus_pct   numeric NOT NULL,
			jasa_transaksi_pct  numeric NOT NULL,
			dana_pendidikan_pct numeric NOT NULL,
			infaq_pct           numeric NOT NULL,
			updated_at          datetime
		)`,
		`CREATE TABLE journal_entries (
			id          text PRIMARY KEY,
			date        date NOT NULL,
			type        text NOT NULL,
			category    text NOT NULL,
			amount      numeric NOT NULL,
			description text,
			is_cash     boolean NOT NULL DEFAULT true,
			created_at  datetime
		)`,
		`CREATE TABLE news (
			id           text PRIMARY KEY,
			title        text NOT NULL,
			body         text NOT NULL,
			tags         text,
			published_at datetime NOT NULL,
			created_at   datetime
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func seedState(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	member := models.Member{
		ID:           uuid.New(),
		FullName:     "Siti Rahma",
		Email:        "siti@example.com",
		PasswordHash: "hash",
		Role:         enums.MemberRoleOrdinary,
		Status:       enums.MemberStatusActive,
		JoinDate:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, gdb.Create(&member).Error)

	product := models.Product{
		ID:        uuid.New(),
		Name:      "Gula Pasir 1kg",
		Category:  "Sembako",
		SellPrice: decimal.NewFromInt(15000),
		CostPrice: decimal.NewFromInt(13000),
		Stock:     8,
	}
	require.NoError(t, gdb.Create(&product).Error)

	require.NoError(t, gdb.Create(&models.Transaction{
		ID:          uuid.New(),
		MemberID:    member.ID,
		Date:        time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		Type:        enums.TransactionTypeDeposit,
		Amount:      decimal.NewFromInt(100000),
		Status:      enums.TransactionStatusApproved,
		Description: "Simpanan wajib Maret",
	}).Error)

	seedIncome := decimal.NewFromInt(10000000)
	require.NoError(t, gdb.Create(&models.AllocationConfig{
		ID:                uuid.New(),
		NetIncome:         &seedIncome,
		JasaModalPct:      decimal.NewFromInt(30),
		CadanganModalPct:  decimal.NewFromInt(25),
		JasaPengurusPct:   decimal.NewFromInt(15),
		JasaTransaksiPct:  decimal.NewFromInt(20),
		DanaPendidikanPct: decimal.NewFromInt(5),
		InfaqPct:          decimal.NewFromInt(5),
	}).Error)

	require.NoError(t, gdb.Create(&models.JournalEntry{
		ID:       uuid.New(),
		Date:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:     enums.JournalEntryTypeCredit,
		Category: "Lain-lain",
		Amount:   decimal.NewFromInt(250000),
		IsCash:   true,
	}).Error)

	require.NoError(t, gdb.Create(&models.News{
		ID:          uuid.New(),
		Title:       "Rapat Anggota Tahunan",
		Body:        "RAT dilaksanakan tanggal 20 April.",
		Tags:        pq.StringArray{"rat", "pengumuman"},
		PublishedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}).Error)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	seedState(t, gdb)

	svc, err := NewService(gdb, gormRunner{db: gdb})
	require.NoError(t, err)

	snapshot, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snapshot.Version)
	assert.Len(t, snapshot.Members, 1)
	assert.Len(t, snapshot.Transactions, 1)

	// serialize and back, as a real export file would travel
	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)
	var restored Snapshot
	require.NoError(t, json.Unmarshal(raw, &restored))

	// mutate live state so the import has something to undo
	require.NoError(t, gdb.Exec("DELETE FROM news").Error)
	require.NoError(t, gdb.Exec("UPDATE products SET stock = 0").Error)

	require.NoError(t, svc.Import(ctx, &restored))

	after, err := svc.Export(ctx)
	require.NoError(t, err)
	require.Len(t, after.News, 1)
	assert.Equal(t, "Rapat Anggota Tahunan", after.News[0].Title)
	assert.Equal(t, pq.StringArray{"rat", "pengumuman"}, after.News[0].Tags)
	require.Len(t, after.Products, 1)
	assert.Equal(t, 8, after.Products[0].Stock)
	require.Len(t, after.Transactions, 1)
	assert.True(t, snapshot.Transactions[0].Amount.Equal(after.Transactions[0].Amount))
	assert.Equal(t, snapshot.Members[0].Email, after.Members[0].Email)
}

func TestImportRejectsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	seedState(t, gdb)

	svc, err := NewService(gdb, gormRunner{db: gdb})
	require.NoError(t, err)

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Members: []models.Member{{ID: uuid.New(), Role: "CHAIRPERSON"}},
		Transactions: []models.Transaction{{
			ID:       uuid.New(),
			MemberID: uuid.New(),
			Type:     "GIFT",
			Status:   enums.TransactionStatusPending,
			Amount:   decimal.NewFromInt(-5),
		}},
	}

	err = svc.Import(ctx, snapshot)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	// every defect reported in one pass
	defects := multierr.Errors(errors.Unwrap(pkgerrors.As(err)))
	assert.Len(t, defects, 4)
	joined := ""
	for _, defect := range defects {
		joined += defect.Error() + "\n"
	}
	assert.Contains(t, joined, "email is required")
	assert.Contains(t, joined, "invalid type")
	assert.Contains(t, joined, "negative amount")

	// failed import leaves the current state untouched
	var count int64
	require.NoError(t, gdb.Model(&models.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestImportNilSnapshot(t *testing.T) {
	gdb := newTestDB(t)
	svc, err := NewService(gdb, gormRunner{db: gdb})
	require.NoError(t, err)
	assert.Error(t, svc.Import(context.Background(), nil))
}
