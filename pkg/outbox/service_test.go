package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
	"github.com/ubqurrotul/koperasi-backend/pkg/outbox/payloads"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// explicit DDL so sqlite can fill the uuid primary key
	require.NoError(t, gdb.Exec(`CREATE TABLE outbox_messages (
		id           text PRIMARY KEY DEFAULT (lower(hex(randomblob(4)) || '-' || hex(randomblob(2)) || '-' || hex(randomblob(2)) || '-' || hex(randomblob(2)) || '-' || hex(randomblob(6)))),
		event_type   text NOT NULL,
		aggregate_id text NOT NULL,
		payload      text,
		status       text NOT NULL DEFAULT 'PENDING',
		attempts     integer NOT NULL DEFAULT 0,
		last_error   text,
		created_at   datetime,
		published_at datetime
	)`).Error)
	return gdb
}

func TestEmitWritesPendingRowInTransaction(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	svc := NewService(repo, nil)

	txnID := uuid.New()
	memberID := uuid.New()

	err := gdb.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:   enums.OutboxEventTransactionSubmitted,
			AggregateID: txnID,
			Actor:       &ActorRef{MemberID: memberID, Role: "ORDINARY_MEMBER"},
			Data:        payloads.TransactionSubmittedEvent{TransactionID: txnID, MemberID: memberID},
		})
	})
	require.NoError(t, err)

	rows, err := repo.FetchPending(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, enums.OutboxEventTransactionSubmitted, row.EventType)
	assert.Equal(t, txnID, row.AggregateID)
	assert.Equal(t, enums.OutboxStatusPending, row.Status)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	require.NotNil(t, envelope.Actor)
	assert.Equal(t, memberID, envelope.Actor.MemberID)
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(newTestDB(t)), nil)
	err := svc.Emit(context.Background(), nil, DomainEvent{})
	assert.Error(t, err)
}

func TestEmitRollsBackWithCaller(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	svc := NewService(repo, nil)

	_ = gdb.Transaction(func(tx *gorm.DB) error {
		err := svc.Emit(context.Background(), tx, DomainEvent{
			EventType:   enums.OutboxEventPOSSaleRecorded,
			AggregateID: uuid.New(),
			Data:        payloads.POSSaleRecordedEvent{},
		})
		require.NoError(t, err)
		return errors.New("ledger write failed")
	})

	rows, err := repo.FetchPending(10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMarkPublishedExcludesRowFromFetch(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	svc := NewService(repo, nil)

	require.NoError(t, gdb.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:   enums.OutboxEventTransactionApproved,
			AggregateID: uuid.New(),
			Data:        payloads.TransactionResolvedEvent{},
		})
	}))

	rows, err := repo.FetchPending(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, repo.MarkPublished(rows[0].ID))

	rows, err = repo.FetchPending(10)
	require.NoError(t, err)
	assert.Empty(t, rows)

	var published int64
	require.NoError(t, gdb.Table("outbox_messages").
		Where("status = ?", enums.OutboxStatusPublished).
		Count(&published).Error)
	assert.Equal(t, int64(1), published)
}

func TestMarkFailedFlipsToFailedAtMaxAttempts(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	svc := NewService(repo, nil)

	require.NoError(t, gdb.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:   enums.OutboxEventTransactionRejected,
			AggregateID: uuid.New(),
			Data:        payloads.TransactionResolvedEvent{},
		})
	}))

	rows, err := repo.FetchPending(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	id := rows[0].ID

	pubErr := errors.New("topic unavailable")

	require.NoError(t, repo.MarkFailed(id, pubErr, 2))
	rows, err = repo.FetchPending(10)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "first failure keeps the row pending")

	require.NoError(t, repo.MarkFailed(id, pubErr, 2))
	rows, err = repo.FetchPending(10)
	require.NoError(t, err)
	assert.Empty(t, rows, "second failure hits max attempts")

	var failed int64
	require.NoError(t, gdb.Table("outbox_messages").
		Where("status = ?", enums.OutboxStatusFailed).
		Count(&failed).Error)
	assert.Equal(t, int64(1), failed)
}
