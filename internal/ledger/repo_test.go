package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vyapaari/collect-backend/pkg/db/models"
	"github.com/vyapaari/collect-backend/pkg/enums"
	"github.com/vyapaari/collect-backend/pkg/pagination"
	"github.com/vyapaari/collect-backend/pkg/types"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  vendor_name TEXT NOT NULL,
  amount TEXT NOT NULL,
  currency TEXT NOT NULL DEFAULT 'INR',
  channel TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  description TEXT,
  payer TEXT,
  created_at DATETIME,
  completed_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func newTxn(t *testing.T, repo Repository, created time.Time, channel enums.Channel, status enums.TransactionStatus, amount string) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		ID:         uuid.New(),
		VendorID:   uuid.New(),
		VendorName: "Fresh Foods Co.",
		Amount:     decimal.RequireFromString(amount),
		Currency:   enums.CurrencyINR,
		Channel:    channel,
		Status:     status,
		CreatedAt:  created,
	}
	require.NoError(t, repo.Create(context.Background(), txn))
	return txn
}

func TestRepositoryListMostRecentFirst(t *testing.T) {
	conn := setupLedgerTestDB(t)
	repo := NewRepository(conn)
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	oldest := newTxn(t, repo, base, enums.ChannelCash, enums.TransactionStatusCompleted, "10.00")
	middle := newTxn(t, repo, base.Add(time.Minute), enums.ChannelQR, enums.TransactionStatusPending, "20.00")
	newest := newTxn(t, repo, base.Add(2*time.Minute), enums.ChannelQR, enums.TransactionStatusCompleted, "30.00")

	rows, err := repo.List(context.Background(), nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, newest.ID, rows[0].ID)
	require.Equal(t, middle.ID, rows[1].ID)
	require.Equal(t, oldest.ID, rows[2].ID)
}

func TestRepositoryListCursorPagination(t *testing.T) {
	conn := setupLedgerTestDB(t)
	repo := NewRepository(conn)
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	var all []*models.Transaction
	for i := 0; i < 5; i++ {
		all = append(all, newTxn(t, repo, base.Add(time.Duration(i)*time.Minute), enums.ChannelCash, enums.TransactionStatusCompleted, "10.00"))
	}

	first, err := repo.List(context.Background(), nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, all[4].ID, first[0].ID)

	cursor := &pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID}
	second, err := repo.List(context.Background(), cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.Equal(t, all[2].ID, second[0].ID)
	require.Equal(t, all[1].ID, second[1].ID)
}

func TestRepositoryCompleteIfPendingExactlyOnce(t *testing.T) {
	conn := setupLedgerTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	txn := newTxn(t, repo, time.Now().UTC(), enums.ChannelQR, enums.TransactionStatusPending, "99.00")
	payer := &types.Payer{Name: "Rahul Sharma", Phone: "+91 98765 43210"}

	won, err := repo.CompleteIfPending(ctx, txn.ID, payer, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, won)

	// second attempt loses the guard
	won, err = repo.CompleteIfPending(ctx, txn.ID, payer, time.Now().UTC())
	require.NoError(t, err)
	require.False(t, won)

	stored, err := repo.FindByID(ctx, txn.ID)
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	require.NotNil(t, stored.Payer)
	require.Equal(t, "Rahul Sharma", stored.Payer.Name)
}

func TestRepositoryExpirePendingBefore(t *testing.T) {
	conn := setupLedgerTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := newTxn(t, repo, now.Add(-30*time.Minute), enums.ChannelQR, enums.TransactionStatusPending, "10.00")
	fresh := newTxn(t, repo, now.Add(-1*time.Minute), enums.ChannelQR, enums.TransactionStatusPending, "20.00")
	done := newTxn(t, repo, now.Add(-40*time.Minute), enums.ChannelQR, enums.TransactionStatusCompleted, "30.00")

	expired, err := repo.ExpirePendingBefore(ctx, now.Add(-15*time.Minute))
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{stale.ID}, expired)

	staleRow, err := repo.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusExpired, staleRow.Status)

	freshRow, err := repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusPending, freshRow.Status)

	doneRow, err := repo.FindByID(ctx, done.ID)
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusCompleted, doneRow.Status)
}
