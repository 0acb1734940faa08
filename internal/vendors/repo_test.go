package vendors

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vyapaari/collect-backend/pkg/db/models"
)

func setupVendorsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  display_name TEXT NOT NULL,
  payout_address TEXT NOT NULL UNIQUE,
  merchant_code TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := setupVendorsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mc := "FRESH001"
	vendor := &models.Vendor{
		ID:            uuid.New(),
		DisplayName:   "Fresh Foods Co.",
		PayoutAddress: "freshfoods@paytm",
		MerchantCode:  &mc,
	}
	require.NoError(t, repo.Create(ctx, vendor))

	byID, err := repo.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	require.Equal(t, vendor.PayoutAddress, byID.PayoutAddress)

	byAddress, err := repo.FindByPayoutAddress(ctx, "freshfoods@paytm")
	require.NoError(t, err)
	require.Equal(t, vendor.ID, byAddress.ID)
	require.NotNil(t, byAddress.MerchantCode)
	require.Equal(t, "FRESH001", *byAddress.MerchantCode)
}

func TestRepositoryDuplicatePayoutAddress(t *testing.T) {
	conn := setupVendorsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	first := &models.Vendor{ID: uuid.New(), DisplayName: "One", PayoutAddress: "dup@upi"}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.Vendor{ID: uuid.New(), DisplayName: "Two", PayoutAddress: "dup@upi"}
	err := repo.Create(ctx, second)
	require.Error(t, err)
}

func TestRepositoryListSortsByName(t *testing.T) {
	conn := setupVendorsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Vendor{ID: uuid.New(), DisplayName: "Zeta Traders", PayoutAddress: "zeta@upi"}))
	require.NoError(t, repo.Create(ctx, &models.Vendor{ID: uuid.New(), DisplayName: "Alpha Mart", PayoutAddress: "alpha@upi"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Alpha Mart", list[0].DisplayName)
	require.Equal(t, "Zeta Traders", list[1].DisplayName)
}

func TestRepositoryFindByIDNotFound(t *testing.T) {
	conn := setupVendorsTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
