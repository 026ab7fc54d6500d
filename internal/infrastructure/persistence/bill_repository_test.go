package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fruitflow/backend/internal/domain/basket"
	"github.com/fruitflow/backend/internal/domain/billing"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/fruitflow/backend/internal/domain/shared/valueobject"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newSellBillWithDeduct(t *testing.T, ownerID uuid.UUID) *billing.Bill {
	t.Helper()

	bill, err := billing.NewBill(ownerID, "FF-2026-00042",
		time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), billing.BillTypeSell, "ร้านส้มโชคดี")
	require.NoError(t, err)

	_, err = bill.AddItem("ส้มสายน้ำผึ้ง", dec("10"), dec("12.5"), dec("3"), valueobject.NewMoneyTHB(dec("45")))
	require.NoError(t, err)
	_, err = bill.AddPackaging(basket.TypeMix, "", 10, true)
	require.NoError(t, err)

	return bill
}

// mirrorRows builds the ledger rows the same way the bill service does before
// handing them to SaveWithMirror
func mirrorRows(t *testing.T, bill *billing.Bill) []basket.Entry {
	t.Helper()

	entries := make([]basket.Entry, 0)
	for _, line := range bill.MirrorEntries() {
		entry, err := basket.NewMirrorEntry(bill.OwnerID, bill.ID, bill.CustomerName,
			line.BasketType, line.BasketName, line.Quantity, bill.BillDate)
		require.NoError(t, err)
		entries = append(entries, *entry)
	}
	return entries
}

func TestGormBillRepositoryMirrorLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormBillRepository(db)
	ownerID := uuid.New()

	bill := newSellBillWithDeduct(t, ownerID)
	require.NoError(t, repo.SaveWithMirror(ctx, bill, mirrorRows(t, bill), bill.GetDomainEvents()))
	bill.ClearDomainEvents()

	var entries []basket.Entry
	require.NoError(t, db.Where("bill_id = ?", bill.ID).Find(&entries).Error)
	require.Len(t, entries, 1, "one deduct packaging line leaves exactly one ledger row")
	assert.Equal(t, basket.FlowOut, entries[0].Flow)
	assert.Equal(t, 10, entries[0].Quantity)
	assert.Equal(t, basket.TypeMix, entries[0].BasketType)
	assert.Equal(t, "ร้านส้มโชคดี", entries[0].CustomerName)
	require.NotNil(t, entries[0].BillID)
	assert.Equal(t, bill.ID, *entries[0].BillID)

	var outbox []shared.OutboxEntry
	require.NoError(t, db.Find(&outbox).Error)
	require.Len(t, outbox, 1, "the created event lands in the outbox in the same transaction")
	assert.Equal(t, billing.EventTypeBillCreated, outbox[0].EventType)
	assert.Equal(t, shared.OutboxStatusPending, outbox[0].Status)

	t.Run("edit rewrites the mirror row instead of stacking", func(t *testing.T) {
		bill.ClearPackaging()
		_, err := bill.AddPackaging(basket.TypeMix, "", 7, true)
		require.NoError(t, err)
		bill.MarkUpdated()

		require.NoError(t, repo.SaveWithMirror(ctx, bill, mirrorRows(t, bill), bill.GetDomainEvents()))
		bill.ClearDomainEvents()

		var entries []basket.Entry
		require.NoError(t, db.Where("bill_id = ?", bill.ID).Find(&entries).Error)
		require.Len(t, entries, 1)
		assert.Equal(t, 7, entries[0].Quantity)
	})

	t.Run("turning deduct off deletes the mirror with no replacement", func(t *testing.T) {
		bill.ClearPackaging()
		_, err := bill.AddPackaging(basket.TypeMix, "", 7, false)
		require.NoError(t, err)
		bill.MarkUpdated()

		require.NoError(t, repo.SaveWithMirror(ctx, bill, mirrorRows(t, bill), bill.GetDomainEvents()))
		bill.ClearDomainEvents()

		var entries []basket.Entry
		require.NoError(t, db.Where("bill_id = ?", bill.ID).Find(&entries).Error)
		assert.Empty(t, entries)

		var outbox []shared.OutboxEntry
		require.NoError(t, db.Find(&outbox).Error)
		assert.Len(t, outbox, 3, "each save appended its event")
	})
}

func TestGormBillRepositoryDeleteRemovesMirror(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormBillRepository(db)
	ownerID := uuid.New()

	bill := newSellBillWithDeduct(t, ownerID)
	require.NoError(t, repo.SaveWithMirror(ctx, bill, mirrorRows(t, bill), bill.GetDomainEvents()))
	bill.ClearDomainEvents()

	bill.MarkDeleted()
	require.NoError(t, repo.DeleteForOwner(ctx, ownerID, bill.ID, bill.GetDomainEvents()))

	_, err := repo.FindByIDForOwner(ctx, ownerID, bill.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var entries []basket.Entry
	require.NoError(t, db.Where("bill_id = ?", bill.ID).Find(&entries).Error)
	assert.Empty(t, entries, "the ledger mirror goes with the bill")

	var items []billing.BillItem
	require.NoError(t, db.Where("bill_id = ?", bill.ID).Find(&items).Error)
	assert.Empty(t, items)
}
