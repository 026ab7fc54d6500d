package billing

import (
	"testing"
	"time"

	"github.com/fruitflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thb(s string) valueobject.Money {
	return valueobject.NewMoneyTHB(decimal.RequireFromString(s))
}

func newTestBill(t *testing.T, billType BillType) *Bill {
	t.Helper()
	bill, err := NewBill(uuid.New(), "FF-2026-00001", time.Now(), billType, "Somchai")
	require.NoError(t, err)
	return bill
}

func TestNewBill(t *testing.T) {
	t.Run("creates due bill with created event", func(t *testing.T) {
		bill := newTestBill(t, BillTypeSell)
		assert.Equal(t, BillStatusDue, bill.Status)
		assert.True(t, bill.TotalAmount.IsZero())

		events := bill.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBillCreated, events[0].EventType())
	})

	t.Run("rejects empty customer name", func(t *testing.T) {
		_, err := NewBill(uuid.New(), "FF-2026-00002", time.Now(), BillTypeBuy, "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewBill(uuid.New(), "FF-2026-00003", time.Now(), BillType("trade"), "Somchai")
		assert.Error(t, err)
	})
}

func TestBillItemMath(t *testing.T) {
	t.Run("derives weight and amount", func(t *testing.T) {
		bill := newTestBill(t, BillTypeBuy)

		// 10 crates of 20kg plus 3.5kg loose at 12.50/kg
		item, err := bill.AddItem("Mango", dec("10"), dec("20"), dec("3.5"), thb("12.50"))
		require.NoError(t, err)

		assert.True(t, item.TotalWeight.Equal(dec("203.5")), "got %s", item.TotalWeight)
		assert.True(t, item.Amount.Equal(dec("2543.75")), "got %s", item.Amount)
		assert.True(t, bill.TotalAmount.Equal(dec("2543.75")))
	})

	t.Run("total is sum of line amounts", func(t *testing.T) {
		bill := newTestBill(t, BillTypeBuy)

		_, err := bill.AddItem("Mango", dec("1"), dec("10"), dec("0"), thb("10"))
		require.NoError(t, err)
		_, err = bill.AddItem("Durian", dec("2"), dec("5"), dec("0"), thb("30"))
		require.NoError(t, err)

		assert.True(t, bill.TotalAmount.Equal(dec("400")), "got %s", bill.TotalAmount)
	})

	t.Run("update and remove recompute total", func(t *testing.T) {
		bill := newTestBill(t, BillTypeBuy)

		first, err := bill.AddItem("Mango", dec("1"), dec("10"), dec("0"), thb("10"))
		require.NoError(t, err)
		second, err := bill.AddItem("Durian", dec("1"), dec("10"), dec("0"), thb("10"))
		require.NoError(t, err)

		require.NoError(t, bill.UpdateItem(first.ID, dec("2"), dec("10"), dec("0"), thb("10")))
		assert.True(t, bill.TotalAmount.Equal(dec("300")))

		require.NoError(t, bill.RemoveItem(second.ID))
		assert.True(t, bill.TotalAmount.Equal(dec("200")))
	})

	t.Run("surcharges add to the total", func(t *testing.T) {
		bill := newTestBill(t, BillTypeSell)

		_, err := bill.AddItem("Orange", dec("10"), dec("10"), dec("0"), thb("20"))
		require.NoError(t, err)
		require.NoError(t, bill.SetSurcharges(thb("50"), thb("25")))

		assert.True(t, bill.TotalAmount.Equal(dec("2075")), "got %s", bill.TotalAmount)
	})

	t.Run("rejects negative measures", func(t *testing.T) {
		bill := newTestBill(t, BillTypeBuy)
		_, err := bill.AddItem("Mango", dec("-1"), dec("10"), dec("0"), thb("10"))
		assert.Error(t, err)
	})
}

func TestBillMirrorEntries(t *testing.T) {
	t.Run("sell bill mirrors deduct lines only", func(t *testing.T) {
		bill := newTestBill(t, BillTypeSell)

		_, err := bill.AddPackaging("mix", "", 5, true)
		require.NoError(t, err)
		_, err = bill.AddPackaging("named", "red crate", 3, false)
		require.NoError(t, err)
		_, err = bill.AddPackaging("named", "blue crate", 2, true)
		require.NoError(t, err)

		mirrored := bill.MirrorEntries()
		require.Len(t, mirrored, 2)
		assert.Equal(t, "mix", mirrored[0].BasketType)
		assert.Equal(t, "blue crate", mirrored[1].BasketName)
	})

	t.Run("buy bill never mirrors", func(t *testing.T) {
		bill := newTestBill(t, BillTypeBuy)

		_, err := bill.AddPackaging("mix", "", 5, true)
		require.NoError(t, err)

		assert.Empty(t, bill.MirrorEntries())
	})

	t.Run("clearing packaging empties the mirror", func(t *testing.T) {
		bill := newTestBill(t, BillTypeSell)

		_, err := bill.AddPackaging("mix", "", 5, true)
		require.NoError(t, err)
		require.Len(t, bill.MirrorEntries(), 1)

		bill.ClearPackaging()
		assert.Empty(t, bill.MirrorEntries())
	})

	t.Run("named packaging requires a name", func(t *testing.T) {
		bill := newTestBill(t, BillTypeSell)
		_, err := bill.AddPackaging("named", "", 5, true)
		assert.Error(t, err)
	})
}

func TestBillLifecycleEvents(t *testing.T) {
	t.Run("update and delete record events", func(t *testing.T) {
		bill := newTestBill(t, BillTypeSell)
		bill.ClearDomainEvents()

		bill.MarkUpdated()
		bill.MarkDeleted()

		events := bill.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeBillUpdated, events[0].EventType())
		assert.Equal(t, EventTypeBillDeleted, events[1].EventType())
	})

	t.Run("applies derived status", func(t *testing.T) {
		bill := newTestBill(t, BillTypeSell)
		require.NoError(t, bill.ApplyStatus(BillStatusInstallment))
		assert.Equal(t, BillStatusInstallment, bill.Status)

		assert.Error(t, bill.ApplyStatus(BillStatus("settled")))
	})
}
