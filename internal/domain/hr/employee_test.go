package hr

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewEmployee(t *testing.T) {
	t.Run("creates active employee", func(t *testing.T) {
		e, err := NewEmployee(uuid.New(), "Niran", "0812345678", "driver", dec("12000"))
		require.NoError(t, err)
		assert.True(t, e.Active)
		assert.Empty(t, e.Withdrawals)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewEmployee(uuid.New(), "", "", "", dec("12000"))
		assert.Error(t, err)
	})

	t.Run("rejects negative salary", func(t *testing.T) {
		_, err := NewEmployee(uuid.New(), "Niran", "", "", dec("-1"))
		assert.Error(t, err)
	})
}

func TestEmployeeWithdrawals(t *testing.T) {
	newEmployee := func(t *testing.T) *Employee {
		t.Helper()
		e, err := NewEmployee(uuid.New(), "Niran", "", "driver", dec("12000"))
		require.NoError(t, err)
		return e
	}

	t.Run("add and remove", func(t *testing.T) {
		e := newEmployee(t)

		w, err := e.AddWithdrawal(dec("500"), time.Now(), "advance")
		require.NoError(t, err)
		require.Len(t, e.Withdrawals, 1)

		require.NoError(t, e.RemoveWithdrawal(w.ID))
		assert.Empty(t, e.Withdrawals)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		e := newEmployee(t)
		_, err := e.AddWithdrawal(decimal.Zero, time.Now(), "")
		assert.Error(t, err)
	})

	t.Run("remove unknown withdrawal fails", func(t *testing.T) {
		e := newEmployee(t)
		assert.Error(t, e.RemoveWithdrawal(uuid.New()))
	})

	t.Run("monthly totals only count the month", func(t *testing.T) {
		e := newEmployee(t)

		aug := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
		sep := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

		_, err := e.AddWithdrawal(dec("500"), aug, "")
		require.NoError(t, err)
		_, err = e.AddWithdrawal(dec("700"), aug, "")
		require.NoError(t, err)
		_, err = e.AddWithdrawal(dec("300"), sep, "")
		require.NoError(t, err)

		assert.True(t, e.TotalWithdrawn(2026, time.August).Equal(dec("1200")))
		assert.True(t, e.RemainingSalary(2026, time.August).Equal(dec("10800")))
		assert.True(t, e.RemainingSalary(2026, time.September).Equal(dec("11700")))
	})

	t.Run("remaining salary clamps at zero", func(t *testing.T) {
		e := newEmployee(t)

		aug := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
		_, err := e.AddWithdrawal(dec("15000"), aug, "")
		require.NoError(t, err)

		assert.True(t, e.RemainingSalary(2026, time.August).IsZero())
	})
}
