package billing

import (
	"testing"
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewInstallment(t *testing.T) {
	billID := uuid.New()

	t.Run("creates pending installment", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)
		assert.Equal(t, 1, inst.Number)
		assert.Equal(t, InstallmentStatusPending, inst.Status)
		assert.True(t, inst.PaidAmount.IsZero())
		assert.Nil(t, inst.PaidDate)
	})

	t.Run("rejects non-positive number", func(t *testing.T) {
		_, err := NewInstallment(billID, 0, time.Now(), dec("100"))
		assert.Error(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewInstallment(billID, 1, time.Now(), dec("-1"))
		assert.Error(t, err)
	})
}

func TestInstallmentStatusDerivation(t *testing.T) {
	billID := uuid.New()

	t.Run("zero paid is pending", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)

		require.NoError(t, inst.RecordPayment(decimal.Zero))
		assert.Equal(t, InstallmentStatusPending, inst.Status)
	})

	t.Run("paid below amount is partial", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)

		require.NoError(t, inst.RecordPayment(dec("40")))
		assert.Equal(t, InstallmentStatusPartial, inst.Status)
		assert.Nil(t, inst.PaidDate)
	})

	t.Run("paid at amount is paid", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)

		require.NoError(t, inst.RecordPayment(dec("100")))
		assert.Equal(t, InstallmentStatusPaid, inst.Status)
		require.NotNil(t, inst.PaidDate)
	})

	t.Run("paid above amount is paid", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)

		require.NoError(t, inst.RecordPayment(dec("150")))
		assert.Equal(t, InstallmentStatusPaid, inst.Status)
	})

	t.Run("rejects negative paid amount", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)

		assert.Error(t, inst.RecordPayment(dec("-5")))
	})

	t.Run("paid date survives repeated saves while paid", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)

		require.NoError(t, inst.RecordPayment(dec("100")))
		first := *inst.PaidDate

		require.NoError(t, inst.RecordPayment(dec("100")))
		assert.Equal(t, first, *inst.PaidDate)
	})

	t.Run("paid date cleared when payment regresses", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)

		require.NoError(t, inst.RecordPayment(dec("100")))
		require.NotNil(t, inst.PaidDate)

		require.NoError(t, inst.RecordPayment(dec("30")))
		assert.Equal(t, InstallmentStatusPartial, inst.Status)
		assert.Nil(t, inst.PaidDate)
	})

	t.Run("amount edit never touches status", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)

		require.NoError(t, inst.RecordPayment(dec("50")))
		require.Equal(t, InstallmentStatusPartial, inst.Status)

		require.NoError(t, inst.UpdateAmount(dec("40")))
		assert.Equal(t, InstallmentStatusPartial, inst.Status)
		assert.Nil(t, inst.PaidDate)

		require.NoError(t, inst.RecordPayment(dec("50")))
		assert.Equal(t, InstallmentStatusPaid, inst.Status, "the next payment edit rederives against the new amount")
	})

	t.Run("raising amount keeps a paid installment paid", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)

		require.NoError(t, inst.RecordPayment(dec("100")))
		require.True(t, inst.IsPaid())
		paidAt := *inst.PaidDate

		require.NoError(t, inst.UpdateAmount(dec("200")))
		assert.Equal(t, InstallmentStatusPaid, inst.Status)
		require.NotNil(t, inst.PaidDate)
		assert.Equal(t, paidAt, *inst.PaidDate)
	})

	t.Run("due date edit never touches status", func(t *testing.T) {
		inst, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)

		require.NoError(t, inst.RecordPayment(dec("40")))
		inst.UpdateDueDate(time.Now().AddDate(0, 1, 0))
		assert.Equal(t, InstallmentStatusPartial, inst.Status)
	})
}

func TestNewSchedule(t *testing.T) {
	billID := uuid.New()

	t.Run("empty set seeds single full installment", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("250"), nil)
		require.NoError(t, err)

		require.Len(t, s.Installments, 1)
		assert.Equal(t, 1, s.Installments[0].Number)
		assert.True(t, s.Installments[0].Amount.Equal(dec("250")))
		assert.Equal(t, InstallmentStatusPending, s.Installments[0].Status)
	})

	t.Run("existing installments are kept as loaded", func(t *testing.T) {
		first, err := NewInstallment(billID, 1, time.Now(), dec("100"))
		require.NoError(t, err)
		second, err := NewInstallment(billID, 2, time.Now(), dec("150"))
		require.NoError(t, err)

		s, err := NewSchedule(billID, dec("250"), []Installment{*first, *second})
		require.NoError(t, err)
		assert.Len(t, s.Installments, 2)
	})
}

func TestScheduleAdd(t *testing.T) {
	billID := uuid.New()

	t.Run("new installment covers unpaid remainder", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("1000"), nil)
		require.NoError(t, err)

		require.NoError(t, s.RecordPayment(0, dec("300")))

		inst, err := s.Add()
		require.NoError(t, err)
		assert.Equal(t, 2, inst.Number)
		assert.True(t, inst.Amount.Equal(dec("700")), "got %s", inst.Amount)
		assert.Equal(t, InstallmentStatusPending, inst.Status)
	})

	t.Run("remainder clamps at zero when overpaid", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("1000"), nil)
		require.NoError(t, err)

		require.NoError(t, s.RecordPayment(0, dec("1200")))

		inst, err := s.Add()
		require.NoError(t, err)
		assert.True(t, inst.Amount.IsZero())
	})

	t.Run("numbers stay contiguous", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("900"), nil)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := s.Add()
			require.NoError(t, err)
		}
		for idx, inst := range s.Installments {
			assert.Equal(t, idx+1, inst.Number)
		}
	})
}

func TestScheduleRemove(t *testing.T) {
	billID := uuid.New()

	t.Run("removing the only installment is rejected", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("100"), nil)
		require.NoError(t, err)

		err = s.Remove(0)
		assert.ErrorIs(t, err, shared.ErrLastInstallment)
		assert.Len(t, s.Installments, 1)
	})

	t.Run("removes by index and renumbers", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("300"), nil)
		require.NoError(t, err)
		_, err = s.Add()
		require.NoError(t, err)
		_, err = s.Add()
		require.NoError(t, err)

		require.NoError(t, s.Remove(1))
		s.Renumber()

		require.Len(t, s.Installments, 2)
		assert.Equal(t, 1, s.Installments[0].Number)
		assert.Equal(t, 2, s.Installments[1].Number)
	})

	t.Run("rejects index out of range", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("100"), nil)
		require.NoError(t, err)

		assert.Error(t, s.Remove(5))
		assert.Error(t, s.Remove(-1))
	})
}

func TestScheduleValidate(t *testing.T) {
	billID := uuid.New()

	t.Run("accepts exact sum", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("100"), nil)
		require.NoError(t, err)
		assert.NoError(t, s.Validate())
	})

	t.Run("accepts drift within a cent", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("100"), nil)
		require.NoError(t, err)

		require.NoError(t, s.UpdateAmount(0, dec("99.99")))
		assert.NoError(t, s.Validate())

		require.NoError(t, s.UpdateAmount(0, dec("100.01")))
		assert.NoError(t, s.Validate())
	})

	t.Run("rejects drift beyond a cent", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("100"), nil)
		require.NoError(t, err)

		require.NoError(t, s.UpdateAmount(0, dec("99.98")))
		err = s.Validate()
		assert.ErrorIs(t, err, shared.ErrScheduleMismatch)
	})

	t.Run("sums across several installments", func(t *testing.T) {
		s, err := NewSchedule(billID, dec("300"), nil)
		require.NoError(t, err)
		_, err = s.Add()
		require.NoError(t, err)

		require.NoError(t, s.UpdateAmount(0, dec("120")))
		require.NoError(t, s.UpdateAmount(1, dec("180")))
		assert.NoError(t, s.Validate())
	})
}

func TestScheduleBillStatus(t *testing.T) {
	billID := uuid.New()

	newThreePart := func(t *testing.T) *Schedule {
		t.Helper()
		s, err := NewSchedule(billID, dec("300"), nil)
		require.NoError(t, err)
		require.NoError(t, s.UpdateAmount(0, dec("100")))
		for i := 0; i < 2; i++ {
			inst, err := s.Add()
			require.NoError(t, err)
			require.NoError(t, s.UpdateAmount(inst.Number-1, dec("100")))
		}
		return s
	}

	t.Run("nothing paid is due", func(t *testing.T) {
		s := newThreePart(t)
		assert.Equal(t, BillStatusDue, s.BillStatus())
	})

	t.Run("any payment makes installment", func(t *testing.T) {
		s := newThreePart(t)
		require.NoError(t, s.RecordPayment(1, dec("50")))
		assert.Equal(t, BillStatusInstallment, s.BillStatus())
	})

	t.Run("every installment paid makes paid", func(t *testing.T) {
		s := newThreePart(t)
		for i := range s.Installments {
			require.NoError(t, s.RecordPayment(i, dec("100")))
		}
		assert.Equal(t, BillStatusPaid, s.BillStatus())
	})

	t.Run("one unpaid keeps installment", func(t *testing.T) {
		s := newThreePart(t)
		require.NoError(t, s.RecordPayment(0, dec("100")))
		require.NoError(t, s.RecordPayment(1, dec("100")))
		assert.Equal(t, BillStatusInstallment, s.BillStatus())
	})
}
