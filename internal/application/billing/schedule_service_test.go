package billing

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

type fakeBillRepo struct {
	bills map[uuid.UUID]*billing.Bill
}

func newFakeBillRepo(bills ...*billing.Bill) *fakeBillRepo {
	repo := &fakeBillRepo{bills: make(map[uuid.UUID]*billing.Bill)}
	for _, bill := range bills {
		repo.bills[bill.ID] = bill
	}
	return repo
}

func (r *fakeBillRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Bill, error) {
	if bill, ok := r.bills[id]; ok {
		return bill, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBillRepo) FindByIDForOwner(_ context.Context, ownerID, id uuid.UUID) (*billing.Bill, error) {
	if bill, ok := r.bills[id]; ok && bill.OwnerID == ownerID {
		return bill, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBillRepo) FindByBillNumber(_ context.Context, _ uuid.UUID, _ string) (*billing.Bill, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeBillRepo) FindAllForOwner(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]billing.Bill, error) {
	return nil, nil
}

func (r *fakeBillRepo) SaveWithMirror(_ context.Context, bill *billing.Bill, _ []basket.Entry, _ []shared.DomainEvent) error {
	r.bills[bill.ID] = bill
	return nil
}

func (r *fakeBillRepo) DeleteForOwner(_ context.Context, _, id uuid.UUID, _ []shared.DomainEvent) error {
	delete(r.bills, id)
	return nil
}

func (r *fakeBillRepo) CountForOwner(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.bills)), nil
}

func (r *fakeBillRepo) DistinctCustomerNames(_ context.Context, _ uuid.UUID, _ string, _ int) ([]string, error) {
	return nil, nil
}

func (r *fakeBillRepo) ExistsByBillNumber(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

func (r *fakeBillRepo) GenerateBillNumber(_ context.Context, _ uuid.UUID) (string, error) {
	return "B-0001", nil
}

type fakeScheduleRepo struct {
	installments map[uuid.UUID][]billing.Installment
	savedStatus  billing.BillStatus
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{installments: make(map[uuid.UUID][]billing.Installment)}
}

func (r *fakeScheduleRepo) FindByBill(_ context.Context, billID uuid.UUID) ([]billing.Installment, error) {
	return r.installments[billID], nil
}

func (r *fakeScheduleRepo) ReplaceForBill(_ context.Context, billID uuid.UUID, installments []billing.Installment, billStatus billing.BillStatus) error {
	r.installments[billID] = installments
	r.savedStatus = billStatus
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// scheduleBill builds a bill totalling 1000
func scheduleBill(t *testing.T, ownerID uuid.UUID) *billing.Bill {
	t.Helper()
	bill, err := billing.NewBill(ownerID, "B-0042", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), billing.BillTypeBuy, "สวนลุงมี")
	require.NoError(t, err)
	_, err = bill.AddItem("ทุเรียนหมอนทอง", dec("10"), dec("10"), dec("0"), valueobject.NewMoneyTHB(dec("10")))
	require.NoError(t, err)
	return bill
}

func TestScheduleLoadSeedsSingleInstallment(t *testing.T) {
	ownerID := uuid.New()
	bill := scheduleBill(t, ownerID)
	svc := NewScheduleService(newFakeBillRepo(bill), newFakeScheduleRepo())

	schedule, err := svc.Load(context.Background(), ownerID, bill.ID)
	require.NoError(t, err)

	require.Len(t, schedule.Installments, 1)
	assert.Equal(t, 1, schedule.Installments[0].Number)
	assert.True(t, schedule.Installments[0].Amount.Equal(dec("1000")))
	assert.Equal(t, "pending", schedule.Installments[0].Status)
	assert.Equal(t, "due", schedule.BillStatus)
}

func TestScheduleLoadUnknownBill(t *testing.T) {
	svc := NewScheduleService(newFakeBillRepo(), newFakeScheduleRepo())
	_, err := svc.Load(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestScheduleLoadIsOwnerScoped(t *testing.T) {
	bill := scheduleBill(t, uuid.New())
	svc := NewScheduleService(newFakeBillRepo(bill), newFakeScheduleRepo())

	_, err := svc.Load(context.Background(), uuid.New(), bill.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestScheduleSave(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("partial payment derives installment status", func(t *testing.T) {
		ownerID := uuid.New()
		bill := scheduleBill(t, ownerID)
		scheduleRepo := newFakeScheduleRepo()
		svc := NewScheduleService(newFakeBillRepo(bill), scheduleRepo)

		schedule, err := svc.Save(context.Background(), ownerID, bill.ID, SaveScheduleRequest{
			Installments: []InstallmentInput{
				{DueDate: due, Amount: dec("600"), PaidAmount: dec("600")},
				{DueDate: due.AddDate(0, 1, 0), Amount: dec("400"), PaidAmount: dec("100")},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "installment", schedule.BillStatus)
		assert.Equal(t, billing.BillStatusInstallment, scheduleRepo.savedStatus)
		require.Len(t, schedule.Installments, 2)
		assert.Equal(t, "paid", schedule.Installments[0].Status)
		assert.NotNil(t, schedule.Installments[0].PaidDate)
		assert.Equal(t, "partial", schedule.Installments[1].Status)
		assert.Nil(t, schedule.Installments[1].PaidDate)
	})

	t.Run("everything paid marks the bill paid", func(t *testing.T) {
		ownerID := uuid.New()
		bill := scheduleBill(t, ownerID)
		scheduleRepo := newFakeScheduleRepo()
		svc := NewScheduleService(newFakeBillRepo(bill), scheduleRepo)

		schedule, err := svc.Save(context.Background(), ownerID, bill.ID, SaveScheduleRequest{
			Installments: []InstallmentInput{
				{DueDate: due, Amount: dec("1000"), PaidAmount: dec("1000")},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "paid", schedule.BillStatus)
		assert.Equal(t, billing.BillStatusPaid, scheduleRepo.savedStatus)
	})

	t.Run("sum within a cent of the total passes", func(t *testing.T) {
		ownerID := uuid.New()
		bill := scheduleBill(t, ownerID)
		svc := NewScheduleService(newFakeBillRepo(bill), newFakeScheduleRepo())

		_, err := svc.Save(context.Background(), ownerID, bill.ID, SaveScheduleRequest{
			Installments: []InstallmentInput{
				{DueDate: due, Amount: dec("500.00")},
				{DueDate: due, Amount: dec("500.01")},
			},
		})
		assert.NoError(t, err)
	})

	t.Run("sum off by more than a cent is rejected", func(t *testing.T) {
		ownerID := uuid.New()
		bill := scheduleBill(t, ownerID)
		svc := NewScheduleService(newFakeBillRepo(bill), newFakeScheduleRepo())

		_, err := svc.Save(context.Background(), ownerID, bill.ID, SaveScheduleRequest{
			Installments: []InstallmentInput{
				{DueDate: due, Amount: dec("500")},
				{DueDate: due, Amount: dec("400")},
			},
		})
		assert.ErrorIs(t, err, shared.ErrScheduleMismatch)
	})

	t.Run("installments are renumbered from one", func(t *testing.T) {
		ownerID := uuid.New()
		bill := scheduleBill(t, ownerID)
		svc := NewScheduleService(newFakeBillRepo(bill), newFakeScheduleRepo())

		schedule, err := svc.Save(context.Background(), ownerID, bill.ID, SaveScheduleRequest{
			Installments: []InstallmentInput{
				{DueDate: due, Amount: dec("300")},
				{DueDate: due, Amount: dec("300")},
				{DueDate: due, Amount: dec("400")},
			},
		})
		require.NoError(t, err)
		for i, inst := range schedule.Installments {
			assert.Equal(t, i+1, inst.Number)
		}
	})

	t.Run("a row staying paid keeps its original paid date", func(t *testing.T) {
		ownerID := uuid.New()
		bill := scheduleBill(t, ownerID)
		scheduleRepo := newFakeScheduleRepo()
		svc := NewScheduleService(newFakeBillRepo(bill), scheduleRepo)

		first, err := svc.Save(context.Background(), ownerID, bill.ID, SaveScheduleRequest{
			Installments: []InstallmentInput{
				{DueDate: due, Amount: dec("1000"), PaidAmount: dec("1000")},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, first.Installments[0].PaidDate)
		originalPaidDate := *first.Installments[0].PaidDate

		time.Sleep(10 * time.Millisecond)

		second, err := svc.Save(context.Background(), ownerID, bill.ID, SaveScheduleRequest{
			Installments: []InstallmentInput{
				{DueDate: due.AddDate(0, 0, 7), Amount: dec("1000"), PaidAmount: dec("1000")},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, second.Installments[0].PaidDate)
		assert.Equal(t, originalPaidDate, *second.Installments[0].PaidDate)
	})
}
