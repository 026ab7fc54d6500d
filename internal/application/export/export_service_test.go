package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fruitflow/backend/internal/domain/basket"
	"github.com/fruitflow/backend/internal/domain/billing"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/fruitflow/backend/internal/domain/shared/valueobject"
)

type stubBillRepo struct {
	bills      []billing.Bill
	lastFilter shared.Filter
}

func (r *stubBillRepo) FindByID(_ context.Context, _ uuid.UUID) (*billing.Bill, error) {
	return nil, shared.ErrNotFound
}

func (r *stubBillRepo) FindByIDForOwner(_ context.Context, _, _ uuid.UUID) (*billing.Bill, error) {
	return nil, shared.ErrNotFound
}

func (r *stubBillRepo) FindByBillNumber(_ context.Context, _ uuid.UUID, _ string) (*billing.Bill, error) {
	return nil, shared.ErrNotFound
}

func (r *stubBillRepo) FindAllForOwner(_ context.Context, _ uuid.UUID, filter shared.Filter) ([]billing.Bill, error) {
	r.lastFilter = filter
	return r.bills, nil
}

func (r *stubBillRepo) SaveWithMirror(_ context.Context, _ *billing.Bill, _ []basket.Entry, _ []shared.DomainEvent) error {
	return nil
}

func (r *stubBillRepo) DeleteForOwner(_ context.Context, _, _ uuid.UUID, _ []shared.DomainEvent) error {
	return nil
}

func (r *stubBillRepo) CountForOwner(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.bills)), nil
}

func (r *stubBillRepo) DistinctCustomerNames(_ context.Context, _ uuid.UUID, _ string, _ int) ([]string, error) {
	return nil, nil
}

func (r *stubBillRepo) ExistsByBillNumber(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

func (r *stubBillRepo) GenerateBillNumber(_ context.Context, _ uuid.UUID) (string, error) {
	return "B-0001", nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func exportBill(t *testing.T, ownerID uuid.UUID) billing.Bill {
	t.Helper()

	bill, err := billing.NewBill(ownerID, "B-0042", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), billing.BillTypeSell, "ร้านส้มโชคดี")
	require.NoError(t, err)

	_, err = bill.AddItem("ส้มสายน้ำผึ้ง", dec("10"), dec("12.5"), dec("3"), valueobject.NewMoneyTHB(dec("45")))
	require.NoError(t, err)
	_, err = bill.AddItem("ส้มเขียวหวาน", dec("4"), dec("10"), dec("0"), valueobject.NewMoneyTHB(dec("38")))
	require.NoError(t, err)

	require.NoError(t, bill.SetSurcharges(valueobject.NewMoneyTHB(dec("50")), valueobject.NewMoneyTHB(dec("20"))))
	bill.SetRemark("จ่ายงวดแรกแล้ว")
	return *bill
}

func TestBillsCSV(t *testing.T) {
	ownerID := uuid.New()
	repo := &stubBillRepo{bills: []billing.Bill{exportBill(t, ownerID)}}
	svc := NewExportService(repo)

	out, err := svc.BillsCSV(context.Background(), ownerID, BillExportFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, billExportHeader, records[0])

	row := records[1]
	assert.Equal(t, "B-0042", row[0])
	assert.Equal(t, "2026-08-15", row[1])
	assert.Equal(t, "sell", row[2])
	assert.Equal(t, "ร้านส้มโชคดี", row[3])
	assert.Equal(t, "2", row[4])

	// 10*12.5+3 = 128, 4*10 = 40
	assert.Equal(t, "168", row[5])
	assert.Equal(t, "50", row[6])
	assert.Equal(t, "20", row[7])
	// 128*45 + 40*38 + 50 + 20 = 7350
	assert.Equal(t, "7350", row[8])
	assert.Equal(t, "due", row[9])
	assert.Equal(t, "จ่ายงวดแรกแล้ว", row[10])
}

func TestBillsCSVEmptyResult(t *testing.T) {
	svc := NewExportService(&stubBillRepo{})

	out, err := svc.BillsCSV(context.Background(), uuid.New(), BillExportFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}

func TestBillsCSVFilterPassthrough(t *testing.T) {
	repo := &stubBillRepo{}
	svc := NewExportService(repo)

	_, err := svc.BillsCSV(context.Background(), uuid.New(), BillExportFilter{
		Type:     "sell",
		Status:   "paid",
		Customer: "ร้านส้มโชคดี",
		DateFrom: "2026-08-01",
		DateTo:   "2026-08-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "sell", repo.lastFilter.Filters["type"])
	assert.Equal(t, "paid", repo.lastFilter.Filters["status"])
	assert.Equal(t, "ร้านส้มโชคดี", repo.lastFilter.Filters["customer_name"])
	assert.Equal(t, "2026-08-01", repo.lastFilter.Filters["date_from"])
	assert.Equal(t, "2026-08-31", repo.lastFilter.Filters["date_to"])
}

func TestBillsXLSX(t *testing.T) {
	ownerID := uuid.New()
	repo := &stubBillRepo{bills: []billing.Bill{exportBill(t, ownerID)}}
	svc := NewExportService(repo)

	out, err := svc.BillsXLSX(context.Background(), ownerID, BillExportFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bills")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, billExportHeader, rows[0])
	assert.Equal(t, "B-0042", rows[1][0])
	assert.Equal(t, "7350", rows[1][8])
}
