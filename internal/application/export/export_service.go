// Package export produces CSV and XLSX downloads of an owner's bills.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fruitflow/backend/internal/domain/billing"
	"github.com/fruitflow/backend/internal/domain/shared"
)

// exportPageSize bounds a single export to keep memory flat
const exportPageSize = 10000

var billExportHeader = []string{
	"bill_number", "bill_date", "type", "customer_name",
	"items", "total_weight", "processing_fee", "paper_fee",
	"total_amount", "status", "remark",
}

// BillExportFilter narrows which bills are exported
type BillExportFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=buy sell"`
	Status   string `form:"status" binding:"omitempty,oneof=due installment paid"`
	Customer string `form:"customer"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

// ExportService builds bill export files
type ExportService struct {
	billRepo billing.BillRepository
}

// NewExportService creates a new ExportService
func NewExportService(billRepo billing.BillRepository) *ExportService {
	return &ExportService{billRepo: billRepo}
}

// BillsCSV exports bills matching the filter as an RFC 4180 CSV document
func (s *ExportService) BillsCSV(ctx context.Context, ownerID uuid.UUID, filter BillExportFilter) ([]byte, error) {
	bills, err := s.fetchBills(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(billExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range bills {
		if err := writer.Write(billExportRow(&bills[i])); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// BillsXLSX exports bills matching the filter as an Excel workbook
func (s *ExportService) BillsXLSX(ctx context.Context, ownerID uuid.UUID, filter BillExportFilter) ([]byte, error) {
	bills, err := s.fetchBills(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bills"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range billExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for row := range bills {
		values := billExportRow(&bills[row])
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) fetchBills(ctx context.Context, ownerID uuid.UUID, filter BillExportFilter) ([]billing.Bill, error) {
	domainFilter := shared.Filter{
		Page:     1,
		PageSize: exportPageSize,
		OrderBy:  "bill_date",
		OrderDir: "asc",
		Filters:  make(map[string]any),
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Customer != "" {
		domainFilter.Filters["customer_name"] = filter.Customer
	}
	if filter.DateFrom != "" {
		domainFilter.Filters["date_from"] = filter.DateFrom
	}
	if filter.DateTo != "" {
		domainFilter.Filters["date_to"] = filter.DateTo
	}

	return s.billRepo.FindAllForOwner(ctx, ownerID, domainFilter)
}

func billExportRow(bill *billing.Bill) []string {
	totalWeight := decimal.Zero
	for _, item := range bill.Items {
		totalWeight = totalWeight.Add(item.TotalWeight)
	}
	return []string{
		bill.BillNumber,
		bill.BillDate.Format("2006-01-02"),
		bill.Type.String(),
		bill.CustomerName,
		fmt.Sprintf("%d", len(bill.Items)),
		totalWeight.String(),
		bill.ProcessingFee.String(),
		bill.PaperFee.String(),
		bill.TotalAmount.String(),
		bill.Status.String(),
		bill.Remark,
	}
}
