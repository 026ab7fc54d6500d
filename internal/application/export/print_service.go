package export

import (
	"context"

	"github.com/google/uuid"

	"github.com/fruitflow/backend/internal/domain/billing"
	"github.com/fruitflow/backend/internal/infrastructure/printing"
)

// PrintService renders a bill as a printable PDF document
type PrintService struct {
	billRepo     billing.BillRepository
	scheduleRepo billing.ScheduleRepository
	renderer     printing.Renderer
}

// NewPrintService creates a new PrintService
func NewPrintService(billRepo billing.BillRepository, scheduleRepo billing.ScheduleRepository, renderer printing.Renderer) *PrintService {
	return &PrintService{
		billRepo:     billRepo,
		scheduleRepo: scheduleRepo,
		renderer:     renderer,
	}
}

// BillPDF renders a bill with its schedule as an A4 PDF
func (s *PrintService) BillPDF(ctx context.Context, ownerID, billID uuid.UUID) ([]byte, error) {
	bill, err := s.billRepo.FindByIDForOwner(ctx, ownerID, billID)
	if err != nil {
		return nil, err
	}

	installments, err := s.scheduleRepo.FindByBill(ctx, bill.ID)
	if err != nil {
		return nil, err
	}

	html, err := printing.RenderBillHTML(buildPrintData(bill, installments))
	if err != nil {
		return nil, err
	}

	return s.renderer.Render(ctx, html)
}

// BillHTML returns the print-styled HTML document for a bill, used by the
// client-side save-image flow
func (s *PrintService) BillHTML(ctx context.Context, ownerID, billID uuid.UUID) (string, error) {
	bill, err := s.billRepo.FindByIDForOwner(ctx, ownerID, billID)
	if err != nil {
		return "", err
	}

	installments, err := s.scheduleRepo.FindByBill(ctx, bill.ID)
	if err != nil {
		return "", err
	}

	return printing.RenderBillHTML(buildPrintData(bill, installments))
}

func buildPrintData(bill *billing.Bill, installments []billing.Installment) printing.BillPrintData {
	items := make([]printing.BillPrintItem, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = printing.BillPrintItem{
			ProduceName: item.ProduceName,
			Quantity:    item.Quantity.String(),
			UnitWeight:  item.UnitWeight.String(),
			Fraction:    item.Fraction.String(),
			TotalWeight: item.TotalWeight.String(),
			UnitPrice:   item.UnitPrice.String(),
			Amount:      item.Amount.StringFixed(2),
		}
	}

	packaging := make([]printing.BillPrintPackaging, len(bill.Packaging))
	for i, line := range bill.Packaging {
		label := line.BasketType
		if line.BasketType == "named" {
			label = line.BasketName
		}
		packaging[i] = printing.BillPrintPackaging{
			Label:    label,
			Quantity: line.Quantity,
			Deducted: line.Deduct,
		}
	}

	schedule := make([]printing.BillPrintInstallment, len(installments))
	for i, inst := range installments {
		schedule[i] = printing.BillPrintInstallment{
			Number:     inst.Number,
			DueDate:    inst.DueDate.Format("2006-01-02"),
			Amount:     inst.Amount.StringFixed(2),
			PaidAmount: inst.PaidAmount.StringFixed(2),
			Status:     inst.Status.String(),
		}
	}

	typeLabel := "Purchase bill"
	if bill.IsSell() {
		typeLabel = "Sale bill"
	}

	return printing.BillPrintData{
		BillNumber:    bill.BillNumber,
		BillDate:      bill.BillDate.Format("2006-01-02"),
		TypeLabel:     typeLabel,
		CustomerName:  bill.CustomerName,
		Items:         items,
		Packaging:     packaging,
		Installments:  schedule,
		ProcessingFee: bill.ProcessingFee.StringFixed(2),
		PaperFee:      bill.PaperFee.StringFixed(2),
		HasSurcharges: !bill.ProcessingFee.IsZero() || !bill.PaperFee.IsZero(),
		TotalAmount:   bill.TotalAmount.StringFixed(2),
		Status:        bill.Status.String(),
		Remark:        bill.Remark,
	}
}
