package billing

import (
	"context"

	"github.com/fruitflow/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// ScheduleService handles the installment schedule editor operations
type ScheduleService struct {
	billRepo     billing.BillRepository
	scheduleRepo billing.ScheduleRepository
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(billRepo billing.BillRepository, scheduleRepo billing.ScheduleRepository) *ScheduleService {
	return &ScheduleService{
		billRepo:     billRepo,
		scheduleRepo: scheduleRepo,
	}
}

// Load returns a bill's installment schedule. A bill with no installments yet
// gets a single pending installment covering the full total, due today; the
// seed is in-memory only until the first save.
func (s *ScheduleService) Load(ctx context.Context, ownerID, billID uuid.UUID) (*ScheduleResponse, error) {
	bill, err := s.billRepo.FindByIDForOwner(ctx, ownerID, billID)
	if err != nil {
		return nil, err
	}

	existing, err := s.scheduleRepo.FindByBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	schedule, err := billing.NewSchedule(billID, bill.TotalAmount, existing)
	if err != nil {
		return nil, err
	}

	response := ToScheduleResponse(schedule, bill.Status)
	return &response, nil
}

// Save replaces a bill's installment schedule with the submitted rows.
// The sum of amounts must match the bill total within a cent; the whole
// replacement plus the bill status write-back happens in one transaction.
func (s *ScheduleService) Save(ctx context.Context, ownerID, billID uuid.UUID, req SaveScheduleRequest) (*ScheduleResponse, error) {
	bill, err := s.billRepo.FindByIDForOwner(ctx, ownerID, billID)
	if err != nil {
		return nil, err
	}

	existing, err := s.scheduleRepo.FindByBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	installments := make([]billing.Installment, 0, len(req.Installments))
	for idx, input := range req.Installments {
		inst, err := billing.NewInstallment(billID, idx+1, input.DueDate, input.Amount)
		if err != nil {
			return nil, err
		}
		if err := inst.RecordPayment(input.PaidAmount); err != nil {
			return nil, err
		}
		// A row that stays paid across saves keeps its original paid date
		// instead of being restamped with now.
		if idx < len(existing) && inst.IsPaid() && existing[idx].PaidDate != nil {
			inst.PaidDate = existing[idx].PaidDate
		}
		installments = append(installments, *inst)
	}

	schedule := &billing.Schedule{
		BillID:       billID,
		BillTotal:    bill.TotalAmount,
		Installments: installments,
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	schedule.Renumber()

	billStatus := schedule.BillStatus()
	if err := s.scheduleRepo.ReplaceForBill(ctx, billID, schedule.Installments, billStatus); err != nil {
		return nil, err
	}

	response := ToScheduleResponse(schedule, billStatus)
	return &response, nil
}
