// Package outbox exposes admin operations over the event outbox: inspecting
// dead letters and putting them back on the delivery queue.
package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fruitflow/backend/internal/domain/shared"
)

// EntryResponse represents an outbox entry in API responses
type EntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error"`
	NextRetryAt   *time.Time `json:"next_retry_at"`
	ProcessedAt   *time.Time `json:"processed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// StatsResponse reports entry counts per delivery status
type StatsResponse struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
}

// AdminService handles outbox administration
type AdminService struct {
	outboxRepo shared.OutboxRepository
	logger     *zap.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(outboxRepo shared.OutboxRepository, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// ListDead retrieves dead-letter entries with pagination
func (s *AdminService) ListDead(ctx context.Context, page, pageSize int) ([]EntryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	entries, total, err := s.outboxRepo.FindDead(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = toEntryResponse(entry)
	}
	return responses, total, nil
}

// Requeue resets a dead-letter entry so the processor picks it up again
func (s *AdminService) Requeue(ctx context.Context, entryID uuid.UUID) (*EntryResponse, error) {
	entry, err := s.outboxRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.NewDomainError("OUTBOX_NOT_DEAD", "Only dead-letter entries can be requeued")
	}
	if err := s.outboxRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Outbox entry requeued",
		zap.String("entry_id", entry.ID.String()),
		zap.String("event_type", entry.EventType))

	response := toEntryResponse(entry)
	return &response, nil
}

// Stats counts outbox entries per status
func (s *AdminService) Stats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.outboxRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}, nil
}

func toEntryResponse(entry *shared.OutboxEntry) EntryResponse {
	return EntryResponse{
		ID:            entry.ID,
		EventID:       entry.EventID,
		EventType:     entry.EventType,
		AggregateID:   entry.AggregateID,
		AggregateType: entry.AggregateType,
		Status:        string(entry.Status),
		RetryCount:    entry.RetryCount,
		MaxRetries:    entry.MaxRetries,
		LastError:     entry.LastError,
		NextRetryAt:   entry.NextRetryAt,
		ProcessedAt:   entry.ProcessedAt,
		CreatedAt:     entry.CreatedAt,
	}
}
