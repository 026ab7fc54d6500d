package mailbox

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fruitflow/backend/internal/domain/mailbox"
	"github.com/fruitflow/backend/internal/domain/shared"
)

type memoryMessageRepo struct {
	messages []mailbox.Message
}

func (r *memoryMessageRepo) SaveIgnoreDuplicate(_ context.Context, message *mailbox.Message) (bool, error) {
	for _, existing := range r.messages {
		if existing.OwnerID == message.OwnerID &&
			existing.Sender == message.Sender &&
			existing.Items == message.Items &&
			existing.SentAt.Equal(message.SentAt) {
			return false, nil
		}
	}
	r.messages = append(r.messages, *message)
	return true, nil
}

func (r *memoryMessageRepo) FindByIDForOwner(_ context.Context, ownerID, id uuid.UUID) (*mailbox.Message, error) {
	for i := range r.messages {
		if r.messages[i].OwnerID == ownerID && r.messages[i].ID == id {
			return &r.messages[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryMessageRepo) FindAllForOwner(_ context.Context, ownerID uuid.UUID, _ shared.Filter) ([]mailbox.Message, error) {
	result := make([]mailbox.Message, 0)
	for _, message := range r.messages {
		if message.OwnerID == ownerID {
			result = append(result, message)
		}
	}
	return result, nil
}

func (r *memoryMessageRepo) FindSince(_ context.Context, ownerID uuid.UUID, since time.Time, limit int) ([]mailbox.Message, error) {
	result := make([]mailbox.Message, 0)
	for _, message := range r.messages {
		if message.OwnerID == ownerID && message.SentAt.After(since) {
			result = append(result, message)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *memoryMessageRepo) MarkRead(_ context.Context, ownerID, id uuid.UUID) error {
	for i := range r.messages {
		if r.messages[i].OwnerID == ownerID && r.messages[i].ID == id {
			r.messages[i].Read = true
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryMessageRepo) MarkAllRead(_ context.Context, ownerID uuid.UUID) error {
	for i := range r.messages {
		if r.messages[i].OwnerID == ownerID {
			r.messages[i].Read = true
		}
	}
	return nil
}

func (r *memoryMessageRepo) DeleteForOwner(_ context.Context, ownerID, id uuid.UUID) error {
	for i := range r.messages {
		if r.messages[i].OwnerID == ownerID && r.messages[i].ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryMessageRepo) CountUnread(_ context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	for _, message := range r.messages {
		if message.OwnerID == ownerID && !message.Read {
			count++
		}
	}
	return count, nil
}

func (r *memoryMessageRepo) CountForOwner(_ context.Context, ownerID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for _, message := range r.messages {
		if message.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

type recordingNotifier struct {
	notified []MessageResponse
}

func (n *recordingNotifier) NotifyMessage(_ uuid.UUID, message MessageResponse) {
	n.notified = append(n.notified, message)
}

func TestIngestNotifiesOnNewMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(&memoryMessageRepo{}, notifier)
	ownerID := uuid.New()

	response, err := svc.Ingest(context.Background(), ownerID, IngestMessageRequest{
		Sender: "ร้านส้มโชคดี",
		Items:  "ส้มสายน้ำผึ้ง 20 ตะกร้า",
		SentAt: time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, response.Read)

	require.Len(t, notifier.notified, 1)
	assert.Equal(t, "ร้านส้มโชคดี", notifier.notified[0].Sender)
}

func TestIngestDuplicateIsSilent(t *testing.T) {
	notifier := &recordingNotifier{}
	repo := &memoryMessageRepo{}
	svc := NewService(repo, notifier)
	ownerID := uuid.New()

	req := IngestMessageRequest{
		Sender: "ร้านส้มโชคดี",
		Items:  "ส้มสายน้ำผึ้ง 20 ตะกร้า",
		SentAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
	}

	_, err := svc.Ingest(context.Background(), ownerID, req)
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), ownerID, req)
	require.NoError(t, err)

	assert.Len(t, repo.messages, 1, "re-delivery must not duplicate mail")
	assert.Len(t, notifier.notified, 1, "re-delivery must not notify again")
}

func TestIngestSameItemsDifferentSenderIsNotDuplicate(t *testing.T) {
	repo := &memoryMessageRepo{}
	svc := NewService(repo, nil)
	ownerID := uuid.New()
	sentAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	_, err := svc.Ingest(context.Background(), ownerID, IngestMessageRequest{Sender: "A", Items: "x", SentAt: sentAt})
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), ownerID, IngestMessageRequest{Sender: "B", Items: "x", SentAt: sentAt})
	require.NoError(t, err)

	assert.Len(t, repo.messages, 2)
}

func TestIngestWithNilNotifier(t *testing.T) {
	svc := NewService(&memoryMessageRepo{}, nil)

	_, err := svc.Ingest(context.Background(), uuid.New(), IngestMessageRequest{
		Sender: "A",
		Items:  "x",
		SentAt: time.Now(),
	})
	assert.NoError(t, err)
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	repo := &memoryMessageRepo{}
	svc := NewService(repo, nil)
	ownerID := uuid.New()

	first, err := svc.Ingest(context.Background(), ownerID, IngestMessageRequest{Sender: "A", Items: "one", SentAt: time.Now()})
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), ownerID, IngestMessageRequest{Sender: "A", Items: "two", SentAt: time.Now()})
	require.NoError(t, err)

	count, err := svc.UnreadCount(context.Background(), ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, svc.MarkRead(context.Background(), ownerID, first.ID))
	count, err = svc.UnreadCount(context.Background(), ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.MarkAllRead(context.Background(), ownerID))
	count, err = svc.UnreadCount(context.Background(), ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestDeleteUnknownMessage(t *testing.T) {
	svc := NewService(&memoryMessageRepo{}, nil)
	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSinceClampsLimit(t *testing.T) {
	repo := &memoryMessageRepo{}
	svc := NewService(repo, nil)
	ownerID := uuid.New()
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := svc.Ingest(context.Background(), ownerID, IngestMessageRequest{
			Sender: "A",
			Items:  string(rune('a' + i)),
			SentAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	messages, err := svc.Since(context.Background(), ownerID, base, -1)
	require.NoError(t, err)
	assert.Len(t, messages, 2, "cursor itself is excluded")
}
