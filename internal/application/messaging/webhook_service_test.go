package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mailboxapp "github.com/fruitflow/backend/internal/application/mailbox"
	"github.com/fruitflow/backend/internal/domain/mailbox"
	"github.com/fruitflow/backend/internal/domain/messaging"
	"github.com/fruitflow/backend/internal/domain/partner"
	"github.com/fruitflow/backend/internal/domain/shared"
)

type fakeContactRepo struct {
	contacts map[string]*messaging.ChatContact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[string]*messaging.ChatContact)}
}

func (r *fakeContactRepo) Save(_ context.Context, contact *messaging.ChatContact) error {
	r.contacts[contact.ProviderUserID] = contact
	return nil
}

func (r *fakeContactRepo) FindByProviderUserID(_ context.Context, _ uuid.UUID, providerUserID string) (*messaging.ChatContact, error) {
	contact, ok := r.contacts[providerUserID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return contact, nil
}

func (r *fakeContactRepo) FindByIDForOwner(_ context.Context, _, id uuid.UUID) (*messaging.ChatContact, error) {
	for _, contact := range r.contacts {
		if contact.ID == id {
			return contact, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeContactRepo) FindAllForOwner(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]messaging.ChatContact, error) {
	result := make([]messaging.ChatContact, 0, len(r.contacts))
	for _, contact := range r.contacts {
		result = append(result, *contact)
	}
	return result, nil
}

func (r *fakeContactRepo) CountForOwner(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.contacts)), nil
}

type fakeCustomerRepo struct {
	customers []partner.Customer
}

func (r *fakeCustomerRepo) Save(_ context.Context, _ *partner.Customer) error { return nil }

func (r *fakeCustomerRepo) FindByIDForOwner(_ context.Context, _, id uuid.UUID) (*partner.Customer, error) {
	for i := range r.customers {
		if r.customers[i].ID == id {
			return &r.customers[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindByName(_ context.Context, _ uuid.UUID, name string) (*partner.Customer, error) {
	for i := range r.customers {
		if r.customers[i].Name == name {
			return &r.customers[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindWithPhone(_ context.Context, _ uuid.UUID) ([]partner.Customer, error) {
	result := make([]partner.Customer, 0)
	for _, customer := range r.customers {
		if customer.Phone != "" {
			result = append(result, customer)
		}
	}
	return result, nil
}

func (r *fakeCustomerRepo) FindAllForOwner(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]partner.Customer, error) {
	return r.customers, nil
}

func (r *fakeCustomerRepo) DeleteForOwner(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *fakeCustomerRepo) CountForOwner(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.customers)), nil
}

func (r *fakeCustomerRepo) ExistsByName(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

type fakeMessageRepo struct {
	messages []mailbox.Message
}

func (r *fakeMessageRepo) SaveIgnoreDuplicate(_ context.Context, message *mailbox.Message) (bool, error) {
	for _, existing := range r.messages {
		if existing.Sender == message.Sender && existing.Items == message.Items && existing.SentAt.Equal(message.SentAt) {
			return false, nil
		}
	}
	r.messages = append(r.messages, *message)
	return true, nil
}

func (r *fakeMessageRepo) FindByIDForOwner(_ context.Context, _, _ uuid.UUID) (*mailbox.Message, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeMessageRepo) FindAllForOwner(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]mailbox.Message, error) {
	return r.messages, nil
}

func (r *fakeMessageRepo) FindSince(_ context.Context, _ uuid.UUID, _ time.Time, _ int) ([]mailbox.Message, error) {
	return r.messages, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, _, _ uuid.UUID) error    { return nil }
func (r *fakeMessageRepo) MarkAllRead(_ context.Context, _ uuid.UUID) error    { return nil }
func (r *fakeMessageRepo) DeleteForOwner(_ context.Context, _, _ uuid.UUID) error { return nil }
func (r *fakeMessageRepo) CountUnread(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}
func (r *fakeMessageRepo) CountForOwner(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.messages)), nil
}

type fakePusher struct {
	texts  []string
	images []string
}

func (p *fakePusher) PushText(_ context.Context, _ string, text string) error {
	p.texts = append(p.texts, text)
	return nil
}

func (p *fakePusher) PushImage(_ context.Context, _ string, originalURL, _ string) error {
	p.images = append(p.images, originalURL)
	return nil
}

func newTestWebhookService(contacts *fakeContactRepo, customers *fakeCustomerRepo, messages *fakeMessageRepo, pusher *fakePusher) *WebhookService {
	mailboxService := mailboxapp.NewService(messages, nil)
	return NewWebhookService(contacts, customers, mailboxService, pusher, zap.NewNop())
}

func messageEvent(userID, text string, sentAt time.Time) WebhookEvent {
	return WebhookEvent{
		Type:      "message",
		Timestamp: sentAt.UnixMilli(),
		Source:    WebhookSource{Type: "user", UserID: userID},
		Message:   WebhookMessage{ID: uuid.NewString(), Type: "text", Text: text},
	}
}

func TestHandleFollowCreatesContact(t *testing.T) {
	ownerID := uuid.New()
	contacts := newFakeContactRepo()
	svc := newTestWebhookService(contacts, &fakeCustomerRepo{}, &fakeMessageRepo{}, &fakePusher{})

	svc.HandleEvents(context.Background(), ownerID, []WebhookEvent{
		{Type: "follow", Source: WebhookSource{Type: "user", UserID: "U123"}},
	})

	contact, err := contacts.FindByProviderUserID(context.Background(), ownerID, "U123")
	require.NoError(t, err)
	assert.True(t, contact.Followed)
}

func TestHandleUnfollowMarksContact(t *testing.T) {
	ownerID := uuid.New()
	contacts := newFakeContactRepo()
	contact, err := messaging.NewChatContact(ownerID, "U123", "Somchai", "")
	require.NoError(t, err)
	require.NoError(t, contacts.Save(context.Background(), contact))

	svc := newTestWebhookService(contacts, &fakeCustomerRepo{}, &fakeMessageRepo{}, &fakePusher{})
	svc.HandleEvents(context.Background(), ownerID, []WebhookEvent{
		{Type: "unfollow", Source: WebhookSource{Type: "user", UserID: "U123"}},
	})

	saved, err := contacts.FindByProviderUserID(context.Background(), ownerID, "U123")
	require.NoError(t, err)
	assert.False(t, saved.Followed)
}

func TestHandleUnfollowUnknownContactIsNoOp(t *testing.T) {
	svc := newTestWebhookService(newFakeContactRepo(), &fakeCustomerRepo{}, &fakeMessageRepo{}, &fakePusher{})
	svc.HandleEvents(context.Background(), uuid.New(), []WebhookEvent{
		{Type: "unfollow", Source: WebhookSource{Type: "user", UserID: "unknown"}},
	})
}

func TestHandleMessageStoresMailAndLinksByPhone(t *testing.T) {
	ownerID := uuid.New()
	contacts := newFakeContactRepo()
	messages := &fakeMessageRepo{}
	pusher := &fakePusher{}

	customer, err := partner.NewCustomer(ownerID, "ร้านส้มโชคดี", "081-234-5678", "")
	require.NoError(t, err)
	customers := &fakeCustomerRepo{customers: []partner.Customer{*customer}}

	svc := newTestWebhookService(contacts, customers, messages, pusher)
	sentAt := time.Now().Truncate(time.Millisecond)

	svc.HandleEvents(context.Background(), ownerID, []WebhookEvent{
		messageEvent("U123", "สวัสดีครับ เบอร์ 0812345678", sentAt),
	})

	contact, err := contacts.FindByProviderUserID(context.Background(), ownerID, "U123")
	require.NoError(t, err)
	assert.True(t, contact.IsLinked())
	assert.Equal(t, "ร้านส้มโชคดี", contact.CustomerName)

	require.Len(t, messages.messages, 1)
	assert.Equal(t, "สวัสดีครับ เบอร์ 0812345678", messages.messages[0].Items)

	require.Len(t, pusher.texts, 1)
	assert.Contains(t, pusher.texts[0], "ร้านส้มโชคดี")
}

func TestHandleMessageWithoutPhoneDoesNotLink(t *testing.T) {
	ownerID := uuid.New()
	contacts := newFakeContactRepo()
	messages := &fakeMessageRepo{}
	pusher := &fakePusher{}
	svc := newTestWebhookService(contacts, &fakeCustomerRepo{}, messages, pusher)

	svc.HandleEvents(context.Background(), ownerID, []WebhookEvent{
		messageEvent("U456", "ขอใบเสร็จด้วยครับ", time.Now()),
	})

	contact, err := contacts.FindByProviderUserID(context.Background(), ownerID, "U456")
	require.NoError(t, err)
	assert.False(t, contact.IsLinked())
	assert.Empty(t, pusher.texts)
	assert.Len(t, messages.messages, 1)
}

func TestHandleMessageRedeliveryDedupes(t *testing.T) {
	ownerID := uuid.New()
	messages := &fakeMessageRepo{}
	svc := newTestWebhookService(newFakeContactRepo(), &fakeCustomerRepo{}, messages, &fakePusher{})

	event := messageEvent("U789", "ส่งของพรุ่งนี้", time.Now().Truncate(time.Millisecond))
	svc.HandleEvents(context.Background(), ownerID, []WebhookEvent{event})
	svc.HandleEvents(context.Background(), ownerID, []WebhookEvent{event})

	assert.Len(t, messages.messages, 1)
}

func TestHandleMessageIgnoresNonTextMessages(t *testing.T) {
	ownerID := uuid.New()
	contacts := newFakeContactRepo()
	messages := &fakeMessageRepo{}
	svc := newTestWebhookService(contacts, &fakeCustomerRepo{}, messages, &fakePusher{})

	svc.HandleEvents(context.Background(), ownerID, []WebhookEvent{
		{
			Type:    "message",
			Source:  WebhookSource{Type: "user", UserID: "U111"},
			Message: WebhookMessage{ID: uuid.NewString(), Type: "image"},
		},
	})

	assert.Empty(t, messages.messages)
	assert.Empty(t, contacts.contacts)
}
