package event

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/fruitflow/backend/internal/infrastructure/config"
)

func dispatchEntry() *shared.OutboxEntry {
	ownerID := uuid.New()
	event := shared.NewBaseDomainEvent("bill.created", "Bill", uuid.New(), ownerID)
	return shared.NewOutboxEntry(ownerID, &event, []byte(`{"bill_number":"B-0042","total_amount":"7350"}`))
}

func TestWebhookDispatcherDelivers(t *testing.T) {
	var (
		gotBody    []byte
		gotHeaders http.Header
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	entry := dispatchEntry()
	dispatcher := NewWebhookDispatcher(config.WebhookConfig{URL: server.URL, Timeout: 5 * time.Second})

	require.NoError(t, dispatcher.Dispatch(context.Background(), entry))

	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "bill.created", gotHeaders.Get("X-Event-Type"))
	assert.Equal(t, entry.EventID.String(), gotHeaders.Get("X-Event-ID"))

	var payload struct {
		EventID       string          `json:"event_id"`
		EventType     string          `json:"event_type"`
		AggregateID   string          `json:"aggregate_id"`
		AggregateType string          `json:"aggregate_type"`
		OwnerID       string          `json:"owner_id"`
		Data          json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, entry.EventID.String(), payload.EventID)
	assert.Equal(t, "bill.created", payload.EventType)
	assert.Equal(t, entry.AggregateID.String(), payload.AggregateID)
	assert.Equal(t, "Bill", payload.AggregateType)
	assert.Equal(t, entry.OwnerID.String(), payload.OwnerID)
	assert.JSONEq(t, string(entry.Payload), string(payload.Data))
}

func TestWebhookDispatcherNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	dispatcher := NewWebhookDispatcher(config.WebhookConfig{URL: server.URL})

	err := dispatcher.Dispatch(context.Background(), dispatchEntry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookDispatcherUnconfiguredURLIsNoOp(t *testing.T) {
	dispatcher := NewWebhookDispatcher(config.WebhookConfig{})
	assert.NoError(t, dispatcher.Dispatch(context.Background(), dispatchEntry()))
}

func TestWebhookDispatcherUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close()

	dispatcher := NewWebhookDispatcher(config.WebhookConfig{URL: server.URL, Timeout: time.Second})
	assert.Error(t, dispatcher.Dispatch(context.Background(), dispatchEntry()))
}

func TestWebhookDispatcherRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	dispatcher := NewWebhookDispatcher(config.WebhookConfig{URL: server.URL, Timeout: 10 * time.Second})
	assert.Error(t, dispatcher.Dispatch(ctx, dispatchEntry()))
}
