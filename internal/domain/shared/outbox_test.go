package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOutboxEntry(t *testing.T) *OutboxEntry {
	t.Helper()
	ownerID := uuid.New()
	event := NewBaseDomainEvent("bill.created", "Bill", uuid.New(), ownerID)
	return NewOutboxEntry(ownerID, &event, []byte(`{"bill_number":"B-0042"}`))
}

func TestNewOutboxEntry(t *testing.T) {
	entry := testOutboxEntry(t)

	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, "bill.created", entry.EventType)
	assert.Equal(t, "Bill", entry.AggregateType)
	assert.Equal(t, 0, entry.RetryCount)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
	assert.Nil(t, entry.NextRetryAt)
}

func TestOutboxEntryLifecycle(t *testing.T) {
	t.Run("pending to sent", func(t *testing.T) {
		entry := testOutboxEntry(t)

		require.NoError(t, entry.MarkProcessing())
		assert.Equal(t, OutboxStatusProcessing, entry.Status)

		entry.MarkSent()
		assert.Equal(t, OutboxStatusSent, entry.Status)
		require.NotNil(t, entry.ProcessedAt)
	})

	t.Run("cannot process a sent entry", func(t *testing.T) {
		entry := testOutboxEntry(t)
		require.NoError(t, entry.MarkProcessing())
		entry.MarkSent()

		assert.Error(t, entry.MarkProcessing())
	})

	t.Run("failed entry schedules exponential backoff", func(t *testing.T) {
		entry := testOutboxEntry(t)

		expected := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
		for i, backoff := range expected {
			before := time.Now()
			entry.MarkFailed("connection refused")

			assert.Equal(t, OutboxStatusFailed, entry.Status)
			assert.Equal(t, i+1, entry.RetryCount)
			assert.True(t, entry.CanRetry())
			require.NotNil(t, entry.NextRetryAt)
			assert.WithinDuration(t, before.Add(backoff), *entry.NextRetryAt, time.Second)
		}
	})

	t.Run("exhausted retries move the entry to dead", func(t *testing.T) {
		entry := testOutboxEntry(t)
		for i := 0; i < DefaultMaxRetries; i++ {
			entry.MarkFailed("webhook returned status 500")
		}

		assert.True(t, entry.IsDead())
		assert.False(t, entry.CanRetry())
		assert.Equal(t, "webhook returned status 500", entry.LastError)
	})
}

func TestOutboxEntryResetForRetry(t *testing.T) {
	t.Run("resets a dead entry to pending", func(t *testing.T) {
		entry := testOutboxEntry(t)
		for i := 0; i < DefaultMaxRetries; i++ {
			entry.MarkFailed("timeout")
		}
		require.True(t, entry.IsDead())

		require.NoError(t, entry.ResetForRetry())
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Equal(t, 0, entry.RetryCount)
		assert.Empty(t, entry.LastError)
		assert.Nil(t, entry.NextRetryAt)
	})

	t.Run("refuses entries that are not dead", func(t *testing.T) {
		entry := testOutboxEntry(t)
		assert.Error(t, entry.ResetForRetry())

		entry.MarkFailed("timeout")
		assert.Error(t, entry.ResetForRetry())
	})
}
