package mailbox

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMessage(t *testing.T, sender, items string, sentAt time.Time) Message {
	t.Helper()
	m, err := NewMessage(uuid.New(), sender, items, sentAt)
	require.NoError(t, err)
	return *m
}

func TestNewMessage(t *testing.T) {
	t.Run("starts unread", func(t *testing.T) {
		m := mustMessage(t, "market", "mango x3", time.Now())
		assert.False(t, m.Read)
	})

	t.Run("rejects empty sender", func(t *testing.T) {
		_, err := NewMessage(uuid.New(), "", "mango x3", time.Now())
		assert.Error(t, err)
	})

	t.Run("mark read is idempotent", func(t *testing.T) {
		m := mustMessage(t, "market", "mango x3", time.Now())
		m.MarkRead()
		stamp := m.UpdatedAt
		m.MarkRead()
		assert.True(t, m.Read)
		assert.Equal(t, stamp, m.UpdatedAt)
	})
}
