package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fruitflow/backend/internal/domain/basket"
	"github.com/fruitflow/backend/internal/domain/billing"
	"github.com/fruitflow/backend/internal/domain/mailbox"
	"github.com/fruitflow/backend/internal/domain/shared"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&mailbox.Message{},
		&billing.Bill{},
		&billing.BillItem{},
		&billing.PackagingLine{},
		&billing.Installment{},
		&basket.Entry{},
		&shared.OutboxEntry{},
	))
	return db
}

func mustMessage(t *testing.T, ownerID uuid.UUID, sender, items string, sentAt time.Time) *mailbox.Message {
	t.Helper()
	message, err := mailbox.NewMessage(ownerID, sender, items, sentAt)
	require.NoError(t, err)
	return message
}

func TestGormMailboxRepositorySaveIgnoreDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewGormMailboxRepository(newSQLiteDB(t))
	ownerID := uuid.New()
	sentAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	inserted, err := repo.SaveIgnoreDuplicate(ctx, mustMessage(t, ownerID, "ร้านส้มโชคดี", "ส้ม 20 ตะกร้า", sentAt))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.SaveIgnoreDuplicate(ctx, mustMessage(t, ownerID, "ร้านส้มโชคดี", "ส้ม 20 ตะกร้า", sentAt))
	require.NoError(t, err)
	assert.False(t, inserted, "same (sender, items, sent_at) triple is a silent no-op")

	inserted, err = repo.SaveIgnoreDuplicate(ctx, mustMessage(t, ownerID, "ร้านส้มโชคดี", "ส้ม 30 ตะกร้า", sentAt))
	require.NoError(t, err)
	assert.True(t, inserted, "different items is a new message")

	count, err := repo.CountForOwner(ctx, ownerID, shared.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestGormMailboxRepositoryFindSince(t *testing.T) {
	ctx := context.Background()
	repo := NewGormMailboxRepository(newSQLiteDB(t))
	ownerID := uuid.New()
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := repo.SaveIgnoreDuplicate(ctx, mustMessage(t, ownerID, "A", string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	messages, err := repo.FindSince(ctx, ownerID, base, 10)
	require.NoError(t, err)
	require.Len(t, messages, 2, "the cursor itself is excluded")
	assert.Equal(t, "b", messages[0].Items)
	assert.Equal(t, "c", messages[1].Items)

	messages, err = repo.FindSince(ctx, ownerID, base, 1)
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	messages, err = repo.FindSince(ctx, uuid.New(), base, 10)
	require.NoError(t, err)
	assert.Empty(t, messages, "other owners see nothing")
}

func TestGormMailboxRepositoryReadFlow(t *testing.T) {
	ctx := context.Background()
	repo := NewGormMailboxRepository(newSQLiteDB(t))
	ownerID := uuid.New()

	message := mustMessage(t, ownerID, "A", "one", time.Now().UTC())
	_, err := repo.SaveIgnoreDuplicate(ctx, message)
	require.NoError(t, err)
	_, err = repo.SaveIgnoreDuplicate(ctx, mustMessage(t, ownerID, "A", "two", time.Now().UTC()))
	require.NoError(t, err)

	unread, err := repo.CountUnread(ctx, ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	require.NoError(t, repo.MarkRead(ctx, ownerID, message.ID))
	unread, err = repo.CountUnread(ctx, ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	found, err := repo.FindByIDForOwner(ctx, ownerID, message.ID)
	require.NoError(t, err)
	assert.True(t, found.Read)

	require.NoError(t, repo.MarkAllRead(ctx, ownerID))
	unread, err = repo.CountUnread(ctx, ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}

func TestGormMailboxRepositoryOwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewGormMailboxRepository(newSQLiteDB(t))
	ownerID := uuid.New()
	otherID := uuid.New()

	message := mustMessage(t, ownerID, "A", "one", time.Now().UTC())
	_, err := repo.SaveIgnoreDuplicate(ctx, message)
	require.NoError(t, err)

	_, err = repo.FindByIDForOwner(ctx, otherID, message.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.MarkRead(ctx, otherID, message.ID), shared.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteForOwner(ctx, otherID, message.ID), shared.ErrNotFound)

	require.NoError(t, repo.DeleteForOwner(ctx, ownerID, message.ID))
	assert.ErrorIs(t, repo.DeleteForOwner(ctx, ownerID, message.ID), shared.ErrNotFound)
}
