package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fruitflow/backend/internal/domain/mailbox"
)

func newMockedDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock
}

func TestDatabaseWithOwnerScopesQueries(t *testing.T) {
	db, mock := newMockedDatabase(t)
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "mailbox_messages" WHERE owner_id = \$1`).
		WithArgs(ownerID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	var messages []mailbox.Message
	err := db.WithOwner(ownerID.String()).Find(&messages).Error
	require.NoError(t, err)
	assert.Empty(t, messages)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseWithOwnerPanicsOnEmptyOwner(t *testing.T) {
	db, _ := newMockedDatabase(t)

	assert.Panics(t, func() {
		db.WithOwner("")
	})
}

func TestDatabasePing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	db := &Database{DB: gormDB}

	mock.ExpectPing()
	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}
