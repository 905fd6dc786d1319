package sync

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestRecordGameEndPersistsRecord(t *testing.T) {
	db, mock := setupMockDB(t)
	sm := NewSyncManager(nil, db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "game_records"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	sm.RecordGameEnd("friday night", "horse", []string{"alice", "bob"}, map[string]int{
		"alice": 25, "bob": 25, "carol": 12,
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGameEndSurvivesDBFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	sm := NewSyncManager(nil, db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "game_records"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Must not panic or propagate; failures are log-only
	sm.RecordGameEnd("friday night", "jamo", []string{"alice"}, map[string]int{"alice": 41})

	assert.NoError(t, mock.ExpectationsWereMet())
}
