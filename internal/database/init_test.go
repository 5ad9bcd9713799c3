package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/emailbuilder/internal/database/schema"
)

func TestInitializeDatabase(t *testing.T) {
	t.Run("creates tables successfully", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS templates").WillReturnResult(sqlmock.NewResult(0, 0))
		for range schema.TableDefinitions[1:] {
			mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
		}

		err = InitializeDatabase(db)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("handles table creation error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)

		err = InitializeDatabase(db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create table")
	})
}

func TestCleanDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DROP TABLE IF EXISTS templates CASCADE").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, CleanDatabase(db))
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec("DROP TABLE").WillReturnError(assert.AnError)
	err = CleanDatabase(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to drop table templates")
}
