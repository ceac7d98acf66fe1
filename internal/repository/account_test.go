package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestDebitCredits(t *testing.T) {
	t.Run("debits and returns the updated balance", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db)

		mock.ExpectQuery("UPDATE accounts SET credits_milli").
			WithArgs("acc-1", int64(1667)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "credits_milli"}).
				AddRow("acc-1", int64(3333)))

		account, err := repo.DebitCredits(context.Background(), "acc-1", 1667)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, int64(3333), account.CreditsMilli)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports insufficient balance without error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db)

		// Conditional update touches no rows when the predicate fails.
		mock.ExpectQuery("UPDATE accounts SET credits_milli").
			WithArgs("acc-1", int64(999999)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "credits_milli"}))

		account, err := repo.DebitCredits(context.Background(), "acc-1", 999999)
		require.NoError(t, err)
		assert.Nil(t, account)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindByEmail(t *testing.T) {
	t.Run("returns nil for missing account", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db)

		mock.ExpectQuery("SELECT \\* FROM accounts WHERE email").
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		account, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, account)
	})
}
