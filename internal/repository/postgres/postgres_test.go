package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/solofarma/alerts/internal/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		t.Cleanup(func() { mockDB.Close() })

		mock.ExpectPing()
		repo := postgres.NewForTest(mockDB)

		require.NoError(t, repo.Ping(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: connection lost", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		t.Cleanup(func() { mockDB.Close() })

		mock.ExpectPing().WillReturnError(assert.AnError)
		repo := postgres.NewForTest(mockDB)

		pingErr := repo.Ping(ctx)

		require.Error(t, pingErr)
		require.ErrorContains(t, pingErr, "repository.postgres.Ping")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClose(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectClose()
	repo := postgres.NewForTest(mockDB)

	require.NoError(t, repo.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	repo := postgres.NewForTest(mockDB)

	assert.Same(t, mockDB, repo.DB())
}
