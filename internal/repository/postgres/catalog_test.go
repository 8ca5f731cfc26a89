package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/solofarma/alerts/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductsByIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("success: batched read", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("FROM products WHERE id IN").
			WithArgs(int64(10), int64(11)).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "name", "manufacturer", "presentation", "pharmacy", "url", "image_url"}).
				AddRow(10, "Paracetamol 500mg", "Laboratorio Chile", "16 comprimidos", "Cruz Verde", "https://example.com/p/10", "").
				AddRow(11, "Ibuprofeno 400mg", "", "", "Salcobrand", "https://example.com/p/11", ""))

		products, err := repo.ProductsByIDs(ctx, []int64{10, 11})

		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Paracetamol 500mg", products[0].Name)
		assert.Equal(t, "Salcobrand", products[1].Pharmacy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: empty id set short-circuits", func(t *testing.T) {
		repo, mock := newMockedRepo(t)

		products, err := repo.ProductsByIDs(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: query failure", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("FROM products WHERE id IN").WillReturnError(assert.AnError)

		_, err := repo.ProductsByIDs(ctx, []int64{10})

		require.Error(t, err)
		require.ErrorContains(t, err, "repository.postgres.ProductsByIDs")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUsersByIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("success: batched read", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("FROM users WHERE id IN").
			WithArgs(int64(20), int64(21)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
				AddRow(20, "Paula", "paula@example.com").
				AddRow(21, "Diego", "diego@example.com"))

		users, err := repo.UsersByIDs(ctx, []int64{20, 21})

		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "paula@example.com", users[0].Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: empty id set short-circuits", func(t *testing.T) {
		repo, mock := newMockedRepo(t)

		users, err := repo.UsersByIDs(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, users)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: query failure", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("FROM users WHERE id IN").WillReturnError(assert.AnError)

		_, err := repo.UsersByIDs(ctx, []int64{20})

		require.Error(t, err)
		require.ErrorContains(t, err, "repository.postgres.UsersByIDs")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLatestPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("success: most recent observation", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		observedAt := time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC)
		mock.ExpectQuery("FROM price_history").
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows(
				[]string{"product_id", "current_price", "normal_price", "observed_at"}).
				AddRow(10, "800", "1000", observedAt))

		obs, err := repo.LatestPrice(ctx, 10)

		require.NoError(t, err)
		require.NotNil(t, obs)
		assert.Equal(t, int64(10), obs.ProductID)
		assert.Equal(t, "800", obs.CurrentPrice)
		assert.Equal(t, "1000", obs.NormalPrice)
		assert.Equal(t, observedAt, obs.ObservedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no observation: sentinel error", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("FROM price_history").
			WillReturnRows(sqlmock.NewRows(
				[]string{"product_id", "current_price", "normal_price", "observed_at"}))

		_, err := repo.LatestPrice(ctx, 10)

		require.ErrorIs(t, err, repository.ErrNoPriceData)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: query failure", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("FROM price_history").WillReturnError(assert.AnError)

		_, err := repo.LatestPrice(ctx, 10)

		require.Error(t, err)
		require.ErrorContains(t, err, "repository.postgres.LatestPrice")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
