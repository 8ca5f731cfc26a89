package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/solofarma/alerts/internal/models"
	"github.com/solofarma/alerts/internal/repository"
)

// ProductsByIDs returns the products matching the given id set in a single
// batched read. Missing ids are simply absent from the result.
func (r *Repository) ProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	const opn = "repository.postgres.ProductsByIDs"
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `SELECT id, name, COALESCE(manufacturer, ''), COALESCE(presentation, ''),
		COALESCE(pharmacy, ''), COALESCE(url, ''), COALESCE(image_url, '')
		FROM products WHERE id IN (` + placeholders(len(ids)) + ")"

	rows, err := r.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query products: %w", opn, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err = rows.Scan(&p.ID, &p.Name, &p.Manufacturer, &p.Presentation, &p.Pharmacy, &p.URL, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("%s: failed to scan product: %w", opn, err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return products, nil
}

// UsersByIDs returns the users matching the given id set in a single batched
// read.
func (r *Repository) UsersByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	const opn = "repository.postgres.UsersByIDs"
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := "SELECT id, name, email FROM users WHERE id IN (" + placeholders(len(ids)) + ")"

	rows, err := r.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query users: %w", opn, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err = rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("%s: failed to scan user: %w", opn, err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return users, nil
}

// LatestPrice returns the most recent price observation for a product, or
// repository.ErrNoPriceData when the feed has never produced one.
func (r *Repository) LatestPrice(ctx context.Context, productID int64) (*models.PriceObservation, error) {
	const opn = "repository.postgres.LatestPrice"
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var obs models.PriceObservation
	err := r.db.QueryRowContext(ctx, `
		SELECT product_id, current_price::text, COALESCE(normal_price::text, ''), observed_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY observed_at DESC
		LIMIT 1`, productID).
		Scan(&obs.ProductID, &obs.CurrentPrice, &obs.NormalPrice, &obs.ObservedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoPriceData
		}
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return &obs, nil
}

// placeholders renders "$1, $2, ..." for an IN clause of n values.
func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
