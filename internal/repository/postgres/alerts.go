package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solofarma/alerts/internal/models"
	"github.com/solofarma/alerts/internal/repository"
)

const alertColumns = "id, product_id, user_id, armed_price::text, active, notified"

// ActiveAlerts returns every alert that is armed and has not been notified
// yet. No ordering is guaranteed.
func (r *Repository) ActiveAlerts(ctx context.Context) ([]models.Alert, error) {
	const opn = "repository.postgres.ActiveAlerts"
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+alertColumns+" FROM alerts WHERE active AND NOT notified")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query alerts: %w", opn, err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err = rows.Scan(&a.ID, &a.ProductID, &a.UserID, &a.ArmedPrice, &a.Active, &a.Notified); err != nil {
			return nil, fmt.Errorf("%s: failed to scan alert: %w", opn, err)
		}
		alerts = append(alerts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return alerts, nil
}

// MarkNotified flags the alert as sent for the current arming cycle.
func (r *Repository) MarkNotified(ctx context.Context, alertID int64) error {
	const opn = "repository.postgres.MarkNotified"
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		"UPDATE alerts SET notified = TRUE, updated_at = now() WHERE id = $1", alertID)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// Deactivate disarms the alert.
func (r *Repository) Deactivate(ctx context.Context, alertID int64) error {
	const opn = "repository.postgres.Deactivate"
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		"UPDATE alerts SET active = FALSE, updated_at = now() WHERE id = $1", alertID)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// SetAlertState arms or disarms the alert for a (user, product) pair.
// Arming upserts on the pair, resetting the notified flag and recording the
// armed price; the conflict resolution is atomic at the store. Disarming
// updates the matching row and reports ErrAlertNotFound when none exists.
func (r *Repository) SetAlertState(
	ctx context.Context,
	userID, productID int64,
	active bool,
	armedPrice string,
) (*models.Alert, error) {
	const opn = "repository.postgres.SetAlertState"
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var (
		alert models.Alert
		row   *sql.Row
	)

	if active {
		row = r.db.QueryRowContext(ctx, `
			INSERT INTO alerts (product_id, user_id, armed_price, active, notified)
			VALUES ($1, $2, $3, TRUE, FALSE)
			ON CONFLICT (user_id, product_id) DO UPDATE
				SET armed_price = EXCLUDED.armed_price,
				    active = TRUE,
				    notified = FALSE,
				    updated_at = now()
			RETURNING `+alertColumns,
			productID, userID, armedPrice)
	} else {
		row = r.db.QueryRowContext(ctx, `
			UPDATE alerts SET active = FALSE, updated_at = now()
			WHERE user_id = $1 AND product_id = $2
			RETURNING `+alertColumns,
			userID, productID)
	}

	err := row.Scan(&alert.ID, &alert.ProductID, &alert.UserID, &alert.ArmedPrice, &alert.Active, &alert.Notified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrAlertNotFound
		}
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return &alert, nil
}
