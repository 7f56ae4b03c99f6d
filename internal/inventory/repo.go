package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, a *Alert) error
	Get(ctx context.Context, id int64) (*Alert, error)
	GetByProduct(ctx context.Context, productID int64) (*Alert, error)
	Update(ctx context.Context, a *Alert) error
	Delete(ctx context.Context, id int64) error
	// ListBySeller returns every alert when sellerID is 0.
	ListBySeller(ctx context.Context, sellerID int64, enabledOnly bool) ([]Alert, error)
	RecordSent(ctx context.Context, id int64, at time.Time) error
}

type PGRepo struct{ DB *pgxpool.Pool }

const alertColumns = `id, product_id, seller_id, threshold_quantity, alert_enabled,
	last_alert_sent_at, alert_count, created_at, updated_at`

func scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.ProductID, &a.SellerID, &a.Threshold, &a.Enabled,
		&a.LastAlertSentAt, &a.AlertCount, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func alreadyExists(productID int64) error {
	return apperr.Newf(apperr.KindAlertAlreadyExists, "alert already exists for product %d", productID)
}

func (r *PGRepo) Create(ctx context.Context, a *Alert) error {
	err := postgres.Conn(ctx, r.DB).QueryRow(ctx, `
		INSERT INTO inventory_alerts(product_id, seller_id, threshold_quantity, alert_enabled)
		VALUES ($1, $2, $3, $4)
		RETURNING id, alert_count, created_at, updated_at`,
		a.ProductID, a.SellerID, a.Threshold, a.Enabled).Scan(&a.ID, &a.AlertCount, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return alreadyExists(a.ProductID)
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, id int64) (*Alert, error) {
	a, err := scanAlert(postgres.Conn(ctx, r.DB).QueryRow(ctx,
		`SELECT `+alertColumns+` FROM inventory_alerts WHERE id=$1`, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperr.Newf(apperr.KindAlertNotFound, "alert %d not found", id)
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

func (r *PGRepo) GetByProduct(ctx context.Context, productID int64) (*Alert, error) {
	a, err := scanAlert(postgres.Conn(ctx, r.DB).QueryRow(ctx,
		`SELECT `+alertColumns+` FROM inventory_alerts WHERE product_id=$1`, productID))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperr.Newf(apperr.KindAlertNotFound, "no alert configured for product %d", productID)
		}
		return nil, fmt.Errorf("get alert by product: %w", err)
	}
	return a, nil
}

func (r *PGRepo) Update(ctx context.Context, a *Alert) error {
	err := postgres.Conn(ctx, r.DB).QueryRow(ctx, `
		UPDATE inventory_alerts SET product_id=$2, threshold_quantity=$3, alert_enabled=$4, updated_at=now()
		WHERE id=$1 RETURNING updated_at`,
		a.ID, a.ProductID, a.Threshold, a.Enabled).Scan(&a.UpdatedAt)
	if err != nil {
		if postgres.IsNoRows(err) {
			return apperr.Newf(apperr.KindAlertNotFound, "alert %d not found", a.ID)
		}
		if postgres.IsUniqueViolation(err) {
			return alreadyExists(a.ProductID)
		}
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `DELETE FROM inventory_alerts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindAlertNotFound, "alert %d not found", id)
	}
	return nil
}

func (r *PGRepo) ListBySeller(ctx context.Context, sellerID int64, enabledOnly bool) ([]Alert, error) {
	rows, err := postgres.Conn(ctx, r.DB).Query(ctx, `SELECT `+alertColumns+` FROM inventory_alerts
		WHERE ($1 = 0 OR seller_id = $1) AND (NOT $2 OR alert_enabled)
		ORDER BY id`, sellerID, enabledOnly)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	out := []Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *PGRepo) RecordSent(ctx context.Context, id int64, at time.Time) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `
		UPDATE inventory_alerts SET last_alert_sent_at=$2, alert_count=alert_count+1, updated_at=now()
		WHERE id=$1`, id, at)
	if err != nil {
		return fmt.Errorf("record alert sent: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindAlertNotFound, "alert %d not found", id)
	}
	return nil
}
