package wishlist

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Add(ctx context.Context, customerID, productID int64) (*Item, error)
	// List returns the newest entries first.
	List(ctx context.Context, customerID int64) ([]Item, error)
	Remove(ctx context.Context, customerID, productID int64) error
	Exists(ctx context.Context, customerID, productID int64) (bool, error)
}

type PGRepo struct{ DB *pgxpool.Pool }

func (r *PGRepo) Add(ctx context.Context, customerID, productID int64) (*Item, error) {
	it := &Item{ProductID: productID}
	err := postgres.Conn(ctx, r.DB).QueryRow(ctx, `
		INSERT INTO wishlist_items(customer_id, product_id) VALUES ($1, $2)
		RETURNING id, added_at`, customerID, productID).Scan(&it.ID, &it.AddedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, apperr.Newf(apperr.KindAlreadyWishlisted, "product %d already in wishlist", productID)
		}
		return nil, fmt.Errorf("insert wishlist item: %w", err)
	}
	return it, nil
}

func (r *PGRepo) List(ctx context.Context, customerID int64) ([]Item, error) {
	rows, err := postgres.Conn(ctx, r.DB).Query(ctx, `
		SELECT w.id, w.product_id, p.name, p.price, p.status, w.added_at
		FROM wishlist_items w JOIN products p ON p.id = w.product_id
		WHERE w.customer_id=$1
		ORDER BY w.added_at DESC, w.id DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()
	out := []Item{}
	for rows.Next() {
		var it Item
		var status string
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.Price, &status, &it.AddedAt); err != nil {
			return nil, err
		}
		it.Status = catalog.Status(status)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PGRepo) Remove(ctx context.Context, customerID, productID int64) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx,
		`DELETE FROM wishlist_items WHERE customer_id=$1 AND product_id=$2`, customerID, productID)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindItemNotFound, "product %d is not in wishlist", productID)
	}
	return nil
}

func (r *PGRepo) Exists(ctx context.Context, customerID, productID int64) (bool, error) {
	var ok bool
	err := postgres.Conn(ctx, r.DB).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE customer_id=$1 AND product_id=$2)`,
		customerID, productID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return ok, nil
}
