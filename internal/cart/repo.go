package cart

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, customerID int64) (*Cart, error)
	// ByCustomer locks the cart row when called inside a transaction.
	ByCustomer(ctx context.Context, customerID int64) (*Cart, error)
	// Save replaces the stored items and total together.
	Save(ctx context.Context, c *Cart) error
	// CustomersHolding lists customers whose cart has a line for any of the products.
	CustomersHolding(ctx context.Context, productIDs []int64) ([]int64, error)
}

type PGRepo struct{ DB *pgxpool.Pool }

func (r *PGRepo) Create(ctx context.Context, customerID int64) (*Cart, error) {
	c := &Cart{CustomerID: customerID, Items: []Item{}, Total: decimal.Zero}
	err := postgres.Conn(ctx, r.DB).QueryRow(ctx,
		`INSERT INTO carts(customer_id, total) VALUES ($1, 0) RETURNING id`, customerID).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return c, nil
}

func (r *PGRepo) ByCustomer(ctx context.Context, customerID int64) (*Cart, error) {
	q := postgres.Conn(ctx, r.DB)
	c := &Cart{CustomerID: customerID, Items: []Item{}}
	err := q.QueryRow(ctx, `SELECT id, total FROM carts WHERE customer_id=$1 FOR UPDATE`, customerID).Scan(&c.ID, &c.Total)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperr.Newf(apperr.KindCartNotFound, "cart for customer %d not found", customerID)
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, product_id, product_name, unit_price, quantity
		FROM cart_items WHERE cart_id=$1 ORDER BY id`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, it)
	}
	return c, rows.Err()
}

func (r *PGRepo) Save(ctx context.Context, c *Cart) error {
	q := postgres.Conn(ctx, r.DB)
	ct, err := q.Exec(ctx, `UPDATE carts SET total=$2 WHERE id=$1`, c.ID, c.Total)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindCartNotFound, "cart %d not found", c.ID)
	}
	if _, err := q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, c.ID); err != nil {
		return fmt.Errorf("save cart items: %w", err)
	}
	for i := range c.Items {
		it := &c.Items[i]
		err := q.QueryRow(ctx, `
			INSERT INTO cart_items(cart_id, product_id, product_name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			c.ID, it.ProductID, it.ProductName, it.UnitPrice, it.Quantity).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("save cart item: %w", err)
		}
	}
	return nil
}

func (r *PGRepo) CustomersHolding(ctx context.Context, productIDs []int64) ([]int64, error) {
	rows, err := postgres.Conn(ctx, r.DB).Query(ctx, `
		SELECT DISTINCT c.customer_id
		FROM cart_items ci JOIN carts c ON c.id = ci.cart_id
		WHERE ci.product_id = ANY($1)
		ORDER BY c.customer_id`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("carts holding products: %w", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
