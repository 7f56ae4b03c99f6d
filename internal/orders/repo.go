package orders

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
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	// Lock is Get with the order row locked FOR UPDATE; call it inside a transaction.
	Lock(ctx context.Context, id int64) (*Order, error)
	SetStatus(ctx context.Context, id int64, s Status) error
	ListByDate(ctx context.Context, day time.Time) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
}

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, customer_id, total, status, address_type, order_date, created_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var status string
	if err := row.Scan(&o.ID, &o.CustomerID, &o.Total, &status, &o.AddressType, &o.Date, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Status = Status(status)
	o.Items = []Item{}
	return &o, nil
}

func (r *Repo) Create(ctx context.Context, o *Order) error {
	q := postgres.Conn(ctx, r.DB)
	err := q.QueryRow(ctx, `
		INSERT INTO orders(customer_id, total, status, address_type, order_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		o.CustomerID, o.Total, string(o.Status), o.AddressType, o.Date).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	// insert items
	for _, it := range o.Items {
		_, err := q.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, product_name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			o.ID, it.ProductID, it.ProductName, it.UnitPrice, it.Quantity)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Order, error) {
	return r.one(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
}

func (r *Repo) Lock(ctx context.Context, id int64) (*Order, error) {
	return r.one(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id)
}

func (r *Repo) one(ctx context.Context, sql string, id int64) (*Order, error) {
	q := postgres.Conn(ctx, r.DB)
	o, err := scanOrder(q.QueryRow(ctx, sql, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperr.Newf(apperr.KindOrderNotFound, "order %d not found", id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	list := []Order{*o}
	if err := loadItems(ctx, q, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *Repo) SetStatus(ctx context.Context, id int64, s Status) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, string(s))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindOrderNotFound, "order %d not found", id)
	}
	return nil
}

func (r *Repo) ListByDate(ctx context.Context, day time.Time) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_date=$1 ORDER BY id`, day)
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
}

func (r *Repo) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id=$1 ORDER BY id`, customerID)
}

func (r *Repo) list(ctx context.Context, sql string, args ...any) ([]Order, error) {
	q := postgres.Conn(ctx, r.DB)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, *o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, loadItems(ctx, q, out)
}

// loadItems fills Items for every order with one query.
func loadItems(ctx context.Context, q postgres.Querier, list []Order) error {
	if len(list) == 0 {
		return nil
	}
	idx := make(map[int64]int, len(list))
	ids := make([]int64, 0, len(list))
	for i := range list {
		idx[list[i].ID] = i
		ids = append(ids, list[i].ID)
	}
	rows, err := q.Query(ctx, `
		SELECT order_id, product_id, product_name, unit_price, quantity
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID int64
		var it Item
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity); err != nil {
			return err
		}
		o := &list[idx[orderID]]
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}
