package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	Get(ctx context.Context, id int64) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]Product, error)
	Search(ctx context.Context, f Filter) ([]Product, int64, error)
	// LockQuantities locks the rows (FOR UPDATE) when called inside a transaction.
	LockQuantities(ctx context.Context, ids []int64) (map[int64]int, error)
	// Decrement subtracts n only if the quantity covers it; false means it did not.
	Decrement(ctx context.Context, id int64, n int) (bool, error)
	Increment(ctx context.Context, id int64, n int) error
	AddQuantity(ctx context.Context, id int64, delta int) (int, error)
	SetRating(ctx context.Context, id int64, avg float64, count int64) error
}

type PGRepo struct{ DB *pgxpool.Pool }

const productColumns = `id, name, price, description, manufacturer, quantity, status, category,
	seller_id, average_rating, review_count, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var status, category string
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Manufacturer, &p.Quantity,
		&status, &category, &p.SellerID, &p.AverageRating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = Status(status)
	p.Category = Category(category)
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	err := postgres.Conn(ctx, r.DB).QueryRow(ctx, `
		INSERT INTO products(name, price, description, manufacturer, quantity, status, category, seller_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Price, p.Description, p.Manufacturer, p.Quantity, string(p.Status), string(p.Category), p.SellerID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, id int64) (*Product, error) {
	p, err := scanProduct(postgres.Conn(ctx, r.DB).QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperr.Newf(apperr.KindProductNotFound, "product %d not found", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *PGRepo) Update(ctx context.Context, p *Product) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `
		UPDATE products SET name=$2, price=$3, description=$4, manufacturer=$5, category=$6, updated_at=now()
		WHERE id=$1`,
		p.ID, p.Name, p.Price, p.Description, p.Manufacturer, string(p.Category))
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindProductNotFound, "product %d not found", p.ID)
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperr.Newf(apperr.KindProductUnavailable, "product %d was just added to a cart, retry the delete", id)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindProductNotFound, "product %d not found", id)
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context, f Filter) ([]Product, error) {
	where, args := buildWhere(f)
	return r.query(ctx, `SELECT `+productColumns+` FROM products`+where+orderBy(f), args...)
}

func (r *PGRepo) Search(ctx context.Context, f Filter) ([]Product, int64, error) {
	where, args := buildWhere(f)

	var total int64
	if err := postgres.Conn(ctx, r.DB).QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, f.Size, f.Page*f.Size)
	q := fmt.Sprintf(`SELECT %s FROM products%s%s LIMIT $%d OFFSET $%d`,
		productColumns, where, orderBy(f), len(args)-1, len(args))
	out, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PGRepo) query(ctx context.Context, q string, args ...any) ([]Product, error) {
	rows, err := postgres.Conn(ctx, r.DB).Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func buildWhere(f Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Keyword != "" {
		add(`(name ILIKE $%[1]d OR description ILIKE $%[1]d)`, "%"+escapeLike(f.Keyword)+"%")
	}
	if f.Category != "" {
		add(`category = $%d`, string(f.Category))
	}
	if f.Status != "" {
		add(`status = $%d`, string(f.Status))
	}
	if f.MinPrice != nil {
		add(`price >= $%d`, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add(`price <= $%d`, *f.MaxPrice)
	}
	if f.MinRating != nil {
		add(`average_rating >= $%d`, *f.MinRating)
	}
	if f.Manufacturer != "" {
		add(`manufacturer ILIKE $%d`, escapeLike(f.Manufacturer))
	}
	if f.SellerID != 0 {
		add(`seller_id = $%d`, f.SellerID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(f Filter) string {
	col := map[string]string{"name": "name", "price": "price", "rating": "average_rating"}[f.SortBy]
	if col == "" {
		col = "id"
	}
	dir := " ASC"
	if f.SortDesc {
		dir = " DESC"
	}
	return " ORDER BY " + col + dir + ", id"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PGRepo) LockQuantities(ctx context.Context, ids []int64) (map[int64]int, error) {
	// urut id supaya dua order paralel tidak deadlock
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rows, err := postgres.Conn(ctx, r.DB).Query(ctx,
		`SELECT id, quantity FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, sorted)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int, len(ids))
	for rows.Next() {
		var id int64
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		out[id] = qty
	}
	return out, rows.Err()
}

func (r *PGRepo) Decrement(ctx context.Context, id int64, n int) (bool, error) {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `
		UPDATE products
		SET quantity = quantity - $2,
		    status = CASE WHEN quantity - $2 > 0 THEN 'AVAILABLE' ELSE 'OUTOFSTOCK' END,
		    updated_at = now()
		WHERE id=$1 AND quantity >= $2`, id, n)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *PGRepo) Increment(ctx context.Context, id int64, n int) error {
	_, err := postgres.Conn(ctx, r.DB).Exec(ctx, `
		UPDATE products
		SET quantity = quantity + $2,
		    status = CASE WHEN quantity + $2 > 0 THEN 'AVAILABLE' ELSE 'OUTOFSTOCK' END,
		    updated_at = now()
		WHERE id=$1`, id, n)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	return nil
}

func (r *PGRepo) AddQuantity(ctx context.Context, id int64, delta int) (int, error) {
	var qty int
	err := postgres.Conn(ctx, r.DB).QueryRow(ctx, `
		UPDATE products
		SET quantity = quantity + $2,
		    status = CASE WHEN quantity + $2 > 0 THEN 'AVAILABLE' ELSE 'OUTOFSTOCK' END,
		    updated_at = now()
		WHERE id=$1 AND quantity + $2 >= 0
		RETURNING quantity`, id, delta).Scan(&qty)
	if err != nil {
		if postgres.IsNoRows(err) {
			return 0, apperr.Newf(apperr.KindInsufficientStock, "quantity of product %d cannot go below zero", id)
		}
		return 0, fmt.Errorf("adjust quantity: %w", err)
	}
	return qty, nil
}

func (r *PGRepo) SetRating(ctx context.Context, id int64, avg float64, count int64) error {
	_, err := postgres.Conn(ctx, r.DB).Exec(ctx,
		`UPDATE products SET average_rating=$2, review_count=$3, updated_at=now() WHERE id=$1`, id, avg, count)
	if err != nil {
		return fmt.Errorf("set rating: %w", err)
	}
	return nil
}
