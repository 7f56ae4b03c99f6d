package review

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	// Get hides soft-deleted reviews.
	Get(ctx context.Context, id int64) (*Review, error)
	Update(ctx context.Context, r *Review) error
	SoftDelete(ctx context.Context, id int64) error
	Approve(ctx context.Context, id int64) error
	ListApproved(ctx context.Context, productID int64, page, size int) ([]Review, int64, error)
	// Stats is the average and count over approved, non-deleted reviews.
	Stats(ctx context.Context, productID int64) (float64, int64, error)
}

type PGRepo struct{ DB *pgxpool.Pool }

const reviewColumns = `id, rating, title, comment, product_id, customer_id, helpful_count,
	is_deleted, is_approved, created_at, updated_at`

func scanReview(row pgx.Row) (*Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.Rating, &r.Title, &r.Comment, &r.ProductID, &r.CustomerID,
		&r.HelpfulCount, &r.IsDeleted, &r.IsApproved, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *PGRepo) Create(ctx context.Context, r *Review) error {
	err := postgres.Conn(ctx, p.DB).QueryRow(ctx, `
		INSERT INTO reviews(rating, title, comment, product_id, customer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		r.Rating, r.Title, r.Comment, r.ProductID, r.CustomerID).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperr.New(apperr.KindDuplicateReview, "you have already reviewed this product")
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (p *PGRepo) Get(ctx context.Context, id int64) (*Review, error) {
	r, err := scanReview(postgres.Conn(ctx, p.DB).QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id=$1 AND NOT is_deleted`, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperr.Newf(apperr.KindReviewNotFound, "review %d not found", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return r, nil
}

func (p *PGRepo) Update(ctx context.Context, r *Review) error {
	err := postgres.Conn(ctx, p.DB).QueryRow(ctx, `
		UPDATE reviews SET rating=$2, title=$3, comment=$4, updated_at=now()
		WHERE id=$1 AND NOT is_deleted
		RETURNING updated_at`, r.ID, r.Rating, r.Title, r.Comment).Scan(&r.UpdatedAt)
	if err != nil {
		if postgres.IsNoRows(err) {
			return apperr.Newf(apperr.KindReviewNotFound, "review %d not found", r.ID)
		}
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

func (p *PGRepo) SoftDelete(ctx context.Context, id int64) error {
	return p.flag(ctx, `UPDATE reviews SET is_deleted=TRUE, updated_at=now() WHERE id=$1 AND NOT is_deleted`, id)
}

func (p *PGRepo) Approve(ctx context.Context, id int64) error {
	return p.flag(ctx, `UPDATE reviews SET is_approved=TRUE, updated_at=now() WHERE id=$1 AND NOT is_deleted`, id)
}

func (p *PGRepo) flag(ctx context.Context, sql string, id int64) error {
	ct, err := postgres.Conn(ctx, p.DB).Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindReviewNotFound, "review %d not found", id)
	}
	return nil
}

func (p *PGRepo) ListApproved(ctx context.Context, productID int64, page, size int) ([]Review, int64, error) {
	q := postgres.Conn(ctx, p.DB)
	var total int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM reviews WHERE product_id=$1 AND is_approved AND NOT is_deleted`,
		productID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}
	rows, err := q.Query(ctx, `SELECT `+reviewColumns+` FROM reviews
		WHERE product_id=$1 AND is_approved AND NOT is_deleted
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, productID, size, page*size)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()
	out := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *r)
	}
	return out, total, rows.Err()
}

func (p *PGRepo) Stats(ctx context.Context, productID int64) (float64, int64, error) {
	var avg float64
	var n int64
	err := postgres.Conn(ctx, p.DB).QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews WHERE product_id=$1 AND is_approved AND NOT is_deleted`, productID).Scan(&avg, &n)
	if err != nil {
		return 0, 0, fmt.Errorf("review stats: %w", err)
	}
	return avg, n, nil
}
