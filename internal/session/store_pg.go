package session

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct{ DB *pgxpool.Pool }

const sessionColumns = `token, user_id, role, start_at, end_at`

func (r *PGStore) FindByToken(ctx context.Context, token string) (*Session, error) {
	return r.scanOne(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE token=$1`, token)
}

func (r *PGStore) FindByUser(ctx context.Context, userID int64, role Role) (*Session, error) {
	return r.scanOne(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE user_id=$1 AND role=$2`, userID, string(role))
}

func (r *PGStore) scanOne(ctx context.Context, q string, args ...any) (*Session, error) {
	var s Session
	var role string
	err := postgres.Conn(ctx, r.DB).QueryRow(ctx, q, args...).Scan(&s.Token, &s.UserID, &role, &s.Start, &s.End)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	s.Role = Role(role)
	return &s, nil
}

func (r *PGStore) Insert(ctx context.Context, s *Session) error {
	_, err := postgres.Conn(ctx, r.DB).Exec(ctx, `
		INSERT INTO sessions(token, user_id, role, start_at, end_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.Token, s.UserID, string(s.Role), s.Start, s.End)
	if err != nil {
		// login paralel: unique (user_id, role) menang duluan
		if postgres.IsUniqueViolation(err) {
			return apperr.ErrAlreadyLoggedIn
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *PGStore) DeleteByToken(ctx context.Context, token string) error {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `DELETE FROM sessions WHERE token=$1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrInvalidToken
	}
	return nil
}

func (r *PGStore) DeleteByUser(ctx context.Context, userID int64, role Role) error {
	if _, err := postgres.Conn(ctx, r.DB).Exec(ctx, `DELETE FROM sessions WHERE user_id=$1 AND role=$2`, userID, string(role)); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

func (r *PGStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ct, err := postgres.Conn(ctx, r.DB).Exec(ctx, `DELETE FROM sessions WHERE end_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return ct.RowsAffected(), nil
}
