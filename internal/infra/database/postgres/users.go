package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

func (r *PGRepo) usersTable() string { return fmt.Sprintf("%s.users", r.schema) }

func (r *PGRepo) GetUser(ctx context.Context, username string) (domain.User, error) {
	q := r.qb().Select("username", "pass_hash", "role_arn", "created_at", "reset_token", "reset_expiry").
		From(r.usersTable()).
		Where(sq.Eq{"username": username})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("GetUser", sqlStr, args)

	row := r.pool.QueryRow(ctx, sqlStr, args...)

	var (
		u           domain.User
		resetToken  *string
		resetExpiry *time.Time
	)
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.RoleArn, &u.CreatedAt, &resetToken, &resetExpiry); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		r.logger.Printf("GetUser scan error: %v", err)
		return domain.User{}, err
	}
	if resetToken != nil {
		u.ResetToken = *resetToken
	}
	if resetExpiry != nil {
		u.ResetExpiry = *resetExpiry
	}
	return u, nil
}

// PutUserNX: ON CONFLICT DO NOTHING + проверка числа вставленных строк —
// проигравший конкурентный signup получает ErrConflict.
func (r *PGRepo) PutUserNX(ctx context.Context, u domain.User) error {
	q := r.qb().Insert(r.usersTable()).
		Columns("username", "pass_hash", "role_arn", "created_at").
		Values(u.Username, u.PasswordHash, u.RoleArn, u.CreatedAt).
		Suffix("ON CONFLICT (username) DO NOTHING")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("PutUserNX", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("PutUserNX exec error: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	r.logger.Printf("PutUserNX ok username=%s", u.Username)
	return nil
}

// UpdatePasswordHash одним UPDATE меняет хэш и гасит reset-токен.
func (r *PGRepo) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	q := r.qb().Update(r.usersTable()).
		Set("pass_hash", passwordHash).
		Set("reset_token", nil).
		Set("reset_expiry", nil).
		Where(sq.Eq{"username": username})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdatePasswordHash", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("UpdatePasswordHash exec error: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetResetToken(ctx context.Context, username, token string, expiry time.Time) error {
	q := r.qb().Update(r.usersTable()).
		Set("reset_token", token).
		Set("reset_expiry", expiry).
		Where(sq.Eq{"username": username})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SetResetToken", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("SetResetToken exec error: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) ClearResetToken(ctx context.Context, username string) error {
	q := r.qb().Update(r.usersTable()).
		Set("reset_token", nil).
		Set("reset_expiry", nil).
		Where(sq.Eq{"username": username})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ClearResetToken", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("ClearResetToken exec error: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
