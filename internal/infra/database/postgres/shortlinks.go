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

func (r *PGRepo) linksTable() string { return fmt.Sprintf("%s.short_links", r.schema) }

func (r *PGRepo) GetLink(ctx context.Context, shortID string) (domain.ShortLink, error) {
	q := r.qb().Select("short_id", "long_url", "created_at", "expires_at").
		From(r.linksTable()).
		Where(sq.Eq{"short_id": shortID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("GetLink", sqlStr, args)

	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var link domain.ShortLink
	if err := row.Scan(&link.ShortID, &link.LongURL, &link.CreatedAt, &link.TTL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShortLink{}, domain.ErrNotFound
		}
		r.logger.Printf("GetLink scan error: %v", err)
		return domain.ShortLink{}, err
	}
	return link, nil
}

func (r *PGRepo) PutLinkNX(ctx context.Context, link domain.ShortLink) error {
	q := r.qb().Insert(r.linksTable()).
		Columns("short_id", "long_url", "created_at", "expires_at").
		Values(link.ShortID, link.LongURL, link.CreatedAt, link.TTL).
		Suffix("ON CONFLICT (short_id) DO NOTHING")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("PutLinkNX", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("PutLinkNX exec error: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// PurgeExpired — периодическая уборка вместо нативного TTL DynamoDB.
// Лучшее из возможного: ссылка может пережить свои 7 дней до ближайшего прохода.
func (r *PGRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	q := r.qb().Delete(r.linksTable()).
		Where(sq.Lt{"expires_at": now.Unix()})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("PurgeExpired", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("PurgeExpired exec error: %v", err)
		return 0, err
	}
	if n := tag.RowsAffected(); n > 0 {
		r.logger.Printf("PurgeExpired removed=%d", n)
		return n, nil
	}
	return 0, nil
}
