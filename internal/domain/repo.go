package domain

import (
	"context"
	"time"
)

// Хранилище учёток. Реализации: DynamoDB, Postgres, in-memory.
type UsersRepo interface {
	Close()
	Ping(context.Context) error
	// GetUser возвращает ErrNotFound, если такого пользователя нет.
	GetUser(ctx context.Context, username string) (User, error)
	// PutUserNX — условная вставка (insert-if-absent). Дубликат -> ErrConflict.
	// Именно на этой операции разруливается гонка двух одновременных signup.
	PutUserNX(ctx context.Context, u User) error
	// UpdatePasswordHash меняет хэш и в том же обновлении снимает reset-токен.
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
	SetResetToken(ctx context.Context, username, token string, expiry time.Time) error
	ClearResetToken(ctx context.Context, username string) error
}

// Хранилище коротких ссылок.
type ShortLinksRepo interface {
	Close()
	Ping(context.Context) error
	// GetLink возвращает ErrNotFound для неизвестного id.
	GetLink(ctx context.Context, shortID string) (ShortLink, error)
	// PutLinkNX — условная вставка, коллизия id -> ErrConflict.
	PutLinkNX(ctx context.Context, link ShortLink) error
	// PurgeExpired удаляет записи с ttl в прошлом. Для DynamoDB — no-op
	// (TTL нативный), для Postgres/memory — периодическая уборка.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
