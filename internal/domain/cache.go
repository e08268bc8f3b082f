package domain

import "context"

// Ключи кеша — единое место, чтобы не расползались по коду.
func CacheKeyShortLink(shortID string) string { return "slink:" + shortID }

// Простой k/v интерфейс. Реализация — Redis. Инвалидации нет:
// записи живут ровно до истечения своей ссылки (TTL при Set).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Ping(context.Context) error
	Close()
}
