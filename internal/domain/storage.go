package domain

import (
	"context"
	"time"
)

// Сроки жизни пресайн-ссылок (см. политику доступа в README).
const (
	UploadURLTTL   = 5 * time.Minute
	DeleteURLTTL   = 5 * time.Minute
	DownloadURLTTL = time.Hour
	ShareURLTTL    = 7 * 24 * time.Hour
)

// Объект из листинга бакета.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Пресайн-шлюз к объектному хранилищу. Валидность ссылок обеспечивает
// сам бэкенд (подпись + таймстемп внутри URL), приложение их не хранит.
type PresignStorage interface {
	Ping(context.Context) error
	UploadURL(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
	DeleteURL(ctx context.Context, key string, expires time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
