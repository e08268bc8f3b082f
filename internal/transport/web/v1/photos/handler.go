package photos

import (
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

// Handler отдаёт пресайн-ссылки на объекты пользователя. Сами байты
// через сервер не ходят: клиент работает с хранилищем напрямую.
type Handler struct {
	Log     *log.Logger
	Users   domain.UsersRepo
	Storage domain.PresignStorage

	// Now подменяется в тестах (детерминированные ключи загрузки)
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// requireUser: действия с фото доступны только существующим учёткам.
// Несуществующий username маскируем под 401, а не 404.
func (h *Handler) requireUser(ctx context.Context, username string) error {
	if !domain.ValidUsername(username) {
		return domain.ErrBadParams
	}
	if _, err := h.Users.GetUser(ctx, username); err != nil {
		return domain.ErrUnauth
	}
	return nil
}

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// UploadURL выдаёт короткоживущую PUT-ссылку. Ключ собирается на
// сервере — клиент не выбирает, куда писать.
func (h *Handler) UploadURL(ctx context.Context, username, fileName, fileType string) (any, error) {
	if err := h.requireUser(ctx, username); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%d-%s", username, h.now().UnixMilli(), fileName)
	url, err := h.Storage.UploadURL(ctx, key, fileType, domain.UploadURLTTL)
	if err != nil {
		return nil, err
	}
	return uploadURLResponse{UploadURL: url, Key: key}, nil
}

type listResponse struct {
	Photos []domain.Photo `json:"photos"`
	Count  int            `json:"count"`
}

// List перечисляет объекты под префиксом пользователя, у каждого —
// часовая ссылка на чтение.
func (h *Handler) List(ctx context.Context, username string) (any, error) {
	if err := h.requireUser(ctx, username); err != nil {
		return nil, err
	}

	objects, err := h.Storage.List(ctx, username+"/")
	if err != nil {
		return nil, err
	}

	photos := make([]domain.Photo, 0, len(objects))
	for _, obj := range objects {
		url, err := h.Storage.DownloadURL(ctx, obj.Key, domain.DownloadURLTTL)
		if err != nil {
			return nil, err
		}
		photos = append(photos, domain.Photo{
			Key:          obj.Key,
			FileName:     path.Base(obj.Key),
			URL:          url,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return listResponse{Photos: photos, Count: len(photos)}, nil
}

type deleteURLResponse struct {
	DeleteURL string `json:"deleteUrl"`
}

// DeleteURL выдаёт ссылку на удаление. Ключ обязан лежать под
// префиксом запрашивающего — иначе 403 до всякого похода в хранилище.
func (h *Handler) DeleteURL(ctx context.Context, username, key string) (any, error) {
	if err := h.requireUser(ctx, username); err != nil {
		return nil, err
	}
	if !domain.OwnsKey(username, key) {
		return nil, domain.ErrForbidden
	}

	url, err := h.Storage.DeleteURL(ctx, key, domain.DeleteURLTTL)
	if err != nil {
		return nil, err
	}
	return deleteURLResponse{DeleteURL: url}, nil
}

type shareURLResponse struct {
	ShareURL  string `json:"shareUrl"`
	ExpiresIn int64  `json:"expiresIn"` // секунды
}

// ShareURL — недельная read-only ссылка на собственный объект.
func (h *Handler) ShareURL(ctx context.Context, username, key string) (any, error) {
	if err := h.requireUser(ctx, username); err != nil {
		return nil, err
	}
	if !domain.OwnsKey(username, key) {
		return nil, domain.ErrForbidden
	}

	url, err := h.Storage.DownloadURL(ctx, key, domain.ShareURLTTL)
	if err != nil {
		return nil, err
	}
	return shareURLResponse{
		ShareURL:  url,
		ExpiresIn: int64(domain.ShareURLTTL.Seconds()),
	}, nil
}
