package photos

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/database/memory"
)

// fakeStorage отдаёт детерминированные "подписанные" ссылки.
type fakeStorage struct {
	objects []domain.ObjectInfo
}

func (f *fakeStorage) Ping(context.Context) error { return nil }

func (f *fakeStorage) UploadURL(_ context.Context, key, contentType string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://s3/put/%s?ct=%s&exp=%d", key, contentType, int(expires.Seconds())), nil
}

func (f *fakeStorage) DownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://s3/get/%s?exp=%d", key, int(expires.Seconds())), nil
}

func (f *fakeStorage) DeleteURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://s3/del/%s?exp=%d", key, int(expires.Seconds())), nil
}

func (f *fakeStorage) List(_ context.Context, prefix string) ([]domain.ObjectInfo, error) {
	var out []domain.ObjectInfo
	for _, o := range f.objects {
		if len(o.Key) >= len(prefix) && o.Key[:len(prefix)] == prefix {
			out = append(out, o)
		}
	}
	return out, nil
}

func newHandler(t *testing.T, storage *fakeStorage) *Handler {
	t.Helper()
	repo := memory.NewRepo()
	require.NoError(t, repo.PutUserNX(context.Background(), domain.User{Username: "alice", PasswordHash: "h"}))
	return &Handler{
		Log:     log.New(io.Discard, "", 0),
		Users:   repo,
		Storage: storage,
	}
}

func TestUploadURL(t *testing.T) {
	h := newHandler(t, &fakeStorage{})
	h.Now = func() time.Time { return time.UnixMilli(1700000000000) }

	resp, err := h.UploadURL(context.Background(), "alice", "cat.jpg", "image/jpeg")
	require.NoError(t, err)

	r := resp.(uploadURLResponse)
	// ключ собирает сервер: {username}/{millis}-{fileName}
	assert.Equal(t, "alice/1700000000000-cat.jpg", r.Key)
	assert.Equal(t, "https://s3/put/alice/1700000000000-cat.jpg?ct=image/jpeg&exp=300", r.UploadURL)
}

func TestUploadURLUnknownUser(t *testing.T) {
	h := newHandler(t, &fakeStorage{})

	_, err := h.UploadURL(context.Background(), "mallory", "cat.jpg", "image/jpeg")
	assert.ErrorIs(t, err, domain.ErrUnauth)
}

func TestList(t *testing.T) {
	storage := &fakeStorage{objects: []domain.ObjectInfo{
		{Key: "alice/1-cat.jpg", Size: 100},
		{Key: "alice/2-dog.jpg", Size: 200},
		{Key: "bob/3-fish.jpg", Size: 300},
	}}
	h := newHandler(t, storage)

	resp, err := h.List(context.Background(), "alice")
	require.NoError(t, err)

	r := resp.(listResponse)
	require.Equal(t, 2, r.Count)
	assert.Equal(t, "1-cat.jpg", r.Photos[0].FileName)
	assert.Equal(t, "https://s3/get/alice/1-cat.jpg?exp=3600", r.Photos[0].URL)
	for _, p := range r.Photos {
		assert.NotContains(t, p.Key, "bob/")
	}
}

func TestListEmpty(t *testing.T) {
	h := newHandler(t, &fakeStorage{})

	resp, err := h.List(context.Background(), "alice")
	require.NoError(t, err)

	r := resp.(listResponse)
	assert.Zero(t, r.Count)
	assert.NotNil(t, r.Photos) // пустой список, а не null
}

func TestDeleteURL(t *testing.T) {
	h := newHandler(t, &fakeStorage{})

	resp, err := h.DeleteURL(context.Background(), "alice", "alice/1-cat.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://s3/del/alice/1-cat.jpg?exp=300", resp.(deleteURLResponse).DeleteURL)
}

func TestDeleteURLForeignKey(t *testing.T) {
	h := newHandler(t, &fakeStorage{})

	// чужой ключ отсекается до похода в хранилище
	_, err := h.DeleteURL(context.Background(), "alice", "bob/3-fish.jpg")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestShareURL(t *testing.T) {
	h := newHandler(t, &fakeStorage{})

	resp, err := h.ShareURL(context.Background(), "alice", "alice/1-cat.jpg")
	require.NoError(t, err)

	r := resp.(shareURLResponse)
	assert.Equal(t, "https://s3/get/alice/1-cat.jpg?exp=604800", r.ShareURL)
	assert.Equal(t, int64(604800), r.ExpiresIn)
}

func TestShareURLForeignKey(t *testing.T) {
	h := newHandler(t, &fakeStorage{})

	_, err := h.ShareURL(context.Background(), "alice", "bob/3-fish.jpg")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
