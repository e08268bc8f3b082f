package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/auth/password"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/auth/resettoken"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/database/memory"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/shortlink"
	v1 "github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1/auth"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1/links"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1/photos"
)

type stubScopes struct{}

func (stubScopes) ProvisionScope(_ context.Context, username string) (string, error) {
	return "arn:aws:iam::123456789012:role/PhotoSnapUserS3Access-" + username, nil
}
func (stubScopes) RevokeScope(context.Context, string) error { return nil }

type stubBroker struct{}

func (stubBroker) IssueLease(_ context.Context, username, _ string) (domain.CredentialLease, domain.ScopeDescriptor, error) {
	return domain.CredentialLease{
			AccessKeyID:     "ASIA-TEST",
			SecretAccessKey: "secret",
			SessionToken:    "session",
			Expiration:      time.Now().Add(time.Hour),
		}, domain.ScopeDescriptor{
			Bucket: "photosnap-photos",
			Folder: username + "/",
			Region: "us-east-1",
		}, nil
}

type stubStorage struct{}

func (stubStorage) Ping(context.Context) error { return nil }
func (stubStorage) UploadURL(_ context.Context, key, _ string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://s3/put/%s?exp=%d", key, int(expires.Seconds())), nil
}
func (stubStorage) DownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://s3/get/%s?exp=%d", key, int(expires.Seconds())), nil
}
func (stubStorage) DeleteURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://s3/del/%s?exp=%d", key, int(expires.Seconds())), nil
}
func (stubStorage) List(context.Context, string) ([]domain.ObjectInfo, error) {
	return nil, nil
}

func newDispatcher(t *testing.T) (*v1.Dispatcher, *auth.Handler) {
	t.Helper()
	discard := log.New(io.Discard, "", 0)
	repo := memory.NewRepo()

	authHandler := &auth.Handler{
		Log:    discard,
		Users:  repo,
		Hasher: password.NewDefault(),
		Scopes: stubScopes{},
		Broker: stubBroker{},
		Resets: resettoken.NewDefault(),
	}
	return &v1.Dispatcher{
		Log:  discard,
		Auth: authHandler,
		Photos: &photos.Handler{
			Log:     discard,
			Users:   repo,
			Storage: stubStorage{},
		},
		Links: &links.Handler{
			Links: shortlink.NewService(repo, nil, "https://photosnap.pro", discard),
		},
	}, authHandler
}

func call(t *testing.T, d *v1.Dispatcher, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/actions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func callJSON(t *testing.T, d *v1.Dispatcher, req map[string]any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(req))
	return call(t, d, buf.String())
}

func TestSignupLoginFlow(t *testing.T) {
	d, _ := newDispatcher(t)

	rec, resp := callJSON(t, d, map[string]any{
		"action": "signup", "username": "alice", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, resp["message"], "alice")

	// повторная регистрация -> 409
	rec, resp = callJSON(t, d, map[string]any{
		"action": "signup", "username": "alice", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already exists", resp["error"])

	rec, resp = callJSON(t, d, map[string]any{
		"action": "login", "username": "alice", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	creds := resp["credentials"].(map[string]any)
	assert.Equal(t, "ASIA-TEST", creds["accessKeyId"])
	s3cfg := resp["s3Config"].(map[string]any)
	assert.Equal(t, "alice/", s3cfg["folder"])

	// неверный пароль и неизвестный логин: одинаковые 401 с одинаковым телом
	recWrong, respWrong := callJSON(t, d, map[string]any{
		"action": "login", "username": "alice", "password": "wrong-password",
	})
	recNoUser, respNoUser := callJSON(t, d, map[string]any{
		"action": "login", "username": "mallory", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, recNoUser.Code)
	assert.Equal(t, respWrong, respNoUser)
}

func TestShortPasswordAccepted(t *testing.T) {
	d, _ := newDispatcher(t)

	// политики сложности пароля нет: "pw1" — полноценный пароль
	rec, _ := callJSON(t, d, map[string]any{
		"action": "signup", "username": "alice", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = callJSON(t, d, map[string]any{
		"action": "login", "username": "alice", "password": "pw1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordFlow(t *testing.T) {
	d, _ := newDispatcher(t)

	rec, _ := callJSON(t, d, map[string]any{
		"action": "signup", "username": "alice", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := callJSON(t, d, map[string]any{
		"action": "request-reset", "username": "alice",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := resp["resetToken"].(string)
	require.Len(t, token, 6)

	rec, _ = callJSON(t, d, map[string]any{
		"action": "reset-password", "username": "alice",
		"resetToken": token, "newPassword": "new-password-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = callJSON(t, d, map[string]any{
		"action": "login", "username": "alice", "password": "new-password-1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// повторный сброс тем же токеном -> 401
	rec, _ = callJSON(t, d, map[string]any{
		"action": "reset-password", "username": "alice",
		"resetToken": token, "newPassword": "another-pass-2",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredResetToken(t *testing.T) {
	d, authHandler := newDispatcher(t)

	rec, _ := callJSON(t, d, map[string]any{
		"action": "signup", "username": "alice", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := callJSON(t, d, map[string]any{
		"action": "request-reset", "username": "alice",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := resp["resetToken"].(string)

	authHandler.Now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	rec, resp = callJSON(t, d, map[string]any{
		"action": "reset-password", "username": "alice",
		"resetToken": token, "newPassword": "new-password-1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "reset token expired", resp["error"])
}

func TestPhotoActions(t *testing.T) {
	d, _ := newDispatcher(t)

	rec, _ := callJSON(t, d, map[string]any{
		"action": "signup", "username": "alice", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := callJSON(t, d, map[string]any{
		"action": "get-upload-url", "username": "alice",
		"fileName": "cat.jpg", "fileType": "image/jpeg",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	key := resp["key"].(string)
	assert.True(t, strings.HasPrefix(key, "alice/"))
	assert.True(t, strings.HasSuffix(key, "-cat.jpg"))

	// чужой ключ -> 403
	rec, resp = callJSON(t, d, map[string]any{
		"action": "get-delete-url", "username": "alice", "fileName": "bob/1-x.jpg",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", resp["error"])

	rec, resp = callJSON(t, d, map[string]any{
		"action": "get-share-url", "username": "alice", "fileName": key,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(604800), resp["expiresIn"])

	rec, resp = callJSON(t, d, map[string]any{
		"action": "list-photos", "username": "alice",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), resp["count"])
}

func TestCreateShortURLAction(t *testing.T) {
	d, _ := newDispatcher(t)

	rec, resp := callJSON(t, d, map[string]any{
		"action": "create-short-url", "longUrl": "https://example.com/share/abc",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	shortID := resp["shortId"].(string)
	assert.Len(t, shortID, shortlink.IDLength)
	assert.Equal(t, "https://photosnap.pro/s/"+shortID, resp["shortUrl"])
}

func TestDispatchErrors(t *testing.T) {
	d, _ := newDispatcher(t)

	// битый JSON -> 400
	rec, resp := call(t, d, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request", resp["error"])

	// неизвестное действие -> 400
	rec, _ = callJSON(t, d, map[string]any{"action": "drop-table"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// недостающие поля -> 400
	rec, _ = callJSON(t, d, map[string]any{"action": "login", "username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// не-POST -> 405
	req := httptest.NewRequest(http.MethodGet, "/api/actions", nil)
	rr := httptest.NewRecorder()
	d.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// префлайт -> 200 без разбора тела
	req = httptest.NewRequest(http.MethodOptions, "/api/actions", strings.NewReader("{not json"))
	rr = httptest.NewRecorder()
	d.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
