package auth

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/auth/password"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/auth/resettoken"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/infra/database/memory"
)

type fakeScopes struct {
	provisions   []string
	revokes      []string
	provisionErr error
}

func (f *fakeScopes) ProvisionScope(_ context.Context, username string) (string, error) {
	if f.provisionErr != nil {
		return "", f.provisionErr
	}
	f.provisions = append(f.provisions, username)
	return "arn:aws:iam::123456789012:role/PhotoSnapUserS3Access-" + username, nil
}

func (f *fakeScopes) RevokeScope(_ context.Context, username string) error {
	f.revokes = append(f.revokes, username)
	return nil
}

type fakeBroker struct{ calls int }

func (f *fakeBroker) IssueLease(_ context.Context, username, roleArn string) (domain.CredentialLease, domain.ScopeDescriptor, error) {
	f.calls++
	return domain.CredentialLease{
			AccessKeyID:     "ASIA-TEST",
			SecretAccessKey: "secret",
			SessionToken:    "token",
			Expiration:      time.Now().Add(time.Hour),
		}, domain.ScopeDescriptor{
			Bucket: "photosnap-photos",
			Folder: username + "/",
			Region: "us-east-1",
		}, nil
}

func newHandler(t *testing.T) (*Handler, *memory.Repo, *fakeScopes, *fakeBroker) {
	t.Helper()
	repo := memory.NewRepo()
	scopes := &fakeScopes{}
	broker := &fakeBroker{}
	h := &Handler{
		Log:    log.New(io.Discard, "", 0),
		Users:  repo,
		Hasher: password.NewDefault(),
		Scopes: scopes,
		Broker: broker,
		Resets: resettoken.NewDefault(),
	}
	return h, repo, scopes, broker
}

func TestSignup(t *testing.T) {
	h, repo, scopes, _ := newHandler(t)
	ctx := context.Background()

	resp, err := h.Signup(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Contains(t, resp.(signupResponse).Message, "alice")
	assert.Equal(t, []string{"alice"}, scopes.provisions)

	u, err := repo.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.Contains(t, u.RoleArn, "PhotoSnapUserS3Access-alice")
}

func TestSignupValidation(t *testing.T) {
	h, _, _, _ := newHandler(t)
	ctx := context.Background()

	_, err := h.Signup(ctx, "a b", "password123")
	assert.ErrorIs(t, err, domain.ErrBadParams)

	_, err = h.Signup(ctx, "alice", "")
	assert.ErrorIs(t, err, domain.ErrBadParams)
}

func TestSignupAcceptsShortPassword(t *testing.T) {
	h, _, _, _ := newHandler(t)
	ctx := context.Background()

	// короткий пароль — валидный: политики сложности нет
	_, err := h.Signup(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = h.Login(ctx, "alice", "pw1")
	assert.NoError(t, err)
}

func TestSignupDuplicate(t *testing.T) {
	h, _, scopes, _ := newHandler(t)
	ctx := context.Background()

	_, err := h.Signup(ctx, "alice", "password123")
	require.NoError(t, err)

	_, err = h.Signup(ctx, "alice", "password456")
	assert.ErrorIs(t, err, domain.ErrConflict)
	// повторный signup не должен дойти до IAM
	assert.Equal(t, []string{"alice"}, scopes.provisions)
}

func TestSignupExistingUserSkipsIAM(t *testing.T) {
	h, repo, scopes, _ := newHandler(t)
	ctx := context.Background()

	require.NoError(t, repo.PutUserNX(ctx, domain.User{Username: "alice", PasswordHash: "x"}))

	_, err := h.Signup(ctx, "alice", "password123")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// занятый username отсекается до похода в IAM
	assert.Empty(t, scopes.provisions)
	assert.Empty(t, scopes.revokes)
}

type racingUsers struct {
	*memory.Repo
	missOnce bool
}

// GetUser один раз отвечает "нет такого", имитируя проигрыш гонки
// между проверкой и условной вставкой.
func (r *racingUsers) GetUser(ctx context.Context, username string) (domain.User, error) {
	if !r.missOnce {
		r.missOnce = true
		return domain.User{}, domain.ErrNotFound
	}
	return r.Repo.GetUser(ctx, username)
}

func TestSignupRollsBackScopeOnRace(t *testing.T) {
	h, repo, scopes, _ := newHandler(t)
	ctx := context.Background()

	require.NoError(t, repo.PutUserNX(ctx, domain.User{Username: "alice", PasswordHash: "x"}))
	h.Users = &racingUsers{Repo: repo}

	_, err := h.Signup(ctx, "alice", "password123")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// scope выпустили, вставка не прошла — scope обязан быть отозван
	assert.Equal(t, []string{"alice"}, scopes.provisions)
	assert.Equal(t, []string{"alice"}, scopes.revokes)
}

func TestSignupScopeFailure(t *testing.T) {
	h, repo, scopes, _ := newHandler(t)
	scopes.provisionErr = domain.ErrUpstream
	ctx := context.Background()

	_, err := h.Signup(ctx, "alice", "password123")
	assert.ErrorIs(t, err, domain.ErrUpstream)

	// учётка без scope'а не создаётся
	_, err = repo.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin(t *testing.T) {
	h, _, _, broker := newHandler(t)
	ctx := context.Background()

	_, err := h.Signup(ctx, "alice", "password123")
	require.NoError(t, err)

	resp, err := h.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	lr := resp.(loginResponse)
	assert.Equal(t, "ASIA-TEST", lr.Credentials.AccessKeyID)
	assert.Equal(t, "alice/", lr.S3Config.Folder)
	assert.Equal(t, 1, broker.calls)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	h, _, _, broker := newHandler(t)
	ctx := context.Background()

	_, err := h.Signup(ctx, "alice", "password123")
	require.NoError(t, err)

	_, errWrongPass := h.Login(ctx, "alice", "wrong-password")
	_, errNoUser := h.Login(ctx, "mallory", "password123")

	// неверный пароль и неизвестный логин неразличимы снаружи
	assert.ErrorIs(t, errWrongPass, domain.ErrUnauth)
	assert.ErrorIs(t, errNoUser, domain.ErrUnauth)
	assert.Equal(t, errWrongPass, errNoUser)
	assert.Zero(t, broker.calls)
}

func TestResetFlow(t *testing.T) {
	h, _, _, _ := newHandler(t)
	ctx := context.Background()

	_, err := h.Signup(ctx, "alice", "password123")
	require.NoError(t, err)

	resp, err := h.RequestReset(ctx, "alice")
	require.NoError(t, err)
	token := resp.(requestResetResponse).ResetToken
	require.Len(t, token, 6)

	_, err = h.ResetPassword(ctx, "alice", token, "new-password-1")
	require.NoError(t, err)

	// старый пароль больше не работает, новый — работает
	_, err = h.Login(ctx, "alice", "password123")
	assert.ErrorIs(t, err, domain.ErrUnauth)
	_, err = h.Login(ctx, "alice", "new-password-1")
	assert.NoError(t, err)

	// токен одноразовый
	_, err = h.ResetPassword(ctx, "alice", token, "another-pass-2")
	assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)
}

func TestResetUnknownUser(t *testing.T) {
	h, _, _, _ := newHandler(t)

	_, err := h.RequestReset(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResetWrongToken(t *testing.T) {
	h, _, _, _ := newHandler(t)
	ctx := context.Background()

	_, err := h.Signup(ctx, "alice", "password123")
	require.NoError(t, err)
	_, err = h.RequestReset(ctx, "alice")
	require.NoError(t, err)

	_, err = h.ResetPassword(ctx, "alice", "000000", "new-password-1")
	assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)
}

func TestResetWithoutRequest(t *testing.T) {
	h, _, _, _ := newHandler(t)
	ctx := context.Background()

	_, err := h.Signup(ctx, "alice", "password123")
	require.NoError(t, err)

	_, err = h.ResetPassword(ctx, "alice", "123456", "new-password-1")
	assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)
}

func TestResetExpiredToken(t *testing.T) {
	h, _, _, _ := newHandler(t)
	ctx := context.Background()

	_, err := h.Signup(ctx, "alice", "password123")
	require.NoError(t, err)

	resp, err := h.RequestReset(ctx, "alice")
	require.NoError(t, err)
	token := resp.(requestResetResponse).ResetToken

	// сдвигаем часы за горизонт жизни токена
	h.Now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	_, err = h.ResetPassword(ctx, "alice", token, "new-password-1")
	assert.ErrorIs(t, err, domain.ErrResetTokenExpired)
}

func TestResetRejectsEmptyPassword(t *testing.T) {
	h, _, _, _ := newHandler(t)
	ctx := context.Background()

	_, err := h.Signup(ctx, "alice", "password123")
	require.NoError(t, err)
	resp, err := h.RequestReset(ctx, "alice")
	require.NoError(t, err)

	_, err = h.ResetPassword(ctx, "alice", resp.(requestResetResponse).ResetToken, "")
	assert.ErrorIs(t, err, domain.ErrBadParams)
}

func TestUpstreamErrorsPassThrough(t *testing.T) {
	h, _, _, _ := newHandler(t)
	h.Users = &failingUsers{}

	_, err := h.Login(context.Background(), "alice", "password123")
	assert.False(t, errors.Is(err, domain.ErrUnauth))
}

type failingUsers struct{ memory.Repo }

func (f *failingUsers) GetUser(context.Context, string) (domain.User, error) {
	return domain.User{}, domain.ErrUpstream
}
