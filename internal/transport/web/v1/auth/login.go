package auth

import (
	"context"
	"errors"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

type loginResponse struct {
	Message     string                 `json:"message"`
	Credentials domain.CredentialLease `json:"credentials"`
	S3Config    domain.ScopeDescriptor `json:"s3Config"`
}

// Login: неизвестный username и неверный пароль дают один и тот же
// ErrUnauth — перечислять логины по ответам нельзя.
func (h *Handler) Login(ctx context.Context, username, password string) (any, error) {
	u, err := h.Users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauth
		}
		return nil, err
	}

	ok, err := h.Hasher.Verify(password, u.PasswordHash)
	if err != nil || !ok {
		return nil, domain.ErrUnauth
	}

	lease, scope, err := h.Broker.IssueLease(ctx, username, u.RoleArn)
	if err != nil {
		return nil, err
	}

	return loginResponse{
		Message:     "Login successful",
		Credentials: lease,
		S3Config:    scope,
	}, nil
}
