package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

type requestResetResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

type resetPasswordResponse struct {
	Message string `json:"message"`
}

// RequestReset переводит учётку в состояние "ожидает сброса" и отдаёт
// токен в ответе. Это прототипный шорткат: в проде токен должен уходить
// по внеполосному каналу, а не в HTTP-ответе.
func (h *Handler) RequestReset(ctx context.Context, username string) (any, error) {
	if _, err := h.Users.GetUser(ctx, username); err != nil {
		return nil, err // ErrNotFound -> 404, как и задумано
	}

	token, err := h.Resets.NewToken()
	if err != nil {
		return nil, fmt.Errorf("generate reset token: %w", err)
	}
	expiry := h.now().UTC().Add(h.Resets.TTL())

	if err := h.Users.SetResetToken(ctx, username, token, expiry); err != nil {
		return nil, err
	}

	return requestResetResponse{
		Message:    "Reset token generated",
		ResetToken: token,
	}, nil
}

// ResetPassword: одноразовость токена держится на том, что смена хэша
// и снятие токена — одно обновление хранилища.
func (h *Handler) ResetPassword(ctx context.Context, username, token, newPassword string) (any, error) {
	if !domain.ValidPassword(newPassword) {
		return nil, domain.ErrBadParams
	}

	u, err := h.Users.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if !u.HasPendingReset() || subtle.ConstantTimeCompare([]byte(u.ResetToken), []byte(token)) != 1 {
		return nil, domain.ErrResetTokenInvalid
	}
	if h.now().After(u.ResetExpiry) {
		return nil, domain.ErrResetTokenExpired
	}

	hash, err := h.Hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := h.Users.UpdatePasswordHash(ctx, username, hash); err != nil {
		return nil, err
	}

	return resetPasswordResponse{Message: "Password reset successful"}, nil
}
