package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

type signupResponse struct {
	Message string `json:"message"`
}

// Signup: проверка занятости, выпуск scope'а, условная запись учётки.
// Последовательность компенсирующая: если запись не зафиксировалась,
// только что созданный scope сносится.
func (h *Handler) Signup(ctx context.Context, username, password string) (any, error) {
	if !domain.ValidUsername(username) || !domain.ValidPassword(password) {
		return nil, domain.ErrBadParams
	}

	// Быстрая проверка до похода в IAM. Гонку двух signup она не
	// закрывает — финальное слово за условной вставкой ниже.
	if _, err := h.Users.GetUser(ctx, username); err == nil {
		return nil, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := h.Hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	roleArn, err := h.Scopes.ProvisionScope(ctx, username)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		Username:     username,
		PasswordHash: hash,
		RoleArn:      roleArn,
		CreatedAt:    h.now().UTC(),
	}
	if err := h.Users.PutUserNX(ctx, user); err != nil {
		// компенсация: учётка не записана — scope не должен остаться
		if rerr := h.Scopes.RevokeScope(context.WithoutCancel(ctx), username); rerr != nil {
			h.Log.Printf("signup rollback for %q failed: %v", username, rerr)
		}
		return nil, err
	}

	return signupResponse{
		Message: fmt.Sprintf("User %s created successfully", username),
	}, nil
}
