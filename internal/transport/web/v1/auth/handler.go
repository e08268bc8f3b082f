package auth

import (
	"log"
	"time"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

// Handler закрывает действия signup / login / request-reset / reset-password.
type Handler struct {
	Log    *log.Logger
	Users  domain.UsersRepo
	Hasher domain.PasswordHasher
	Scopes domain.ScopeIssuer
	Broker domain.CredentialBroker
	Resets domain.ResetTokenSource

	// Now подменяется в тестах (просроченные reset-токены и т.п.)
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
