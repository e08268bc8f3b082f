package web

import (
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/shortlink"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1/health"
)

// Deps — всё, что нужно API-серверу. Клиенты внешних систем приходят
// снаружи: сервер их не конструирует и не владеет их жизненным циклом.
type Deps struct {
	Users   domain.UsersRepo
	Hasher  domain.PasswordHasher
	Scopes  domain.ScopeIssuer
	Broker  domain.CredentialBroker
	Resets  domain.ResetTokenSource
	Storage domain.PresignStorage
	Links   *shortlink.Service // nil = короткие ссылки выключены
	Cache   health.Pinger      // nil = кеш не сконфигурирован
}
