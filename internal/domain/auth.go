package domain

import (
	"context"
	"time"
)

// Хеширование паролей
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain string, encodedHash string) (bool, error)
}

// Выпуск и откат scope'а пользователя (IAM-роль с доступом к своему префиксу).
type ScopeIssuer interface {
	// ProvisionScope создаёт роль + политику и возвращает её ARN.
	ProvisionScope(ctx context.Context, username string) (roleArn string, err error)
	// RevokeScope — компенсация: снести только что созданную роль,
	// если запись пользователя так и не удалось зафиксировать.
	RevokeScope(ctx context.Context, username string) error
}

// Обмен scope'а на временные креды (STS AssumeRole).
type CredentialBroker interface {
	IssueLease(ctx context.Context, username, roleArn string) (CredentialLease, ScopeDescriptor, error)
}

// Генератор одноразовых reset-токенов.
type ResetTokenSource interface {
	NewToken() (string, error)
	TTL() time.Duration
}
