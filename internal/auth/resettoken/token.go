package resettoken

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// Токен — ровно 6 десятичных цифр, равномерно из [100000, 999999].
	tokenMin  = 100000
	tokenSpan = 900000

	DefaultTTL = 15 * time.Minute
)

// Source выдаёт одноразовые числовые токены для сброса пароля.
type Source struct {
	ttl time.Duration
}

func NewDefault() *Source { return &Source{ttl: DefaultTTL} }

func New(ttl time.Duration) *Source { return &Source{ttl: ttl} }

func (s *Source) TTL() time.Duration { return s.ttl }

// NewToken генерирует токен через crypto/rand: math/rand для
// секрета, пусть и короткоживущего, не годится.
func (s *Source) NewToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(tokenSpan))
	if err != nil {
		return "", fmt.Errorf("resettoken: %w", err)
	}
	return fmt.Sprintf("%06d", tokenMin+n.Int64()), nil
}
