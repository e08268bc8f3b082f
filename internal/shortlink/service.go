// Package shortlink — генерация и резолв коротких ссылок.
package shortlink

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/url"
	"time"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	IDLength = 6

	// При 62^6 id пять попыток исчерпываются разве что при деградации
	// хранилища, но обрабатывать этот случай всё равно обязаны.
	maxAttempts = 5

	LinkTTL = 7 * 24 * time.Hour
)

type Service struct {
	logger *log.Logger
	links  domain.ShortLinksRepo
	cache  domain.Cache // nil = кеш выключен
	base   string       // базовый адрес сервиса редиректов

	now func() time.Time
}

func NewService(links domain.ShortLinksRepo, cache domain.Cache, baseURL string, logger *log.Logger) *Service {
	return &Service{
		logger: logger,
		links:  links,
		cache:  cache,
		base:   baseURL,
		now:    time.Now,
	}
}

// GenerateID — 6 символов из 62-символьного алфавита, равномерно.
func GenerateID() (string, error) {
	buf := make([]byte, IDLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("shortlink id: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Create выбирает свободный id (проверка + условная вставка, до пяти
// попыток) и сохраняет ссылку с TTL в 7 дней.
func (s *Service) Create(ctx context.Context, longURL string) (domain.ShortLink, error) {
	if !domain.ValidLongURL(longURL) {
		return domain.ShortLink{}, domain.ErrBadParams
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		id, err := GenerateID()
		if err != nil {
			return domain.ShortLink{}, err
		}

		// Проверка занятости и вставка не атомарны на пару, но финальный
		// PutLinkNX условный, так что молчаливой перезаписи не бывает.
		if _, err := s.links.GetLink(ctx, id); err == nil {
			s.logger.Printf("id collision %q, retrying", id)
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return domain.ShortLink{}, err
		}

		now := s.now().UTC()
		link := domain.ShortLink{
			ShortID:   id,
			LongURL:   longURL,
			CreatedAt: now,
			TTL:       now.Add(LinkTTL).Unix(),
		}
		if err := s.links.PutLinkNX(ctx, link); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				s.logger.Printf("id collision on put %q, retrying", id)
				continue
			}
			return domain.ShortLink{}, err
		}

		s.cacheSet(ctx, link)
		return link, nil
	}

	return domain.ShortLink{}, domain.ErrRetriesExhausted
}

// Resolve возвращает исходный URL. Срок жизни здесь сознательно не
// проверяется: выметание просроченных записей — забота хранилища.
func (s *Service) Resolve(ctx context.Context, shortID string) (string, error) {
	if s.cache != nil {
		if b, err := s.cache.Get(ctx, domain.CacheKeyShortLink(shortID)); err == nil && len(b) > 0 {
			return string(b), nil
		}
	}

	link, err := s.links.GetLink(ctx, shortID)
	if err != nil {
		return "", err
	}

	s.cacheSet(ctx, link)
	return link.LongURL, nil
}

// ShortURL собирает публичный адрес вида {base}/s/{id}.
func (s *Service) ShortURL(shortID string) string {
	u, err := url.JoinPath(s.base, "s", shortID)
	if err != nil {
		return s.base + "/s/" + shortID
	}
	return u
}

func (s *Service) cacheSet(ctx context.Context, link domain.ShortLink) {
	if s.cache == nil {
		return
	}
	ttl := int(time.Until(time.Unix(link.TTL, 0)).Seconds())
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, domain.CacheKeyShortLink(link.ShortID), []byte(link.LongURL), ttl); err != nil {
		s.logger.Printf("cache set %q: %v", link.ShortID, err)
	}
}
