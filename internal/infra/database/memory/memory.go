// Package memory — репозитории в памяти для локальной разработки и тестов.
// Семантика условных вставок совпадает с DynamoDB/Postgres реализациями.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

type Repo struct {
	mu    sync.RWMutex
	users map[string]domain.User
	links map[string]domain.ShortLink
}

func NewRepo() *Repo {
	return &Repo{
		users: make(map[string]domain.User),
		links: make(map[string]domain.ShortLink),
	}
}

func (r *Repo) Close() {}

func (r *Repo) Ping(context.Context) error { return nil }

// ---- UsersRepo ----

func (r *Repo) GetUser(_ context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *Repo) PutUserNX(_ context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.Username]; exists {
		return domain.ErrConflict
	}
	r.users[u.Username] = u
	return nil
}

func (r *Repo) UpdatePasswordHash(_ context.Context, username, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	u.ResetExpiry = time.Time{}
	r.users[username] = u
	return nil
}

func (r *Repo) SetResetToken(_ context.Context, username, token string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return domain.ErrNotFound
	}
	u.ResetToken = token
	u.ResetExpiry = expiry
	r.users[username] = u
	return nil
}

func (r *Repo) ClearResetToken(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return domain.ErrNotFound
	}
	u.ResetToken = ""
	u.ResetExpiry = time.Time{}
	r.users[username] = u
	return nil
}

// ---- ShortLinksRepo ----

func (r *Repo) GetLink(_ context.Context, shortID string) (domain.ShortLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.links[shortID]
	if !ok {
		return domain.ShortLink{}, domain.ErrNotFound
	}
	return l, nil
}

func (r *Repo) PutLinkNX(_ context.Context, link domain.ShortLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.links[link.ShortID]; exists {
		return domain.ErrConflict
	}
	r.links[link.ShortID] = link
	return nil
}

func (r *Repo) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	cutoff := now.Unix()
	for id, l := range r.links {
		if l.TTL < cutoff {
			delete(r.links, id)
			n++
		}
	}
	return n, nil
}
