// Package principal resolves a token subject to the principal's current
// roles, caching lookups briefly so role changes apply without re-login.
package principal

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

const (
	defaultTTL      = time.Minute
	cleanupInterval = 5 * time.Minute
)

type Resolver struct {
	users ports.UserRepository
	cache *cache.Cache
}

// NewResolver returns a Resolver that caches principals for ttl, or one
// minute when ttl is not positive.
func NewResolver(users ports.UserRepository, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Resolver{
		users: users,
		cache: cache.New(ttl, cleanupInterval),
	}
}

// Resolve returns the principal for subject. Unknown subjects yield
// domain.ErrUserNotFound.
func (r *Resolver) Resolve(ctx context.Context, subject string) (domain.Principal, error) {
	if cached, found := r.cache.Get(subject); found {
		return cached.(domain.Principal), nil
	}

	u, err := r.users.FindByID(ctx, subject)
	if err != nil {
		return domain.Anonymous, err
	}
	p := u.Principal()
	r.cache.Set(subject, p, cache.DefaultExpiration)
	return p, nil
}

// Invalidate drops the cached principal for userID.
func (r *Resolver) Invalidate(userID string) {
	r.cache.Delete(userID)
}
