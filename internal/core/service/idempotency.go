package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

// replayGuard wraps an optional IdempotencyStore. Store failures are logged
// and treated as a miss so they never fail the create.
type replayGuard struct {
	store  ports.IdempotencyStore
	logger zerolog.Logger
}

func replayScope(kind domain.Kind, p domain.Principal) string {
	return string(kind) + ":" + p.ID
}

func (g replayGuard) lookup(ctx context.Context, kind domain.Kind, p domain.Principal, key string) (int64, bool) {
	if g.store == nil || key == "" {
		return 0, false
	}
	id, ok, err := g.store.Lookup(ctx, replayScope(kind, p), key)
	if err != nil {
		g.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
		return 0, false
	}
	return id, ok
}

func (g replayGuard) remember(ctx context.Context, kind domain.Kind, p domain.Principal, key string, id int64) {
	if g.store == nil || key == "" {
		return
	}
	if err := g.store.Remember(ctx, replayScope(kind, p), key, id); err != nil {
		g.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency remember failed")
	}
}
