// Package guard classifies conditional writes made under optimistic
// concurrency into Committed, NotFound or ConcurrencyConflict.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/pkg/metrics"
)

var tracer = otel.Tracer("guard")

// WriteFunc performs a write conditioned on the stored version token. It
// returns applied=false, with a nil error, when the condition did not hold.
type WriteFunc func(ctx context.Context) (applied bool, err error)

// ProbeFunc reads the stored version token after a failed write. It must
// return an error wrapping domain.ErrNotFound when the row is gone.
type ProbeFunc func(ctx context.Context, id int64) (int64, error)

// Guard holds no per-request state; the store is the only serialization point.
type Guard struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Guard {
	return &Guard{log: log}
}

// Commit runs write and classifies its result. Errors are returned only for
// infrastructure failures; NotFound and ConcurrencyConflict are outcomes.
func (g *Guard) Commit(ctx context.Context, ref domain.ResourceRef, expected int64, write WriteFunc, probe ProbeFunc) (domain.Outcome, error) {
	ctx, span := tracer.Start(ctx, "guard.Commit")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource.kind", string(ref.Kind)),
		attribute.Int64("resource.id", ref.ID),
		attribute.Int64("resource.expected_version", expected),
	)

	start := time.Now()
	defer func() {
		metrics.GuardCommitDuration.WithLabelValues(string(ref.Kind)).Observe(time.Since(start).Seconds())
	}()

	outcome, err := g.classify(ctx, ref, expected, write, probe)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "guarded commit failed")
		return outcome, err
	}
	span.SetAttributes(attribute.String("guard.outcome", outcome.String()))
	return outcome, nil
}

func (g *Guard) classify(ctx context.Context, ref domain.ResourceRef, expected int64, write WriteFunc, probe ProbeFunc) (domain.Outcome, error) {
	applied, err := write(ctx)
	if err != nil {
		return domain.OutcomeCommitted, fmt.Errorf("guarded write %s: %w", ref, err)
	}
	if applied {
		return domain.OutcomeCommitted, nil
	}

	current, err := probe(ctx, ref.ID)
	if errors.Is(err, domain.ErrNotFound) {
		g.log.Info().Str("resource", ref.String()).Msg("resource removed before commit")
		return domain.OutcomeNotFound, nil
	}
	if err != nil {
		return domain.OutcomeCommitted, fmt.Errorf("guard probe %s: %w", ref, err)
	}

	if current == expected {
		// The row matched on re-read, so the write lost a race that has
		// since settled. Report it the same way as a stale token.
		g.log.Warn().Str("resource", ref.String()).Int64("version", current).Msg("conditional write rejected at matching version")
	}
	g.log.Info().
		Str("resource", ref.String()).
		Int64("expected_version", expected).
		Int64("current_version", current).
		Msg("concurrency conflict")
	return domain.OutcomeConcurrencyConflict, nil
}
