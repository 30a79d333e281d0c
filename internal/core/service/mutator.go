package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/guard"
	"github.com/blogsolution/blog-service/internal/core/ports"
	"github.com/blogsolution/blog-service/internal/pkg/metrics"
)

// mutator sequences an edit or delete for one resource kind:
// load, authorize, apply, guarded commit.
type mutator[T domain.Ownable] struct {
	kind   domain.Kind
	repo   ports.VersionedRepository[T]
	authz  ports.Authorizer
	guard  *guard.Guard
	logger zerolog.Logger
}

func newMutator[T domain.Ownable](kind domain.Kind, repo ports.VersionedRepository[T], authz ports.Authorizer, logger zerolog.Logger) *mutator[T] {
	return &mutator[T]{
		kind:   kind,
		repo:   repo,
		authz:  authz,
		guard:  guard.New(logger),
		logger: logger,
	}
}

// edit applies change to the loaded resource and commits it if the stored
// version still equals expected (or the loaded version when expected is 0).
// The returned resource is non-nil only on OutcomeCommitted.
func (m *mutator[T]) edit(ctx context.Context, p domain.Principal, id, expected int64, change func(T)) (domain.Outcome, T, error) {
	var zero T

	r, outcome, err := m.load(ctx, p, id, domain.ActionEdit)
	if err != nil || outcome != domain.OutcomeCommitted {
		return m.finish(domain.ActionEdit, outcome, err, zero)
	}

	token := tokenFor(r, expected)
	change(r)

	ref := domain.ResourceRef{Kind: m.kind, ID: id}
	outcome, err = m.guard.Commit(ctx, ref, token,
		func(ctx context.Context) (bool, error) { return m.repo.UpdateIfVersion(ctx, r, token) },
		m.repo.CurrentVersion,
	)
	if err != nil || outcome != domain.OutcomeCommitted {
		return m.finish(domain.ActionEdit, outcome, err, zero)
	}
	return m.finish(domain.ActionEdit, outcome, nil, r)
}

func (m *mutator[T]) delete(ctx context.Context, p domain.Principal, id, expected int64) (domain.Outcome, error) {
	r, outcome, err := m.load(ctx, p, id, domain.ActionDelete)
	if err != nil || outcome != domain.OutcomeCommitted {
		outcome, _, err = m.finish(domain.ActionDelete, outcome, err, r)
		return outcome, err
	}

	token := tokenFor(r, expected)
	ref := domain.ResourceRef{Kind: m.kind, ID: id}
	outcome, err = m.guard.Commit(ctx, ref, token,
		func(ctx context.Context) (bool, error) { return m.repo.DeleteIfVersion(ctx, id, token) },
		m.repo.CurrentVersion,
	)
	outcome, _, err = m.finish(domain.ActionDelete, outcome, err, r)
	return outcome, err
}

// load returns OutcomeCommitted as "proceed"; any other outcome is terminal.
func (m *mutator[T]) load(ctx context.Context, p domain.Principal, id int64, action domain.Action) (T, domain.Outcome, error) {
	var zero T

	r, err := m.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return zero, domain.OutcomeNotFound, nil
	}
	if err != nil {
		return zero, domain.OutcomeCommitted, fmt.Errorf("load %s/%d: %w", m.kind, id, err)
	}

	decision, err := m.authz.Authorize(ctx, p, r, action)
	if err != nil {
		return zero, domain.OutcomeCommitted, fmt.Errorf("authorize %s/%d: %w", m.kind, id, err)
	}
	if decision != domain.Allow {
		return zero, domain.OutcomeDenied, nil
	}
	return r, domain.OutcomeCommitted, nil
}

func (m *mutator[T]) finish(action domain.Action, outcome domain.Outcome, err error, r T) (domain.Outcome, T, error) {
	if err != nil {
		m.logger.Error().Err(err).Str("kind", string(m.kind)).Str("action", string(action)).Msg("mutation failed")
		var zero T
		return outcome, zero, err
	}
	metrics.MutationOutcomesTotal.WithLabelValues(string(m.kind), string(action), outcome.String()).Inc()
	return outcome, r, nil
}

func tokenFor(r domain.Ownable, expected int64) int64 {
	if expected > 0 {
		return expected
	}
	return r.VersionToken()
}
