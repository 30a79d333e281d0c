// Package policy implements the ownership rule that gates every edit and
// delete: administrators may act on anything, everyone else only on what they
// created.
package policy

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
	"github.com/blogsolution/blog-service/internal/pkg/metrics"
)

// Evaluator decides whether a principal may mutate a resource. It holds no
// mutable state and is safe for concurrent use.
type Evaluator struct {
	audit ports.AuditSink
	log   zerolog.Logger
	now   func() time.Time
}

// NewEvaluator returns an Evaluator that reports every decision to audit.
// A nil sink disables audit records.
func NewEvaluator(audit ports.AuditSink, log zerolog.Logger) *Evaluator {
	return &Evaluator{audit: audit, log: log, now: time.Now}
}

// Authorize applies, in order: anonymous → Deny, Admin role → Allow,
// owner → Allow, otherwise Deny. The action does not change the rule.
func (e *Evaluator) Authorize(ctx context.Context, p domain.Principal, r domain.Ownable, action domain.Action) (domain.Decision, error) {
	if isNil(r) {
		return domain.Deny, domain.ErrNilResource
	}

	decision := Decide(p, r)
	e.observe(ctx, p, r, action, decision)
	return decision, nil
}

// Decide is the pure decision, without audit side effects.
func Decide(p domain.Principal, r domain.Ownable) domain.Decision {
	switch {
	case p.IsAnonymous():
		return domain.Deny
	case p.IsAdmin():
		return domain.Allow
	case r.OwningPrincipalID() == p.ID:
		return domain.Allow
	default:
		return domain.Deny
	}
}

func (e *Evaluator) observe(ctx context.Context, p domain.Principal, r domain.Ownable, action domain.Action, d domain.Decision) {
	metrics.AuthzDecisionsTotal.WithLabelValues(string(r.Kind()), string(action), d.String()).Inc()

	lvl := zerolog.DebugLevel
	if d == domain.Deny {
		lvl = zerolog.WarnLevel
	}
	e.log.WithLevel(lvl).
		Ctx(ctx).
		Str("principal_id", p.ID).
		Str("resource", domain.RefOf(r).String()).
		Str("action", string(action)).
		Str("decision", d.String()).
		Msg("authorization decision")

	if e.audit == nil {
		return
	}
	e.audit.Record(domain.AuditEvent{
		PrincipalID: p.ID,
		ResourceID:  r.ResourceID(),
		Kind:        r.Kind(),
		Action:      action,
		Decision:    d.String(),
		At:          e.now().UTC(),
	})
}

// isNil catches both a nil interface and a typed nil pointer such as
// (*domain.Post)(nil).
func isNil(r domain.Ownable) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
