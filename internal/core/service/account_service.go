package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

type AccountService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	cache  ports.PrincipalInvalidator
	logger zerolog.Logger
}

// NewAccountService wires account management. cache may be nil.
func NewAccountService(users ports.UserRepository, roles ports.RoleRepository, cache ports.PrincipalInvalidator, logger zerolog.Logger) *AccountService {
	return &AccountService{users: users, roles: roles, cache: cache, logger: logger}
}

func (s *AccountService) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	if p.IsAnonymous() {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByID(ctx, p.ID)
}

// AssignRole grants an existing role. Callers are expected to have checked
// that the actor is an administrator.
func (s *AccountService) AssignRole(ctx context.Context, userID, role string) error {
	ok, err := s.roles.Exists(ctx, role)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrRoleNotFound
	}
	if err := s.users.AddRole(ctx, userID, role); err != nil {
		return err
	}
	s.forget(userID)
	s.logger.Info().Str("user_id", userID).Str("role", role).Msg("role assigned")
	return nil
}

// Delete removes an account. Users may delete themselves; administrators may
// delete anyone. Accounts that still own posts or comments are kept.
func (s *AccountService) Delete(ctx context.Context, p domain.Principal, userID string) error {
	if p.IsAnonymous() || (p.ID != userID && !p.IsAdmin()) {
		return domain.ErrForbidden
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.forget(userID)
	s.logger.Info().Str("user_id", userID).Str("actor_id", p.ID).Msg("user deleted")
	return nil
}

func (s *AccountService) forget(userID string) {
	if s.cache != nil {
		s.cache.Invalidate(userID)
	}
}
