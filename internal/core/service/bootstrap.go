package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

// Bootstrapper seeds the default roles and, when configured, an
// administrator account. Run is safe to call any number of times.
type Bootstrapper struct {
	users         ports.UserRepository
	roles         ports.RoleRepository
	adminEmail    string
	adminPassword string
	logger        zerolog.Logger
}

func NewBootstrapper(users ports.UserRepository, roles ports.RoleRepository, adminEmail, adminPassword string, logger zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{
		users:         users,
		roles:         roles,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		logger:        logger,
	}
}

func (b *Bootstrapper) Run(ctx context.Context) error {
	for _, role := range domain.DefaultRoles {
		if err := b.roles.EnsureRole(ctx, role); err != nil {
			return fmt.Errorf("ensure role %s: %w", role, err)
		}
	}

	if b.adminEmail == "" {
		b.logger.Info().Msg("bootstrap complete, no admin account configured")
		return nil
	}
	return b.ensureAdmin(ctx)
}

func (b *Bootstrapper) ensureAdmin(ctx context.Context) error {
	existing, err := b.users.FindByEmail(ctx, normalizeEmail(b.adminEmail))
	switch {
	case err == nil:
		if slices.Contains(existing.Roles, domain.RoleAdmin) {
			return nil
		}
		if err := b.users.AddRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		b.logger.Info().Str("user_id", existing.ID).Msg("existing account promoted to admin")
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("find admin: %w", err)
	}

	if b.adminPassword == "" {
		return fmt.Errorf("admin account %s: %w", b.adminEmail, domain.ErrInvalidCredentials)
	}
	u, err := registerUser(ctx, b.users, b.adminEmail, b.adminPassword, []string{domain.RoleAdmin, domain.RoleUser})
	if errors.Is(err, domain.ErrUserExists) {
		// Another instance seeded it between our read and write.
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	b.logger.Info().Str("user_id", u.ID).Msg("admin account created")
	return nil
}
