package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := userModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	for _, role := range u.Roles {
		m.Roles = append(m.Roles, userRoleModel{UserID: u.ID, Role: role})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(&m).Error; err != nil {
			return err
		}
		if len(m.Roles) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&m.Roles).Error
	})
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrUserExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrRoleNotFound
	case err != nil:
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m userModel
	if err := r.db.WithContext(ctx).Preload("Roles").Take(&m, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) AddRole(ctx context.Context, id, role string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userModel{}).Where("id = ?", id).Update("updated_at", time.Now().UTC())
		if res.Error != nil {
			return fmt.Errorf("touch user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}

		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&userRoleModel{UserID: id, Role: role}).Error
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.ErrRoleNotFound
		}
		return err
	})
}

// Delete removes the account; its blogs, their posts and comments follow by
// cascade. Authored posts or comments reject the delete.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&postModel{}, &commentModel{}} {
			var n int64
			if err := tx.Model(model).Where("user_id = ?", id).Count(&n).Error; err != nil {
				return fmt.Errorf("count owned content: %w", err)
			}
			if n > 0 {
				return domain.ErrPrincipalOwnsContent
			}
		}

		res := tx.Where("id = ?", id).Delete(&userModel{})
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return domain.ErrPrincipalOwnsContent
		}
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
