package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

type BlogRepository struct {
	db *gorm.DB
	vt versionedTable[blogModel]
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db, vt: versionedTable[blogModel]{db: db, notFound: domain.ErrBlogNotFound}}
}

var _ ports.BlogRepository = (*BlogRepository)(nil)

func (r *BlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := blogModel{
		Title:       b.Title,
		Description: b.Description,
		UserID:      b.UserID,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert blog: %w", err)
	}
	b.ID = m.ID
	return nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id int64) (*domain.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m blogModel
	if err := r.db.WithContext(ctx).Take(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return m.toDomain(), nil
}

func (r *BlogRepository) List(ctx context.Context, page ports.Page) ([]*domain.Blog, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int64
	if err := r.db.WithContext(ctx).Model(&blogModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	var rows []blogModel
	err := r.db.WithContext(ctx).
		Order("id").
		Offset((page.Page - 1) * page.Limit).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}

	items := make([]*domain.Blog, len(rows))
	for i := range rows {
		items[i] = rows[i].toDomain()
	}
	return items, total, nil
}

func (r *BlogRepository) CurrentVersion(ctx context.Context, id int64) (int64, error) {
	return r.vt.currentVersion(ctx, id)
}

func (r *BlogRepository) UpdateIfVersion(ctx context.Context, b *domain.Blog, expected int64) (bool, error) {
	v, ok, err := r.vt.updateIfVersion(ctx, b.ID, expected, map[string]any{
		"title":       b.Title,
		"description": b.Description,
		"updated_at":  b.UpdatedAt,
	})
	if ok {
		b.Version = v
	}
	return ok, err
}

func (r *BlogRepository) DeleteIfVersion(ctx context.Context, id, expected int64) (bool, error) {
	return r.vt.deleteIfVersion(ctx, id, expected)
}
