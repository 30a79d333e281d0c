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

type PostRepository struct {
	db *gorm.DB
	vt versionedTable[postModel]
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db, vt: versionedTable[postModel]{db: db, notFound: domain.ErrPostNotFound}}
}

var _ ports.PostRepository = (*PostRepository)(nil)

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := postModel{
		BlogID:    p.BlogID,
		Title:     p.Title,
		Content:   p.Content,
		UserID:    p.UserID,
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		// The blog may have been deleted after the existence check.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.ErrBlogNotFound
		}
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID = m.ID
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m postModel
	if err := r.db.WithContext(ctx).Take(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return m.toDomain(), nil
}

func (r *PostRepository) ListByBlog(ctx context.Context, blogID int64) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []postModel
	if err := r.db.WithContext(ctx).Where("blog_id = ?", blogID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out := make([]*domain.Post, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *PostRepository) CurrentVersion(ctx context.Context, id int64) (int64, error) {
	return r.vt.currentVersion(ctx, id)
}

func (r *PostRepository) UpdateIfVersion(ctx context.Context, p *domain.Post, expected int64) (bool, error) {
	v, ok, err := r.vt.updateIfVersion(ctx, p.ID, expected, map[string]any{
		"title":      p.Title,
		"content":    p.Content,
		"updated_at": p.UpdatedAt,
	})
	if ok {
		p.Version = v
	}
	return ok, err
}

func (r *PostRepository) DeleteIfVersion(ctx context.Context, id, expected int64) (bool, error) {
	return r.vt.deleteIfVersion(ctx, id, expected)
}
