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

type CommentRepository struct {
	db *gorm.DB
	vt versionedTable[commentModel]
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db, vt: versionedTable[commentModel]{db: db, notFound: domain.ErrCommentNotFound}}
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := commentModel{
		PostID:    c.PostID,
		Content:   c.Content,
		UserID:    c.UserID,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.ErrPostNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	c.ID = m.ID
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m commentModel
	if err := r.db.WithContext(ctx).Take(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return m.toDomain(), nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []commentModel
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := make([]*domain.Comment, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *CommentRepository) CurrentVersion(ctx context.Context, id int64) (int64, error) {
	return r.vt.currentVersion(ctx, id)
}

func (r *CommentRepository) UpdateIfVersion(ctx context.Context, c *domain.Comment, expected int64) (bool, error) {
	v, ok, err := r.vt.updateIfVersion(ctx, c.ID, expected, map[string]any{
		"content":    c.Content,
		"updated_at": c.UpdatedAt,
	})
	if ok {
		c.Version = v
	}
	return ok, err
}

func (r *CommentRepository) DeleteIfVersion(ctx context.Context, id, expected int64) (bool, error) {
	return r.vt.deleteIfVersion(ctx, id, expected)
}
