package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/blogsolution/blog-service/internal/core/domain"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.db.WithContext(ctx).Create(&auditModel{
		PrincipalID: event.PrincipalID,
		ResourceID:  event.ResourceID,
		Kind:        string(event.Kind),
		Action:      string(event.Action),
		Decision:    event.Decision,
		At:          event.At.UTC(),
	}).Error
}
