package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogsolution/blog-service/internal/core/domain"
)

// AuditRepository appends policy decisions to the audit_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(collectionAudit)}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"principal_id": event.PrincipalID,
		"resource_id":  event.ResourceID,
		"kind":         string(event.Kind),
		"action":       string(event.Action),
		"decision":     event.Decision,
		"at":           event.At.UTC(),
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
