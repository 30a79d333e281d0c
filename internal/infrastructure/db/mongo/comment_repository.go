package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

type commentDocument struct {
	ID        int64     `bson:"_id"`
	PostID    int64     `bson:"post_id"`
	Content   string    `bson:"content"`
	UserID    string    `bson:"user_id"`
	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *commentDocument) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        d.ID,
		PostID:    d.PostID,
		Content:   d.Content,
		UserID:    d.UserID,
		Version:   d.Version,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type CommentRepository struct {
	db  *mongo.Database
	vc  versionedCollection
	seq sequence
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		db:  db,
		vc:  versionedCollection{col: db.Collection(collectionComments), notFound: domain.ErrCommentNotFound},
		seq: newSequence(db, collectionComments),
	}
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

// Create inserts the comment in the same transaction that attaches it to its
// post and author.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return err
	}
	doc := commentDocument{
		ID:        id,
		PostID:    c.PostID,
		Content:   c.Content,
		UserID:    c.UserID,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	err = inTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if err := attachToParent(sc, r.db.Collection(collectionPosts), c.PostID, domain.ErrPostNotFound); err != nil {
			return err
		}
		if err := attachToParent(sc, r.db.Collection(collectionUsers), c.UserID, domain.ErrUserNotFound); err != nil {
			return err
		}
		if _, err := r.vc.col.InsertOne(sc, doc); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc commentDocument
	if err := r.vc.findOne(ctx, id, &doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.vc.col.Find(ctx, bson.M{"post_id": postID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	var docs []commentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	out := make([]*domain.Comment, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func (r *CommentRepository) CurrentVersion(ctx context.Context, id int64) (int64, error) {
	return r.vc.currentVersion(ctx, id)
}

func (r *CommentRepository) UpdateIfVersion(ctx context.Context, c *domain.Comment, expected int64) (bool, error) {
	v, ok, err := r.vc.updateIfVersion(ctx, c.ID, expected, bson.M{
		"content":    c.Content,
		"updated_at": c.UpdatedAt,
	})
	if ok {
		c.Version = v
	}
	return ok, err
}

func (r *CommentRepository) DeleteIfVersion(ctx context.Context, id, expected int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.vc.deleteIfVersion(ctx, id, expected)
}
