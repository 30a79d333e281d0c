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

type postDocument struct {
	ID        int64     `bson:"_id"`
	BlogID    int64     `bson:"blog_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	UserID    string    `bson:"user_id"`
	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *postDocument) toDomain() *domain.Post {
	return &domain.Post{
		ID:        d.ID,
		BlogID:    d.BlogID,
		Title:     d.Title,
		Content:   d.Content,
		UserID:    d.UserID,
		Version:   d.Version,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type PostRepository struct {
	db  *mongo.Database
	vc  versionedCollection
	seq sequence
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		db:  db,
		vc:  versionedCollection{col: db.Collection(collectionPosts), notFound: domain.ErrPostNotFound},
		seq: newSequence(db, collectionPosts),
	}
}

var _ ports.PostRepository = (*PostRepository)(nil)

// Create inserts the post in the same transaction that attaches it to its
// blog and author, so it cannot outlive either.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return err
	}
	doc := postDocument{
		ID:        id,
		BlogID:    p.BlogID,
		Title:     p.Title,
		Content:   p.Content,
		UserID:    p.UserID,
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	err = inTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if err := attachToParent(sc, r.db.Collection(collectionBlogs), p.BlogID, domain.ErrBlogNotFound); err != nil {
			return err
		}
		if err := attachToParent(sc, r.db.Collection(collectionUsers), p.UserID, domain.ErrUserNotFound); err != nil {
			return err
		}
		if _, err := r.vc.col.InsertOne(sc, doc); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDocument
	if err := r.vc.findOne(ctx, id, &doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) ListByBlog(ctx context.Context, blogID int64) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.vc.col.Find(ctx, bson.M{"blog_id": blogID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	out := make([]*domain.Post, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func (r *PostRepository) CurrentVersion(ctx context.Context, id int64) (int64, error) {
	return r.vc.currentVersion(ctx, id)
}

func (r *PostRepository) UpdateIfVersion(ctx context.Context, p *domain.Post, expected int64) (bool, error) {
	v, ok, err := r.vc.updateIfVersion(ctx, p.ID, expected, bson.M{
		"title":      p.Title,
		"content":    p.Content,
		"updated_at": p.UpdatedAt,
	})
	if ok {
		p.Version = v
	}
	return ok, err
}

// DeleteIfVersion removes the post and its comments atomically.
func (r *PostRepository) DeleteIfVersion(ctx context.Context, id, expected int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var deleted bool
	err := inTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		ok, err := r.vc.deleteIfVersion(sc, id, expected)
		deleted = ok
		if err != nil || !ok {
			return err
		}
		if _, err := r.db.Collection(collectionComments).DeleteMany(sc, bson.M{"post_id": id}); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
