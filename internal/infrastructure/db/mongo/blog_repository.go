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

type blogDocument struct {
	ID          int64     `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	UserID      string    `bson:"user_id"`
	Version     int64     `bson:"version"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d *blogDocument) toDomain() *domain.Blog {
	return &domain.Blog{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		UserID:      d.UserID,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type BlogRepository struct {
	db  *mongo.Database
	vc  versionedCollection
	seq sequence
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{
		db:  db,
		vc:  versionedCollection{col: db.Collection(collectionBlogs), notFound: domain.ErrBlogNotFound},
		seq: newSequence(db, collectionBlogs),
	}
}

var _ ports.BlogRepository = (*BlogRepository)(nil)

// Create assigns the next blog ID and inserts the document, attached to its
// owner so a concurrent account delete cannot miss it.
func (r *BlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return err
	}
	doc := blogDocument{
		ID:          id,
		Title:       b.Title,
		Description: b.Description,
		UserID:      b.UserID,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	err = inTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if err := attachToParent(sc, r.db.Collection(collectionUsers), b.UserID, domain.ErrUserNotFound); err != nil {
			return err
		}
		if _, err := r.vc.col.InsertOne(sc, doc); err != nil {
			return fmt.Errorf("insert blog: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id int64) (*domain.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc blogDocument
	if err := r.vc.findOne(ctx, id, &doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns one page of blogs ordered by ID and the total count.
func (r *BlogRepository) List(ctx context.Context, page ports.Page) ([]*domain.Blog, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.vc.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page.Page - 1) * page.Limit)).
		SetLimit(int64(page.Limit))
	cur, err := r.vc.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	var docs []blogDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode blogs: %w", err)
	}

	items := make([]*domain.Blog, len(docs))
	for i := range docs {
		items[i] = docs[i].toDomain()
	}
	return items, total, nil
}

func (r *BlogRepository) CurrentVersion(ctx context.Context, id int64) (int64, error) {
	return r.vc.currentVersion(ctx, id)
}

func (r *BlogRepository) UpdateIfVersion(ctx context.Context, b *domain.Blog, expected int64) (bool, error) {
	v, ok, err := r.vc.updateIfVersion(ctx, b.ID, expected, bson.M{
		"title":       b.Title,
		"description": b.Description,
		"updated_at":  b.UpdatedAt,
	})
	if ok {
		b.Version = v
	}
	return ok, err
}

// DeleteIfVersion removes the blog, its posts and their comments atomically.
func (r *BlogRepository) DeleteIfVersion(ctx context.Context, id, expected int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var deleted bool
	err := inTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		ok, err := r.vc.deleteIfVersion(sc, id, expected)
		deleted = ok
		if err != nil || !ok {
			return err
		}
		return deletePostsWhere(sc, r.db, bson.M{"blog_id": id})
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
