package ports

import (
	"context"

	"github.com/blogsolution/blog-service/internal/core/domain"
)

// VersionedRepository is the storage contract the mutation guard relies on.
// UpdateIfVersion and DeleteIfVersion must be atomic compare-and-swap
// operations on the stored version token: they report applied=false, with a
// nil error, when the row is missing or its version differs from expected.
type VersionedRepository[T domain.Ownable] interface {
	FindByID(ctx context.Context, id int64) (T, error)
	// CurrentVersion returns the stored version token, or an error wrapping
	// domain.ErrNotFound when the row no longer exists.
	CurrentVersion(ctx context.Context, id int64) (int64, error)
	// UpdateIfVersion persists the mutable fields of r. On success the
	// store advances the version and r is refreshed with it.
	UpdateIfVersion(ctx context.Context, r T, expected int64) (bool, error)
	DeleteIfVersion(ctx context.Context, id int64, expected int64) (bool, error)
}

// Page selects a 1-based page of a listing.
type Page struct {
	Page  int
	Limit int
}

// BlogRepository persists blogs. DeleteIfVersion removes the blog's posts and
// their comments in the same transaction.
type BlogRepository interface {
	VersionedRepository[*domain.Blog]
	Create(ctx context.Context, b *domain.Blog) error
	List(ctx context.Context, page Page) ([]*domain.Blog, int64, error)
}

// PostRepository persists posts. DeleteIfVersion removes the post's comments
// in the same transaction.
type PostRepository interface {
	VersionedRepository[*domain.Post]
	Create(ctx context.Context, p *domain.Post) error
	ListByBlog(ctx context.Context, blogID int64) ([]*domain.Post, error)
}

type CommentRepository interface {
	VersionedRepository[*domain.Comment]
	Create(ctx context.Context, c *domain.Comment) error
	ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	AddRole(ctx context.Context, id, role string) error
	// Delete removes the account and the blogs it owns. It fails with
	// domain.ErrPrincipalOwnsContent while the user owns any post or comment.
	Delete(ctx context.Context, id string) error
}

type RoleRepository interface {
	// EnsureRole creates the role when missing; it is a no-op otherwise.
	EnsureRole(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// AuditRepository persists policy decisions.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// IdempotencyStore remembers which resource a client-supplied key created.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (int64, bool, error)
	Remember(ctx context.Context, scope, key string, id int64) error
}
