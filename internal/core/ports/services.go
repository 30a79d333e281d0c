package ports

import (
	"context"

	"github.com/blogsolution/blog-service/internal/core/domain"
)

// CreateBlogInput carries the fields of a new blog. The owner always comes
// from the principal, never from the request body.
type CreateBlogInput struct {
	Title          string
	Description    string
	IdempotencyKey string
}

type EditBlogInput struct {
	ID          int64
	Title       string
	Description string
	// ExpectedVersion is the token the client read; zero means "use the
	// version loaded by this request".
	ExpectedVersion int64
}

type CreatePostInput struct {
	BlogID         int64
	Title          string
	Content        string
	IdempotencyKey string
}

type EditPostInput struct {
	ID              int64
	Title           string
	Content         string
	ExpectedVersion int64
}

type CreateCommentInput struct {
	PostID         int64
	Content        string
	IdempotencyKey string
}

type EditCommentInput struct {
	ID              int64
	Content         string
	ExpectedVersion int64
}

// Created wraps a newly created resource. AlreadyExisted is true when an
// Idempotency-Key replay returned the original resource.
type Created[T any] struct {
	Resource       T
	AlreadyExisted bool
}

// BlogDetail is a blog together with its posts.
type BlogDetail struct {
	Blog  *domain.Blog
	Posts []*domain.Post
}

// PostDetail is a post together with its comments.
type PostDetail struct {
	Post     *domain.Post
	Comments []*domain.Comment
}

// ListBlogsResult is returned by BlogService.List.
type ListBlogsResult struct {
	Items      []*domain.Blog
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type BlogService interface {
	Create(ctx context.Context, p domain.Principal, in CreateBlogInput) (*Created[*domain.Blog], error)
	Get(ctx context.Context, id int64) (*BlogDetail, error)
	List(ctx context.Context, page Page) (*ListBlogsResult, error)
	Edit(ctx context.Context, p domain.Principal, in EditBlogInput) (domain.Outcome, *domain.Blog, error)
	Delete(ctx context.Context, p domain.Principal, id, expectedVersion int64) (domain.Outcome, error)
}

type PostService interface {
	Create(ctx context.Context, p domain.Principal, in CreatePostInput) (*Created[*domain.Post], error)
	Get(ctx context.Context, id int64) (*PostDetail, error)
	ListByBlog(ctx context.Context, blogID int64) ([]*domain.Post, error)
	Edit(ctx context.Context, p domain.Principal, in EditPostInput) (domain.Outcome, *domain.Post, error)
	Delete(ctx context.Context, p domain.Principal, id, expectedVersion int64) (domain.Outcome, error)
}

type CommentService interface {
	Create(ctx context.Context, p domain.Principal, in CreateCommentInput) (*Created[*domain.Comment], error)
	Get(ctx context.Context, id int64) (*domain.Comment, error)
	Edit(ctx context.Context, p domain.Principal, in EditCommentInput) (domain.Outcome, *domain.Comment, error)
	Delete(ctx context.Context, p domain.Principal, id, expectedVersion int64) (domain.Outcome, error)
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type AccountService interface {
	Me(ctx context.Context, p domain.Principal) (*domain.User, error)
	AssignRole(ctx context.Context, userID, role string) error
	Delete(ctx context.Context, p domain.Principal, userID string) error
}

// Authorizer is the ownership policy as seen by the services.
type Authorizer interface {
	Authorize(ctx context.Context, p domain.Principal, r domain.Ownable, action domain.Action) (domain.Decision, error)
}

// AuditSink receives policy decisions. Record must not block.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// PrincipalInvalidator drops any cached roles for a user after they change.
type PrincipalInvalidator interface {
	Invalidate(userID string)
}
