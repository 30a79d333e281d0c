package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
	"github.com/blogsolution/blog-service/internal/pkg/metrics"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type BlogService struct {
	blogs   ports.BlogRepository
	posts   ports.PostRepository
	mut     *mutator[*domain.Blog]
	replays replayGuard
	logger  zerolog.Logger
}

func NewBlogService(blogs ports.BlogRepository, posts ports.PostRepository, authz ports.Authorizer, idem ports.IdempotencyStore, logger zerolog.Logger) *BlogService {
	return &BlogService{
		blogs:   blogs,
		posts:   posts,
		mut:     newMutator[*domain.Blog](domain.KindBlog, blogs, authz, logger),
		replays: replayGuard{store: idem, logger: logger},
		logger:  logger,
	}
}

// Create stores a new blog owned by p. A repeated idempotency key returns the
// blog created the first time.
func (s *BlogService) Create(ctx context.Context, p domain.Principal, in ports.CreateBlogInput) (*ports.Created[*domain.Blog], error) {
	if p.IsAnonymous() {
		return nil, domain.ErrForbidden
	}

	if id, ok := s.replays.lookup(ctx, domain.KindBlog, p, in.IdempotencyKey); ok {
		existing, err := s.blogs.FindByID(ctx, id)
		if err == nil {
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Int64("blog_id", id).Msg("idempotent replay")
			metrics.ResourcesCreatedTotal.WithLabelValues(string(domain.KindBlog), "true").Inc()
			return &ports.Created[*domain.Blog]{Resource: existing, AlreadyExisted: true}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now().UTC()
	b := &domain.Blog{
		Title:       in.Title,
		Description: in.Description,
		UserID:      p.ID,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.blogs.Create(ctx, b); err != nil {
		s.logger.Error().Err(err).Msg("failed to create blog")
		return nil, err
	}

	s.replays.remember(ctx, domain.KindBlog, p, in.IdempotencyKey, b.ID)
	metrics.ResourcesCreatedTotal.WithLabelValues(string(domain.KindBlog), "false").Inc()
	s.logger.Info().Int64("blog_id", b.ID).Str("user_id", p.ID).Msg("blog created")
	return &ports.Created[*domain.Blog]{Resource: b}, nil
}

func (s *BlogService) Get(ctx context.Context, id int64) (*ports.BlogDetail, error) {
	b, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.BlogDetail{Blog: b, Posts: posts}, nil
}

// List returns a page of blogs. Limit defaults to 20 and is capped at 100.
func (s *BlogService) List(ctx context.Context, page ports.Page) (*ports.ListBlogsResult, error) {
	page = normalizePage(page)

	items, total, err := s.blogs.List(ctx, page)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(page.Limit) - 1) / int64(page.Limit))
	return &ports.ListBlogsResult{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *BlogService) Edit(ctx context.Context, p domain.Principal, in ports.EditBlogInput) (domain.Outcome, *domain.Blog, error) {
	return s.mut.edit(ctx, p, in.ID, in.ExpectedVersion, func(b *domain.Blog) {
		b.Title = in.Title
		b.Description = in.Description
		b.UpdatedAt = time.Now().UTC()
	})
}

// Delete removes the blog together with its posts and their comments.
func (s *BlogService) Delete(ctx context.Context, p domain.Principal, id, expectedVersion int64) (domain.Outcome, error) {
	return s.mut.delete(ctx, p, id, expectedVersion)
}

func normalizePage(p ports.Page) ports.Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}
