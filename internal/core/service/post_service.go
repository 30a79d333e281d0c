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

type PostService struct {
	blogs    ports.BlogRepository
	posts    ports.PostRepository
	comments ports.CommentRepository
	mut      *mutator[*domain.Post]
	replays  replayGuard
	logger   zerolog.Logger
}

func NewPostService(blogs ports.BlogRepository, posts ports.PostRepository, comments ports.CommentRepository, authz ports.Authorizer, idem ports.IdempotencyStore, logger zerolog.Logger) *PostService {
	return &PostService{
		blogs:    blogs,
		posts:    posts,
		comments: comments,
		mut:      newMutator[*domain.Post](domain.KindPost, posts, authz, logger),
		replays:  replayGuard{store: idem, logger: logger},
		logger:   logger,
	}
}

// Create adds a post to an existing blog. The post is owned by p, not by the
// blog's owner.
func (s *PostService) Create(ctx context.Context, p domain.Principal, in ports.CreatePostInput) (*ports.Created[*domain.Post], error) {
	if p.IsAnonymous() {
		return nil, domain.ErrForbidden
	}

	if id, ok := s.replays.lookup(ctx, domain.KindPost, p, in.IdempotencyKey); ok {
		existing, err := s.posts.FindByID(ctx, id)
		if err == nil {
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Int64("post_id", id).Msg("idempotent replay")
			metrics.ResourcesCreatedTotal.WithLabelValues(string(domain.KindPost), "true").Inc()
			return &ports.Created[*domain.Post]{Resource: existing, AlreadyExisted: true}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	if _, err := s.blogs.FindByID(ctx, in.BlogID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		BlogID:    in.BlogID,
		Title:     in.Title,
		Content:   in.Content,
		UserID:    p.ID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Int64("blog_id", in.BlogID).Msg("failed to create post")
		return nil, err
	}

	s.replays.remember(ctx, domain.KindPost, p, in.IdempotencyKey, post.ID)
	metrics.ResourcesCreatedTotal.WithLabelValues(string(domain.KindPost), "false").Inc()
	s.logger.Info().Int64("post_id", post.ID).Int64("blog_id", in.BlogID).Str("user_id", p.ID).Msg("post created")
	return &ports.Created[*domain.Post]{Resource: post}, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*ports.PostDetail, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.PostDetail{Post: post, Comments: comments}, nil
}

func (s *PostService) ListByBlog(ctx context.Context, blogID int64) ([]*domain.Post, error) {
	if _, err := s.blogs.FindByID(ctx, blogID); err != nil {
		return nil, err
	}
	return s.posts.ListByBlog(ctx, blogID)
}

func (s *PostService) Edit(ctx context.Context, p domain.Principal, in ports.EditPostInput) (domain.Outcome, *domain.Post, error) {
	return s.mut.edit(ctx, p, in.ID, in.ExpectedVersion, func(post *domain.Post) {
		post.Title = in.Title
		post.Content = in.Content
		post.UpdatedAt = time.Now().UTC()
	})
}

// Delete removes the post and its comments.
func (s *PostService) Delete(ctx context.Context, p domain.Principal, id, expectedVersion int64) (domain.Outcome, error) {
	return s.mut.delete(ctx, p, id, expectedVersion)
}
