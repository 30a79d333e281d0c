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

type CommentService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	mut      *mutator[*domain.Comment]
	replays  replayGuard
	logger   zerolog.Logger
}

func NewCommentService(posts ports.PostRepository, comments ports.CommentRepository, authz ports.Authorizer, idem ports.IdempotencyStore, logger zerolog.Logger) *CommentService {
	return &CommentService{
		posts:    posts,
		comments: comments,
		mut:      newMutator[*domain.Comment](domain.KindComment, comments, authz, logger),
		replays:  replayGuard{store: idem, logger: logger},
		logger:   logger,
	}
}

func (s *CommentService) Create(ctx context.Context, p domain.Principal, in ports.CreateCommentInput) (*ports.Created[*domain.Comment], error) {
	if p.IsAnonymous() {
		return nil, domain.ErrForbidden
	}

	if id, ok := s.replays.lookup(ctx, domain.KindComment, p, in.IdempotencyKey); ok {
		existing, err := s.comments.FindByID(ctx, id)
		if err == nil {
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Int64("comment_id", id).Msg("idempotent replay")
			metrics.ResourcesCreatedTotal.WithLabelValues(string(domain.KindComment), "true").Inc()
			return &ports.Created[*domain.Comment]{Resource: existing, AlreadyExisted: true}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	if _, err := s.posts.FindByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Comment{
		PostID:    in.PostID,
		Content:   in.Content,
		UserID:    p.ID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Int64("post_id", in.PostID).Msg("failed to create comment")
		return nil, err
	}

	s.replays.remember(ctx, domain.KindComment, p, in.IdempotencyKey, c.ID)
	metrics.ResourcesCreatedTotal.WithLabelValues(string(domain.KindComment), "false").Inc()
	s.logger.Info().Int64("comment_id", c.ID).Int64("post_id", in.PostID).Str("user_id", p.ID).Msg("comment created")
	return &ports.Created[*domain.Comment]{Resource: c}, nil
}

func (s *CommentService) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	return s.comments.FindByID(ctx, id)
}

func (s *CommentService) Edit(ctx context.Context, p domain.Principal, in ports.EditCommentInput) (domain.Outcome, *domain.Comment, error) {
	return s.mut.edit(ctx, p, in.ID, in.ExpectedVersion, func(c *domain.Comment) {
		c.Content = in.Content
		c.UpdatedAt = time.Now().UTC()
	})
}

func (s *CommentService) Delete(ctx context.Context, p domain.Principal, id, expectedVersion int64) (domain.Outcome, error) {
	return s.mut.delete(ctx, p, id, expectedVersion)
}
