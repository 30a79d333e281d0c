package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

type stubCommentService struct {
	createFn func(ctx context.Context, p domain.Principal, in ports.CreateCommentInput) (*ports.Created[*domain.Comment], error)
	getFn    func(ctx context.Context, id int64) (*domain.Comment, error)
	editFn   func(ctx context.Context, p domain.Principal, in ports.EditCommentInput) (domain.Outcome, *domain.Comment, error)
	deleteFn func(ctx context.Context, p domain.Principal, id, expected int64) (domain.Outcome, error)
}

func (s *stubCommentService) Create(ctx context.Context, p domain.Principal, in ports.CreateCommentInput) (*ports.Created[*domain.Comment], error) {
	return s.createFn(ctx, p, in)
}

func (s *stubCommentService) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	return s.getFn(ctx, id)
}

func (s *stubCommentService) Edit(ctx context.Context, p domain.Principal, in ports.EditCommentInput) (domain.Outcome, *domain.Comment, error) {
	return s.editFn(ctx, p, in)
}

func (s *stubCommentService) Delete(ctx context.Context, p domain.Principal, id, expected int64) (domain.Outcome, error) {
	return s.deleteFn(ctx, p, id, expected)
}

func TestCommentHandler_Create(t *testing.T) {
	stub := &stubCommentService{
		createFn: func(ctx context.Context, p domain.Principal, in ports.CreateCommentInput) (*ports.Created[*domain.Comment], error) {
			if in.PostID != 11 || in.Content != "nice" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.Created[*domain.Comment]{Resource: &domain.Comment{ID: 5, PostID: 11, Content: in.Content, UserID: p.ID, Version: 1}}, nil
		},
	}
	c, rec := newContext(t, request{
		method:    http.MethodPost,
		target:    "/v1/posts/11/comments",
		body:      `{"content":"nice"}`,
		principal: &alice,
		params:    map[string]string{"id": "11"},
	})

	if err := NewCommentHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/v1/comments/5" {
		t.Fatalf("unexpected Location %q", loc)
	}
}

func TestCommentHandler_Create_EmptyContent(t *testing.T) {
	c, _ := newContext(t, request{
		method:    http.MethodPost,
		target:    "/v1/posts/11/comments",
		body:      `{"content":""}`,
		principal: &alice,
		params:    map[string]string{"id": "11"},
	})

	err := NewCommentHandler(&stubCommentService{}).Create(c)
	if code := httpStatus(t, err); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestCommentHandler_Update_Committed(t *testing.T) {
	stub := &stubCommentService{
		editFn: func(ctx context.Context, p domain.Principal, in ports.EditCommentInput) (domain.Outcome, *domain.Comment, error) {
			if p.ID != admin.ID {
				t.Fatalf("principal not forwarded: %+v", p)
			}
			return domain.OutcomeCommitted, &domain.Comment{ID: in.ID, PostID: 11, Content: in.Content, UserID: alice.ID, Version: 2}, nil
		},
	}
	c, rec := newContext(t, request{
		method:    http.MethodPut,
		target:    "/v1/comments/5",
		body:      `{"content":"moderated"}`,
		principal: &admin,
		params:    map[string]string{"id": "5"},
	})

	if err := NewCommentHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Header().Get(headerETag) != `"2"` {
		t.Fatalf("expected 200 with ETag, got %d %q", rec.Code, rec.Header().Get(headerETag))
	}
}

func TestCommentHandler_Delete_NotFound(t *testing.T) {
	stub := &stubCommentService{
		deleteFn: func(ctx context.Context, p domain.Principal, id, expected int64) (domain.Outcome, error) {
			return domain.OutcomeNotFound, nil
		},
	}
	c, _ := newContext(t, request{method: http.MethodDelete, target: "/v1/comments/5", principal: &alice, params: map[string]string{"id": "5"}})

	err := NewCommentHandler(stub).Delete(c)
	if code := httpStatus(t, err); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}
