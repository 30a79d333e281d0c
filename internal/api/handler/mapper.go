package handler

import (
	"strconv"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

func blogPath(id int64) string    { return "/v1/blogs/" + strconv.FormatInt(id, 10) }
func postPath(id int64) string    { return "/v1/posts/" + strconv.FormatInt(id, 10) }
func commentPath(id int64) string { return "/v1/comments/" + strconv.FormatInt(id, 10) }

// --- Request → Service input ---

func toCreateBlogInput(req createBlogRequest, idempotencyKey string) ports.CreateBlogInput {
	return ports.CreateBlogInput{
		Title:          req.Title,
		Description:    req.Description,
		IdempotencyKey: idempotencyKey,
	}
}

func toEditBlogInput(id int64, req updateBlogRequest, expected int64) ports.EditBlogInput {
	return ports.EditBlogInput{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		ExpectedVersion: expected,
	}
}

func toCreatePostInput(blogID int64, req createPostRequest, idempotencyKey string) ports.CreatePostInput {
	return ports.CreatePostInput{
		BlogID:         blogID,
		Title:          req.Title,
		Content:        req.Content,
		IdempotencyKey: idempotencyKey,
	}
}

func toEditPostInput(id int64, req updatePostRequest, expected int64) ports.EditPostInput {
	return ports.EditPostInput{
		ID:              id,
		Title:           req.Title,
		Content:         req.Content,
		ExpectedVersion: expected,
	}
}

func toCreateCommentInput(postID int64, req createCommentRequest, idempotencyKey string) ports.CreateCommentInput {
	return ports.CreateCommentInput{
		PostID:         postID,
		Content:        req.Content,
		IdempotencyKey: idempotencyKey,
	}
}

func toEditCommentInput(id int64, req updateCommentRequest, expected int64) ports.EditCommentInput {
	return ports.EditCommentInput{
		ID:              id,
		Content:         req.Content,
		ExpectedVersion: expected,
	}
}

// --- Service result → HTTP response ---

func toBlogResponse(b *domain.Blog) blogResponse {
	return blogResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		UserID:      b.UserID,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt.UTC(),
		UpdatedAt:   b.UpdatedAt.UTC(),
		Links: blogLinks{
			Self:  blogPath(b.ID),
			Posts: blogPath(b.ID) + "/posts",
		},
	}
}

func toBlogDetailResponse(d *ports.BlogDetail) blogDetailResponse {
	return blogDetailResponse{
		blogResponse: toBlogResponse(d.Blog),
		Posts:        toPostResponses(d.Posts),
	}
}

func toListBlogsResponse(r *ports.ListBlogsResult) listBlogsResponse {
	items := make([]blogResponse, len(r.Items))
	for i, b := range r.Items {
		items[i] = toBlogResponse(b)
	}
	return listBlogsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		BlogID:    p.BlogID,
		Title:     p.Title,
		Content:   p.Content,
		UserID:    p.UserID,
		Version:   p.Version,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
		Links: postLinks{
			Self:     postPath(p.ID),
			Blog:     blogPath(p.BlogID),
			Comments: postPath(p.ID) + "/comments",
		},
	}
}

func toPostResponses(posts []*domain.Post) []postResponse {
	out := make([]postResponse, len(posts))
	for i, p := range posts {
		out[i] = toPostResponse(p)
	}
	return out
}

func toPostDetailResponse(d *ports.PostDetail) postDetailResponse {
	comments := make([]commentResponse, len(d.Comments))
	for i, cm := range d.Comments {
		comments[i] = toCommentResponse(cm)
	}
	return postDetailResponse{
		postResponse: toPostResponse(d.Post),
		Comments:     comments,
	}
}

func toCommentResponse(cm *domain.Comment) commentResponse {
	return commentResponse{
		ID:        cm.ID,
		PostID:    cm.PostID,
		Content:   cm.Content,
		UserID:    cm.UserID,
		Version:   cm.Version,
		CreatedAt: cm.CreatedAt.UTC(),
		UpdatedAt: cm.UpdatedAt.UTC(),
		Links: commentLinks{
			Self: commentPath(cm.ID),
			Post: postPath(cm.PostID),
		},
	}
}

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt.UTC(),
	}
}
