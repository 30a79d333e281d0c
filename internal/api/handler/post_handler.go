package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /v1/blogs/:id/posts.
//
// @Summary      Create a post in a blog
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      int                true   "Blog ID"
// @Param        Idempotency-Key  header    string             false  "Replay-safe creation key"
// @Param        body             body      createPostRequest  true   "Post"
// @Success      201              {object}  createdResponse[postResponse]
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/blogs/{id}/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	blogID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), p,
		toCreatePostInput(blogID, req, c.Request().Header.Get(headerIdempotencyKey)))
	if err != nil {
		return err
	}
	post := created.Resource
	return writeCreated(c, created.AlreadyExisted, postPath(post.ID), post.Version, toPostResponse(post))
}

// ListByBlog handles GET /v1/blogs/:id/posts.
//
// @Summary      List the posts of a blog
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Blog ID"
// @Success      200  {object}  listPostsResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/blogs/{id}/posts [get]
func (h *PostHandler) ListByBlog(c echo.Context) error {
	blogID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	posts, err := h.service.ListByBlog(c.Request().Context(), blogID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listPostsResponse{Data: toPostResponses(posts)})
}

// Get handles GET /v1/posts/:id.
//
// @Summary      Get a post with its comments
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  postDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	setETag(c, detail.Post.Version)
	return c.JSON(http.StatusOK, toPostDetailResponse(detail))
}

// Update handles PUT /v1/posts/:id.
//
// @Summary      Edit a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int                true   "Post ID"
// @Param        If-Match  header    string             false  "Version token from a previous read"
// @Param        body      body      updatePostRequest  true   "Post"
// @Success      200       {object}  postResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	expected, err := expectedVersion(c, req.Version)
	if err != nil {
		return err
	}

	outcome, post, err := h.service.Edit(c.Request().Context(), p, toEditPostInput(id, req, expected))
	if err != nil {
		return err
	}
	if err := outcomeError(outcome, domain.ResourceRef{Kind: domain.KindPost, ID: id}); err != nil {
		return err
	}
	setETag(c, post.Version)
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete handles DELETE /v1/posts/:id. Comments go with it.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id        path    int     true   "Post ID"
// @Param        If-Match  header  string  false  "Version token from a previous read"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	expected, err := expectedVersion(c, 0)
	if err != nil {
		return err
	}

	outcome, err := h.service.Delete(c.Request().Context(), p, id, expected)
	if err != nil {
		return err
	}
	return writeDeleted(c, outcome, domain.ResourceRef{Kind: domain.KindPost, ID: id})
}
