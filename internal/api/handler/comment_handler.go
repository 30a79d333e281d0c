package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Create handles POST /v1/posts/:id/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      int                   true   "Post ID"
// @Param        Idempotency-Key  header    string                false  "Replay-safe creation key"
// @Param        body             body      createCommentRequest  true   "Comment"
// @Success      201              {object}  createdResponse[commentResponse]
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/posts/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), p,
		toCreateCommentInput(postID, req, c.Request().Header.Get(headerIdempotencyKey)))
	if err != nil {
		return err
	}
	cm := created.Resource
	return writeCreated(c, created.AlreadyExisted, commentPath(cm.ID), cm.Version, toCommentResponse(cm))
}

// Get handles GET /v1/comments/:id.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Comment ID"
// @Success      200  {object}  commentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/comments/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	cm, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	setETag(c, cm.Version)
	return c.JSON(http.StatusOK, toCommentResponse(cm))
}

// Update handles PUT /v1/comments/:id.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int                   true   "Comment ID"
// @Param        If-Match  header    string                false  "Version token from a previous read"
// @Param        body      body      updateCommentRequest  true   "Comment"
// @Success      200       {object}  commentResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req updateCommentRequest
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

	outcome, cm, err := h.service.Edit(c.Request().Context(), p, toEditCommentInput(id, req, expected))
	if err != nil {
		return err
	}
	if err := outcomeError(outcome, domain.ResourceRef{Kind: domain.KindComment, ID: id}); err != nil {
		return err
	}
	setETag(c, cm.Version)
	return c.JSON(http.StatusOK, toCommentResponse(cm))
}

// Delete handles DELETE /v1/comments/:id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id        path    int     true   "Comment ID"
// @Param        If-Match  header  string  false  "Version token from a previous read"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
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
	return writeDeleted(c, outcome, domain.ResourceRef{Kind: domain.KindComment, ID: id})
}
