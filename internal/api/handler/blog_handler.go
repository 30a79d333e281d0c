package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

// BlogHandler handles HTTP requests for blogs.
type BlogHandler struct {
	service ports.BlogService
}

func NewBlogHandler(service ports.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// List handles GET /v1/blogs.
//
// @Summary      List blogs
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 20, max 100)"
// @Success      200    {object}  listBlogsResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/blogs [get]
func (h *BlogHandler) List(c echo.Context) error {
	var page ports.Page
	if err := echo.QueryParamsBinder(c).
		Int("page", &page.Page).
		Int("limit", &page.Limit).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.service.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListBlogsResponse(result))
}

// Create handles POST /v1/blogs. The caller becomes the owner.
//
// @Summary      Create a blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replay-safe creation key"
// @Param        body             body      createBlogRequest  true   "Blog"
// @Success      201              {object}  createdResponse[blogResponse]
// @Success      200              {object}  createdResponse[blogResponse]  "Idempotent replay"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/blogs [post]
func (h *BlogHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), p,
		toCreateBlogInput(req, c.Request().Header.Get(headerIdempotencyKey)))
	if err != nil {
		return err
	}
	b := created.Resource
	return writeCreated(c, created.AlreadyExisted, blogPath(b.ID), b.Version, toBlogResponse(b))
}

// Get handles GET /v1/blogs/:id.
//
// @Summary      Get a blog with its posts
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Blog ID"
// @Success      200  {object}  blogDetailResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/blogs/{id} [get]
func (h *BlogHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	setETag(c, detail.Blog.Version)
	return c.JSON(http.StatusOK, toBlogDetailResponse(detail))
}

// Update handles PUT /v1/blogs/:id. Only the owner or an Admin may edit.
//
// @Summary      Edit a blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int                true   "Blog ID"
// @Param        If-Match  header    string             false  "Version token from a previous read"
// @Param        body      body      updateBlogRequest  true   "Blog"
// @Success      200       {object}  blogResponse
// @Failure      400       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/blogs/{id} [put]
func (h *BlogHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req updateBlogRequest
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

	outcome, b, err := h.service.Edit(c.Request().Context(), p, toEditBlogInput(id, req, expected))
	if err != nil {
		return err
	}
	if err := outcomeError(outcome, domain.ResourceRef{Kind: domain.KindBlog, ID: id}); err != nil {
		return err
	}
	setETag(c, b.Version)
	return c.JSON(http.StatusOK, toBlogResponse(b))
}

// Delete handles DELETE /v1/blogs/:id. Posts and their comments go with it.
//
// @Summary      Delete a blog
// @Tags         blogs
// @Security     BearerAuth
// @Param        id        path  int     true   "Blog ID"
// @Param        If-Match  header  string  false  "Version token from a previous read"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/blogs/{id} [delete]
func (h *BlogHandler) Delete(c echo.Context) error {
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
	return writeDeleted(c, outcome, domain.ResourceRef{Kind: domain.KindBlog, ID: id})
}
