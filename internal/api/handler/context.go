package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsolution/blog-service/internal/api/middleware"
	"github.com/blogsolution/blog-service/internal/core/domain"
)

// principal returns the caller injected by the Auth middleware. An anonymous
// caller on an authenticated route means the middleware never ran, so it is
// rejected before any service call.
func principal(c echo.Context) (domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p.IsAnonymous() {
		return domain.Anonymous, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}
