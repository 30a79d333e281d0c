package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/blogsolution/blog-service/internal/core/domain"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerIfMatch        = "If-Match"
	headerETag           = "ETag"
)

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// expectedVersion resolves the version token the client read. The If-Match
// header takes precedence over the body field; zero means none was sent.
// Accepted header forms: 3, "3", W/"3" and *.
func expectedVersion(c echo.Context, bodyVersion int64) (int64, error) {
	raw := strings.TrimSpace(c.Request().Header.Get(headerIfMatch))
	if raw == "" || raw == "*" {
		return bodyVersion, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid If-Match header")
	}
	return v, nil
}

func setETag(c echo.Context, version int64) {
	c.Response().Header().Set(headerETag, `"`+strconv.FormatInt(version, 10)+`"`)
}

// outcomeError maps a non-committed outcome onto its HTTP error. It returns
// nil for OutcomeCommitted.
func outcomeError(o domain.Outcome, ref domain.ResourceRef) error {
	switch o {
	case domain.OutcomeCommitted:
		return nil
	case domain.OutcomeDenied:
		return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
	case domain.OutcomeNotFound:
		return echo.NewHTTPError(http.StatusNotFound, string(ref.Kind)+" not found")
	case domain.OutcomeConcurrencyConflict:
		return echo.NewHTTPError(http.StatusConflict, ref.String()+" was modified or deleted by another request; reload and retry")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "unknown mutation outcome")
	}
}

func writeDeleted(c echo.Context, o domain.Outcome, ref domain.ResourceRef) error {
	if err := outcomeError(o, ref); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// writeCreated renders 201 for a new resource and 200 for an idempotent replay.
func writeCreated[T any](c echo.Context, alreadyExisted bool, location string, version int64, body T) error {
	status := http.StatusCreated
	if alreadyExisted {
		status = http.StatusOK
	}
	c.Response().Header().Set(echo.HeaderLocation, location)
	setETag(c, version)
	return c.JSON(status, createdResponse[T]{Data: body, AlreadyExisted: alreadyExisted})
}
