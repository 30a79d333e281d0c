package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/blogsolution/blog-service/internal/core/domain"
)

// PrincipalKey is the echo.Context key holding the request's domain.Principal.
const PrincipalKey = "principal"

// PrincipalResolver loads the current roles for a token subject.
type PrincipalResolver interface {
	Resolve(ctx context.Context, subject string) (domain.Principal, error)
}

// Auth validates the JWT and injects the principal into context. With a nil
// resolver the roles come from the token's "roles" claim.
func Auth(jwtSecret string, resolver PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			subject, _ := claims.GetSubject()
			if subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			p := domain.Principal{ID: subject, Roles: rolesClaim(claims)}
			if resolver != nil {
				p, err = resolver.Resolve(c.Request().Context(), subject)
				if errors.Is(err, domain.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown principal")
				}
				if err != nil {
					return err
				}
			}

			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated principal, or domain.Anonymous
// when the request carried none.
func PrincipalFrom(c echo.Context) domain.Principal {
	p, ok := c.Get(PrincipalKey).(domain.Principal)
	if !ok {
		return domain.Anonymous
	}
	return p
}

func rolesClaim(claims jwt.MapClaims) []string {
	raw, _ := claims["roles"].([]any)
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}
