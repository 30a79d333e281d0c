package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/blogsolution/blog-service/internal/core/domain"
)

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, mw echo.MiddlewareFunc, header string) (domain.Principal, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got domain.Principal
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		got = PrincipalFrom(c)
		return c.NoContent(http.StatusOK)
	})(c)
	return got, called, err
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != code {
		t.Fatalf("expected HTTP %d, got %v", code, err)
	}
}

type stubResolver struct {
	principals map[string]domain.Principal
	err        error
}

func (s stubResolver) Resolve(_ context.Context, subject string) (domain.Principal, error) {
	if s.err != nil {
		return domain.Anonymous, s.err
	}
	p, ok := s.principals[subject]
	if !ok {
		return domain.Anonymous, domain.ErrUserNotFound
	}
	return p, nil
}

func TestAuthMiddleware_ValidTokenUsesClaims(t *testing.T) {
	signed := signedToken(t, "secret", jwt.MapClaims{
		"sub":   "u-1",
		"roles": []string{domain.RoleUser},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	p, called, err := runAuth(t, Auth("secret", nil), "Bearer "+signed)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if p.ID != "u-1" || !p.HasRole(domain.RoleUser) || p.IsAdmin() {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthMiddleware_ResolverOverridesClaims(t *testing.T) {
	// The token still says User; the store says Admin.
	signed := signedToken(t, "secret", jwt.MapClaims{"sub": "u-1", "roles": []string{domain.RoleUser}})
	resolver := stubResolver{principals: map[string]domain.Principal{
		"u-1": {ID: "u-1", Roles: []string{domain.RoleAdmin}},
	}}

	p, _, err := runAuth(t, Auth("secret", resolver), "Bearer "+signed)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !p.IsAdmin() {
		t.Fatalf("expected resolved Admin role, got %v", p.Roles)
	}
}

func TestAuthMiddleware_UnknownSubject(t *testing.T) {
	signed := signedToken(t, "secret", jwt.MapClaims{"sub": "deleted-user"})

	_, called, err := runAuth(t, Auth("secret", stubResolver{}), "Bearer "+signed)
	expectStatus(t, err, http.StatusUnauthorized)
	if called {
		t.Fatal("next must not run for an unknown subject")
	}
}

func TestAuthMiddleware_ResolverFailureIsNotUnauthorized(t *testing.T) {
	signed := signedToken(t, "secret", jwt.MapClaims{"sub": "u-1"})
	boom := errors.New("store down")

	_, _, err := runAuth(t, Auth("secret", stubResolver{err: boom}), "Bearer "+signed)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	_, _, err := runAuth(t, Auth("secret", nil), "")
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_InvalidScheme(t *testing.T) {
	_, _, err := runAuth(t, Auth("secret", nil), "Basic abc")
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	signed := signedToken(t, "other", jwt.MapClaims{"sub": "u-1"})
	_, _, err := runAuth(t, Auth("secret", nil), "Bearer "+signed)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_Expired(t *testing.T) {
	signed := signedToken(t, "secret", jwt.MapClaims{"sub": "u-1", "exp": time.Now().Add(-time.Minute).Unix()})
	_, _, err := runAuth(t, Auth("secret", nil), "Bearer "+signed)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_MissingSubject(t *testing.T) {
	signed := signedToken(t, "secret", jwt.MapClaims{"roles": []string{domain.RoleAdmin}})
	_, _, err := runAuth(t, Auth("secret", nil), "Bearer "+signed)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestPrincipalFrom_DefaultsToAnonymous(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if p := PrincipalFrom(c); !p.IsAnonymous() {
		t.Fatalf("expected anonymous, got %+v", p)
	}
}
