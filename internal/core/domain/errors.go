package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every per-kind not-found error, so callers that
// only care about existence can match on it.
var ErrNotFound = errors.New("not found")

var (
	ErrBlogNotFound    = fmt.Errorf("blog %w", ErrNotFound)
	ErrPostNotFound    = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrRoleNotFound    = fmt.Errorf("role %w", ErrNotFound)
)

var ErrForbidden = errors.New("access forbidden")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrPrincipalOwnsContent = errors.New("user still owns posts or comments")
var ErrNilResource = errors.New("authorize: nil resource")
