package domain

import "time"

// Blog is the owned collection root for posts.
type Blog struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"user_id"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (b *Blog) ResourceID() int64         { return b.ID }
func (b *Blog) Kind() Kind                { return KindBlog }
func (b *Blog) OwningPrincipalID() string { return b.UserID }
func (b *Blog) VersionToken() int64       { return b.Version }
