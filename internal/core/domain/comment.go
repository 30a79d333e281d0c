package domain

import "time"

// Comment belongs to exactly one Post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) ResourceID() int64         { return c.ID }
func (c *Comment) Kind() Kind                { return KindComment }
func (c *Comment) OwningPrincipalID() string { return c.UserID }
func (c *Comment) VersionToken() int64       { return c.Version }
