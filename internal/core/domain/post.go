package domain

import "time"

// Post belongs to exactly one Blog. Deleting it removes its comments.
type Post struct {
	ID        int64     `json:"id"`
	BlogID    int64     `json:"blog_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) ResourceID() int64         { return p.ID }
func (p *Post) Kind() Kind                { return KindPost }
func (p *Post) OwningPrincipalID() string { return p.UserID }
func (p *Post) VersionToken() int64       { return p.Version }
