package postgres

import (
	"time"

	"github.com/blogsolution/blog-service/internal/core/domain"
)

type roleModel struct {
	Name      string `gorm:"primaryKey;size:64"`
	CreatedAt time.Time
}

func (roleModel) TableName() string { return "roles" }

type userModel struct {
	ID           string          `gorm:"primaryKey;size:36"`
	Email        string          `gorm:"uniqueIndex;not null"`
	PasswordHash string          `gorm:"not null"`
	Roles        []userRoleModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	roles := make([]string, len(m.Roles))
	for i, r := range m.Roles {
		roles[i] = r.Role
	}
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Roles:        roles,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type userRoleModel struct {
	UserID  string    `gorm:"primaryKey;size:36"`
	Role    string    `gorm:"primaryKey;size:64"`
	RoleRef roleModel `gorm:"foreignKey:Role;references:Name;constraint:OnDelete:RESTRICT"`
}

func (userRoleModel) TableName() string { return "user_roles" }

type blogModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:100;not null"`
	Description string    `gorm:"size:1000"`
	UserID      string    `gorm:"size:36;not null;index"`
	User        userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Version     int64     `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (blogModel) TableName() string { return "blogs" }

func (m *blogModel) toDomain() *domain.Blog {
	return &domain.Blog{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		UserID:      m.UserID,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type postModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	BlogID    int64     `gorm:"not null;index"`
	Blog      blogModel `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
	Title     string    `gorm:"size:200;not null"`
	Content   string    `gorm:"type:text;not null"`
	UserID    string    `gorm:"size:36;not null;index"`
	User      userModel `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (postModel) TableName() string { return "posts" }

func (m *postModel) toDomain() *domain.Post {
	return &domain.Post{
		ID:        m.ID,
		BlogID:    m.BlogID,
		Title:     m.Title,
		Content:   m.Content,
		UserID:    m.UserID,
		Version:   m.Version,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type commentModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	PostID    int64     `gorm:"not null;index"`
	Post      postModel `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"size:500;not null"`
	UserID    string    `gorm:"size:36;not null;index"`
	User      userModel `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (commentModel) TableName() string { return "comments" }

func (m *commentModel) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		Content:   m.Content,
		UserID:    m.UserID,
		Version:   m.Version,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type auditModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	PrincipalID string    `gorm:"size:36;index:idx_audit_principal_at,priority:1"`
	ResourceID  int64     `gorm:"not null"`
	Kind        string    `gorm:"size:16;not null"`
	Action      string    `gorm:"size:16;not null"`
	Decision    string    `gorm:"size:8;not null"`
	At          time.Time `gorm:"index:idx_audit_principal_at,priority:2"`
}

func (auditModel) TableName() string { return "audit_events" }
