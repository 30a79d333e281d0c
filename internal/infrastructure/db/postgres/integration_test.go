//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/blogsolution/blog-service/internal/core/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("blog"),
		tcpostgres.WithUsername("blog"),
		tcpostgres.WithPassword("blog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := NewPostgres(dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, users *UserRepository, id string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, users.Create(context.Background(), &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "x",
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}

func TestPostgresStore(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	roles := NewRoleRepository(db)
	users := NewUserRepository(db)
	blogs := NewBlogRepository(db)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)

	for _, r := range domain.DefaultRoles {
		require.NoError(t, roles.EnsureRole(ctx, r))
		require.NoError(t, roles.EnsureRole(ctx, r), "EnsureRole must be idempotent")
	}
	seedUser(t, users, "alice")
	seedUser(t, users, "bob")

	t.Run("duplicate email", func(t *testing.T) {
		err := users.Create(ctx, &domain.User{ID: "alice-2", Email: "alice@example.com", PasswordHash: "x"})
		require.ErrorIs(t, err, domain.ErrUserExists)
	})

	t.Run("unknown role", func(t *testing.T) {
		require.ErrorIs(t, users.AddRole(ctx, "alice", "Superuser"), domain.ErrRoleNotFound)
		require.NoError(t, users.AddRole(ctx, "alice", domain.RoleAdmin))
		u, err := users.FindByID(ctx, "alice")
		require.NoError(t, err)
		require.ElementsMatch(t, []string{domain.RoleUser, domain.RoleAdmin}, u.Roles)
	})

	t.Run("conditional update advances version", func(t *testing.T) {
		b := &domain.Blog{Title: "t", UserID: "alice", Version: 1}
		require.NoError(t, blogs.Create(ctx, b))

		b.Title = "new"
		ok, err := blogs.UpdateIfVersion(ctx, b, 1)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, int64(2), b.Version)

		stale := &domain.Blog{ID: b.ID, Title: "stale"}
		ok, err = blogs.UpdateIfVersion(ctx, stale, 1)
		require.NoError(t, err)
		require.False(t, ok)

		v, err := blogs.CurrentVersion(ctx, b.ID)
		require.NoError(t, err)
		require.Equal(t, int64(2), v)

		_, err = blogs.CurrentVersion(ctx, 999999)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("concurrent updates let one writer win", func(t *testing.T) {
		p := &domain.Post{Title: "t", Content: "c", UserID: "alice", Version: 1}
		b := &domain.Blog{Title: "race", UserID: "alice", Version: 1}
		require.NoError(t, blogs.Create(ctx, b))
		p.BlogID = b.ID
		require.NoError(t, posts.Create(ctx, p))

		var wg sync.WaitGroup
		results := make(chan bool, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cp := *p
				cp.Content = "w"
				ok, err := posts.UpdateIfVersion(ctx, &cp, 1)
				assert.NoError(t, err)
				results <- ok
			}()
		}
		wg.Wait()
		close(results)

		wins := 0
		for ok := range results {
			if ok {
				wins++
			}
		}
		require.Equal(t, 1, wins)
	})

	t.Run("blog delete cascades", func(t *testing.T) {
		b := &domain.Blog{Title: "t", UserID: "alice", Version: 1}
		require.NoError(t, blogs.Create(ctx, b))
		p := &domain.Post{BlogID: b.ID, Title: "t", Content: "c", UserID: "bob", Version: 1}
		require.NoError(t, posts.Create(ctx, p))
		c := &domain.Comment{PostID: p.ID, Content: "c", UserID: "bob", Version: 1}
		require.NoError(t, comments.Create(ctx, c))

		ok, err := blogs.DeleteIfVersion(ctx, b.ID, 2)
		require.NoError(t, err)
		require.False(t, ok, "stale token must not delete")

		ok, err = blogs.DeleteIfVersion(ctx, b.ID, 1)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = posts.FindByID(ctx, p.ID)
		require.ErrorIs(t, err, domain.ErrPostNotFound)
		_, err = comments.FindByID(ctx, c.ID)
		require.ErrorIs(t, err, domain.ErrCommentNotFound)
	})

	t.Run("user delete restricts on authored content", func(t *testing.T) {
		seedUser(t, users, "carol")
		b := &domain.Blog{Title: "t", UserID: "carol", Version: 1}
		require.NoError(t, blogs.Create(ctx, b))
		c := &domain.Comment{Content: "c", UserID: "carol", Version: 1}
		p := &domain.Post{BlogID: b.ID, Title: "t", Content: "c", UserID: "bob", Version: 1}
		require.NoError(t, posts.Create(ctx, p))
		c.PostID = p.ID
		require.NoError(t, comments.Create(ctx, c))

		require.ErrorIs(t, users.Delete(ctx, "carol"), domain.ErrPrincipalOwnsContent)

		ok, err := comments.DeleteIfVersion(ctx, c.ID, 1)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, users.Delete(ctx, "carol"))
		_, err = blogs.FindByID(ctx, b.ID)
		require.ErrorIs(t, err, domain.ErrBlogNotFound)
		_, err = posts.FindByID(ctx, p.ID)
		require.ErrorIs(t, err, domain.ErrPostNotFound, "posts go with their blog")
	})

	t.Run("create under missing parent", func(t *testing.T) {
		err := posts.Create(ctx, &domain.Post{BlogID: 424242, Title: "t", Content: "c", UserID: "alice", Version: 1})
		require.ErrorIs(t, err, domain.ErrBlogNotFound)
	})

	t.Run("audit insert", func(t *testing.T) {
		require.NoError(t, NewAuditRepository(db).Insert(ctx, &domain.AuditEvent{
			PrincipalID: "alice", ResourceID: 1, Kind: domain.KindPost,
			Action: domain.ActionEdit, Decision: "allow", At: time.Now(),
		}))
	})
}
