// Package store opens the configured persistence driver and exposes its
// repositories behind the core ports.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/blogsolution/blog-service/internal/core/ports"
	"github.com/blogsolution/blog-service/internal/infrastructure/db/mongo"
	"github.com/blogsolution/blog-service/internal/infrastructure/db/postgres"
	"github.com/blogsolution/blog-service/internal/pkg/config"
)

// Store bundles the repositories of one driver with its lifecycle hooks.
type Store struct {
	Driver   string
	Blogs    ports.BlogRepository
	Posts    ports.PostRepository
	Comments ports.CommentRepository
	Users    ports.UserRepository
	Roles    ports.RoleRepository
	Audit    ports.AuditRepository

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Open connects to the driver named by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverPostgres:
		return openPostgres(cfg, log)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	return &Store{
		Driver:   config.DriverMongo,
		Blogs:    mongo.NewBlogRepository(db),
		Posts:    mongo.NewPostRepository(db),
		Comments: mongo.NewCommentRepository(db),
		Users:    mongo.NewUserRepository(db),
		Roles:    mongo.NewRoleRepository(db),
		Audit:    mongo.NewAuditRepository(db),
		ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
		migrate:  func(ctx context.Context) error { return mongo.EnsureIndexes(ctx, db) },
		close:    client.Disconnect,
	}, nil
}

func openPostgres(cfg *config.Config, log zerolog.Logger) (*Store, error) {
	db, err := postgres.NewPostgres(cfg.Postgres.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	return &Store{
		Driver:   config.DriverPostgres,
		Blogs:    postgres.NewBlogRepository(db),
		Posts:    postgres.NewPostRepository(db),
		Comments: postgres.NewCommentRepository(db),
		Users:    postgres.NewUserRepository(db),
		Roles:    postgres.NewRoleRepository(db),
		Audit:    postgres.NewAuditRepository(db),
		ping:     func(ctx context.Context) error { return sqlPing(ctx, db) },
		migrate:  func(context.Context) error { return postgres.Migrate(db) },
		close:    func(context.Context) error { return sqlClose(db) },
	}, nil
}

func sqlPing(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func sqlClose(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks store connectivity; it backs the readiness probe.
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// Migrate creates tables or indexes for the driver.
func (s *Store) Migrate(ctx context.Context) error { return s.migrate(ctx) }

func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }
