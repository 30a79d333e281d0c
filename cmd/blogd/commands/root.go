package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/blogsolution/blog-service/internal/infrastructure/store"
	"github.com/blogsolution/blog-service/internal/pkg/config"
	"github.com/blogsolution/blog-service/pkg/logger"
)

const serviceName = "blogd"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Blog service: blogs, posts and comments behind an ownership policy",
	Long: `blogd serves the blog HTTP API. Edits and deletes are restricted to the
resource owner or an Admin and are committed under optimistic concurrency.

Configuration is read from the environment (see internal/pkg/config).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// environment loads configuration and the process logger.
func environment(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	return cfg, log, nil
}

// openStore connects the configured driver and brings its schema up to date.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store.Store, error) {
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close(ctx)
		return nil, fmt.Errorf("migrate %s: %w", st.Driver, err)
	}
	return st, nil
}
