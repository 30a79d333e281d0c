package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogsolution/blog-service/internal/api"
	"github.com/blogsolution/blog-service/internal/api/handler"
	"github.com/blogsolution/blog-service/internal/core/policy"
	"github.com/blogsolution/blog-service/internal/core/ports"
	"github.com/blogsolution/blog-service/internal/core/service"
	redisdb "github.com/blogsolution/blog-service/internal/infrastructure/db/redis"
	"github.com/blogsolution/blog-service/internal/infrastructure/principal"
	"github.com/blogsolution/blog-service/internal/infrastructure/queue"
	"github.com/blogsolution/blog-service/internal/infrastructure/tracing"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, log, err := environment(ctx)
	if err != nil {
		return err
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}

	shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled")
	}
	defer shutdownTracing(context.WithoutCancel(ctx))

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))

	health := map[string]handler.Pinger{"store": st}

	// Redis only backs Idempotency-Key replays; without it creates still work.
	var idem ports.IdempotencyStore
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, idempotency keys disabled")
	} else {
		defer rdb.Close()
		idem = redisdb.NewIdempotencyStore(rdb)
		health["redis"] = handler.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	// Audit workers outlive the request context so queued events drain after
	// the server stops accepting traffic.
	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, st.Audit, log)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	evaluator := policy.NewEvaluator(dispatcher, log)
	resolver := principal.NewResolver(st.Users, time.Minute)

	if err := service.NewBootstrapper(st.Users, st.Roles, cfg.Admin.Email, cfg.Admin.Password, log).Run(ctx); err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		ServiceName: serviceName,
		JWTSecret:   cfg.JWTSecret,
		Resolver:    resolver,
		Blogs:       service.NewBlogService(st.Blogs, st.Posts, evaluator, idem, log),
		Posts:       service.NewPostService(st.Blogs, st.Posts, st.Comments, evaluator, idem, log),
		Comments:    service.NewCommentService(st.Posts, st.Comments, evaluator, idem, log),
		Auth:        service.NewAuthService(st.Users, cfg.JWTSecret, cfg.TokenTTL),
		Accounts:    service.NewAccountService(st.Users, st.Roles, resolver, log),
		Health:      health,
		Logger:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", st.Driver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
