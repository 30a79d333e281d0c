package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	_ "github.com/blogsolution/blog-service/docs"
	"github.com/blogsolution/blog-service/internal/api/handler"
	"github.com/blogsolution/blog-service/internal/api/middleware"
	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
)

// Deps carries the services and collaborators the router wires into handlers.
type Deps struct {
	ServiceName string
	JWTSecret   string
	// Resolver refreshes roles from the user store on every request. When
	// nil, roles are read from the token claims.
	Resolver middleware.PrincipalResolver

	Blogs    ports.BlogService
	Posts    ports.PostService
	Comments ports.CommentService
	Auth     ports.AuthService
	Accounts ports.AccountService

	// Health lists the dependencies checked by GET /health/ready.
	Health map[string]handler.Pinger
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       Blog Service API
// @version                     1.0
// @description                 Blogs, posts and comments with ownership checks and optimistic concurrency.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(otelecho.Middleware(d.ServiceName))
	e.Use(echoprometheus.NewMiddleware("blog"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	accountHandler := handler.NewAccountHandler(d.Accounts)
	blogHandler := handler.NewBlogHandler(d.Blogs)
	postHandler := handler.NewPostHandler(d.Posts)
	commentHandler := handler.NewCommentHandler(d.Comments)
	healthHandler := handler.NewHealthHandler(d.Health)

	// --- Public routes ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret, d.Resolver))

	v1.GET("/me", accountHandler.Me)
	v1.POST("/users/:id/roles", accountHandler.AssignRole, middleware.RBAC(domain.RoleAdmin))
	v1.DELETE("/users/:id", accountHandler.Delete)

	v1.GET("/blogs", blogHandler.List)
	v1.POST("/blogs", blogHandler.Create)
	v1.GET("/blogs/:id", blogHandler.Get)
	v1.PUT("/blogs/:id", blogHandler.Update)
	v1.DELETE("/blogs/:id", blogHandler.Delete)
	v1.GET("/blogs/:id/posts", postHandler.ListByBlog)
	v1.POST("/blogs/:id/posts", postHandler.Create)

	v1.GET("/posts/:id", postHandler.Get)
	v1.PUT("/posts/:id", postHandler.Update)
	v1.DELETE("/posts/:id", postHandler.Delete)
	v1.POST("/posts/:id/comments", commentHandler.Create)

	v1.GET("/comments/:id", commentHandler.Get)
	v1.PUT("/comments/:id", commentHandler.Update)
	v1.DELETE("/comments/:id", commentHandler.Delete)

	return e
}
