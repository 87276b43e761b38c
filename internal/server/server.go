// Package server contains the HTTP and WebSocket handlers of the pawcircle API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pawcircle/internal/bootstrap"
	"pawcircle/internal/config"
	"pawcircle/internal/member"
	"pawcircle/internal/middleware"
	"pawcircle/internal/models"
	"pawcircle/internal/notifications"
	"pawcircle/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	runtime        *bootstrap.Runtime
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	logger         *slog.Logger
	catalog        *service.Catalog
	pages          *service.Pages
	forms          *service.Forms
	collections    map[string]collectionHandlers
	verifier       *member.Verifier
	notifier       *notifications.Notifier
	alertHub       *notifications.Hub
	publisher      *notifications.Publisher
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		SeedFixtures: !cfg.IsProduction(),
	})
	if err != nil {
		return nil, fmt.Errorf("runtime initialization failed: %w", err)
	}
	return NewServerWithDeps(cfg, rt)
}

// NewServerWithDeps creates a Server using an already-initialized runtime.
// Use this in tests or when a bootstrap layer has already connected the backend.
func NewServerWithDeps(cfg *config.Config, rt *bootstrap.Runtime) (*Server, error) {
	if rt == nil || rt.Catalog == nil {
		return nil, fmt.Errorf("runtime has no catalog")
	}
	logger := middleware.Logger

	s := &Server{
		config:         cfg,
		runtime:        rt,
		redis:          rt.Redis,
		promMiddleware: middleware.InitMetrics("pawcircle-api"),
		logger:         logger,
		catalog:        rt.Catalog,
		pages:          service.NewPages(rt.Catalog, cfg.PageSize, logger),
		forms:          service.NewForms(rt.Catalog, logger),
		verifier:       member.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, rt.Redis),
		notifier:       notifications.NewNotifier(rt.Redis),
		alertHub:       notifications.NewHub("alerts"),
	}
	s.publisher = notifications.NewPublisher(s.alertHub, s.notifier)
	s.collections = newCollectionHandlers(s, rt.Catalog)
	s.shutdownCtx, s.shutdownFn = context.WithCancel(context.Background())

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Member tokens are optional everywhere; Required guards individual routes.
	app.Use(s.verifier.Optional())

	// Tracing sets traceID before the context middleware copies it.
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Member ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "PawCircle Metrics Dashboard",
	}))

	// Generic collection boundary
	collections := api.Group("/collections")
	collections.Get("/:collection/items", s.resolveCollection, s.ListItems)
	collections.Get("/:collection/items/:id", s.resolveCollection, s.GetItem)
	collections.Post("/:collection/items", s.verifier.Required(), middleware.RateLimit(
		s.redis, 30, time.Minute, "create_item"), s.resolveCollection, s.CreateItem)

	// Page views
	api.Get("/home", s.GetHome)
	api.Get("/community-feed", s.GetCommunityFeed)
	api.Get("/pet-wiki", s.GetPetWiki)
	api.Get("/emergency-alert", s.GetEmergencyAlerts)
	api.Get("/neighbourhood-circles", s.GetNeighbourhoodCircles)
	api.Get("/breed-clubs", s.GetBreedClubs)
	api.Get("/rescue-directory", s.GetRescueDirectory)
	api.Get("/events", s.GetEvents)
	api.Get("/challenges", s.GetChallenges)

	// Detail views
	api.Get("/post/:id", s.GetPost)
	api.Get("/circle/:id", s.GetCircle)
	api.Get("/club/:id", s.GetClub)
	api.Get("/article/:id", s.GetArticle)
	api.Get("/rescue/:id", s.GetRescue)
	api.Get("/event/:id", s.GetEvent)
	api.Get("/challenge/:id", s.GetChallenge)

	// Submissions
	api.Post("/submit-post", s.verifier.Required(), middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "submit_post"), s.SubmitPost)
	api.Post("/submit-article", s.verifier.Required(), middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "submit_article"), s.SubmitArticle)
	api.Post("/emergency-alert", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "submit_alert"), s.SubmitAlert)

	// Members
	api.Get("/profile", s.verifier.Required(), s.GetProfile)
	members := api.Group("/members")
	members.Get("/me", s.GetMe)
	members.Get("/login", s.Login)
	members.Post("/logout", s.verifier.Required(), s.Logout)

	// Realtime alert feed
	api.Get("/ws/alerts", s.upgradeRequired, s.AlertsWebSocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	backendStatus := "healthy"
	if err := s.runtime.Ready(ctx); err != nil {
		backendStatus = "unhealthy"
	}

	// Redis only backs the cache and cross-instance events, so its absence does not fail readiness.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if backendStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"backend": backendStatus,
			"redis":   redisStatus,
		},
		"backend": s.runtime.Backend,
		"time":    time.Now(),
	})
}

// NewApp builds the Fiber app with the server's middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "PawCircle API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return models.RespondWithError(c, fe.Code, err)
			}
			s.logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// StartWiring connects the alert hub to Redis pub/sub when Redis is available.
func (s *Server) StartWiring() {
	if !s.notifier.Enabled() {
		return
	}
	if err := s.alertHub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
		s.logger.Error("failed to start hub wiring",
			slog.String("hub", s.alertHub.Name()), slog.String("error", err.Error()))
	}
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	s.StartWiring()

	s.logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			s.logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.alertHub.Shutdown(ctx); err != nil {
		s.logger.Error("error shutting down hub",
			slog.String("hub", s.alertHub.Name()), slog.String("error", err.Error()))
	}

	if err := s.runtime.Close(ctx); err != nil {
		s.logger.Error("error closing connections", slog.String("error", err.Error()))
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
