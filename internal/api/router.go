package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gocommerce/marketplace-api/internal/api/handler"
	"github.com/gocommerce/marketplace-api/internal/api/middleware"
	"github.com/gocommerce/marketplace-api/internal/core/domain"
	"github.com/gocommerce/marketplace-api/internal/core/ports"
	"github.com/gocommerce/marketplace-api/internal/core/service"
	"github.com/gocommerce/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/gocommerce/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/gocommerce/marketplace-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// audit may be nil when the async trail is disabled (tests).
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditTrail, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	sellerRepo := mongodb.NewSellerRepository(db)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow)
	authService := service.NewAuthService(userRepo, sellerRepo, tokens, limiter, audit, log)
	authHandler := handler.NewAuthHandler(authService)

	// --- Access guard ---
	// Single declaration of the protected route set; every route absent
	// from this table is public.
	protected := middleware.RouteTable{
		"GET /auth/user/me":   {Kind: domain.KindUser, Roles: []domain.Role{domain.RoleBuyer}},
		"GET /auth/seller/me": {Kind: domain.KindSeller, Roles: []domain.Role{domain.RoleSeller}},
	}
	e.Use(middleware.Authenticate(tokens, userRepo, sellerRepo, protected))
	e.Use(middleware.Authorize(protected))

	// --- Auth routes ---
	e.POST("/auth/user/register", authHandler.RegisterUser)
	e.POST("/auth/user/login", authHandler.LoginUser)
	e.GET("/auth/user/me", authHandler.Me)
	e.POST("/auth/seller/register", authHandler.RegisterSeller)
	e.POST("/auth/seller/login", authHandler.LoginSeller)
	e.GET("/auth/seller/me", authHandler.Me)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
