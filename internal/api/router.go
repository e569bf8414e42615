package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/juangracia/booking-mvp-case-study/internal/api/handler"
	"github.com/juangracia/booking-mvp-case-study/internal/api/middleware"
	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
	"github.com/juangracia/booking-mvp-case-study/internal/core/service"
	mongodb "github.com/juangracia/booking-mvp-case-study/internal/infrastructure/db/mongo"
	redisdb "github.com/juangracia/booking-mvp-case-study/internal/infrastructure/db/redis"
)

// Options carries the router's tunables.
type Options struct {
	JWTSecret          string
	TokenTTL           time.Duration
	MaxBookingDuration time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, log zerolog.Logger, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("booking"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	resourceRepo := mongodb.NewResourceRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)
	cache := redisdb.NewAvailabilityCache(rdb)

	authService := service.NewAuthService(userRepo, opts.JWTSecret, opts.TokenTTL)
	resourceService := service.NewResourceService(resourceRepo, log)
	bookingService := service.NewBookingService(bookingRepo, resourceRepo, cache, opts.MaxBookingDuration, log)

	authHandler := handler.NewAuthHandler(authService)
	resourceHandler := handler.NewResourceHandler(resourceService, bookingService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	adminHandler := handler.NewAdminHandler(resourceService, bookingService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authRequired := middleware.Auth(opts.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authRequired)

	// --- Resources (user view) ---
	resources := e.Group("/resources", authRequired)
	resources.GET("", resourceHandler.List)
	resources.GET("/:id", resourceHandler.Get)
	resources.GET("/:id/availability", resourceHandler.Availability)

	// --- Bookings (own) ---
	bookings := e.Group("/bookings", authRequired)
	bookings.GET("", bookingHandler.List)
	bookings.POST("", bookingHandler.Create)
	bookings.DELETE("/:id", bookingHandler.Cancel)

	// --- Admin ---
	admin := e.Group("/admin", authRequired, adminOnly)
	admin.GET("/resources", adminHandler.ListResources)
	admin.POST("/resources", adminHandler.CreateResource)
	admin.PUT("/resources/:id", adminHandler.UpdateResource)
	admin.GET("/bookings", adminHandler.ListBookings)
	admin.DELETE("/bookings/:id", adminHandler.CancelBooking)

	// --- Probes & metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
