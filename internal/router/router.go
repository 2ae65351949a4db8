package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/space-reservation/internal/config"
	"github.com/iliyamo/space-reservation/internal/handler"
	"github.com/iliyamo/space-reservation/internal/middleware"
	"github.com/iliyamo/space-reservation/internal/model"
)

// Deps is everything route registration needs. Redis is optional; without
// it the rate limiter and response cache are pass-through.
type Deps struct {
	JWTSecret string
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Redis     *redis.Client
	Health    handler.Pinger
	Log       *zap.Logger

	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Spaces       *handler.SpaceHandler
	Catalog      *handler.CatalogHandler
	Reservations *handler.ReservationHandler
}

// Register mounts /healthz and the /api tree on e.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.Health))

	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log)
	cached := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)
	invalidate := middleware.InvalidateCache(d.Cache, d.Redis, d.Log)
	staff := middleware.RequireRole(model.RoleManager, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	api := e.Group("/api")

	// Session endpoints are limited per IP since there is no actor yet.
	auth := api.Group("/auth", limit)
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout, middleware.OptionalJWTAuth(d.JWTSecret))

	p := api.Group("", middleware.JWTAuth(d.JWTSecret), limit)

	p.GET("/users/me", d.Users.Me)
	p.GET("/users", d.Users.List, adminOnly)
	p.GET("/users/:id", d.Users.Get, adminOnly)
	p.PATCH("/users", d.Users.Patch, adminOnly)

	p.GET("/spaces", d.Spaces.List, cached)
	p.GET("/spaces/:id", d.Spaces.Get, cached)
	p.POST("/spaces", d.Spaces.Create, staff, invalidate)
	p.PUT("/spaces/:id", d.Spaces.Update, staff, invalidate)
	p.DELETE("/spaces/:id", d.Spaces.Delete, staff, invalidate)

	p.GET("/resources", d.Catalog.ListResources, cached)
	p.GET("/resources/:id", d.Catalog.GetResource, cached)
	p.POST("/resources", d.Catalog.CreateResource, adminOnly, invalidate)
	p.PUT("/resources/:id", d.Catalog.UpdateResource, adminOnly, invalidate)
	p.DELETE("/resources/:id", d.Catalog.DeleteResource, adminOnly, invalidate)

	p.POST("/space-resources", d.Catalog.SetSpaceResource, staff, invalidate)
	p.GET("/space-resources/:spaceId", d.Catalog.ListSpaceResources, cached)
	p.DELETE("/space-resources/:spaceId/:resourceId", d.Catalog.RemoveSpaceResource, staff, invalidate)

	r := p.Group("/reservations")
	r.POST("", d.Reservations.Create)
	r.GET("", d.Reservations.ListAll, staff)
	r.GET("/my", d.Reservations.ListMine)
	r.GET("/history", d.Reservations.AllHistory, adminOnly)
	r.GET("/:id", d.Reservations.Get)
	r.PUT("/:id/status", d.Reservations.UpdateStatus, staff)
	r.PUT("/:id/cancel", d.Reservations.Cancel)
	r.GET("/:id/history", d.Reservations.History)
}
