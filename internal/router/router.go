package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/vacation-tracker/internal/config"
	"github.com/iliyamo/vacation-tracker/internal/handler"
	"github.com/iliyamo/vacation-tracker/internal/middleware"
)

// Deps bundles everything route registration needs: the handlers plus the
// shared middleware inputs (authenticator, JWT secret, Redis client).
type Deps struct {
	Auth     *handler.AuthHandler
	Vacation *handler.VacationHandler
	Users    *handler.UserHandler
	Import   *handler.ImportHandler

	Authenticator middleware.Authenticator
	JWTSecret     string
	Redis         *redis.Client
	CacheCfg      config.CacheConfig
	RateCfg       config.RateLimitConfig
}

// Register wires every route onto the provided Echo instance.
func Register(e *echo.Echo, d Deps) {
	// Health check stays outside every middleware chain so load balancers
	// always get a fast answer.
	e.GET("/healthz", handler.Health)

	// Token issuance does not require prior authentication.
	e.POST("/v1/auth/login", d.Auth.Login)

	authn := middleware.Authenticate(d.Authenticator, d.JWTSecret)
	limiter := middleware.NewTokenBucket(d.RateCfg, d.Redis)
	cache := middleware.NewRedisCache(d.CacheCfg, d.Redis)

	me := e.Group("/v1")
	me.Use(authn)
	me.GET("/auth/me", d.Auth.Me)

	// Vacation endpoints: the caller must be the addressed user or an
	// admin. Reads go through the response cache. Authentication runs
	// before the limiter so per-user rate keys see the caller identity.
	vac := e.Group("/vacation/users/:user_id")
	vac.Use(authn, limiter, middleware.RequireSelfOrAdmin())
	vac.POST("/create", d.Vacation.Create)
	vac.POST("/check", d.Vacation.Check)
	vac.GET("/summary", d.Vacation.Summary, cache)
	vac.GET("/records", d.Vacation.Records, cache)
	vac.POST("/entitlements", d.Vacation.CreateEntitlement, middleware.RequireAdmin())

	// Bulk imports are admin only.
	imp := e.Group("/import")
	imp.Use(authn, limiter, middleware.RequireAdmin())
	imp.POST("/users", d.Import.Users)
	imp.POST("/vacations", d.Import.Vacations)
	imp.POST("/entitlements", d.Import.Entitlements)

	// User management: admins run the show, but anyone may fetch their
	// own profile by id.
	users := e.Group("/users")
	users.Use(authn, limiter)
	users.POST("", d.Users.Create, middleware.RequireAdmin())
	users.GET("", d.Users.List, middleware.RequireAdmin())
	users.GET("/:user_id", d.Users.Get, middleware.RequireSelfOrAdmin())
	users.PATCH("/:user_id", d.Users.Update, middleware.RequireAdmin())
	users.DELETE("/:user_id", d.Users.Delete, middleware.RequireAdmin())
}
