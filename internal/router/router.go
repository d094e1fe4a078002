// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/photo-share/internal/config"
	"github.com/iliyamo/photo-share/internal/handler"
	"github.com/iliyamo/photo-share/internal/middleware"
	"github.com/iliyamo/photo-share/internal/model"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Photos   *handler.PhotoHandler
	Comments *handler.CommentHandler
	Ratings  *handler.RatingHandler
	Shares   *handler.ShareHandler
	Public   *handler.PublicHandler
	Admin    *handler.AdminHandler
}

// Guards collects the auth middleware dependencies.
type Guards struct {
	Codec   middleware.TokenDecoder
	Revoked middleware.RevocationChecker
	Users   middleware.UserLoader
}

// Register mounts all routes. Auth endpoints sit behind the rate limiter,
// the public read surface behind the response cache, and everything under
// the authenticated group behind the access guard.
func Register(e *echo.Echo, h Handlers, g Guards, db *sql.DB, rdb *redis.Client, rlCfg config.RateLimitConfig, cacheCfg config.CacheConfig) {
	e.GET("/healthz", handler.Health(db))

	limited := middleware.RateLimit(rlCfg, rdb)
	cached := middleware.CacheResponses(cacheCfg, rdb)
	authed := middleware.Authenticate(g.Codec, g.Revoked, g.Users)

	auth := e.Group("/v1/auth", limited)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)

	// Public read surface, cacheable.
	e.GET("/v1/search/photos", h.Public.SearchPhotos, cached)
	e.GET("/v1/users/:username", h.Users.Profile, cached)
	e.GET("/v1/users/:username/photos", h.Photos.ListByUser, cached)
	e.GET("/v1/photos/:id", h.Photos.Get, cached)
	e.GET("/v1/photos/:id/comments", h.Comments.ListForPhoto, cached)
	e.GET("/v1/photos/:id/rating", h.Ratings.Stats, cached)

	// Share links resolve outside /v1 so the short URL printed on QR codes
	// stays stable.
	e.GET("/public/:uuid", h.Public.ResolveShare)
	e.GET("/public/:uuid/qr", h.Public.ShareQRCode)

	v1 := e.Group("/v1", authed)
	v1.GET("/users/me", h.Users.Me)
	v1.PATCH("/users/me", h.Users.UpdateMe)

	v1.POST("/photos", h.Photos.Upload)
	v1.PATCH("/photos/:id", h.Photos.Update)
	v1.DELETE("/photos/:id", h.Photos.Delete)
	v1.PUT("/photos/:id/tags", h.Photos.SetTags)
	v1.POST("/photos/:id/comments", h.Comments.Create)
	v1.POST("/photos/:id/rating", h.Ratings.Rate)
	v1.POST("/photos/:id/share", h.Shares.Create)

	v1.PATCH("/comments/:id", h.Comments.Update)

	// Moderation endpoints: moderators and admins.
	mod := v1.Group("", middleware.RequireRole(model.RoleAdmin, model.RoleModerator))
	mod.DELETE("/comments/:id", h.Comments.Delete)
	mod.DELETE("/ratings/:id", h.Ratings.Delete)
	mod.DELETE("/admin/photos/:id", h.Admin.DeletePhoto)

	// Admin-only account management.
	admin := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.PATCH("/users/:id/ban", h.Admin.Ban)
	admin.PATCH("/users/:id/unban", h.Admin.Unban)
	admin.PATCH("/users/:id/role", h.Admin.SetRole)
}
