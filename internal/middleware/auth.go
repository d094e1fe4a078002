package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/utils"
)

// UserKey is the echo context key under which Authenticate stores the
// freshly loaded *model.User.
const UserKey = "user"

// TokenDecoder validates a raw token string and returns its claims.
type TokenDecoder interface {
	Decode(token string) (utils.TokenClaims, error)
}

// RevocationChecker answers whether a token id has been blacklisted.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// UserLoader loads the current account state for an authenticated subject.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Authenticate returns the middleware guarding protected routes. It extracts
// the bearer token (falling back to the access_token cookie), decodes it,
// rejects revoked tokens, and loads the user row fresh so that bans and role
// changes take effect immediately. Every failure mode yields the same 401
// body so callers cannot probe which check failed.
func Authenticate(codec TokenDecoder, revoked RevocationChecker, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return unauthorized(c)
			}

			claims, err := codec.Decode(raw)
			if err != nil {
				return unauthorized(c)
			}
			if claims.JTI == "" || claims.Subject == "" {
				return unauthorized(c)
			}

			ctx := c.Request().Context()
			if rev, err := revoked.IsRevoked(ctx, claims.JTI); err != nil || rev {
				return unauthorized(c)
			}

			id, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil {
				return unauthorized(c)
			}
			user, err := users.GetByID(ctx, id)
			if err != nil || !user.IsActive {
				return unauthorized(c)
			}

			c.Set(UserKey, &user)
			c.Set("token_jti", claims.JTI)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Authenticate, or nil on public
// routes.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(UserKey).(*model.User)
	return u
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := c.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
