package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/photo-share/internal/middleware"
	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/service"
)

// dbTimeout bounds each request's database work.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentUser returns the account loaded by the auth middleware. Handlers
// behind the guard can rely on it being present.
func currentUser(c echo.Context) model.User {
	if u := middleware.CurrentUser(c); u != nil {
		return *u
	}
	return model.User{}
}

func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// pageParams reads limit/offset query params with sane bounds.
func pageParams(c echo.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// fail translates service sentinels into HTTP responses. Anything unmapped
// is a 500 with a generic body.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, service.ErrUsernameTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	case errors.Is(err, service.ErrAlreadyRated):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already rated"})
	case errors.Is(err, service.ErrSelfRating):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot rate own photo"})
	case errors.Is(err, service.ErrRatingValue):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	case errors.Is(err, service.ErrTooManyTags):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many tags"})
	case errors.Is(err, service.ErrInvalidRole):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, service.ErrInactiveUser):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrInvalidTokenPayload):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
