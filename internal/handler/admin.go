package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-share/internal/service"
)

// AdminHandler serves account moderation: ban, unban, role changes and
// administrative photo removal.
type AdminHandler struct {
	Users  *service.UserService
	Photos *service.PhotoService
	Log    *zap.Logger
}

func NewAdminHandler(users *service.UserService, photos *service.PhotoService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Users: users, Photos: photos, Log: log}
}

type setRoleReq struct {
	Role string `json:"role"`
}

// Ban deactivates an account. Outstanding tokens stop working because the
// auth middleware reloads the row on every request.
func (h *AdminHandler) Ban(c echo.Context) error {
	return h.setActive(c, false)
}

// Unban reactivates an account.
func (h *AdminHandler) Unban(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *AdminHandler) setActive(c echo.Context, active bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == currentUser(c).ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot change own account status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SetActive(ctx, id, active); err != nil {
		return fail(c, err)
	}
	h.Log.Info("account status changed",
		zap.Uint64("target_id", id),
		zap.Bool("active", active),
		zap.Uint64("admin_id", currentUser(c).ID),
	)
	return c.NoContent(http.StatusNoContent)
}

// SetRole assigns a role to an account.
func (h *AdminHandler) SetRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req setRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if id == currentUser(c).ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot change own role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SetRole(ctx, id, role); err != nil {
		return fail(c, err)
	}
	h.Log.Info("role changed",
		zap.Uint64("target_id", id),
		zap.String("role", role),
		zap.Uint64("admin_id", currentUser(c).ID),
	)
	return c.NoContent(http.StatusNoContent)
}

// DeletePhoto removes any photo regardless of ownership. The service lets
// admins through its ownership check.
func (h *AdminHandler) DeletePhoto(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Photos.Delete(ctx, id, currentUser(c)); err != nil {
		return fail(c, err)
	}
	h.Log.Info("photo removed by admin", zap.Uint64("photo_id", id), zap.Uint64("admin_id", currentUser(c).ID))
	return c.NoContent(http.StatusNoContent)
}
