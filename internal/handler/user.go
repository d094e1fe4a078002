package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/photo-share/internal/service"
)

// UserHandler serves own-profile and public profile endpoints.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

type updateMeReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type profileResp struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	PhotosCount int64  `json:"photos_count"`
	Email       string `json:"email,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// Me returns the caller's own profile including private fields.
func (h *UserHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Users.Me(ctx, currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ownProfile(p))
}

// UpdateMe changes the caller's username and/or email.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateMeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" && req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Users.UpdateMe(ctx, currentUser(c), req.Username, req.Email)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ownProfile(p))
}

// Profile returns another user's public profile. Email and account status
// stay private.
func (h *UserHandler) Profile(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Users.ProfileByUsername(ctx, username)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, profileResp{
		ID:          p.User.ID,
		Username:    p.User.Username,
		Role:        p.User.Role,
		PhotosCount: p.PhotosCount,
	})
}

func ownProfile(p service.Profile) profileResp {
	active := p.User.IsActive
	return profileResp{
		ID:          p.User.ID,
		Username:    p.User.Username,
		Role:        p.User.Role,
		PhotosCount: p.PhotosCount,
		Email:       p.User.Email,
		IsActive:    &active,
	}
}
