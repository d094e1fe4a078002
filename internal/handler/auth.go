package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-share/internal/service"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
	Log  *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
type authResp struct {
	User        userPart `json:"user"`
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
}

// Register creates an account and returns a token immediately. The very
// first account in an empty system is created as admin.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	token, user, err := h.Auth.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	h.Log.Info("user registered", zap.Uint64("user_id", user.ID), zap.String("role", user.Role))

	return c.JSON(http.StatusCreated, authResp{
		User:        userPart{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.Role},
		AccessToken: token.Token,
		TokenType:   "bearer",
	})
}

// Login verifies credentials and returns a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	token, user, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, authResp{
		User:        userPart{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.Role},
		AccessToken: token.Token,
		TokenType:   "bearer",
	})
}

// Logout blacklists the presented token so it stops working before its
// natural expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, raw); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
