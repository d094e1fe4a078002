package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/photo-share/internal/repository"
	"github.com/iliyamo/photo-share/internal/service"
)

// PublicHandler serves the unauthenticated surface: photo search, share link
// resolution and QR codes.
type PublicHandler struct {
	Photos *service.PhotoService
	Shares *service.ShareService
}

func NewPublicHandler(photos *service.PhotoService, shares *service.ShareService) *PublicHandler {
	return &PublicHandler{Photos: photos, Shares: shares}
}

// SearchPhotos runs the public photo search. Supported query params: q, tag,
// min_rating, from, to (RFC 3339 dates), sort (newest|oldest|rating), page,
// page_size.
func (h *PublicHandler) SearchPhotos(c echo.Context) error {
	q := repository.PhotoSearchQuery{
		Q:        strings.TrimSpace(c.QueryParam("q")),
		Tag:      strings.ToLower(strings.TrimSpace(c.QueryParam("tag"))),
		Sort:     c.QueryParam("sort"),
		Page:     1,
		PageSize: 20,
	}
	if v, err := strconv.ParseFloat(c.QueryParam("min_rating"), 64); err == nil && v > 0 {
		q.MinRating = v
	}
	if t, err := time.Parse(time.RFC3339, c.QueryParam("from")); err == nil {
		q.From = t
	}
	if t, err := time.Parse(time.RFC3339, c.QueryParam("to")); err == nil {
		q.To = t
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 && v <= 100 {
		q.PageSize = v
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, total, err := h.Photos.Search(ctx, q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":     rows,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
	})
}

// ResolveShare redirects a public link UUID to the rendition it points at.
func (h *PublicHandler) ResolveShare(c echo.Context) error {
	id := strings.TrimSpace(c.Param("uuid"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "uuid required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	share, err := h.Shares.Resolve(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.Redirect(http.StatusFound, share.ImageURL)
}

// ShareQRCode renders the public link as a QR code PNG.
func (h *PublicHandler) ShareQRCode(c echo.Context) error {
	id := strings.TrimSpace(c.Param("uuid"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "uuid required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	png, err := h.Shares.QRCode(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
