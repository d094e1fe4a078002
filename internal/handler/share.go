package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/photo-share/internal/imagehost"
	"github.com/iliyamo/photo-share/internal/service"
)

// ShareHandler creates public share links for photo renditions.
type ShareHandler struct {
	Shares *service.ShareService
}

func NewShareHandler(shares *service.ShareService) *ShareHandler {
	return &ShareHandler{Shares: shares}
}

type shareReq struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Crop   string `json:"crop"`
	Effect string `json:"effect"`
	Format string `json:"format"`
}

// Create builds a transformed rendition of the photo and returns a public
// link for it.
func (h *ShareHandler) Create(c echo.Context) error {
	photoID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	var req shareReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Width < 0 || req.Height < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dimensions"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	link, err := h.Shares.Create(ctx, photoID, imagehost.Transformation{
		Width:  req.Width,
		Height: req.Height,
		Crop:   req.Crop,
		Effect: req.Effect,
		Format: req.Format,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, link)
}
