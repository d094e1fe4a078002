package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/photo-share/internal/service"
)

// RatingHandler serves rating submission, stats and moderation.
type RatingHandler struct {
	Ratings *service.RatingService
}

func NewRatingHandler(ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{Ratings: ratings}
}

type rateReq struct {
	Value int `json:"value"`
}

// Rate records the caller's rating for a photo.
func (h *RatingHandler) Rate(c echo.Context) error {
	photoID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rt, err := h.Ratings.Rate(ctx, photoID, currentUser(c), req.Value)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":       rt.ID,
		"photo_id": rt.PhotoID,
		"value":    rt.Value,
	})
}

// Stats returns the photo's average rating and vote count.
func (h *RatingHandler) Stats(c echo.Context) error {
	photoID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	stats, err := h.Ratings.Stats(ctx, photoID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Delete removes a rating. Moderator or admin only.
func (h *RatingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rating id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Ratings.Delete(ctx, id, currentUser(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
