package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/service"
)

// CommentHandler serves comment CRUD under photos.
type CommentHandler struct {
	Comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{Comments: comments}
}

type commentReq struct {
	Body string `json:"body"`
}

type commentResp struct {
	ID        uint64 `json:"id"`
	PhotoID   uint64 `json:"photo_id"`
	UserID    uint64 `json:"user_id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// Create adds a comment to a photo.
func (h *CommentHandler) Create(c echo.Context) error {
	photoID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm, err := h.Comments.Create(ctx, photoID, currentUser(c), strings.TrimSpace(req.Body))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toCommentResp(cm))
}

// Update edits a comment. Author only.
func (h *CommentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm, err := h.Comments.Update(ctx, id, currentUser(c), strings.TrimSpace(req.Body))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toCommentResp(cm))
}

// Delete removes a comment. Moderator or admin only.
func (h *CommentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Comments.Delete(ctx, id, currentUser(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListForPhoto returns a page of a photo's comments, oldest first.
func (h *CommentHandler) ListForPhoto(c echo.Context) error {
	photoID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	limit, offset := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	comments, err := h.Comments.ListForPhoto(ctx, photoID, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]commentResp, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentResp(cm))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func toCommentResp(cm model.Comment) commentResp {
	return commentResp{
		ID:        cm.ID,
		PhotoID:   cm.PhotoID,
		UserID:    cm.UserID,
		Body:      cm.Body,
		CreatedAt: cm.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
