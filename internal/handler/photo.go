package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/service"
)

// maxUploadBytes caps the accepted image size.
const maxUploadBytes = 20 << 20

// PhotoHandler serves photo upload, read, update, delete and tagging.
type PhotoHandler struct {
	Photos *service.PhotoService
	Users  *service.UserService
	Log    *zap.Logger
}

func NewPhotoHandler(photos *service.PhotoService, users *service.UserService, log *zap.Logger) *PhotoHandler {
	return &PhotoHandler{Photos: photos, Users: users, Log: log}
}

type photoResp struct {
	ID          uint64   `json:"id"`
	UserID      uint64   `json:"user_id"`
	UniqueURL   string   `json:"unique_url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
}

type updatePhotoReq struct {
	Description string `json:"description"`
}
type setTagsReq struct {
	Tags []string `json:"tags"`
}

// Upload accepts a multipart form with the image under "file", an optional
// "description" field and a comma separated "tags" field.
func (h *PhotoHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable file"})
	}
	defer src.Close()

	description := c.FormValue("description")
	var tags []string
	if raw := strings.TrimSpace(c.FormValue("tags")); raw != "" {
		tags = strings.Split(raw, ",")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	photo, assigned, err := h.Photos.Upload(ctx, currentUser(c), fh.Filename, src, description, tags)
	if err != nil {
		return fail(c, err)
	}
	h.Log.Info("photo uploaded", zap.Uint64("photo_id", photo.ID), zap.Uint64("user_id", photo.UserID))
	return c.JSON(http.StatusCreated, toPhotoResp(photo, assigned))
}

// Get returns a photo with its tags.
func (h *PhotoHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	photo, tags, err := h.Photos.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPhotoResp(photo, tags))
}

// Update replaces the description. Owner or moderator/admin only.
func (h *PhotoHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	var req updatePhotoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	photo, err := h.Photos.UpdateDescription(ctx, id, req.Description, currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPhotoResp(photo, nil))
}

// Delete removes a photo, its metadata and the hosted image.
func (h *PhotoHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Photos.Delete(ctx, id, currentUser(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetTags replaces the photo's tag set.
func (h *PhotoHandler) SetTags(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	var req setTagsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tags, err := h.Photos.SetTags(ctx, id, currentUser(c), req.Tags)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tags": tagNames(tags)})
}

// ListByUser returns a page of one user's photos, addressed by username.
func (h *PhotoHandler) ListByUser(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
	}
	limit, offset := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	profile, err := h.Users.ProfileByUsername(ctx, username)
	if err != nil {
		return fail(c, err)
	}
	photos, err := h.Photos.ListByUser(ctx, profile.User.ID, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]photoResp, 0, len(photos))
	for _, p := range photos {
		out = append(out, toPhotoResp(p, nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func toPhotoResp(p model.Photo, tags []model.Tag) photoResp {
	return photoResp{
		ID:          p.ID,
		UserID:      p.UserID,
		UniqueURL:   p.UniqueURL,
		Description: p.Description,
		Tags:        tagNames(tags),
		CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func tagNames(tags []model.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}
