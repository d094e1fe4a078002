// Package imagehost is a thin HTTP client for the external image host that
// stores the actual photo binaries. The backend only keeps the host's public
// id per photo; uploads, deletes and derived renditions are delegated here.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/photo-share/internal/config"
)

// Asset identifies one stored image at the host.
type Asset struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Transformation describes a derived rendition. Zero-valued fields are
// omitted from the generated URL.
type Transformation struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Crop   string `json:"crop,omitempty"`   // e.g. "fill", "fit"
	Effect string `json:"effect,omitempty"` // e.g. "grayscale", "sepia"
	Format string `json:"format,omitempty"` // e.g. "png", "webp"
}

// Client talks to the image host's upload API.
type Client struct {
	cfg  config.ImageHostConfig
	http *http.Client
}

func New(cfg config.ImageHostConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload sends the image bytes as a multipart form and returns the stored
// asset's id and URL.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (Asset, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return Asset{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return Asset{}, err
	}
	_ = w.WriteField("api_key", c.cfg.APIKey)
	if err := w.Close(); err != nil {
		return Asset{}, err
	}

	url := fmt.Sprintf("%s/%s/image/upload", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Space)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return Asset{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return Asset{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Asset{}, fmt.Errorf("image host upload: status %d: %s", resp.StatusCode, body)
	}

	var a Asset
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return Asset{}, fmt.Errorf("image host upload: decode response: %w", err)
	}
	if a.PublicID == "" {
		return Asset{}, fmt.Errorf("image host upload: empty public_id in response")
	}
	return a, nil
}

// Delete removes an asset. Used for best-effort cleanup when a photo row
// cannot be written or is removed.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	url := fmt.Sprintf("%s/%s/image/destroy", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Space)
	payload, _ := json.Marshal(map[string]string{"public_id": publicID})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("image host destroy: status %d", resp.StatusCode)
	}
	return nil
}

// TransformedURL builds the delivery URL of a derived rendition. The host
// applies transformations encoded in the path; no API call is needed.
func (c *Client) TransformedURL(publicID string, t Transformation) string {
	parts := []string{}
	if t.Width > 0 {
		parts = append(parts, fmt.Sprintf("w_%d", t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, fmt.Sprintf("h_%d", t.Height))
	}
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Effect != "" {
		parts = append(parts, "e_"+t.Effect)
	}

	segment := ""
	if len(parts) > 0 {
		segment = strings.Join(parts, ",") + "/"
	}
	name := publicID
	if t.Format != "" {
		name += "." + t.Format
	}
	return fmt.Sprintf("%s/%s/image/upload/%s%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Space, segment, name)
}
