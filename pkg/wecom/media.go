package wecom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

type uploadResponse struct {
	envelope
	Type    string `json:"type"`
	MediaID string `json:"media_id"`
}

// UploadMedia uploads r as a temporary file attachment and returns its
// media_id, usable as a File control file_id.
func (c *Client) UploadMedia(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("media", filename)
	if err != nil {
		return "", fmt.Errorf("wecom: upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("wecom: upload: read %s: %w", filename, err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("wecom: upload: %w", err)
	}

	endpoint, err := c.endpoint(ctx, "/cgi-bin/media/upload", url.Values{"type": {"file"}})
	if err != nil {
		return "", err
	}
	var resp uploadResponse
	if err := c.dropStaleToken(c.do(ctx, "upload", http.MethodPost, endpoint, &buf, form.FormDataContentType(), &resp)); err != nil {
		return "", err
	}
	if resp.MediaID == "" {
		return "", fmt.Errorf("%w: upload returned no media_id", ErrEmptyResponse)
	}
	return resp.MediaID, nil
}
