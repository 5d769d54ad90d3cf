package supabase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/lojaviva/admin-api-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Storage — storefront images (logos, banners, product photos)
// ============================================================

// Upload puts an object into the configured bucket and returns its
// public URL.
func (c *Client) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	ctx, span := tracer.Start(ctx, "Supabase.StorageUpload")
	defer span.End()

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.storageBucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: storage upload failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", &domain.ErrExternalService{Service: "supabase/storage", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := readBody(resp)
		c.logger.Warn("supabase: storage upload non-2xx",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return "", &domain.ErrExternalService{
			Service: "supabase/storage",
			Err:     fmt.Errorf("upload returned %d: %s", resp.StatusCode, string(body)),
		}
	}

	c.logger.Debug("supabase: storage upload OK", zap.String("path", path))
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.storageBucket, path), nil
}

// Remove deletes an object from the configured bucket.
func (c *Client) Remove(ctx context.Context, path string) error {
	ctx, span := tracer.Start(ctx, "Supabase.StorageRemove")
	defer span.End()

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.storageBucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: storage remove failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return &domain.ErrExternalService{Service: "supabase/storage", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := readBody(resp)
		return &domain.ErrExternalService{
			Service: "supabase/storage",
			Err:     fmt.Errorf("remove returned %d: %s", resp.StatusCode, string(body)),
		}
	}

	c.logger.Debug("supabase: storage remove OK", zap.String("path", path))
	return nil
}
