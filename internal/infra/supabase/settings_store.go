package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
)

// ============================================================
// Settings store
// ============================================================

func (c *Client) GetSettings(ctx context.Context, storeID string) (*domain.StoreSettings, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetSettings")
	defer span.End()

	path := fmt.Sprintf("store_settings?store_id=eq.%s&limit=1", storeID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/store_settings", Err: err}
	}

	var rows []domain.StoreSettings
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode store_settings: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "store_settings", ID: storeID}
	}
	return &rows[0], nil
}

func (c *Client) UpdateSettings(ctx context.Context, storeID string, updates map[string]any) (*domain.StoreSettings, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateSettings")
	defer span.End()

	updates["updated_at"] = time.Now().Format(time.RFC3339)
	path := fmt.Sprintf("store_settings?store_id=eq.%s", storeID)
	body, err := c.doPatchReturning(ctx, path, updates)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/store_settings", Err: err}
	}

	var rows []domain.StoreSettings
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode store_settings: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "store_settings", ID: storeID}
	}
	return &rows[0], nil
}
