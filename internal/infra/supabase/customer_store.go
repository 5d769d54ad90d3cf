package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
)

// ============================================================
// Customer store — audience resolution and device tokens
// ============================================================

// ResolveAudience returns the customers matching a notification target.
func (c *Client) ResolveAudience(ctx context.Context, storeID string, target domain.NotificationTarget) ([]domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ResolveAudience")
	defer span.End()

	path := fmt.Sprintf("customers?store_id=eq.%s", storeID)
	switch target {
	case domain.TargetAll:
		// no extra filter
	case domain.TargetRecent:
		cutoff := time.Now().AddDate(0, 0, -30).Format(time.RFC3339)
		path += "&created_at=gte." + url.QueryEscape(cutoff)
	case domain.TargetActive:
		path += "&active=eq.true"
	default:
		return nil, &domain.ErrValidation{Field: "target", Message: fmt.Sprintf("unknown target %q", target)}
	}

	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/customers", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return []domain.Customer{}, nil
	}

	var rows []domain.Customer
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return rows, nil
}

func (c *Client) CountCustomers(ctx context.Context, storeID string) (int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CountCustomers")
	defer span.End()

	path := fmt.Sprintf("customers?store_id=eq.%s&select=id", storeID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "supabase/customers", Err: err}
	}
	if body == nil {
		return 0, nil
	}

	var ids []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &ids); err != nil {
		return 0, fmt.Errorf("decode customer ids: %w", err)
	}
	return len(ids), nil
}

// ListDeviceTokens returns push registrations for a set of customers.
func (c *Client) ListDeviceTokens(ctx context.Context, customerIDs []string) ([]domain.DeviceToken, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListDeviceTokens")
	defer span.End()

	if len(customerIDs) == 0 {
		return []domain.DeviceToken{}, nil
	}

	path := fmt.Sprintf("device_tokens?customer_id=in.(%s)", strings.Join(customerIDs, ","))
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/device_tokens", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return []domain.DeviceToken{}, nil
	}

	var rows []domain.DeviceToken
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode device_tokens: %w", err)
	}
	return rows, nil
}

// UpsertDeviceToken replaces any existing registration for the same
// customer and token value.
func (c *Client) UpsertDeviceToken(ctx context.Context, token *domain.DeviceToken) (*domain.DeviceToken, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertDeviceToken")
	defer span.End()

	existing := fmt.Sprintf("device_tokens?customer_id=eq.%s&token=eq.%s", token.CustomerID, url.QueryEscape(token.Token))
	body, err := c.doPatchReturning(ctx, existing, map[string]any{
		"platform":   token.Platform,
		"updated_at": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/device_tokens", Err: err}
	}

	var rows []domain.DeviceToken
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode device_token: %w", err)
	}
	if len(rows) > 0 {
		return &rows[0], nil
	}

	row := map[string]any{
		"id":          token.ID,
		"customer_id": token.CustomerID,
		"token":       token.Token,
		"platform":    token.Platform,
	}
	body, err = c.doPost(ctx, "device_tokens", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/device_tokens", Err: err}
	}

	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode device_token: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from device_tokens insert")
	}
	return &rows[0], nil
}
