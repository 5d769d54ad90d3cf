package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
)

// ============================================================
// Notification store — notifications and delivery records
// ============================================================

func (c *Client) ListNotifications(ctx context.Context, storeID string) ([]domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListNotifications")
	defer span.End()

	path := fmt.Sprintf("notifications?store_id=eq.%s&order=created_at.desc", storeID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/notifications", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return []domain.Notification{}, nil
	}

	var rows []domain.Notification
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return rows, nil
}

func (c *Client) GetNotification(ctx context.Context, storeID, notificationID string) (*domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetNotification")
	defer span.End()

	path := fmt.Sprintf("notifications?store_id=eq.%s&id=eq.%s&limit=1", storeID, notificationID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/notifications", Err: err}
	}

	var rows []domain.Notification
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "notification", ID: notificationID}
	}
	return &rows[0], nil
}

func (c *Client) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateNotification")
	defer span.End()

	row := map[string]any{
		"id":               n.ID,
		"store_id":         n.StoreID,
		"title":            n.Title,
		"body":             n.Body,
		"target":           string(n.Target),
		"status":           string(n.Status),
		"recipients_count": n.RecipientsCount,
	}
	if n.ScheduledFor != nil {
		row["scheduled_for"] = n.ScheduledFor.Format(time.RFC3339)
	}

	body, err := c.doPost(ctx, "notifications", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/notifications", Err: err}
	}

	var rows []domain.Notification
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from notifications insert")
	}
	return &rows[0], nil
}

func (c *Client) UpdateNotification(ctx context.Context, notificationID string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateNotification")
	defer span.End()

	updates["updated_at"] = time.Now().Format(time.RFC3339)
	return c.doPatch(ctx, fmt.Sprintf("notifications?id=eq.%s", notificationID), updates)
}

// ListDueNotifications returns scheduled notifications whose fire time
// has passed.
func (c *Client) ListDueNotifications(ctx context.Context, now string) ([]domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListDueNotifications")
	defer span.End()

	path := fmt.Sprintf("notifications?status=eq.scheduled&scheduled_for=lte.%s&order=scheduled_for.asc", url.QueryEscape(now))
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/notifications", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return []domain.Notification{}, nil
	}

	var rows []domain.Notification
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return rows, nil
}

// ClaimNotification flips a notification from scheduled to sending.
// The status filter makes the PATCH conditional: when another worker
// or a cancel already moved it, PostgREST matches zero rows and the
// claim is reported lost.
func (c *Client) ClaimNotification(ctx context.Context, notificationID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ClaimNotification")
	defer span.End()

	path := fmt.Sprintf("notifications?id=eq.%s&status=eq.scheduled", notificationID)
	body, err := c.doPatchReturning(ctx, path, map[string]any{
		"status":     string(domain.NotificationSending),
		"updated_at": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return false, &domain.ErrExternalService{Service: "supabase/notifications", Err: err}
	}

	var rows []domain.Notification
	if err := json.Unmarshal(body, &rows); err != nil {
		return false, fmt.Errorf("decode claim result: %w", err)
	}
	return len(rows) > 0, nil
}

// CancelNotification flips a scheduled notification to cancelled with
// the same conditional guard as ClaimNotification, so a cancel racing
// the dispatch sweep can only win while the notification is still
// scheduled.
func (c *Client) CancelNotification(ctx context.Context, notificationID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CancelNotification")
	defer span.End()

	path := fmt.Sprintf("notifications?id=eq.%s&status=eq.scheduled", notificationID)
	body, err := c.doPatchReturning(ctx, path, map[string]any{
		"status":     string(domain.NotificationCancelled),
		"updated_at": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return false, &domain.ErrExternalService{Service: "supabase/notifications", Err: err}
	}

	var rows []domain.Notification
	if err := json.Unmarshal(body, &rows); err != nil {
		return false, fmt.Errorf("decode cancel result: %w", err)
	}
	return len(rows) > 0, nil
}

// ============================================================
// Delivery records
// ============================================================

func (c *Client) CreateRecipients(ctx context.Context, recipients []domain.NotificationRecipient) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateRecipients")
	defer span.End()

	if len(recipients) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(recipients))
	for _, r := range recipients {
		row := map[string]any{
			"id":              r.ID,
			"notification_id": r.NotificationID,
			"customer_id":     r.CustomerID,
			"delivered_at":    r.DeliveredAt.Format(time.RFC3339),
		}
		if r.DeviceToken != "" {
			row["device_token"] = r.DeviceToken
		}
		rows = append(rows, row)
	}

	if err := c.doPostRows(ctx, "notification_recipients", rows); err != nil {
		return &domain.ErrExternalService{Service: "supabase/notification_recipients", Err: err}
	}
	return nil
}

func (c *Client) ListRecipients(ctx context.Context, notificationID string) ([]domain.NotificationRecipient, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListRecipients")
	defer span.End()

	path := fmt.Sprintf("notification_recipients?notification_id=eq.%s&order=delivered_at.asc", notificationID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/notification_recipients", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return []domain.NotificationRecipient{}, nil
	}

	var rows []domain.NotificationRecipient
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode recipients: %w", err)
	}
	return rows, nil
}
