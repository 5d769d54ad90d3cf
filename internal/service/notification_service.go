package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/infra/observability"
	"github.com/lojaviva/admin-api-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var notifTracer = otel.Tracer("service/notification")

// NotificationService creates, schedules and cancels push
// notifications, and registers customer devices.
type NotificationService struct {
	store     port.NotificationStore
	customers port.CustomerStore
	push      port.PushSender
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(store port.NotificationStore, customers port.CustomerStore, push port.PushSender, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	return &NotificationService{store: store, customers: customers, push: push, metrics: metrics, logger: logger}
}

func (s *NotificationService) ListNotifications(ctx context.Context, storeID string) ([]domain.Notification, error) {
	ctx, span := notifTracer.Start(ctx, "NotificationService.ListNotifications")
	defer span.End()

	return s.store.ListNotifications(ctx, storeID)
}

func (s *NotificationService) GetNotification(ctx context.Context, storeID, notificationID string) (*domain.Notification, error) {
	ctx, span := notifTracer.Start(ctx, "NotificationService.GetNotification")
	defer span.End()

	return s.store.GetNotification(ctx, storeID, notificationID)
}

// Send creates a notification. With a future scheduled_for it is
// persisted as scheduled and left for the dispatch sweep; otherwise
// it is dispatched immediately. An immediate send to an empty
// audience is rejected so the operator sees the problem right away.
func (s *NotificationService) Send(ctx context.Context, storeID string, req *domain.SendNotificationRequest) (*domain.Notification, error) {
	ctx, span := notifTracer.Start(ctx, "NotificationService.Send")
	defer span.End()

	if req.Title == "" {
		return nil, &domain.ErrValidation{Field: "title", Message: "required"}
	}
	if req.Body == "" {
		return nil, &domain.ErrValidation{Field: "body", Message: "required"}
	}
	switch req.Target {
	case domain.TargetAll, domain.TargetRecent, domain.TargetActive:
	default:
		return nil, &domain.ErrValidation{Field: "target", Message: "must be all, recent or active"}
	}

	if req.ScheduledFor != "" {
		fireAt, err := time.Parse(time.RFC3339, req.ScheduledFor)
		if err != nil {
			return nil, &domain.ErrValidation{Field: "scheduled_for", Message: "invalid format, use RFC 3339"}
		}
		if fireAt.Before(time.Now()) {
			return nil, &domain.ErrValidation{Field: "scheduled_for", Message: "must be in the future"}
		}

		n := &domain.Notification{
			ID:           uuid.NewString(),
			StoreID:      storeID,
			Title:        req.Title,
			Body:         req.Body,
			Target:       req.Target,
			Status:       domain.NotificationScheduled,
			ScheduledFor: &fireAt,
		}
		created, err := s.store.CreateNotification(ctx, n)
		if err != nil {
			s.logger.Error("failed to schedule notification", zap.String("store_id", storeID), zap.Error(err))
			return nil, err
		}

		s.logger.Info("notification scheduled",
			zap.String("store_id", storeID),
			zap.String("notification_id", created.ID),
			zap.Time("scheduled_for", fireAt),
		)
		return created, nil
	}

	audience, err := s.customers.ResolveAudience(ctx, storeID, req.Target)
	if err != nil {
		return nil, err
	}
	if len(audience) == 0 {
		return nil, &domain.ErrValidation{Field: "target", Message: "no customers match the selected audience"}
	}

	n := &domain.Notification{
		ID:      uuid.NewString(),
		StoreID: storeID,
		Title:   req.Title,
		Body:    req.Body,
		Target:  req.Target,
		Status:  domain.NotificationSending,
	}
	created, err := s.store.CreateNotification(ctx, n)
	if err != nil {
		return nil, err
	}

	if err := s.deliver(ctx, created, audience); err != nil {
		return nil, err
	}
	return s.store.GetNotification(ctx, storeID, created.ID)
}

// Cancel moves a scheduled notification to cancelled. The transition
// is conditional on the scheduled state, so a notification the sweep
// already claimed cannot be cancelled.
func (s *NotificationService) Cancel(ctx context.Context, storeID, notificationID string) error {
	ctx, span := notifTracer.Start(ctx, "NotificationService.Cancel")
	defer span.End()

	n, err := s.store.GetNotification(ctx, storeID, notificationID)
	if err != nil {
		return err
	}
	if n.Status != domain.NotificationScheduled {
		return &domain.ErrConflict{Message: fmt.Sprintf("cannot cancel notification with status '%s'", n.Status)}
	}

	won, err := s.store.CancelNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if !won {
		return &domain.ErrConflict{Message: "notification was dispatched before it could be cancelled"}
	}

	s.logger.Info("notification cancelled",
		zap.String("store_id", storeID),
		zap.String("notification_id", notificationID),
	)
	return nil
}

// ListRecipients returns the delivery records of a sent notification.
func (s *NotificationService) ListRecipients(ctx context.Context, storeID, notificationID string) ([]domain.NotificationRecipient, error) {
	ctx, span := notifTracer.Start(ctx, "NotificationService.ListRecipients")
	defer span.End()

	if _, err := s.store.GetNotification(ctx, storeID, notificationID); err != nil {
		return nil, err
	}
	return s.store.ListRecipients(ctx, notificationID)
}

// deliver fans a notification out to the audience, records one
// delivery per recipient and finalizes the notification as sent with
// the audience size measured at dispatch time.
func (s *NotificationService) deliver(ctx context.Context, n *domain.Notification, audience []domain.Customer) error {
	customerIDs := make([]string, 0, len(audience))
	for _, c := range audience {
		customerIDs = append(customerIDs, c.ID)
	}

	tokens, err := s.customers.ListDeviceTokens(ctx, customerIDs)
	if err != nil {
		return err
	}

	tokensByCustomer := make(map[string]string, len(tokens))
	tokenValues := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokensByCustomer[t.CustomerID] = t.Token
		tokenValues = append(tokenValues, t.Token)
	}

	if s.push != nil && len(tokenValues) > 0 {
		if err := s.push.Send(ctx, tokenValues, n.Title, n.Body); err != nil {
			s.metrics.IncrDispatch("failed")
			s.logger.Error("push delivery failed",
				zap.String("notification_id", n.ID),
				zap.Error(err),
			)
			_ = s.store.UpdateNotification(ctx, n.ID, map[string]any{
				"status": string(domain.NotificationFailed),
			})
			return err
		}
	}

	now := time.Now()
	recipients := make([]domain.NotificationRecipient, 0, len(audience))
	for _, c := range audience {
		recipients = append(recipients, domain.NotificationRecipient{
			ID:             uuid.NewString(),
			NotificationID: n.ID,
			CustomerID:     c.ID,
			DeviceToken:    tokensByCustomer[c.ID],
			DeliveredAt:    now,
		})
	}
	if err := s.store.CreateRecipients(ctx, recipients); err != nil {
		return err
	}

	if err := s.store.UpdateNotification(ctx, n.ID, map[string]any{
		"status":           string(domain.NotificationSent),
		"sent_at":          now.Format(time.RFC3339),
		"recipients_count": len(audience),
	}); err != nil {
		return err
	}

	s.metrics.IncrDispatch("sent")
	s.logger.Info("notification dispatched",
		zap.String("notification_id", n.ID),
		zap.Int("recipients", len(audience)),
	)
	return nil
}

// ============================================================
// Device registration
// ============================================================

func (s *NotificationService) RegisterDevice(ctx context.Context, req *domain.RegisterDeviceRequest) (*domain.DeviceToken, error) {
	ctx, span := notifTracer.Start(ctx, "NotificationService.RegisterDevice")
	defer span.End()

	if req.CustomerID == "" {
		return nil, &domain.ErrValidation{Field: "customer_id", Message: "required"}
	}
	if req.Token == "" {
		return nil, &domain.ErrValidation{Field: "token", Message: "required"}
	}
	switch req.Platform {
	case "web", "android", "ios":
	default:
		return nil, &domain.ErrValidation{Field: "platform", Message: "must be web, android or ios"}
	}

	token := &domain.DeviceToken{
		ID:         uuid.NewString(),
		CustomerID: req.CustomerID,
		Token:      req.Token,
		Platform:   req.Platform,
	}
	return s.customers.UpsertDeviceToken(ctx, token)
}
