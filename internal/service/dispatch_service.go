package service

import (
	"context"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/infra/observability"
	"github.com/lojaviva/admin-api-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var dispatchTracer = otel.Tracer("service/dispatch")

// Dispatcher runs the periodic sweep that fires scheduled
// notifications whose time has come.
type Dispatcher struct {
	store     port.NotificationStore
	customers port.CustomerStore
	notifs    *NotificationService
	metrics   *observability.Metrics
	logger    *zap.Logger
	interval  time.Duration
}

// NewDispatcher creates a new dispatch worker.
func NewDispatcher(store port.NotificationStore, customers port.CustomerStore, notifs *NotificationService, metrics *observability.Metrics, logger *zap.Logger, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		store:     store,
		customers: customers,
		notifs:    notifs,
		metrics:   metrics,
		logger:    logger,
		interval:  interval,
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("notification dispatcher started", zap.Duration("interval", d.interval))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := d.Sweep(ctx); err != nil {
				d.logger.Error("dispatch sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep fires every due scheduled notification once. Each candidate
// is first claimed with a conditional status transition; losing the
// claim means another sweep or an operator cancel got there first,
// and the notification is skipped without error.
func (d *Dispatcher) Sweep(ctx context.Context) error {
	ctx, span := dispatchTracer.Start(ctx, "Dispatcher.Sweep")
	defer span.End()

	start := time.Now()
	due, err := d.store.ListDueNotifications(ctx, start.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	d.logger.Info("dispatch sweep", zap.Int("due", len(due)))

	for i := range due {
		if err := d.dispatchOne(ctx, &due[i]); err != nil {
			d.logger.Error("failed to dispatch notification",
				zap.String("notification_id", due[i].ID),
				zap.Error(err),
			)
		}
	}

	d.metrics.RecordRequestDuration("dispatch_sweep", time.Since(start))
	return nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, n *domain.Notification) error {
	ctx, span := dispatchTracer.Start(ctx, "Dispatcher.dispatchOne")
	defer span.End()

	won, err := d.store.ClaimNotification(ctx, n.ID)
	if err != nil {
		return err
	}
	if !won {
		d.metrics.IncrDispatch("skipped")
		d.logger.Debug("notification already claimed, skipping",
			zap.String("notification_id", n.ID),
		)
		return nil
	}

	// Audience is resolved at dispatch time, not at scheduling time.
	// A zero-recipient audience still completes as sent.
	audience, err := d.customers.ResolveAudience(ctx, n.StoreID, n.Target)
	if err != nil {
		d.metrics.IncrDispatch("failed")
		_ = d.store.UpdateNotification(ctx, n.ID, map[string]any{
			"status": string(domain.NotificationFailed),
		})
		return err
	}

	return d.notifs.deliver(ctx, n, audience)
}
