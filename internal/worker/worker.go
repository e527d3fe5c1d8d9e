package worker

import (
	"context"
	"log"

	"farmconnect/internal/broker"
	"farmconnect/internal/models"
	"farmconnect/internal/util"

	"go.uber.org/zap"
)

// CacheInvalidator drops cached read models when stock-affecting
// events arrive.
type CacheInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

// NotificationWorker consumes order events and emits notifications to
// the affected parties. Delivery here is a structured log line; the
// routing and cache upkeep are the part that matters.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	cache        CacheInvalidator
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker. cache may
// be nil.
func NewNotificationWorker(consumer *broker.Consumer, cache CacheInvalidator) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		cache:        cache,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	w.eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	w.eventHandler.OnProductDepleted(w.handleProductDepleted)

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	util.NotificationsTotal.WithLabelValues(models.EventTypeOrderPlaced).Inc()
	w.logger.Info("Notifying seller of new order",
		zap.String("order_id", event.OrderID),
		zap.String("consumer_id", event.ConsumerID),
		zap.Int("quantity", event.Quantity))
	w.invalidateCatalog(ctx)
	return nil
}

func (w *NotificationWorker) handleOrderStatusChanged(_ context.Context, event *models.OrderStatusChangedEvent) error {
	util.NotificationsTotal.WithLabelValues(models.EventTypeOrderStatusChanged).Inc()
	w.logger.Info("Notifying buyer of status change",
		zap.String("order_id", event.OrderID),
		zap.String("old_status", event.OldStatus),
		zap.String("new_status", event.NewStatus))
	return nil
}

func (w *NotificationWorker) handleProductDepleted(ctx context.Context, event *models.ProductDepletedEvent) error {
	util.NotificationsTotal.WithLabelValues(models.EventTypeProductDepleted).Inc()
	w.logger.Info("Notifying seller of depleted stock",
		zap.String("product_id", event.ProductID),
		zap.String("name", event.Name))
	w.invalidateCatalog(ctx)
	return nil
}

func (w *NotificationWorker) invalidateCatalog(ctx context.Context) {
	if w.cache == nil {
		return
	}
	if err := w.cache.InvalidateCatalog(ctx); err != nil {
		w.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
