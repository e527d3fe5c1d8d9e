package service

import (
	"context"
	"strings"
	"time"

	"farmconnect/internal/apperr"
	"farmconnect/internal/models"
	"farmconnect/internal/util"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OrderStore is the persistence surface the order lifecycle needs.
type OrderStore interface {
	refResolver
	GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, visibleOnly bool) ([]models.Order, error)
	ListOrdersByConsumer(ctx context.Context, consumerID primitive.ObjectID, visibleOnly bool) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	HideOrderForUser(ctx context.Context, orderID, userID primitive.ObjectID) error
	HideOrderForConsumer(ctx context.Context, orderID, consumerID primitive.ObjectID) error
	HideOrdersByStatus(ctx context.Context, ownerField string, ownerID primitive.ObjectID, statuses []string) (int64, error)
}

// refResolver batch-loads the soft references embedded in orders.
type refResolver interface {
	GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	GetConsumersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Consumer, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

// OrderService handles status transitions and per-role visibility.
// Status overwrites are unconstrained: any status may replace any
// other when set by an authorized actor.
type OrderService struct {
	store     OrderStore
	publisher OrderEventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order lifecycle service
func NewOrderService(store OrderStore, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// NormalizeStatus upper-cases and validates a status value. The legacy
// CANCEL spelling maps to CANCELLED.
func NormalizeStatus(status string) (string, error) {
	switch strings.ToUpper(status) {
	case models.OrderStatusPending:
		return models.OrderStatusPending, nil
	case models.OrderStatusProcess:
		return models.OrderStatusProcess, nil
	case models.OrderStatusDelivered:
		return models.OrderStatusDelivered, nil
	case models.OrderStatusCancelled, "CANCEL":
		return models.OrderStatusCancelled, nil
	default:
		return "", apperr.Newf(apperr.KindValidation, "invalid order status: %s", status)
	}
}

// MyOrders returns the buyer's visible orders with references resolved.
func (s *OrderService) MyOrders(ctx context.Context, userID primitive.ObjectID) ([]models.OrderView, error) {
	orders, err := s.store.ListOrdersByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return buildOrderViews(ctx, s.store, orders, viewOpts{consumer: true})
}

// ConsumerOrders returns the seller's visible orders with the buyer
// resolved.
func (s *OrderService) ConsumerOrders(ctx context.Context, consumerID primitive.ObjectID) ([]models.OrderView, error) {
	orders, err := s.store.ListOrdersByConsumer(ctx, consumerID, true)
	if err != nil {
		return nil, err
	}
	return buildOrderViews(ctx, s.store, orders, viewOpts{buyer: true})
}

// UpdateStatus overwrites an order's status and publishes the change.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, newStatus, actorRole string) (*models.Order, error) {
	normalized, err := NormalizeStatus(newStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order, err := s.store.UpdateOrderStatus(ctx, orderID, normalized)
	if err != nil {
		return nil, err
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(normalized).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.Hex()),
		zap.String("old_status", current.Status),
		zap.String("new_status", normalized),
		zap.String("actor_role", actorRole))

	if s.publisher != nil {
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID:   orderID.Hex(),
			OldStatus: current.Status,
			NewStatus: normalized,
			ActorRole: actorRole,
		}
		if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	return order, nil
}

// HideOrderForUser hides one order from the buyer's history. Seller
// visibility is untouched.
func (s *OrderService) HideOrderForUser(ctx context.Context, orderID, userID primitive.ObjectID) error {
	return s.store.HideOrderForUser(ctx, orderID, userID)
}

// HideOrderForConsumer hides one order from the seller's history.
// Buyer visibility is untouched.
func (s *OrderService) HideOrderForConsumer(ctx context.Context, orderID, consumerID primitive.ObjectID) error {
	return s.store.HideOrderForConsumer(ctx, orderID, consumerID)
}

// ClearHistoryForUser hides the buyer's terminal-status orders in
// bulk. An optional status filter narrows the sweep to one terminal
// status; anything else falls back to the full terminal set.
func (s *OrderService) ClearHistoryForUser(ctx context.Context, userID primitive.ObjectID, statusFilter string) (int64, error) {
	return s.store.HideOrdersByStatus(ctx, "userId", userID, historyStatuses(statusFilter))
}

// ClearHistoryForConsumer hides the seller's terminal-status orders in
// bulk.
func (s *OrderService) ClearHistoryForConsumer(ctx context.Context, consumerID primitive.ObjectID, statusFilter string) (int64, error) {
	return s.store.HideOrdersByStatus(ctx, "consumerId", consumerID, historyStatuses(statusFilter))
}

func historyStatuses(filter string) []string {
	if normalized, err := NormalizeStatus(filter); err == nil {
		for _, terminal := range models.TerminalStatuses {
			if normalized == terminal {
				return []string{normalized}
			}
		}
	}
	return models.TerminalStatuses
}

type viewOpts struct {
	buyer    bool
	consumer bool
}

// buildOrderViews resolves product/consumer/buyer references in batch.
// Dangling references resolve to nil summaries rather than failing.
func buildOrderViews(ctx context.Context, resolver refResolver, orders []models.Order, opts viewOpts) ([]models.OrderView, error) {
	productIDs := make([]primitive.ObjectID, 0, len(orders))
	consumerIDs := make([]primitive.ObjectID, 0, len(orders))
	userIDs := make([]primitive.ObjectID, 0, len(orders))
	for _, order := range orders {
		productIDs = append(productIDs, order.ProductID)
		if opts.consumer {
			consumerIDs = append(consumerIDs, order.ConsumerID)
		}
		if opts.buyer {
			userIDs = append(userIDs, order.UserID)
		}
	}

	products, err := resolver.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	consumers, err := resolver.GetConsumersByIDs(ctx, consumerIDs)
	if err != nil {
		return nil, err
	}
	users, err := resolver.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, order := range orders {
		view := models.OrderView{Order: order}
		if product, ok := products[order.ProductID]; ok {
			view.Product = &models.ProductSummary{
				ID:    product.ID,
				Name:  product.Name,
				Price: product.Price,
				Image: product.Image,
			}
		}
		if opts.consumer {
			if consumer, ok := consumers[order.ConsumerID]; ok {
				view.Consumer = &models.ConsumerSummary{
					ID:    consumer.ID,
					Name:  consumer.Name,
					City:  consumer.City,
					Phone: consumer.Phone,
				}
			}
		}
		if opts.buyer {
			if user, ok := users[order.UserID]; ok {
				view.Buyer = &models.UserSummary{
					ID:    user.ID,
					Name:  user.Name,
					Email: user.Email,
					Phone: user.Phone,
					City:  user.City,
				}
			}
		}
		views = append(views, view)
	}
	return views, nil
}
