package service

import (
	"context"
	"time"

	"farmconnect/internal/apperr"
	"farmconnect/internal/models"
	"farmconnect/internal/util"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CheckoutStore is the persistence surface the checkout needs.
type CheckoutStore interface {
	GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	SaveCartItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error
	GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	DecrementProductStock(ctx context.Context, id primitive.ObjectID, quantity int) (*models.Product, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateUserProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error)
}

// OrderEventPublisher publishes order domain events.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishProductDepleted(ctx context.Context, event *models.ProductDepletedEvent) error
}

// IntentStore invalidates cached payment intents once a cart converts.
type IntentStore interface {
	DeletePaymentIntent(ctx context.Context, userID string) error
}

// CheckoutService converts a cart into one order per line item,
// decrementing stock and snapshotting shipping details.
//
// The per-line loop is deliberately best-effort: a mid-loop
// insufficient-stock failure leaves earlier lines' stock decrements
// and created orders in place and does not clear the cart. Each
// individual decrement is guarded so stock never goes negative.
type CheckoutService struct {
	store          CheckoutStore
	publisher      OrderEventPublisher
	intents        IntentStore
	deliveryCharge float64
	logger         *zap.Logger
}

// NewCheckoutService creates a new checkout service. intents may be
// nil when no payment-intent cache is wired.
func NewCheckoutService(store CheckoutStore, publisher OrderEventPublisher, intents IntentStore, deliveryCharge float64) *CheckoutService {
	return &CheckoutService{
		store:          store,
		publisher:      publisher,
		intents:        intents,
		deliveryCharge: deliveryCharge,
		logger:         util.GetLogger(),
	}
}

// CheckoutResult summarizes a successful checkout. The grand total
// (items plus delivery charge) is returned to the caller but persisted
// nowhere; each order carries only its own line total.
type CheckoutResult struct {
	OrdersCount    int     `json:"ordersCount"`
	ItemsTotal     float64 `json:"itemsTotal"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	GrandTotal     float64 `json:"grandTotal"`
}

// Checkout runs the full checkout sequence for the user's cart.
func (s *CheckoutService) Checkout(ctx context.Context, userID primitive.ObjectID, shipping models.ShippingAddress) (*CheckoutResult, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	if shipping.Address == "" || shipping.City == "" || shipping.Phone == "" {
		util.CheckoutsFailedTotal.WithLabelValues("invalid_shipping").Inc()
		return nil, apperr.New(apperr.KindValidation, "shipping address, city and phone are required")
	}

	// Profile enrichment: persist the shipping contact details back
	// onto the buyer's account.
	if _, err := s.store.UpdateUserProfile(ctx, userID, models.ProfileUpdate{
		Phone:   shipping.Phone,
		Address: shipping.Address,
		City:    shipping.City,
	}); err != nil {
		return nil, err
	}

	cart, err := s.store.GetCartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, apperr.New(apperr.KindEmptyCart, "cart is empty")
	}

	ids := make([]primitive.ObjectID, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.ProductID
	}
	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Lines whose product was deleted since they were added are
	// skipped rather than failing the whole checkout.
	lines := make([]models.CartItem, 0, len(cart.Items))
	var itemsTotal float64
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, item)
		itemsTotal += product.Price * float64(item.Quantity)
	}
	if len(lines) == 0 {
		util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, apperr.New(apperr.KindEmptyCart, "cart is empty")
	}

	grandTotal := itemsTotal + s.deliveryCharge

	// Lines are processed strictly in cart order so an
	// insufficient-stock failure is deterministic: everything before
	// the offending line has already been committed.
	ordersCreated := 0
	for _, line := range lines {
		product := products[line.ProductID]

		updated, err := s.store.DecrementProductStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			if apperr.IsKind(err, apperr.KindInsufficientStock) {
				util.CheckoutsFailedTotal.WithLabelValues("insufficient_stock").Inc()
				return nil, apperr.Newf(apperr.KindInsufficientStock, "not enough stock for %s", product.Name)
			}
			return nil, err
		}

		order := &models.Order{
			UserID:          userID,
			ConsumerID:      product.ConsumerID,
			ProductID:       product.ID,
			Quantity:        line.Quantity,
			TotalPrice:      product.Price * float64(line.Quantity),
			Status:          models.OrderStatusPending,
			ShippingAddress: shipping,
		}
		if err := s.store.CreateOrder(ctx, order); err != nil {
			return nil, err
		}
		ordersCreated++
		util.OrdersPlacedTotal.Inc()

		s.publishOrderPlaced(ctx, order)
		if updated.Quantity == 0 {
			util.StockDepletedTotal.Inc()
			s.publishProductDepleted(ctx, updated)
		}
	}

	if err := s.store.SaveCartItems(ctx, cart.ID, nil); err != nil {
		return nil, err
	}

	if s.intents != nil {
		if err := s.intents.DeletePaymentIntent(ctx, userID.Hex()); err != nil {
			s.logger.Warn("Failed to drop cached payment intent", zap.Error(err))
		}
	}

	util.CheckoutsTotal.Inc()
	s.logger.Info("Checkout completed",
		zap.String("user_id", userID.Hex()),
		zap.Int("orders", ordersCreated),
		zap.Float64("items_total", itemsTotal))

	return &CheckoutResult{
		OrdersCount:    ordersCreated,
		ItemsTotal:     itemsTotal,
		DeliveryCharge: s.deliveryCharge,
		GrandTotal:     grandTotal,
	}, nil
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:    order.ID.Hex(),
		UserID:     order.UserID.Hex(),
		ConsumerID: order.ConsumerID.Hex(),
		ProductID:  order.ProductID.Hex(),
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

func (s *CheckoutService) publishProductDepleted(ctx context.Context, product *models.Product) {
	if s.publisher == nil {
		return
	}
	event := &models.ProductDepletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProductDepleted,
			Timestamp: time.Now(),
		},
		ProductID:  product.ID.Hex(),
		ConsumerID: product.ConsumerID.Hex(),
		Name:       product.Name,
	}
	if err := s.publisher.PublishProductDepleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish ProductDepleted event", zap.Error(err))
	}
}
