package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"farmconnect/internal/apperr"
	"farmconnect/internal/models"
	"farmconnect/internal/util"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PaymentStore is the persistence surface payment-intent creation
// needs.
type PaymentStore interface {
	GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
}

// IntentCache caches pending payment intents per user.
type IntentCache interface {
	SetPaymentIntent(ctx context.Context, userID, payload string) error
	GetPaymentIntent(ctx context.Context, userID string) (string, error)
}

// PaymentIntent is the client-confirmable handle returned by the
// payment processor.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// PaymentProvider is the external payment processor boundary. The
// integration behind it is out of scope; this service is a
// passthrough.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (*PaymentIntent, error)
}

// SandboxProvider simulates a payment processor for development and
// tests.
type SandboxProvider struct{}

// CreateIntent returns a fresh simulated intent.
func (SandboxProvider) CreateIntent(_ context.Context, amountMinor int64, currency string) (*PaymentIntent, error) {
	id := fmt.Sprintf("pi_%s", uuid.New().String())
	return &PaymentIntent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%s", id, uuid.New().String()),
		Amount:       amountMinor,
		Currency:     currency,
	}, nil
}

// PaymentService creates payment intents for the current cart total.
type PaymentService struct {
	store    PaymentStore
	provider PaymentProvider
	intents  IntentCache
	currency string
	logger   *zap.Logger
}

// NewPaymentService creates a new payment service. intents may be nil.
func NewPaymentService(store PaymentStore, provider PaymentProvider, intents IntentCache, currency string) *PaymentService {
	return &PaymentService{
		store:    store,
		provider: provider,
		intents:  intents,
		currency: currency,
		logger:   util.GetLogger(),
	}
}

// CreatePaymentIntent totals the user's cart and obtains an intent
// from the provider. The amount covers the items only; the delivery
// charge is settled at checkout time.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, userID primitive.ObjectID) (*PaymentIntent, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreatePaymentIntent")
	defer span.End()

	cart, err := s.store.GetCartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
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

	var total float64
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		total += product.Price * float64(item.Quantity)
	}
	if total == 0 {
		return nil, apperr.New(apperr.KindEmptyCart, "cart is empty")
	}

	amountMinor := int64(math.Round(total * 100))
	intent, err := s.provider.CreateIntent(ctx, amountMinor, s.currency)
	if err != nil {
		return nil, fmt.Errorf("payment provider failed: %w", err)
	}

	if s.intents != nil {
		if payload, err := json.Marshal(intent); err == nil {
			if err := s.intents.SetPaymentIntent(ctx, userID.Hex(), string(payload)); err != nil {
				s.logger.Warn("Failed to cache payment intent", zap.Error(err))
			}
		}
	}

	util.PaymentIntentsTotal.Inc()
	s.logger.Info("Payment intent created",
		zap.String("user_id", userID.Hex()),
		zap.Int64("amount_minor", amountMinor))
	return intent, nil
}
