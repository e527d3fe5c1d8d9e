package service

import (
	"context"

	"farmconnect/internal/apperr"
	"farmconnect/internal/models"
	"farmconnect/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CartStore is the persistence surface the cart service needs.
type CartStore interface {
	GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	CreateCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	SaveCartItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error
	GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
}

// CartService maintains one cart per user. Quantities are expressed as
// deltas, so a single AddItem operation covers add, increment and
// decrement (the +/- controls in the cart UI).
type CartService struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store CartStore) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// GetCart returns the user's cart, creating an empty one on first
// access. Lines whose product no longer exists are pruned and the
// pruned cart is persisted.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.GetCart")
	defer span.End()

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveView(ctx, cart)
}

// AddItem applies a quantity delta for a product. An existing line
// reaching zero or below is removed; a line exceeding stock is
// rejected with no change; a positive delta for an absent product
// inserts a new line.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, delta int) (*models.CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		util.CartAddsRejectedTotal.WithLabelValues("product_not_found").Inc()
		return nil, err
	}

	if delta > product.Quantity {
		util.CartAddsRejectedTotal.WithLabelValues("insufficient_stock").Inc()
		return nil, apperr.New(apperr.KindInsufficientStock, "not enough stock available")
	}

	idx := -1
	for i, item := range cart.Items {
		if item.ProductID == productID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		newQty := cart.Items[idx].Quantity + delta
		switch {
		case newQty <= 0:
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		case newQty > product.Quantity:
			util.CartAddsRejectedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, apperr.New(apperr.KindInsufficientStock, "not enough stock available")
		default:
			cart.Items[idx].Quantity = newQty
		}
	} else if delta > 0 {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: delta})
	}
	// A non-positive delta for an absent product is a no-op.

	if err := s.store.SaveCartItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, err
	}

	util.CartAddsTotal.Inc()
	s.logger.Debug("Cart updated",
		zap.String("user_id", userID.Hex()),
		zap.String("product_id", productID.Hex()),
		zap.Int("delta", delta))

	return s.resolveView(ctx, cart)
}

// RemoveItem deletes the matching line if present. Removing an absent
// line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem")
	defer span.End()

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) != len(cart.Items) {
		cart.Items = kept
		if err := s.store.SaveCartItems(ctx, cart.ID, cart.Items); err != nil {
			return nil, err
		}
	}

	return s.resolveView(ctx, cart)
}

// Clear empties the cart's line items. A missing cart is a no-op.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	cart, err := s.store.GetCartByUser(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil
	}
	return s.store.SaveCartItems(ctx, cart.ID, nil)
}

func (s *CartService) loadOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.store.GetCartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.store.CreateCart(ctx, userID)
	}
	return cart, nil
}

// resolveView resolves line products, pruning lines whose product was
// deleted and persisting the pruned result.
func (s *CartService) resolveView(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	ids := make([]primitive.ObjectID, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.ProductID
	}

	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	kept := make([]models.CartItem, 0, len(cart.Items))
	lines := make([]models.CartLineView, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		kept = append(kept, item)
		lines = append(lines, models.CartLineView{
			Product: models.ProductSummary{
				ID:    product.ID,
				Name:  product.Name,
				Price: product.Price,
				Image: product.Image,
			},
			Quantity: item.Quantity,
			Subtotal: product.Price * float64(item.Quantity),
		})
	}

	if len(kept) != len(cart.Items) {
		s.logger.Info("Pruned dangling cart lines",
			zap.String("user_id", cart.UserID.Hex()),
			zap.Int("pruned", len(cart.Items)-len(kept)))
		cart.Items = kept
		if err := s.store.SaveCartItems(ctx, cart.ID, cart.Items); err != nil {
			return nil, err
		}
	}

	return &models.CartView{Cart: *cart, Lines: lines}, nil
}
