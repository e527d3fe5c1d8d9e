package service

import (
	"context"

	"farmconnect/internal/models"
	"farmconnect/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AdminStore is the persistence surface the admin rollups need.
type AdminStore interface {
	refResolver
	CountUsers(ctx context.Context) (int64, error)
	CountConsumers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListConsumers(ctx context.Context) ([]models.Consumer, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	DeleteConsumer(ctx context.Context, id primitive.ObjectID) error
	DeleteProductsByConsumer(ctx context.Context, consumerID primitive.ObjectID) (int64, error)
	ListProductsByConsumer(ctx context.Context, consumerID primitive.ObjectID) ([]models.Product, error)
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, visibleOnly bool) ([]models.Order, error)
	ListOrdersByConsumer(ctx context.Context, consumerID primitive.ObjectID, visibleOnly bool) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	DeleteOrdersByStatus(ctx context.Context, status string) (int64, error)
}

// DashboardStats are the operator's headline counts.
type DashboardStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalConsumers int64 `json:"totalConsumers"`
	TotalProducts  int64 `json:"totalProducts"`
	TotalOrders    int64 `json:"totalOrders"`
}

// AdminService provides read-side rollups and moderation actions.
// Orders are always visible to the admin regardless of the per-role
// visibility flags.
type AdminService struct {
	store  AdminStore
	cache  CatalogCache
	logger *zap.Logger
}

// NewAdminService creates a new admin service. cache may be nil.
func NewAdminService(store AdminStore, cache CatalogCache) *AdminService {
	return &AdminService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Dashboard returns cross-entity counts.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	consumers, err := s.store.CountConsumers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.store.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalUsers:     users,
		TotalConsumers: consumers,
		TotalProducts:  products,
		TotalOrders:    orders,
	}, nil
}

// ListUsers returns every buyer account.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// ListConsumers returns every seller account.
func (s *AdminService) ListConsumers(ctx context.Context) ([]models.Consumer, error) {
	return s.store.ListConsumers(ctx)
}

// UserDetails returns one buyer account.
func (s *AdminService) UserDetails(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// UserOrders returns a buyer's orders regardless of visibility flags.
func (s *AdminService) UserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.OrderView, error) {
	orders, err := s.store.ListOrdersByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	return buildOrderViews(ctx, s.store, orders, viewOpts{})
}

// ConsumerProducts returns a seller's products.
func (s *AdminService) ConsumerProducts(ctx context.Context, consumerID primitive.ObjectID) ([]models.Product, error) {
	return s.store.ListProductsByConsumer(ctx, consumerID)
}

// ConsumerOrders returns a seller's orders regardless of visibility
// flags.
func (s *AdminService) ConsumerOrders(ctx context.Context, consumerID primitive.ObjectID) ([]models.OrderView, error) {
	orders, err := s.store.ListOrdersByConsumer(ctx, consumerID, false)
	if err != nil {
		return nil, err
	}
	return buildOrderViews(ctx, s.store, orders, viewOpts{buyer: true})
}

// DeleteUser removes a buyer account. Their orders remain.
func (s *AdminService) DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	return s.store.DeleteUser(ctx, userID)
}

// DeleteConsumer removes a seller account and cascades to their
// products. Dependent orders are left with dangling references, which
// every read path tolerates.
func (s *AdminService) DeleteConsumer(ctx context.Context, consumerID primitive.ObjectID) error {
	if err := s.store.DeleteConsumer(ctx, consumerID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteProductsByConsumer(ctx, consumerID)
	if err != nil {
		return err
	}
	s.invalidateCache(ctx)
	s.logger.Info("Consumer removed",
		zap.String("consumer_id", consumerID.Hex()),
		zap.Int64("products_deleted", deleted))
	return nil
}

// AllOrders returns every order with buyer and product resolved.
func (s *AdminService) AllOrders(ctx context.Context) ([]models.OrderView, error) {
	orders, err := s.store.ListAllOrders(ctx)
	if err != nil {
		return nil, err
	}
	return buildOrderViews(ctx, s.store, orders, viewOpts{buyer: true})
}

// OrderDetails returns one order with all references resolved.
func (s *AdminService) OrderDetails(ctx context.Context, orderID primitive.ObjectID) (*models.OrderView, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	views, err := buildOrderViews(ctx, s.store, []models.Order{*order}, viewOpts{buyer: true, consumer: true})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DeleteOrders bulk-deletes orders. An empty or "ALL" filter removes
// everything; otherwise only the given status is swept.
func (s *AdminService) DeleteOrders(ctx context.Context, statusFilter string) (int64, error) {
	status := ""
	if statusFilter != "" && statusFilter != "ALL" {
		normalized, err := NormalizeStatus(statusFilter)
		if err != nil {
			return 0, err
		}
		status = normalized
	}
	deleted, err := s.store.DeleteOrdersByStatus(ctx, status)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Orders deleted",
		zap.String("status", statusFilter),
		zap.Int64("count", deleted))
	return deleted, nil
}

func (s *AdminService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
