package service

import (
	"context"
	"encoding/json"
	"time"

	"farmconnect/internal/apperr"
	"farmconnect/internal/models"
	"farmconnect/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CatalogStore is the persistence surface the catalog needs.
type CatalogStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsByConsumer(ctx context.Context, consumerID primitive.ObjectID) ([]models.Product, error)
	UpdateProductOwned(ctx context.Context, id, consumerID primitive.ObjectID, update models.ProductUpdate) (*models.Product, error)
	DeleteProductOwned(ctx context.Context, id, consumerID primitive.ObjectID) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	GetConsumersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Consumer, error)
	GetConsumerByID(ctx context.Context, id primitive.ObjectID) (*models.Consumer, error)
}

// CatalogCache caches the public product listing.
type CatalogCache interface {
	GetCatalog(ctx context.Context) (string, error)
	SetCatalog(ctx context.Context, payload string) error
	InvalidateCatalog(ctx context.Context) error
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Name        string     `json:"name" binding:"required"`
	Price       float64    `json:"price" binding:"required"`
	Quantity    int        `json:"quantity"`
	HarvestDate *time.Time `json:"harvestDate"`
	Image       string     `json:"image"`
}

// CatalogService manages products scoped to their owning consumer and
// serves the public catalog.
type CatalogService struct {
	store  CatalogStore
	cache  CatalogCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(store CatalogStore, cache CatalogCache) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CreateProduct adds a product owned by the consumer.
func (s *CatalogService) CreateProduct(ctx context.Context, consumerID primitive.ObjectID, input ProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "product name is required")
	}
	if input.Price <= 0 {
		return nil, apperr.New(apperr.KindValidation, "price must be positive")
	}
	if input.Quantity < 0 {
		return nil, apperr.New(apperr.KindValidation, "quantity must not be negative")
	}

	product := &models.Product{
		ConsumerID:  consumerID,
		Name:        input.Name,
		Price:       input.Price,
		Quantity:    input.Quantity,
		HarvestDate: input.HarvestDate,
		Image:       input.Image,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return product, nil
}

// UpdateProduct edits a product owned by the consumer.
func (s *CatalogService) UpdateProduct(ctx context.Context, productID, consumerID primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	if update.Price != nil && *update.Price <= 0 {
		return nil, apperr.New(apperr.KindValidation, "price must be positive")
	}
	if update.Quantity != nil && *update.Quantity < 0 {
		return nil, apperr.New(apperr.KindValidation, "quantity must not be negative")
	}

	product, err := s.store.UpdateProductOwned(ctx, productID, consumerID, update)
	if err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return product, nil
}

// DeleteProduct removes a product owned by the consumer. Orders
// referencing it are left in place with dangling refs.
func (s *CatalogService) DeleteProduct(ctx context.Context, productID, consumerID primitive.ObjectID) error {
	if err := s.store.DeleteProductOwned(ctx, productID, consumerID); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// AdminDeleteProduct removes any product (moderation path).
func (s *CatalogService) AdminDeleteProduct(ctx context.Context, productID primitive.ObjectID) error {
	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// ListOwn returns the consumer's own products, newest first.
func (s *CatalogService) ListOwn(ctx context.Context, consumerID primitive.ObjectID) ([]models.Product, error) {
	return s.store.ListProductsByConsumer(ctx, consumerID)
}

// ListPublic returns the whole catalog with sellers resolved, served
// from cache when fresh. Products whose consumer was deleted are
// filtered out.
func (s *CatalogService) ListPublic(ctx context.Context) ([]models.ProductView, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCatalog(ctx)
		if err != nil {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		} else if cached != "" {
			var views []models.ProductView
			if err := json.Unmarshal([]byte(cached), &views); err == nil {
				util.CatalogCacheHitsTotal.WithLabelValues("hit").Inc()
				return views, nil
			}
		}
		util.CatalogCacheHitsTotal.WithLabelValues("miss").Inc()
	}

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	views, err := s.resolveViews(ctx, products, false)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(views); err == nil {
			if err := s.cache.SetCatalog(ctx, string(payload)); err != nil {
				s.logger.Warn("Catalog cache write failed", zap.Error(err))
			}
		}
	}
	return views, nil
}

// ListByConsumerPublic returns one seller's products with the seller
// profile resolved (phone and email included for the seller page).
func (s *CatalogService) ListByConsumerPublic(ctx context.Context, consumerID primitive.ObjectID) ([]models.ProductView, error) {
	products, err := s.store.ListProductsByConsumer(ctx, consumerID)
	if err != nil {
		return nil, err
	}
	return s.resolveViews(ctx, products, true)
}

// GetProduct returns one product with its seller resolved. A deleted
// seller yields a nil Consumer rather than an error.
func (s *CatalogService) GetProduct(ctx context.Context, productID primitive.ObjectID) (*models.ProductView, error) {
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	view := models.ProductView{Product: *product}
	if consumer, err := s.store.GetConsumerByID(ctx, product.ConsumerID); err == nil {
		view.Consumer = &models.ConsumerSummary{
			ID:   consumer.ID,
			Name: consumer.Name,
			City: consumer.City,
		}
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}
	return &view, nil
}

func (s *CatalogService) resolveViews(ctx context.Context, products []models.Product, contactDetails bool) ([]models.ProductView, error) {
	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ConsumerID)
	}
	consumers, err := s.store.GetConsumersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		consumer, ok := consumers[p.ConsumerID]
		if !ok {
			// Orphaned product: owner deleted, hidden from listings.
			continue
		}
		summary := &models.ConsumerSummary{
			ID:   consumer.ID,
			Name: consumer.Name,
			City: consumer.City,
		}
		if contactDetails {
			summary.Phone = consumer.Phone
			summary.Email = consumer.Email
		}
		views = append(views, models.ProductView{Product: p, Consumer: summary})
	}
	return views, nil
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
