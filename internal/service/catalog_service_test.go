package service

import (
	"context"
	"testing"

	"farmconnect/internal/apperr"
	"farmconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeCache is an in-memory catalog cache.
type fakeCache struct {
	payload       string
	invalidations int
}

func (c *fakeCache) GetCatalog(_ context.Context) (string, error)         { return c.payload, nil }
func (c *fakeCache) SetCatalog(_ context.Context, payload string) error   { c.payload = payload; return nil }
func (c *fakeCache) InvalidateCatalog(_ context.Context) error            { c.payload = ""; c.invalidations++; return nil }

func TestCreateProductValidation(t *testing.T) {
	svc := NewCatalogService(newFakeStore(), nil)
	consumerID := primitive.NewObjectID()

	_, err := svc.CreateProduct(context.Background(), consumerID, ProductInput{Price: 10})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.CreateProduct(context.Background(), consumerID, ProductInput{Name: "Tomatoes"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.CreateProduct(context.Background(), consumerID, ProductInput{Name: "Tomatoes", Price: 10, Quantity: -1})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateProductInvalidatesCache(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{payload: "stale"}
	svc := NewCatalogService(store, cache)
	consumer := store.addConsumer("Farm A", "Pune")

	product, err := svc.CreateProduct(context.Background(), consumer.ID, ProductInput{Name: "Tomatoes", Price: 40, Quantity: 10})
	require.NoError(t, err)
	assert.False(t, product.ID.IsZero())
	assert.Equal(t, 1, cache.invalidations)
}

func TestUpdateProductOwnershipScoped(t *testing.T) {
	store := newFakeStore()
	owner := store.addConsumer("Farm A", "Pune")
	other := store.addConsumer("Farm B", "Nashik")
	product := store.addProduct(owner.ID, "Tomatoes", 40, 10)

	svc := NewCatalogService(store, nil)
	price := 50.0

	_, err := svc.UpdateProduct(context.Background(), product.ID, other.ID, models.ProductUpdate{Price: &price})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	updated, err := svc.UpdateProduct(context.Background(), product.ID, owner.ID, models.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.Price)
	assert.Equal(t, "Tomatoes", updated.Name)
}

func TestUpdateProductValidation(t *testing.T) {
	svc := NewCatalogService(newFakeStore(), nil)
	bad := -5.0
	_, err := svc.UpdateProduct(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), models.ProductUpdate{Price: &bad})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDeleteProductOwnershipScoped(t *testing.T) {
	store := newFakeStore()
	owner := store.addConsumer("Farm A", "Pune")
	product := store.addProduct(owner.ID, "Tomatoes", 40, 10)

	svc := NewCatalogService(store, nil)
	err := svc.DeleteProduct(context.Background(), product.ID, primitive.NewObjectID())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID, owner.ID))
	assert.Empty(t, store.products)
}

func TestListPublicFiltersOrphans(t *testing.T) {
	store := newFakeStore()
	consumer := store.addConsumer("Farm A", "Pune")
	store.addProduct(consumer.ID, "Tomatoes", 40, 10)
	store.addProduct(primitive.NewObjectID(), "Orphaned", 10, 1)

	svc := NewCatalogService(store, nil)
	views, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Tomatoes", views[0].Name)
	require.NotNil(t, views[0].Consumer)
	assert.Equal(t, "Farm A", views[0].Consumer.Name)
	assert.Empty(t, views[0].Consumer.Phone)
}

func TestListPublicServesFromCache(t *testing.T) {
	store := newFakeStore()
	consumer := store.addConsumer("Farm A", "Pune")
	store.addProduct(consumer.ID, "Tomatoes", 40, 10)

	cache := &fakeCache{}
	svc := NewCatalogService(store, cache)

	first, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.NotEmpty(t, cache.payload)

	// A write bypassing the service is invisible until the cache
	// expires or is invalidated.
	store.addProduct(consumer.ID, "Onions", 30, 5)
	second, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestListByConsumerPublicIncludesContact(t *testing.T) {
	store := newFakeStore()
	consumer := store.addConsumer("Farm A", "Pune")
	consumer.Phone = "8888888888"
	consumer.Email = "farma@example.com"
	store.addProduct(consumer.ID, "Tomatoes", 40, 10)

	svc := NewCatalogService(store, nil)
	views, err := svc.ListByConsumerPublic(context.Background(), consumer.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "8888888888", views[0].Consumer.Phone)
	assert.Equal(t, "farma@example.com", views[0].Consumer.Email)
}

func TestGetProductToleratesDeletedSeller(t *testing.T) {
	store := newFakeStore()
	product := store.addProduct(primitive.NewObjectID(), "Tomatoes", 40, 10)

	svc := NewCatalogService(store, nil)
	view, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomatoes", view.Name)
	assert.Nil(t, view.Consumer)
}
