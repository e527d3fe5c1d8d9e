package service

import (
	"context"
	"strings"
	"testing"

	"farmconnect/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeIntentCache struct {
	stored map[string]string
}

func (c *fakeIntentCache) SetPaymentIntent(_ context.Context, userID, payload string) error {
	if c.stored == nil {
		c.stored = make(map[string]string)
	}
	c.stored[userID] = payload
	return nil
}

func (c *fakeIntentCache) GetPaymentIntent(_ context.Context, userID string) (string, error) {
	return c.stored[userID], nil
}

func TestCreatePaymentIntentAmount(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	consumer := store.addConsumer("Farm A", "Pune")
	tomatoes := store.addProduct(consumer.ID, "Tomatoes", 40.50, 10)
	onions := store.addProduct(consumer.ID, "Onions", 30, 5)

	cartSvc := NewCartService(store)
	_, err := cartSvc.AddItem(context.Background(), user.ID, tomatoes.ID, 2)
	require.NoError(t, err)
	_, err = cartSvc.AddItem(context.Background(), user.ID, onions.ID, 1)
	require.NoError(t, err)

	cache := &fakeIntentCache{}
	svc := NewPaymentService(store, SandboxProvider{}, cache, "inr")

	intent, err := svc.CreatePaymentIntent(context.Background(), user.ID)
	require.NoError(t, err)

	// 2*40.50 + 30 = 111.00, in minor units. Delivery is settled at
	// checkout, not here.
	assert.Equal(t, int64(11100), intent.Amount)
	assert.Equal(t, "inr", intent.Currency)
	assert.True(t, strings.HasPrefix(intent.ID, "pi_"))
	assert.Contains(t, intent.ClientSecret, "_secret_")
	assert.NotEmpty(t, cache.stored[user.ID.Hex()])
}

func TestCreatePaymentIntentEmptyCart(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	svc := NewPaymentService(store, SandboxProvider{}, nil, "inr")

	_, err := svc.CreatePaymentIntent(context.Background(), user.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindEmptyCart))
}

func TestCreatePaymentIntentAllDanglingLines(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	consumer := store.addConsumer("Farm A", "Pune")
	gone := store.addProduct(consumer.ID, "Onions", 30, 5)

	cartSvc := NewCartService(store)
	_, err := cartSvc.AddItem(context.Background(), user.ID, gone.ID, 1)
	require.NoError(t, err)
	delete(store.products, gone.ID)

	svc := NewPaymentService(store, SandboxProvider{}, nil, "inr")
	_, err = svc.CreatePaymentIntent(context.Background(), user.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindEmptyCart))
}

func TestCreatePaymentIntentUnknownUserCart(t *testing.T) {
	store := newFakeStore()
	svc := NewPaymentService(store, SandboxProvider{}, nil, "inr")

	_, err := svc.CreatePaymentIntent(context.Background(), primitive.NewObjectID())
	assert.True(t, apperr.IsKind(err, apperr.KindEmptyCart))
}
