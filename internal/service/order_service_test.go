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

func placeOrder(store *fakeStore, userID, consumerID, productID primitive.ObjectID, status string) *models.Order {
	order := &models.Order{
		UserID:     userID,
		ConsumerID: consumerID,
		ProductID:  productID,
		Quantity:   1,
		TotalPrice: 40,
		Status:     status,
	}
	_ = store.CreateOrder(context.Background(), order)
	return order
}

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"pending":   models.OrderStatusPending,
		"Process":   models.OrderStatusProcess,
		"DELIVERED": models.OrderStatusDelivered,
		"cancelled": models.OrderStatusCancelled,
		"CANCEL":    models.OrderStatusCancelled,
		"cancel":    models.OrderStatusCancelled,
	}
	for input, want := range cases {
		got, err := NormalizeStatus(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := NormalizeStatus("SHIPPED")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateStatusOverwritesAndPublishes(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	consumer := store.addConsumer("Farm A", "Pune")
	product := store.addProduct(consumer.ID, "Tomatoes", 40, 10)
	order := placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusDelivered)

	publisher := &fakePublisher{}
	svc := NewOrderService(store, publisher)

	// Any status may overwrite any other, including leaving a
	// terminal state.
	updated, err := svc.UpdateStatus(context.Background(), order.ID, "process", models.RoleConsumer)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcess, updated.Status)

	require.Len(t, publisher.statusChanged, 1)
	assert.Equal(t, models.OrderStatusDelivered, publisher.statusChanged[0].OldStatus)
	assert.Equal(t, models.OrderStatusProcess, publisher.statusChanged[0].NewStatus)
	assert.Equal(t, models.RoleConsumer, publisher.statusChanged[0].ActorRole)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := NewOrderService(newFakeStore(), nil)
	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(), "PENDING", models.RoleAdmin)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestVisibilityFlagsAreIndependent(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	consumer := store.addConsumer("Farm A", "Pune")
	product := store.addProduct(consumer.ID, "Tomatoes", 40, 10)
	order := placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusPending)

	svc := NewOrderService(store, nil)

	require.NoError(t, svc.HideOrderForUser(context.Background(), order.ID, user.ID))

	mine, err := svc.MyOrders(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := svc.ConsumerOrders(context.Background(), consumer.ID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestHideOrderRejectsForeignOwner(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	consumer := store.addConsumer("Farm A", "Pune")
	product := store.addProduct(consumer.ID, "Tomatoes", 40, 10)
	order := placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusPending)

	svc := NewOrderService(store, nil)
	err := svc.HideOrderForUser(context.Background(), order.ID, primitive.NewObjectID())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestClearHistoryHidesTerminalOnly(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	consumer := store.addConsumer("Farm A", "Pune")
	product := store.addProduct(consumer.ID, "Tomatoes", 40, 10)
	placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusPending)
	placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusDelivered)
	placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusCancelled)

	svc := NewOrderService(store, nil)
	hidden, err := svc.ClearHistoryForUser(context.Background(), user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), hidden)

	mine, err := svc.MyOrders(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.OrderStatusPending, mine[0].Status)
}

func TestClearHistoryWithStatusFilter(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	consumer := store.addConsumer("Farm A", "Pune")
	product := store.addProduct(consumer.ID, "Tomatoes", 40, 10)
	placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusDelivered)
	placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusCancelled)

	svc := NewOrderService(store, nil)
	hidden, err := svc.ClearHistoryForUser(context.Background(), user.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, int64(1), hidden)

	// A non-terminal filter falls back to the full terminal sweep.
	hidden, err = svc.ClearHistoryForUser(context.Background(), user.ID, "PENDING")
	require.NoError(t, err)
	assert.Equal(t, int64(1), hidden)
}

func TestMyOrdersResolvesReferences(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	consumer := store.addConsumer("Farm A", "Pune")
	product := store.addProduct(consumer.ID, "Tomatoes", 40, 10)
	placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusPending)

	svc := NewOrderService(store, nil)
	mine, err := svc.MyOrders(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Product)
	assert.Equal(t, "Tomatoes", mine[0].Product.Name)
	require.NotNil(t, mine[0].Consumer)
	assert.Equal(t, "Farm A", mine[0].Consumer.Name)
}

func TestMyOrdersToleratesDanglingRefs(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	consumer := store.addConsumer("Farm A", "Pune")
	product := store.addProduct(consumer.ID, "Tomatoes", 40, 10)
	placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusPending)

	delete(store.products, product.ID)
	delete(store.consumers, consumer.ID)

	svc := NewOrderService(store, nil)
	mine, err := svc.MyOrders(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Nil(t, mine[0].Product)
	assert.Nil(t, mine[0].Consumer)
}

func TestConsumerOrdersResolvesBuyer(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("Asha", "asha@example.com")
	consumer := store.addConsumer("Farm A", "Pune")
	product := store.addProduct(consumer.ID, "Tomatoes", 40, 10)
	placeOrder(store, user.ID, consumer.ID, product.ID, models.OrderStatusPending)

	svc := NewOrderService(store, nil)
	theirs, err := svc.ConsumerOrders(context.Background(), consumer.ID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	require.NotNil(t, theirs[0].Buyer)
	assert.Equal(t, "Asha", theirs[0].Buyer.Name)
	assert.Nil(t, theirs[0].Consumer)
}
