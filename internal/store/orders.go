package store

import (
	"context"
	"time"

	"farmconnect/internal/apperr"
	"farmconnect/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateOrder inserts a new order. Visibility flags default to true.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.UserVisible = true
	order.ConsumerVisible = true

	res, err := s.collection(colOrders).InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetOrderByID retrieves an order by id.
func (s *Store) GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.collection(colOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.KindNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByUser returns a buyer's orders, newest first, optionally
// limited to buyer-visible ones.
func (s *Store) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, visibleOnly bool) ([]models.Order, error) {
	filter := bson.M{"userId": userID}
	if visibleOnly {
		filter["userVisible"] = true
	}
	return s.findOrders(ctx, filter)
}

// ListOrdersByConsumer returns a seller's orders, newest first,
// optionally limited to seller-visible ones.
func (s *Store) ListOrdersByConsumer(ctx context.Context, consumerID primitive.ObjectID, visibleOnly bool) ([]models.Order, error) {
	filter := bson.M{"consumerId": consumerID}
	if visibleOnly {
		filter["consumerVisible"] = true
	}
	return s.findOrders(ctx, filter)
}

// ListAllOrders returns every order, newest first (admin path).
func (s *Store) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{})
}

func (s *Store) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := s.collection(colOrders).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CountOrders returns the total number of orders.
func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	return s.collection(colOrders).CountDocuments(ctx, bson.M{})
}

// UpdateOrderStatus overwrites an order's status unconditionally and
// returns the updated order.
func (s *Store) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	var order models.Order
	err := s.collection(colOrders).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.KindNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// HideOrderForUser flips buyer visibility off for one of the buyer's
// own orders. Seller visibility is untouched.
func (s *Store) HideOrderForUser(ctx context.Context, orderID, userID primitive.ObjectID) error {
	return s.hideOrder(ctx, bson.M{"_id": orderID, "userId": userID}, "userVisible")
}

// HideOrderForConsumer flips seller visibility off for one of the
// seller's own orders. Buyer visibility is untouched.
func (s *Store) HideOrderForConsumer(ctx context.Context, orderID, consumerID primitive.ObjectID) error {
	return s.hideOrder(ctx, bson.M{"_id": orderID, "consumerId": consumerID}, "consumerVisible")
}

func (s *Store) hideOrder(ctx context.Context, filter bson.M, visibilityField string) error {
	res, err := s.collection(colOrders).UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{visibilityField: false, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.KindNotFound, "order not found")
	}
	return nil
}

// HideOrdersByStatus flips visibility off in bulk for the given owner
// and statuses. ownerField is "userId" or "consumerId" and picks the
// matching visibility flag.
func (s *Store) HideOrdersByStatus(ctx context.Context, ownerField string, ownerID primitive.ObjectID, statuses []string) (int64, error) {
	visibilityField := "userVisible"
	if ownerField == "consumerId" {
		visibilityField = "consumerVisible"
	}
	res, err := s.collection(colOrders).UpdateMany(ctx,
		bson.M{ownerField: ownerID, "status": bson.M{"$in": statuses}},
		bson.M{"$set": bson.M{visibilityField: false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteOrdersByStatus hard-deletes orders matching the status filter.
// An empty filter deletes everything (admin bulk delete).
func (s *Store) DeleteOrdersByStatus(ctx context.Context, status string) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	res, err := s.collection(colOrders).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
