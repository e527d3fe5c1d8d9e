package store

import (
	"context"
	"time"

	"farmconnect/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetCartByUser returns the user's cart, or (nil, nil) when the user
// has none yet. Lazy creation is the cart service's job.
func (s *Store) GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.collection(colCarts).FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateCart inserts an empty cart for the user.
func (s *Store) CreateCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	now := time.Now()
	cart := &models.Cart{
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.collection(colCarts).InsertOne(ctx, cart)
	if err != nil {
		return nil, err
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return cart, nil
}

// SaveCartItems replaces the cart's line items.
func (s *Store) SaveCartItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	_, err := s.collection(colCarts).UpdateOne(ctx,
		bson.M{"_id": cartID},
		bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now()}},
	)
	return err
}
