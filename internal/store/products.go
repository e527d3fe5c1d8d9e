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

// CreateProduct inserts a new product.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := s.collection(colProducts).InsertOne(ctx, product)
	if err != nil {
		return err
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetProductByID retrieves a product by id.
func (s *Store) GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.collection(colProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs retrieves products keyed by id. Deleted products are
// simply absent from the result; callers treat them as dangling refs.
func (s *Store) GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	result := map[primitive.ObjectID]models.Product{}
	if len(ids) == 0 {
		return result, nil
	}
	cur, err := s.collection(colProducts).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

// ListProducts returns the whole catalog, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	cur, err := s.collection(colProducts).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListProductsByConsumer returns a consumer's products, newest first.
func (s *Store) ListProductsByConsumer(ctx context.Context, consumerID primitive.ObjectID) ([]models.Product, error) {
	cur, err := s.collection(colProducts).Find(ctx, bson.M{"consumerId": consumerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CountProducts returns the catalog size.
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	return s.collection(colProducts).CountDocuments(ctx, bson.M{})
}

// UpdateProductOwned updates a product only if it belongs to the given
// consumer.
func (s *Store) UpdateProductOwned(ctx context.Context, id, consumerID primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	set := bson.M{"updatedAt": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Quantity != nil {
		set["quantity"] = *update.Quantity
	}
	if update.HarvestDate != nil {
		set["harvestDate"] = *update.HarvestDate
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	var product models.Product
	err := s.collection(colProducts).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "consumerId": consumerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.KindNotFound, "product not found or not owned")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementProductStock atomically subtracts quantity from stock,
// guarded so the counter can never go below zero. Returns the updated
// product, or InsufficientStock when the guard fails while the product
// still exists.
func (s *Store) DecrementProductStock(ctx context.Context, id primitive.ObjectID, quantity int) (*models.Product, error) {
	var product models.Product
	err := s.collection(colProducts).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gte": quantity}},
		bson.M{
			"$inc": bson.M{"quantity": -quantity},
			"$set": bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		// Distinguish a missing product from a failed stock guard.
		if _, lookupErr := s.GetProductByID(ctx, id); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, apperr.New(apperr.KindInsufficientStock, "not enough stock available")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProductOwned removes a product only if it belongs to the given
// consumer.
func (s *Store) DeleteProductOwned(ctx context.Context, id, consumerID primitive.ObjectID) error {
	res, err := s.collection(colProducts).DeleteOne(ctx, bson.M{"_id": id, "consumerId": consumerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.KindNotFound, "product not found or not owned")
	}
	return nil
}

// DeleteProduct removes a product regardless of owner (admin path).
func (s *Store) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection(colProducts).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.KindNotFound, "product not found")
	}
	return nil
}

// DeleteProductsByConsumer removes all of a consumer's products.
// Dependent orders are left in place with dangling product refs.
func (s *Store) DeleteProductsByConsumer(ctx context.Context, consumerID primitive.ObjectID) (int64, error) {
	res, err := s.collection(colProducts).DeleteMany(ctx, bson.M{"consumerId": consumerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
