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

// CreateUser inserts a new user. Duplicate emails surface as Conflict.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Role = models.RoleUser

	res, err := s.collection(colUsers).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.New(apperr.KindConflict, "email already exists")
		}
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetUserByID retrieves a user by id.
func (s *Store) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.collection(colUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.collection(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserProfile applies non-empty profile fields to a user.
func (s *Store) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	set := profileSet(update)
	var user models.User
	err := s.collection(colUsers).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := s.collection(colUsers).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CountUsers returns the number of user accounts.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.collection(colUsers).CountDocuments(ctx, bson.M{})
}

// DeleteUser removes a user account.
func (s *Store) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection(colUsers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	return nil
}

// CreateConsumer inserts a new consumer. Duplicate emails surface as
// Conflict.
func (s *Store) CreateConsumer(ctx context.Context, consumer *models.Consumer) error {
	now := time.Now()
	consumer.CreatedAt = now
	consumer.UpdatedAt = now
	consumer.Role = models.RoleConsumer

	res, err := s.collection(colConsumers).InsertOne(ctx, consumer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.New(apperr.KindConflict, "email already exists")
		}
		return err
	}
	consumer.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetConsumerByID retrieves a consumer by id.
func (s *Store) GetConsumerByID(ctx context.Context, id primitive.ObjectID) (*models.Consumer, error) {
	var consumer models.Consumer
	err := s.collection(colConsumers).FindOne(ctx, bson.M{"_id": id}).Decode(&consumer)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.KindNotFound, "consumer not found")
	}
	if err != nil {
		return nil, err
	}
	return &consumer, nil
}

// GetConsumerByEmail retrieves a consumer by email.
func (s *Store) GetConsumerByEmail(ctx context.Context, email string) (*models.Consumer, error) {
	var consumer models.Consumer
	err := s.collection(colConsumers).FindOne(ctx, bson.M{"email": email}).Decode(&consumer)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.KindNotFound, "consumer not found")
	}
	if err != nil {
		return nil, err
	}
	return &consumer, nil
}

// GetConsumersByIDs retrieves consumers by id, keyed by id. Missing ids
// are simply absent from the result.
func (s *Store) GetConsumersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Consumer, error) {
	result := map[primitive.ObjectID]models.Consumer{}
	if len(ids) == 0 {
		return result, nil
	}
	cur, err := s.collection(colConsumers).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var consumers []models.Consumer
	if err := cur.All(ctx, &consumers); err != nil {
		return nil, err
	}
	for _, c := range consumers {
		result[c.ID] = c
	}
	return result, nil
}

// GetUsersByIDs retrieves users by id, keyed by id.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	result := map[primitive.ObjectID]models.User{}
	if len(ids) == 0 {
		return result, nil
	}
	cur, err := s.collection(colUsers).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// UpdateConsumerProfile applies non-empty profile fields to a consumer.
func (s *Store) UpdateConsumerProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.Consumer, error) {
	set := profileSet(update)
	var consumer models.Consumer
	err := s.collection(colConsumers).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&consumer)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.KindNotFound, "consumer not found")
	}
	if err != nil {
		return nil, err
	}
	return &consumer, nil
}

// ListConsumers returns all consumers, newest first.
func (s *Store) ListConsumers(ctx context.Context) ([]models.Consumer, error) {
	cur, err := s.collection(colConsumers).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	consumers := []models.Consumer{}
	if err := cur.All(ctx, &consumers); err != nil {
		return nil, err
	}
	return consumers, nil
}

// CountConsumers returns the number of consumer accounts.
func (s *Store) CountConsumers(ctx context.Context) (int64, error) {
	return s.collection(colConsumers).CountDocuments(ctx, bson.M{})
}

// DeleteConsumer removes a consumer account.
func (s *Store) DeleteConsumer(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection(colConsumers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.KindNotFound, "consumer not found")
	}
	return nil
}

func profileSet(update models.ProfileUpdate) bson.M {
	set := bson.M{"updatedAt": time.Now()}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Phone != "" {
		set["phone"] = update.Phone
	}
	if update.Address != "" {
		set["address"] = update.Address
	}
	if update.City != "" {
		set["city"] = update.City
	}
	return set
}
