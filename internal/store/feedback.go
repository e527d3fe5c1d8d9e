package store

import (
	"context"
	"time"

	"farmconnect/internal/apperr"
	"farmconnect/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateFeedback appends a feedback entry.
func (s *Store) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	feedback.CreatedAt = time.Now()
	res, err := s.collection(colFeedback).InsertOne(ctx, feedback)
	if err != nil {
		return err
	}
	feedback.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ListFeedbackByConsumer returns feedback for a consumer, newest first.
func (s *Store) ListFeedbackByConsumer(ctx context.Context, consumerID primitive.ObjectID) ([]models.Feedback, error) {
	cur, err := s.collection(colFeedback).Find(ctx, bson.M{"consumerId": consumerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	feedback := []models.Feedback{}
	if err := cur.All(ctx, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// DeleteFeedback removes a feedback entry.
func (s *Store) DeleteFeedback(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection(colFeedback).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.KindNotFound, "feedback not found")
	}
	return nil
}
