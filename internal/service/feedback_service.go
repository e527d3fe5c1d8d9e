package service

import (
	"context"

	"farmconnect/internal/apperr"
	"farmconnect/internal/auth"
	"farmconnect/internal/models"
	"farmconnect/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// FeedbackStore is the persistence surface the feedback service needs.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	ListFeedbackByConsumer(ctx context.Context, consumerID primitive.ObjectID) ([]models.Feedback, error)
	DeleteFeedback(ctx context.Context, id primitive.ObjectID) error
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

// FeedbackService manages append-only comments on consumers.
type FeedbackService struct {
	store  FeedbackStore
	logger *zap.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(store FeedbackStore) *FeedbackService {
	return &FeedbackService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Add creates feedback against a consumer. Only USER and ADMIN actors
// may author feedback; the author reference matches the role tag.
func (s *FeedbackService) Add(ctx context.Context, consumerID primitive.ObjectID, comment string, actor auth.Actor) (*models.Feedback, error) {
	if comment == "" {
		return nil, apperr.New(apperr.KindValidation, "comment is required")
	}

	feedback := &models.Feedback{
		ConsumerID: consumerID,
		Comment:    comment,
		Role:       actor.Role,
	}

	switch actor.Role {
	case models.RoleUser:
		userID, err := primitive.ObjectIDFromHex(actor.ID)
		if err != nil {
			return nil, apperr.New(apperr.KindUnauthorized, "invalid actor id")
		}
		feedback.UserID = &userID
	case models.RoleAdmin:
		// The admin is config-defined; tokens may carry no stored id.
		if adminID, err := primitive.ObjectIDFromHex(actor.ID); err == nil {
			feedback.AdminID = &adminID
		}
	default:
		return nil, apperr.New(apperr.KindForbidden, "role not allowed to leave feedback")
	}

	if err := s.store.CreateFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	util.FeedbackCreatedTotal.Inc()
	s.logger.Info("Feedback created",
		zap.String("consumer_id", consumerID.Hex()),
		zap.String("role", actor.Role))
	return feedback, nil
}

// ListByConsumer returns all feedback for a consumer, newest first,
// with author display names resolved.
func (s *FeedbackService) ListByConsumer(ctx context.Context, consumerID primitive.ObjectID) ([]models.FeedbackView, error) {
	feedback, err := s.store.ListFeedbackByConsumer(ctx, consumerID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]primitive.ObjectID, 0, len(feedback))
	for _, f := range feedback {
		if f.UserID != nil {
			userIDs = append(userIDs, *f.UserID)
		}
	}
	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.FeedbackView, 0, len(feedback))
	for _, f := range feedback {
		view := models.FeedbackView{Feedback: f}
		switch {
		case f.Role == models.RoleAdmin:
			view.AuthorName = "Admin"
		case f.UserID != nil:
			if user, ok := users[*f.UserID]; ok {
				view.AuthorName = user.Name
			} else {
				view.AuthorName = "Unknown"
			}
		default:
			view.AuthorName = "Unknown"
		}
		views = append(views, view)
	}
	return views, nil
}

// Delete removes a feedback entry unconditionally. Ownership is only
// enforced at the endpoint level.
func (s *FeedbackService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeleteFeedback(ctx, id)
}
