package service

import (
	"context"
	"regexp"

	"farmconnect/internal/apperr"
	"farmconnect/internal/auth"
	"farmconnect/internal/models"
	"farmconnect/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// AccountStore is the persistence surface for accounts and profiles.
type AccountStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error)
	CreateConsumer(ctx context.Context, consumer *models.Consumer) error
	GetConsumerByID(ctx context.Context, id primitive.ObjectID) (*models.Consumer, error)
	GetConsumerByEmail(ctx context.Context, email string) (*models.Consumer, error)
	UpdateConsumerProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.Consumer, error)
}

// SignupRequest is the payload for user and consumer signup.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// LoginResult carries a signed token plus the role it grants.
type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// AuthService handles signup, login and profile access for all three
// roles. The admin is authenticated against fixed config credentials
// rather than a stored account.
type AuthService struct {
	store         AccountStore
	tokens        *auth.TokenIssuer
	adminUsername string
	adminPassword string
	logger        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store AccountStore, tokens *auth.TokenIssuer, adminUsername, adminPassword string) *AuthService {
	return &AuthService{
		store:         store,
		tokens:        tokens,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		logger:        util.GetLogger(),
	}
}

// UserSignup registers a buyer account.
func (s *AuthService) UserSignup(ctx context.Context, req SignupRequest) (*models.User, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hash,
		Address:  req.Address,
		City:     req.City,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// UserLogin authenticates a buyer and issues a token.
func (s *AuthService) UserLogin(ctx context.Context, email, password string) (*LoginResult, *models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, invalidCredentials(err)
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Issue(auth.Actor{ID: user.ID.Hex(), Role: models.RoleUser})
	if err != nil {
		return nil, nil, err
	}
	return &LoginResult{Token: token, Role: models.RoleUser}, user, nil
}

// ConsumerSignup registers a seller account. Address and city are
// required for sellers.
func (s *AuthService) ConsumerSignup(ctx context.Context, req SignupRequest) (*models.Consumer, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}
	if req.Address == "" || req.City == "" {
		return nil, apperr.New(apperr.KindValidation, "address and city are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	consumer := &models.Consumer{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hash,
		Address:  req.Address,
		City:     req.City,
	}
	if err := s.store.CreateConsumer(ctx, consumer); err != nil {
		return nil, err
	}

	s.logger.Info("Consumer registered", zap.String("consumer_id", consumer.ID.Hex()))
	return consumer, nil
}

// ConsumerLogin authenticates a seller and issues a token.
func (s *AuthService) ConsumerLogin(ctx context.Context, email, password string) (*LoginResult, *models.Consumer, error) {
	consumer, err := s.store.GetConsumerByEmail(ctx, email)
	if err != nil {
		return nil, nil, invalidCredentials(err)
	}
	if !auth.CheckPassword(consumer.Password, password) {
		return nil, nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Issue(auth.Actor{ID: consumer.ID.Hex(), Role: models.RoleConsumer})
	if err != nil {
		return nil, nil, err
	}
	return &LoginResult{Token: token, Role: models.RoleConsumer}, consumer, nil
}

// AdminLogin authenticates against the fixed config credentials.
func (s *AuthService) AdminLogin(username, password string) (*LoginResult, error) {
	if username != s.adminUsername || password != s.adminPassword {
		return nil, apperr.New(apperr.KindUnauthorized, "invalid admin credentials")
	}
	token, err := s.tokens.Issue(auth.Actor{Role: models.RoleAdmin})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Role: models.RoleAdmin}, nil
}

// GetUserProfile returns a buyer's profile.
func (s *AuthService) GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// UpdateUserProfile applies profile edits to a buyer.
func (s *AuthService) UpdateUserProfile(ctx context.Context, userID primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	return s.store.UpdateUserProfile(ctx, userID, update)
}

// GetConsumerProfile returns a seller's profile.
func (s *AuthService) GetConsumerProfile(ctx context.Context, consumerID primitive.ObjectID) (*models.Consumer, error) {
	return s.store.GetConsumerByID(ctx, consumerID)
}

// UpdateConsumerProfile applies profile edits to a seller.
func (s *AuthService) UpdateConsumerProfile(ctx context.Context, consumerID primitive.ObjectID, update models.ProfileUpdate) (*models.Consumer, error) {
	return s.store.UpdateConsumerProfile(ctx, consumerID, update)
}

func validateSignup(req SignupRequest) error {
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		return apperr.New(apperr.KindValidation, "name, email, phone and password are required")
	}
	if !emailPattern.MatchString(req.Email) {
		return apperr.New(apperr.KindValidation, "invalid email address")
	}
	return nil
}

// invalidCredentials hides account existence behind a uniform error.
func invalidCredentials(err error) error {
	if apperr.IsKind(err, apperr.KindNotFound) {
		return apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}
	return err
}
