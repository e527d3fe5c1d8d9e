package service

import (
	"context"
	"testing"
	"time"

	"farmconnect/internal/apperr"
	"farmconnect/internal/auth"
	"farmconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(store *fakeStore) *AuthService {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(store, tokens, "admin", "admin123")
}

func validUserSignup() SignupRequest {
	return SignupRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Phone:    "9999999999",
		Password: "hunter22",
	}
}

func TestUserSignupAndLogin(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(store)

	user, err := svc.UserSignup(context.Background(), validUserSignup())
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.NotEqual(t, "hunter22", user.Password)

	result, loggedIn, err := svc.UserLogin(context.Background(), "asha@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, result.Role)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestUserSignupValidation(t *testing.T) {
	svc := newTestAuthService(newFakeStore())

	req := validUserSignup()
	req.Email = "not-an-email"
	_, err := svc.UserSignup(context.Background(), req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	req = validUserSignup()
	req.Password = ""
	_, err = svc.UserSignup(context.Background(), req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUserSignupDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newFakeStore())

	_, err := svc.UserSignup(context.Background(), validUserSignup())
	require.NoError(t, err)
	_, err = svc.UserSignup(context.Background(), validUserSignup())
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestUserLoginUniformFailure(t *testing.T) {
	svc := newTestAuthService(newFakeStore())

	// Unknown account and wrong password must be indistinguishable.
	_, _, err := svc.UserLogin(context.Background(), "nobody@example.com", "x")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	unknownMsg := err.Error()

	_, signupErr := svc.UserSignup(context.Background(), validUserSignup())
	require.NoError(t, signupErr)
	_, _, err = svc.UserLogin(context.Background(), "asha@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.Equal(t, unknownMsg, err.Error())
}

func TestConsumerSignupRequiresAddress(t *testing.T) {
	svc := newTestAuthService(newFakeStore())

	req := validUserSignup()
	_, err := svc.ConsumerSignup(context.Background(), req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	req.Address = "12 Market Rd"
	req.City = "Pune"
	consumer, err := svc.ConsumerSignup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleConsumer, consumer.Role)
}

func TestAdminLogin(t *testing.T) {
	svc := newTestAuthService(newFakeStore())

	_, err := svc.AdminLogin("admin", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	result, err := svc.AdminLogin("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, result.Role)

	// Admin tokens carry the role but no account id.
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	actor, err := tokens.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, actor.Role)
	assert.Empty(t, actor.ID)
}

func TestUpdateUserProfileSkipsEmptyFields(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(store)

	user, err := svc.UserSignup(context.Background(), validUserSignup())
	require.NoError(t, err)

	updated, err := svc.UpdateUserProfile(context.Background(), user.ID, models.ProfileUpdate{City: "Nashik"})
	require.NoError(t, err)
	assert.Equal(t, "Nashik", updated.City)
	assert.Equal(t, "Asha", updated.Name)
	assert.Equal(t, "9999999999", updated.Phone)
}
