package services

import (
	"context"
	"strings"
	"testing"

	"github.com/tmcgann/errand-manager/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterUser(t *testing.T) {
	store := newFakeStore()
	service := NewUserService(store)
	ctx := context.Background()

	user, err := service.RegisterUser(ctx, "greg", "greg@example.com", "hunter22")
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, "greg", user.Username)
	assert.True(t, strings.HasPrefix(user.Avatar, "https://www.gravatar.com/avatar/"))
	assert.NotEqual(t, "hunter22", user.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("hunter22")))
}

func TestRegisterUserInitializesFriendGraph(t *testing.T) {
	store := newFakeStore()
	service := NewUserService(store)

	user, err := service.RegisterUser(context.Background(), "greg", "greg@example.com", "hunter22")
	require.NoError(t, err)
	assert.Empty(t, user.Friends)
	assert.Empty(t, user.FriendRequests)
	assert.Empty(t, user.PendingRequests)
	assert.NotNil(t, user.Friends)
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	service := NewUserService(store)
	ctx := context.Background()

	_, err := service.RegisterUser(ctx, "greg", "greg@example.com", "hunter22")
	require.NoError(t, err)

	_, err = service.RegisterUser(ctx, "gregory", "greg@example.com", "different")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.EqualError(t, err, "Email already associated with account")
}

func TestAuthenticateUser(t *testing.T) {
	store := newFakeStore()
	service := NewUserService(store)
	ctx := context.Background()

	registered, err := service.RegisterUser(ctx, "greg", "greg@example.com", "hunter22")
	require.NoError(t, err)

	user, err := service.AuthenticateUser(ctx, "greg@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestAuthenticateUserBadCredentials(t *testing.T) {
	store := newFakeStore()
	service := NewUserService(store)
	ctx := context.Background()

	_, err := service.RegisterUser(ctx, "greg", "greg@example.com", "hunter22")
	require.NoError(t, err)

	// Wrong password and unknown email produce the same opaque error.
	_, err = service.AuthenticateUser(ctx, "greg@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	assert.EqualError(t, err, "Invalid credentials")

	_, err = service.AuthenticateUser(ctx, "nobody@example.com", "hunter22")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	assert.EqualError(t, err, "Invalid credentials")
}

func TestGetAllUsers(t *testing.T) {
	store := newFakeStore()
	service := NewUserService(store)

	store.seedUser("gretta")
	store.seedUser("greg")

	users, err := service.GetAllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "greg", users[0].Username)
	assert.Equal(t, "gretta", users[1].Username)
}

func TestGetUserPopulatesFriends(t *testing.T) {
	store := newFakeStore()
	service := NewUserService(store)
	ctx := context.Background()

	greg := store.seedUser("greg")
	gretta := store.seedUser("gretta")
	greg.Friends = append(greg.Friends, gretta.ID)

	populated, err := service.GetUser(ctx, greg.ID)
	require.NoError(t, err)
	require.Len(t, populated.Friends, 1)
	assert.Equal(t, "gretta", populated.Friends[0].Username)
}
