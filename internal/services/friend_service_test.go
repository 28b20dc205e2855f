package services

import (
	"context"
	"testing"

	"github.com/tmcgann/errand-manager/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSendRequest(t *testing.T) {
	store := newFakeStore()
	service := NewFriendService(store)
	ctx := context.Background()

	alice := store.seedUser("alice")
	bob := store.seedUser("bob")

	populated, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, populated.PendingRequests, 1)
	assert.Equal(t, bob.ID, populated.PendingRequests[0].ID)

	assert.Equal(t, []primitive.ObjectID{alice.ID}, store.users[bob.ID].FriendRequests)
	assert.Equal(t, []primitive.ObjectID{bob.ID}, store.users[alice.ID].PendingRequests)
}

func TestSendRequestAlreadyPending(t *testing.T) {
	store := newFakeStore()
	service := NewFriendService(store)
	ctx := context.Background()

	alice := store.seedUser("alice")
	bob := store.seedUser("bob")

	_, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = service.SendRequest(ctx, alice.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.EqualError(t, err, "Friend request pending")

	// A counter-request from the other side is rejected too.
	_, err = service.SendRequest(ctx, bob.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestSendRequestRejectsSelfAndUnknown(t *testing.T) {
	store := newFakeStore()
	service := NewFriendService(store)
	ctx := context.Background()

	alice := store.seedUser("alice")

	_, err := service.SendRequest(ctx, alice.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = service.SendRequest(ctx, alice.ID, primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestAcceptRequest(t *testing.T) {
	store := newFakeStore()
	service := NewFriendService(store)
	ctx := context.Background()

	alice := store.seedUser("alice")
	bob := store.seedUser("bob")

	_, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	populated, err := service.AcceptRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, populated.Friends, 1)
	assert.Equal(t, alice.ID, populated.Friends[0].ID)
	assert.Empty(t, populated.FriendRequests)

	assert.Equal(t, []primitive.ObjectID{bob.ID}, store.users[alice.ID].Friends)
	assert.Empty(t, store.users[alice.ID].PendingRequests)

	// A fresh request between established friends is a conflict.
	_, err = service.SendRequest(ctx, alice.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.EqualError(t, err, "User already friended")
}

func TestAcceptRequestWithoutPending(t *testing.T) {
	store := newFakeStore()
	service := NewFriendService(store)
	ctx := context.Background()

	alice := store.seedUser("alice")
	bob := store.seedUser("bob")

	_, err := service.AcceptRequest(ctx, bob.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.EqualError(t, err, "Invalid friend request")
}

func TestDeclineRequestIsIdempotent(t *testing.T) {
	store := newFakeStore()
	service := NewFriendService(store)
	ctx := context.Background()

	alice := store.seedUser("alice")
	bob := store.seedUser("bob")

	_, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	populated, err := service.DeclineRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, populated.FriendRequests)
	assert.Empty(t, populated.Friends)
	assert.Empty(t, store.users[alice.ID].PendingRequests)

	// Declining again is a no-op.
	_, err = service.DeclineRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
}

func TestUnfriend(t *testing.T) {
	store := newFakeStore()
	service := NewFriendService(store)
	ctx := context.Background()

	alice := store.seedUser("alice")
	bob := store.seedUser("bob")

	_, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = service.AcceptRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	populated, err := service.Unfriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, populated.Friends)
	assert.Empty(t, store.users[bob.ID].Friends)

	// Unfriending a non-friend is a no-op.
	_, err = service.Unfriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
}
