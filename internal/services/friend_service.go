package services

import (
	"context"
	"fmt"

	"github.com/tmcgann/errand-manager/internal/apperrors"
	"github.com/tmcgann/errand-manager/internal/models"
	"github.com/tmcgann/errand-manager/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendService maintains the symmetric friends relation and the pending
// request relation between users. Every mutation is an idempotent add-to-set
// or pull per side, so a retried request converges to the same end state.
type FriendService struct {
	users UserStore
}

// NewFriendService creates a new FriendService.
func NewFriendService(users UserStore) *FriendService {
	return &FriendService{users: users}
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// SendRequest records a friend request from requester to target. A request
// already pending in either direction is rejected, as is an existing
// friendship.
func (s *FriendService) SendRequest(ctx context.Context, requesterID, targetID primitive.ObjectID) (*models.PopulatedUser, error) {
	if requesterID == targetID {
		return nil, apperrors.NewValidation("Cannot send a friend request to yourself")
	}

	target, err := s.users.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load target user: %v", err)
	}
	if target == nil {
		return nil, apperrors.NewNotFound("Invalid user id")
	}

	requester, err := s.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requester: %v", err)
	}
	if requester == nil {
		return nil, apperrors.NewNotFound("Invalid user id")
	}

	if containsID(requester.Friends, targetID) {
		return nil, apperrors.NewConflict("User already friended")
	}
	if containsID(requester.PendingRequests, targetID) || containsID(requester.FriendRequests, targetID) {
		return nil, apperrors.NewConflict("Friend request pending")
	}

	if err := s.users.AddFriendRequest(ctx, targetID, requesterID); err != nil {
		return nil, fmt.Errorf("failed to record friend request: %v", err)
	}
	if err := s.users.AddPendingRequest(ctx, requesterID, targetID); err != nil {
		return nil, fmt.Errorf("failed to record pending request: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"requester": requesterID.Hex(),
		"target":    targetID.Hex(),
	}).Info("Friend request sent")

	return s.reload(ctx, requesterID)
}

// AcceptRequest turns a pending request from requester into a friendship.
// Both friends lists are updated and the pending entries cleared for the
// pair.
func (s *FriendService) AcceptRequest(ctx context.Context, acceptorID, requesterID primitive.ObjectID) (*models.PopulatedUser, error) {
	requester, err := s.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requester: %v", err)
	}
	if requester == nil {
		return nil, apperrors.NewNotFound("Invalid user id")
	}

	acceptor, err := s.users.GetUserByID(ctx, acceptorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acceptor: %v", err)
	}
	if acceptor == nil {
		return nil, apperrors.NewNotFound("Invalid user id")
	}

	if !containsID(acceptor.FriendRequests, requesterID) {
		return nil, apperrors.NewValidation("Invalid friend request")
	}

	if err := s.users.ClearFriendRequest(ctx, acceptorID, requesterID); err != nil {
		return nil, fmt.Errorf("failed to clear friend request: %v", err)
	}
	if err := s.users.AddFriend(ctx, acceptorID, requesterID); err != nil {
		return nil, fmt.Errorf("failed to add friend to acceptor: %v", err)
	}
	if err := s.users.AddFriend(ctx, requesterID, acceptorID); err != nil {
		return nil, fmt.Errorf("failed to add friend to requester: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"acceptor":  acceptorID.Hex(),
		"requester": requesterID.Hex(),
	}).Info("Friend request accepted")

	return s.reload(ctx, acceptorID)
}

// DeclineRequest clears a pending request from requester without creating a
// friendship. Declining a request that no longer exists is a no-op.
func (s *FriendService) DeclineRequest(ctx context.Context, acceptorID, requesterID primitive.ObjectID) (*models.PopulatedUser, error) {
	requester, err := s.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requester: %v", err)
	}
	if requester == nil {
		return nil, apperrors.NewNotFound("Invalid user id")
	}

	if err := s.users.ClearFriendRequest(ctx, acceptorID, requesterID); err != nil {
		return nil, fmt.Errorf("failed to clear friend request: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"acceptor":  acceptorID.Hex(),
		"requester": requesterID.Hex(),
	}).Info("Friend request declined")

	return s.reload(ctx, acceptorID)
}

// Unfriend removes the pair from both friends lists. Unfriending a user who
// is not currently a friend is a no-op.
func (s *FriendService) Unfriend(ctx context.Context, actorID, targetID primitive.ObjectID) (*models.PopulatedUser, error) {
	target, err := s.users.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load target user: %v", err)
	}
	if target == nil {
		return nil, apperrors.NewNotFound("Invalid user id")
	}

	if err := s.users.RemoveFriend(ctx, actorID, targetID); err != nil {
		return nil, fmt.Errorf("failed to unfriend: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"actor":  actorID.Hex(),
		"target": targetID.Hex(),
	}).Info("User unfriended")

	return s.reload(ctx, actorID)
}

func (s *FriendService) reload(ctx context.Context, id primitive.ObjectID) (*models.PopulatedUser, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %v", err)
	}
	if user == nil {
		return nil, apperrors.NewNotFound("Invalid user id")
	}
	return populateUser(ctx, s.users, user)
}
