package handlers

import (
	"net/http"

	"github.com/tmcgann/errand-manager/internal/services"
	"github.com/tmcgann/errand-manager/pkg/logger"
	"github.com/gorilla/mux"
)

// FriendHandler manages HTTP endpoints for the friend graph.
type FriendHandler struct {
	Service *services.FriendService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{Service: service}
}

// SendRequestHandler sends a friend request to the user in the path.
func (h *FriendHandler) SendRequestHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	target, ok := pathID(w, mux.Vars(r)["id"], "Invalid user id")
	if !ok {
		return
	}

	user, err := h.Service.SendRequest(r.Context(), actor, target)
	if err != nil {
		logger.Log.Warnf("Failed to send friend request: %v", err)
		writeDomainError(w, err)
		return
	}

	logger.Log.Infof("User %s sent a friend request to %s", actor.Hex(), target.Hex())
	writeJSON(w, http.StatusOK, user)
}

// AcceptRequestHandler accepts a pending friend request from the user in the
// path.
func (h *FriendHandler) AcceptRequestHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	requester, ok := pathID(w, mux.Vars(r)["id"], "Invalid user id")
	if !ok {
		return
	}

	user, err := h.Service.AcceptRequest(r.Context(), actor, requester)
	if err != nil {
		logger.Log.Warnf("Failed to accept friend request: %v", err)
		writeDomainError(w, err)
		return
	}

	logger.Log.Infof("User %s accepted a friend request from %s", actor.Hex(), requester.Hex())
	writeJSON(w, http.StatusOK, user)
}

// DeclineRequestHandler declines a pending friend request from the user in
// the path.
func (h *FriendHandler) DeclineRequestHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	requester, ok := pathID(w, mux.Vars(r)["id"], "Invalid user id")
	if !ok {
		return
	}

	user, err := h.Service.DeclineRequest(r.Context(), actor, requester)
	if err != nil {
		logger.Log.Warnf("Failed to decline friend request: %v", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UnfriendHandler removes the friendship with the user in the path.
func (h *FriendHandler) UnfriendHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	target, ok := pathID(w, mux.Vars(r)["id"], "Invalid user id")
	if !ok {
		return
	}

	user, err := h.Service.Unfriend(r.Context(), actor, target)
	if err != nil {
		logger.Log.Warnf("Failed to unfriend: %v", err)
		writeDomainError(w, err)
		return
	}

	logger.Log.Infof("User %s unfriended %s", actor.Hex(), target.Hex())
	writeJSON(w, http.StatusOK, user)
}
