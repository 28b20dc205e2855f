package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tmcgann/errand-manager/internal/config"
	"github.com/tmcgann/errand-manager/internal/services"
	jwtutil "github.com/tmcgann/errand-manager/pkg/jwt"
	"github.com/tmcgann/errand-manager/pkg/validator"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests for accounts and profiles.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUserHandler creates an account and returns a signed token.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("RegisterUserHandler called")
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		writeErrorMsg(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	v := validator.New()
	v.Require("username", req.Username, "Username is required")
	v.Email("email", req.Email, "Email is required")
	v.MinLength("password", req.Password, 6, "Password must be at least 6 characters")
	if !v.Valid() {
		writeValidationErrors(w, v.Errors())
		return
	}

	user, err := h.Service.RegisterUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		log.WithError(err).Warn("Failed to register user")
		writeDomainError(w, err)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		writeErrorMsg(w, http.StatusInternalServerError, "Server error")
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User registered successfully")
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// LoginUserHandler verifies credentials and returns a signed token.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("LoginUserHandler called")
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		writeErrorMsg(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	v := validator.New()
	v.Email("email", req.Email, "Email is required")
	v.MinLength("password", req.Password, 6, "Password must be at least 6 characters")
	if !v.Valid() {
		writeValidationErrors(w, v.Errors())
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		log.WithField("email", req.Email).WithError(err).Warn("Authentication failed")
		writeDomainError(w, err)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		writeErrorMsg(w, http.StatusInternalServerError, "Server error")
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetUserDetailHandler returns the logged-in user's profile with the friend
// graph populated.
func (h *UserHandler) GetUserDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := actorID(w, r)
	if !ok {
		return
	}

	user, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		log.WithField("userID", id.Hex()).WithError(err).Warn("Failed to fetch user detail")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// GetUserHandler returns a profile by id.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := pathID(w, vars["id"], "Invalid user id")
	if !ok {
		return
	}

	user, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		log.WithField("userID", vars["id"]).WithError(err).Warn("User not found")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// GetAllUsersHandler returns every user's public profile.
func (h *UserHandler) GetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAllUsers(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to fetch users")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
