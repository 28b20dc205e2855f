package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tmcgann/errand-manager/internal/apperrors"
	"github.com/tmcgann/errand-manager/internal/models"
	"github.com/tmcgann/errand-manager/pkg/gravatar"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService encapsulates the business logic for accounts.
type UserService struct {
	users UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// RegisterUser creates a new account with a hashed password and a generated
// avatar. Field-shape validation happens at the handler; this enforces email
// uniqueness.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	logrus.WithField("email", email).Info("Registering new user")

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %v", err)
	}
	if existing != nil {
		logrus.WithField("email", email).Warn("Email already in use")
		return nil, apperrors.NewConflict("Email already associated with account")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:        username,
		Email:           email,
		HashedPassword:  string(hashedPwd),
		Avatar:          gravatar.URL(email),
		CreatedAt:       time.Now(),
		Friends:         []primitive.ObjectID{},
		FriendRequests:  []primitive.ObjectID{},
		PendingRequests: []primitive.ObjectID{},
	}

	createdUser, err := s.users.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	return createdUser, nil
}

// AuthenticateUser verifies the email and password and returns the user if
// credentials are valid. Unknown email and wrong password produce the same
// generic error.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	logrus.WithField("email", email).Info("Authenticating user")

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %v", err)
	}
	if user == nil {
		logrus.WithField("email", email).Warn("User not found")
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by id with the friend graph populated.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.PopulatedUser, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	if user == nil {
		return nil, apperrors.NewNotFound("Invalid user id")
	}

	return populateUser(ctx, s.users, user)
}

// GetAllUsers returns the public profile of every user, sorted by username.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}

	profiles := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Public())
	}
	return profiles, nil
}
