package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account, including its friend graph state.
// Friends is symmetric; FriendRequests holds incoming requests and
// PendingRequests holds requests this user has sent.
type User struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username        string               `bson:"username" json:"username"`
	Email           string               `bson:"email" json:"email"`
	HashedPassword  string               `bson:"hashed_password" json:"-"`
	Avatar          string               `bson:"avatar" json:"avatar"`
	CreatedAt       time.Time            `bson:"created_at" json:"created_at"`
	Friends         []primitive.ObjectID `bson:"friends" json:"friends"`
	FriendRequests  []primitive.ObjectID `bson:"friend_requests" json:"friend_requests"`
	PendingRequests []primitive.ObjectID `bson:"pending_requests" json:"pending_requests"`
}

// PublicUser is the projection of a user safe to embed in other documents.
type PublicUser struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Avatar   string             `json:"avatar"`
}

// Public returns the embeddable projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}

// PopulatedUser is a user with its friend graph references hydrated.
type PopulatedUser struct {
	ID              primitive.ObjectID `json:"id"`
	Username        string             `json:"username"`
	Email           string             `json:"email"`
	Avatar          string             `json:"avatar"`
	CreatedAt       time.Time          `json:"created_at"`
	Friends         []PublicUser       `json:"friends"`
	FriendRequests  []PublicUser       `json:"friend_requests"`
	PendingRequests []PublicUser       `json:"pending_requests"`
}
