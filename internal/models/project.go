package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a shared workspace for errands. The author owns it; members
// hold collaboration rights over its errands but never include the author.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Author      primitive.ObjectID   `bson:"author" json:"author"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
}

// HasMember reports whether the given user is in the member list.
func (p *Project) HasMember(id primitive.ObjectID) bool {
	for _, m := range p.Members {
		if m == id {
			return true
		}
	}
	return false
}

// PopulatedProject is a project with author and members hydrated.
type PopulatedProject struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Author      PublicUser         `json:"author"`
	Members     []PublicUser       `json:"members"`
	CreatedAt   time.Time          `json:"created_at"`
}
