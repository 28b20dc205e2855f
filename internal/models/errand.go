package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority ranks an errand. The zero value on the wire is "None".
type Priority string

const (
	PriorityNone   Priority = "None"
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether the priority is one of the allowed values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Errand is a todo item, either standalone or attached to a project.
type Errand struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Author      primitive.ObjectID  `bson:"author" json:"author"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	DueDate     *time.Time          `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Priority    Priority            `bson:"priority" json:"priority"`
	Project     *primitive.ObjectID `bson:"project,omitempty" json:"project,omitempty"`
	IsComplete  bool                `bson:"is_complete" json:"is_complete"`
}

// PopulatedErrand is an errand with its author and project hydrated.
type PopulatedErrand struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Author      PublicUser         `json:"author"`
	CreatedAt   time.Time          `json:"created_at"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	Priority    Priority           `json:"priority"`
	Project     *PopulatedProject  `json:"project,omitempty"`
	IsComplete  bool               `json:"is_complete"`
}
