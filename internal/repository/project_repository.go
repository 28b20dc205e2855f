package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmcgann/errand-manager/internal/models"
	"github.com/tmcgann/errand-manager/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectRepository handles database operations related to projects.
type ProjectRepository struct {
	collection *mongo.Collection
}

// NewProjectRepository creates a new instance of ProjectRepository.
func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{
		collection: db.Collection("projects"),
	}
}

// CreateProject inserts a new project into the database.
func (r *ProjectRepository) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert project")
		return nil, fmt.Errorf("failed to insert project: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	project.ID = insertedID

	logger.Log.WithField("project_id", project.ID.Hex()).Info("Project created successfully")
	return project, nil
}

// GetProjectByID fetches a project by its ID. Returns (nil, nil) when absent.
func (r *ProjectRepository) GetProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("project_id", id.Hex()).Error("Failed to find project by ID")
		return nil, fmt.Errorf("failed to find project: %v", err)
	}
	return &project, nil
}

// GetAllProjects fetches every project sorted by creation date.
func (r *ProjectRepository) GetAllProjects(ctx context.Context) ([]models.Project, error) {
	return r.findProjects(ctx, bson.M{})
}

// GetProjectsByAuthor fetches the projects a user authored.
func (r *ProjectRepository) GetProjectsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Project, error) {
	return r.findProjects(ctx, bson.M{"author": authorID})
}

// GetProjectsByMember fetches the projects a user belongs to as a member.
func (r *ProjectRepository) GetProjectsByMember(ctx context.Context, memberID primitive.ObjectID) ([]models.Project, error) {
	return r.findProjects(ctx, bson.M{"members": memberID})
}

// GetProjectsByParticipant fetches projects the user authored or belongs to.
func (r *ProjectRepository) GetProjectsByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"author": userID},
			{"members": userID},
		},
	}
	return r.findProjects(ctx, filter)
}

func (r *ProjectRepository) findProjects(ctx context.Context, filter bson.M) ([]models.Project, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch projects")
		return nil, fmt.Errorf("failed to fetch projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	for cursor.Next(ctx) {
		var project models.Project
		if err := cursor.Decode(&project); err != nil {
			logger.Log.WithError(err).Error("Failed to decode project")
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, nil
}

// UpdateProject replaces the mutable fields of a project and returns the
// updated document.
func (r *ProjectRepository) UpdateProject(ctx context.Context, id primitive.ObjectID, project *models.Project) (*models.Project, error) {
	update := bson.M{"$set": bson.M{
		"title":       project.Title,
		"description": project.Description,
		"members":     project.Members,
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("project_id", id.Hex()).Error("Failed to update project")
		return nil, fmt.Errorf("failed to update project: %v", err)
	}

	logger.Log.WithField("project_id", id.Hex()).Info("Project updated successfully")
	return r.GetProjectByID(ctx, id)
}

// AddMember appends a user to the project's member list without duplicates.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": projectID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %v", err)
	}
	return nil
}

// RemoveMember pulls a user from the project's member list.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": projectID},
		bson.M{"$pull": bson.M{"members": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %v", err)
	}
	return nil
}

// DeleteProject deletes a project from the database by its ID.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("project_id", id.Hex()).Error("Failed to delete project")
		return fmt.Errorf("failed to delete project: %v", err)
	}

	logger.Log.WithField("project_id", id.Hex()).Info("Project deleted successfully")
	return nil
}
