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

// ErrandRepository handles database operations related to errands.
type ErrandRepository struct {
	collection *mongo.Collection
}

// NewErrandRepository creates a new instance of ErrandRepository.
func NewErrandRepository(db *mongo.Database) *ErrandRepository {
	return &ErrandRepository{
		collection: db.Collection("errands"),
	}
}

// CreateErrand inserts a new errand into the database.
func (r *ErrandRepository) CreateErrand(ctx context.Context, errand *models.Errand) (*models.Errand, error) {
	errand.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, errand)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert errand")
		return nil, fmt.Errorf("failed to insert errand: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	errand.ID = insertedID

	logger.Log.WithField("errand_id", errand.ID.Hex()).Info("Errand created successfully")
	return errand, nil
}

// GetErrandByID fetches an errand by its ID. Returns (nil, nil) when absent.
func (r *ErrandRepository) GetErrandByID(ctx context.Context, id primitive.ObjectID) (*models.Errand, error) {
	var errand models.Errand
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&errand)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("errand_id", id.Hex()).Error("Failed to find errand by ID")
		return nil, fmt.Errorf("failed to find errand: %v", err)
	}
	return &errand, nil
}

// GetAllErrands fetches every errand sorted by creation date.
func (r *ErrandRepository) GetAllErrands(ctx context.Context) ([]models.Errand, error) {
	return r.findErrands(ctx, bson.M{})
}

// GetErrandsByAuthor fetches the errands a user authored.
func (r *ErrandRepository) GetErrandsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Errand, error) {
	return r.findErrands(ctx, bson.M{"author": authorID})
}

// GetStandaloneErrandsByAuthor fetches the user's errands not attached to
// any project.
func (r *ErrandRepository) GetStandaloneErrandsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Errand, error) {
	return r.findErrands(ctx, bson.M{"author": authorID, "project": nil})
}

// GetErrandsByProject fetches every errand attached to a project.
func (r *ErrandRepository) GetErrandsByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Errand, error) {
	return r.findErrands(ctx, bson.M{"project": projectID})
}

func (r *ErrandRepository) findErrands(ctx context.Context, filter bson.M) ([]models.Errand, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch errands")
		return nil, fmt.Errorf("failed to fetch errands: %v", err)
	}
	defer cursor.Close(ctx)

	var errands []models.Errand
	for cursor.Next(ctx) {
		var errand models.Errand
		if err := cursor.Decode(&errand); err != nil {
			logger.Log.WithError(err).Error("Failed to decode errand")
			return nil, err
		}
		errands = append(errands, errand)
	}

	return errands, nil
}

// UpdateErrand replaces the mutable fields of an errand and returns the
// updated document.
func (r *ErrandRepository) UpdateErrand(ctx context.Context, id primitive.ObjectID, errand *models.Errand) (*models.Errand, error) {
	update := bson.M{"$set": bson.M{
		"title":       errand.Title,
		"description": errand.Description,
		"due_date":    errand.DueDate,
		"priority":    errand.Priority,
		"project":     errand.Project,
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("errand_id", id.Hex()).Error("Failed to update errand")
		return nil, fmt.Errorf("failed to update errand: %v", err)
	}

	logger.Log.WithField("errand_id", id.Hex()).Info("Errand updated successfully")
	return r.GetErrandByID(ctx, id)
}

// SetComplete sets the completion flag and returns the updated errand.
func (r *ErrandRepository) SetComplete(ctx context.Context, id primitive.ObjectID, complete bool) (*models.Errand, error) {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_complete": complete}},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("errand_id", id.Hex()).Error("Failed to toggle errand")
		return nil, fmt.Errorf("failed to toggle errand: %v", err)
	}
	return r.GetErrandByID(ctx, id)
}

// DeleteErrand deletes an errand from the database by its ID.
func (r *ErrandRepository) DeleteErrand(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("errand_id", id.Hex()).Error("Failed to delete errand")
		return fmt.Errorf("failed to delete errand: %v", err)
	}

	logger.Log.WithField("errand_id", id.Hex()).Info("Errand deleted successfully")
	return nil
}

// DeleteErrandsByProject removes every errand attached to the project. Used
// by the project delete cascade; it runs before the project itself is
// removed so a failure here aborts the cascade.
func (r *ErrandRepository) DeleteErrandsByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"project": projectID})
	if err != nil {
		logger.Log.WithError(err).WithField("project_id", projectID.Hex()).Error("Failed to delete project errands")
		return 0, fmt.Errorf("failed to delete project errands: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"project_id": projectID.Hex(),
		"count":      result.DeletedCount,
	}).Info("Project errands deleted")
	return result.DeletedCount, nil
}
