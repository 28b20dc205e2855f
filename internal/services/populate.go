package services

import (
	"context"
	"fmt"

	"github.com/tmcgann/errand-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reference hydration, made explicit instead of relying on an ORM graph
// walk. Each populate function loads exactly the relations its view struct
// needs. Dangling references degrade to a bare id rather than failing the
// whole read.

func publicUserOrRef(ctx context.Context, users UserStore, id primitive.ObjectID) (models.PublicUser, error) {
	user, err := users.GetUserByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	if user == nil {
		return models.PublicUser{ID: id}, nil
	}
	return user.Public(), nil
}

func publicUsersByIDs(ctx context.Context, users UserStore, ids []primitive.ObjectID) ([]models.PublicUser, error) {
	result := make([]models.PublicUser, 0, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	loaded, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load referenced users: %v", err)
	}

	byID := make(map[primitive.ObjectID]models.User, len(loaded))
	for _, u := range loaded {
		byID[u.ID] = u
	}

	// Preserve the order of the reference list.
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			result = append(result, u.Public())
		}
	}
	return result, nil
}

func populateUser(ctx context.Context, users UserStore, user *models.User) (*models.PopulatedUser, error) {
	friends, err := publicUsersByIDs(ctx, users, user.Friends)
	if err != nil {
		return nil, err
	}
	requests, err := publicUsersByIDs(ctx, users, user.FriendRequests)
	if err != nil {
		return nil, err
	}
	pending, err := publicUsersByIDs(ctx, users, user.PendingRequests)
	if err != nil {
		return nil, err
	}

	return &models.PopulatedUser{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		Avatar:          user.Avatar,
		CreatedAt:       user.CreatedAt,
		Friends:         friends,
		FriendRequests:  requests,
		PendingRequests: pending,
	}, nil
}

func populateProject(ctx context.Context, users UserStore, project *models.Project) (*models.PopulatedProject, error) {
	author, err := publicUserOrRef(ctx, users, project.Author)
	if err != nil {
		return nil, err
	}
	members, err := publicUsersByIDs(ctx, users, project.Members)
	if err != nil {
		return nil, err
	}

	return &models.PopulatedProject{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Author:      author,
		Members:     members,
		CreatedAt:   project.CreatedAt,
	}, nil
}

func populateErrand(ctx context.Context, users UserStore, projects ProjectStore, errand *models.Errand) (*models.PopulatedErrand, error) {
	author, err := publicUserOrRef(ctx, users, errand.Author)
	if err != nil {
		return nil, err
	}

	var project *models.PopulatedProject
	if errand.Project != nil {
		parent, err := projects.GetProjectByID(ctx, *errand.Project)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			project, err = populateProject(ctx, users, parent)
			if err != nil {
				return nil, err
			}
		}
	}

	return &models.PopulatedErrand{
		ID:          errand.ID,
		Title:       errand.Title,
		Description: errand.Description,
		Author:      author,
		CreatedAt:   errand.CreatedAt,
		DueDate:     errand.DueDate,
		Priority:    errand.Priority,
		Project:     project,
		IsComplete:  errand.IsComplete,
	}, nil
}
