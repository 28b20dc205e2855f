package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tmcgann/errand-manager/internal/apperrors"
	"github.com/tmcgann/errand-manager/internal/models"
	"github.com/tmcgann/errand-manager/internal/permissions"
	"github.com/tmcgann/errand-manager/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrandService encapsulates the business logic for errands. Every mutating
// operation resolves the actor's capabilities through the permissions
// package before touching the store.
type ErrandService struct {
	errands  ErrandStore
	projects ProjectStore
	users    UserStore
}

// NewErrandService creates a new instance of ErrandService.
func NewErrandService(errands ErrandStore, projects ProjectStore, users UserStore) *ErrandService {
	return &ErrandService{
		errands:  errands,
		projects: projects,
		users:    users,
	}
}

// ErrandInput carries the mutable errand fields from the API.
type ErrandInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.Priority
	Project     *primitive.ObjectID
}

// normalizePriority coerces an empty priority to None and rejects unknown
// values.
func normalizePriority(p models.Priority) (models.Priority, error) {
	if p == "" {
		return models.PriorityNone, nil
	}
	if !p.Valid() {
		return "", apperrors.NewValidation("Invalid priority")
	}
	return p, nil
}

// CreateErrand creates an errand authored by the actor, optionally attached
// to an existing project.
func (s *ErrandService) CreateErrand(ctx context.Context, authorID primitive.ObjectID, input ErrandInput) (*models.PopulatedErrand, error) {
	priority, err := normalizePriority(input.Priority)
	if err != nil {
		return nil, err
	}

	if input.Project != nil {
		project, err := s.projects.GetProjectByID(ctx, *input.Project)
		if err != nil {
			return nil, fmt.Errorf("failed to check project: %v", err)
		}
		if project == nil {
			return nil, apperrors.NewNotFound("Invalid project id")
		}
	}

	errand := &models.Errand{
		Title:       input.Title,
		Description: input.Description,
		Author:      authorID,
		CreatedAt:   time.Now(),
		DueDate:     input.DueDate,
		Priority:    priority,
		Project:     input.Project,
	}

	created, err := s.errands.CreateErrand(ctx, errand)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create errand")
		return nil, fmt.Errorf("failed to create errand: %v", err)
	}

	logger.Log.WithField("errand_id", created.ID.Hex()).Info("Errand created in service layer")
	return populateErrand(ctx, s.users, s.projects, created)
}

// GetErrand retrieves an errand by its ID with author and project populated.
func (s *ErrandService) GetErrand(ctx context.Context, id primitive.ObjectID) (*models.PopulatedErrand, error) {
	errand, err := s.loadErrand(ctx, id)
	if err != nil {
		return nil, err
	}
	return populateErrand(ctx, s.users, s.projects, errand)
}

// GetAllErrands retrieves every errand sorted by creation date.
func (s *ErrandService) GetAllErrands(ctx context.Context) ([]models.PopulatedErrand, error) {
	errands, err := s.errands.GetAllErrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch errands: %v", err)
	}
	return s.populateAll(ctx, errands)
}

// GetUserErrands retrieves the errands a user authored.
func (s *ErrandService) GetUserErrands(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedErrand, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}

	errands, err := s.errands.GetErrandsByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user errands: %v", err)
	}
	return s.populateAll(ctx, errands)
}

// GetAllUserErrands retrieves everything on a user's plate: their standalone
// errands plus every errand of every project they author or belong to,
// merged in creation order.
func (s *ErrandService) GetAllUserErrands(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedErrand, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}

	errands, err := s.errands.GetStandaloneErrandsByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standalone errands: %v", err)
	}

	projects, err := s.projects.GetProjectsByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user projects: %v", err)
	}

	for i := range projects {
		projectErrands, err := s.errands.GetErrandsByProject(ctx, projects[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch project errands: %v", err)
		}
		errands = append(errands, projectErrands...)
	}

	sort.SliceStable(errands, func(i, j int) bool {
		return errands[i].CreatedAt.Before(errands[j].CreatedAt)
	})

	return s.populateAll(ctx, errands)
}

// GetProjectErrands retrieves every errand attached to a project.
func (s *ErrandService) GetProjectErrands(ctx context.Context, projectID primitive.ObjectID) ([]models.PopulatedErrand, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project: %v", err)
	}
	if project == nil {
		return nil, apperrors.NewNotFound("Invalid project id")
	}

	errands, err := s.errands.GetErrandsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project errands: %v", err)
	}
	return s.populateAll(ctx, errands)
}

// UpdateErrand replaces the mutable fields of an errand. Permitted for the
// errand author and, when attached to a project, for the project author and
// members. The original author and completion state are preserved.
func (s *ErrandService) UpdateErrand(ctx context.Context, actorID, errandID primitive.ObjectID, input ErrandInput) (*models.PopulatedErrand, error) {
	errand, err := s.loadErrand(ctx, errandID)
	if err != nil {
		return nil, err
	}

	parent, err := s.loadParentProject(ctx, errand)
	if err != nil {
		return nil, err
	}

	if !permissions.ForErrand(actorID, errand, parent).CanEdit {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	priority, err := normalizePriority(input.Priority)
	if err != nil {
		return nil, err
	}

	if input.Project != nil {
		project, err := s.projects.GetProjectByID(ctx, *input.Project)
		if err != nil {
			return nil, fmt.Errorf("failed to check project: %v", err)
		}
		if project == nil {
			return nil, apperrors.NewNotFound("Invalid project id")
		}
	}

	errand.Title = input.Title
	errand.Description = input.Description
	errand.DueDate = input.DueDate
	errand.Priority = priority
	errand.Project = input.Project

	updated, err := s.errands.UpdateErrand(ctx, errandID, errand)
	if err != nil {
		return nil, fmt.Errorf("failed to update errand: %v", err)
	}

	logger.Log.WithField("errand_id", errandID.Hex()).Info("Errand updated in service layer")
	return populateErrand(ctx, s.users, s.projects, updated)
}

// ToggleErrand flips the completion flag, under the same permission rule as
// update.
func (s *ErrandService) ToggleErrand(ctx context.Context, actorID, errandID primitive.ObjectID) (*models.PopulatedErrand, error) {
	errand, err := s.loadErrand(ctx, errandID)
	if err != nil {
		return nil, err
	}

	parent, err := s.loadParentProject(ctx, errand)
	if err != nil {
		return nil, err
	}

	if !permissions.ForErrand(actorID, errand, parent).CanToggle {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	updated, err := s.errands.SetComplete(ctx, errandID, !errand.IsComplete)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle errand: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"errand_id":   errandID.Hex(),
		"is_complete": updated.IsComplete,
	}).Info("Errand toggled")
	return populateErrand(ctx, s.users, s.projects, updated)
}

// DeleteErrand removes an errand, under the same permission rule as update.
func (s *ErrandService) DeleteErrand(ctx context.Context, actorID, errandID primitive.ObjectID) error {
	errand, err := s.loadErrand(ctx, errandID)
	if err != nil {
		return err
	}

	parent, err := s.loadParentProject(ctx, errand)
	if err != nil {
		return err
	}

	if !permissions.ForErrand(actorID, errand, parent).CanDelete {
		return apperrors.NewUnauthorized("Invalid credentials")
	}

	if err := s.errands.DeleteErrand(ctx, errandID); err != nil {
		return fmt.Errorf("failed to delete errand: %v", err)
	}

	logger.Log.WithField("errand_id", errandID.Hex()).Info("Errand deleted in service layer")
	return nil
}

func (s *ErrandService) loadErrand(ctx context.Context, id primitive.ObjectID) (*models.Errand, error) {
	errand, err := s.errands.GetErrandByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get errand: %v", err)
	}
	if errand == nil {
		return nil, apperrors.NewNotFound("Invalid errand id")
	}
	return errand, nil
}

// loadParentProject resolves the errand's project reference. A dangling
// reference degrades to nil, which leaves the errand under standalone
// (author-only) rules.
func (s *ErrandService) loadParentProject(ctx context.Context, errand *models.Errand) (*models.Project, error) {
	if errand.Project == nil {
		return nil, nil
	}
	project, err := s.projects.GetProjectByID(ctx, *errand.Project)
	if err != nil {
		return nil, fmt.Errorf("failed to load parent project: %v", err)
	}
	return project, nil
}

func (s *ErrandService) checkUserExists(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up user: %v", err)
	}
	if user == nil {
		return apperrors.NewNotFound("Invalid user id")
	}
	return nil
}

func (s *ErrandService) populateAll(ctx context.Context, errands []models.Errand) ([]models.PopulatedErrand, error) {
	result := make([]models.PopulatedErrand, 0, len(errands))
	for i := range errands {
		populated, err := populateErrand(ctx, s.users, s.projects, &errands[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *populated)
	}
	return result, nil
}
