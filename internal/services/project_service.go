package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tmcgann/errand-manager/internal/apperrors"
	"github.com/tmcgann/errand-manager/internal/models"
	"github.com/tmcgann/errand-manager/internal/permissions"
	"github.com/tmcgann/errand-manager/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectService encapsulates the business logic for projects, including
// membership management and the delete cascade over errands.
type ProjectService struct {
	projects ProjectStore
	errands  ErrandStore
	users    UserStore
}

// NewProjectService creates a new instance of ProjectService.
func NewProjectService(projects ProjectStore, errands ErrandStore, users UserStore) *ProjectService {
	return &ProjectService{
		projects: projects,
		errands:  errands,
		users:    users,
	}
}

// ProjectInput carries the mutable project fields from the API.
type ProjectInput struct {
	Title       string
	Description string
	Members     []primitive.ObjectID
}

// validateMembers checks every referenced member exists, dropping the author
// from the list since membership never includes the owner.
func (s *ProjectService) validateMembers(ctx context.Context, authorID primitive.ObjectID, memberIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	members := make([]primitive.ObjectID, 0, len(memberIDs))
	seen := make(map[primitive.ObjectID]bool, len(memberIDs))
	for _, id := range memberIDs {
		if id == authorID || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}

	if len(members) == 0 {
		return members, nil
	}

	loaded, err := s.users.GetUsersByIDs(ctx, members)
	if err != nil {
		return nil, fmt.Errorf("failed to validate members: %v", err)
	}
	if len(loaded) != len(members) {
		return nil, apperrors.NewValidation("One or more member ids invalid")
	}

	return members, nil
}

// CreateProject creates a project authored by the actor.
func (s *ProjectService) CreateProject(ctx context.Context, authorID primitive.ObjectID, input ProjectInput) (*models.PopulatedProject, error) {
	members, err := s.validateMembers(ctx, authorID, input.Members)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		Author:      authorID,
		Members:     members,
		CreatedAt:   time.Now(),
	}

	created, err := s.projects.CreateProject(ctx, project)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create project")
		return nil, fmt.Errorf("failed to create project: %v", err)
	}

	logger.Log.WithField("project_id", created.ID.Hex()).Info("Project created in service layer")
	return populateProject(ctx, s.users, created)
}

// GetProject retrieves a project by its ID with author and members
// populated.
func (s *ProjectService) GetProject(ctx context.Context, id primitive.ObjectID) (*models.PopulatedProject, error) {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return populateProject(ctx, s.users, project)
}

// GetAllProjects retrieves every project.
func (s *ProjectService) GetAllProjects(ctx context.Context) ([]models.PopulatedProject, error) {
	projects, err := s.projects.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %v", err)
	}
	return s.populateAll(ctx, projects)
}

// GetAuthorProjects retrieves the projects a user authored.
func (s *ProjectService) GetAuthorProjects(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedProject, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}

	projects, err := s.projects.GetProjectsByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch authored projects: %v", err)
	}
	return s.populateAll(ctx, projects)
}

// GetMemberProjects retrieves the projects a user belongs to as a member.
func (s *ProjectService) GetMemberProjects(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedProject, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}

	projects, err := s.projects.GetProjectsByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member projects: %v", err)
	}
	return s.populateAll(ctx, projects)
}

// UpdateProject replaces a project's title, description and member list.
// Author only.
func (s *ProjectService) UpdateProject(ctx context.Context, actorID, projectID primitive.ObjectID, input ProjectInput) (*models.PopulatedProject, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !permissions.ForProject(actorID, project).CanUpdate {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	members, err := s.validateMembers(ctx, project.Author, input.Members)
	if err != nil {
		return nil, err
	}

	project.Title = input.Title
	project.Description = input.Description
	project.Members = members

	updated, err := s.projects.UpdateProject(ctx, projectID, project)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %v", err)
	}

	logger.Log.WithField("project_id", projectID.Hex()).Info("Project updated in service layer")
	return populateProject(ctx, s.users, updated)
}

// AddMember adds a user to the project's member list. Author only; adding an
// existing member (or the author) is a conflict.
func (s *ProjectService) AddMember(ctx context.Context, actorID, projectID, userID primitive.ObjectID) (*models.PopulatedProject, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !permissions.ForProject(actorID, project).CanManageMembers {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}

	if project.HasMember(userID) || userID == project.Author {
		return nil, apperrors.NewConflict("User already a member")
	}

	if err := s.projects.AddMember(ctx, projectID, userID); err != nil {
		return nil, fmt.Errorf("failed to add member: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"project_id": projectID.Hex(),
		"member_id":  userID.Hex(),
	}).Info("Member added to project")

	return s.GetProject(ctx, projectID)
}

// RemoveMember removes a user from the project's member list. Author only.
func (s *ProjectService) RemoveMember(ctx context.Context, actorID, projectID, userID primitive.ObjectID) (*models.PopulatedProject, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !permissions.ForProject(actorID, project).CanManageMembers {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	if !project.HasMember(userID) {
		return nil, apperrors.NewNotFound("Invalid user id")
	}

	if err := s.projects.RemoveMember(ctx, projectID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"project_id": projectID.Hex(),
		"member_id":  userID.Hex(),
	}).Info("Member removed from project")

	return s.GetProject(ctx, projectID)
}

// RemoveSelf lets a member leave the project.
func (s *ProjectService) RemoveSelf(ctx context.Context, actorID, projectID primitive.ObjectID) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !permissions.ForProject(actorID, project).CanRemoveSelf {
		return apperrors.NewUnauthorized("User not project member")
	}

	if err := s.projects.RemoveMember(ctx, projectID, actorID); err != nil {
		return fmt.Errorf("failed to leave project: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"project_id": projectID.Hex(),
		"member_id":  actorID.Hex(),
	}).Info("Member left project")
	return nil
}

// DeleteProject deletes a project and every errand attached to it. The
// errand sweep runs first; if it fails the project is left in place and the
// error is surfaced, so a re-issued delete can finish the job.
func (s *ProjectService) DeleteProject(ctx context.Context, actorID, projectID primitive.ObjectID) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !permissions.ForProject(actorID, project).CanDelete {
		return apperrors.NewUnauthorized("Invalid credentials")
	}

	deleted, err := s.errands.DeleteErrandsByProject(ctx, projectID)
	if err != nil {
		logger.Log.WithError(err).WithField("project_id", projectID.Hex()).Error("Cascade delete aborted")
		return fmt.Errorf("failed to delete project errands: %v", err)
	}

	if err := s.projects.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"project_id":      projectID.Hex(),
		"errands_removed": deleted,
	}).Info("Project deleted with cascade")
	return nil
}

func (s *ProjectService) loadProject(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %v", err)
	}
	if project == nil {
		return nil, apperrors.NewNotFound("Invalid project id")
	}
	return project, nil
}

func (s *ProjectService) checkUserExists(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up user: %v", err)
	}
	if user == nil {
		return apperrors.NewNotFound("Invalid user id")
	}
	return nil
}

func (s *ProjectService) populateAll(ctx context.Context, projects []models.Project) ([]models.PopulatedProject, error) {
	result := make([]models.PopulatedProject, 0, len(projects))
	for i := range projects {
		populated, err := populateProject(ctx, s.users, &projects[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *populated)
	}
	return result, nil
}
