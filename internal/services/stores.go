package services

import (
	"context"

	"github.com/tmcgann/errand-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the persistence contract the services need for users and the
// friend graph lists stored on user documents. Satisfied by
// repository.UserRepository.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	AddFriendRequest(ctx context.Context, targetID, requesterID primitive.ObjectID) error
	AddPendingRequest(ctx context.Context, requesterID, targetID primitive.ObjectID) error
	ClearFriendRequest(ctx context.Context, targetID, requesterID primitive.ObjectID) error
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
}

// ProjectStore is the persistence contract for projects. Satisfied by
// repository.ProjectRepository.
type ProjectStore interface {
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	GetProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	GetAllProjects(ctx context.Context) ([]models.Project, error)
	GetProjectsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Project, error)
	GetProjectsByMember(ctx context.Context, memberID primitive.ObjectID) ([]models.Project, error)
	GetProjectsByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
	UpdateProject(ctx context.Context, id primitive.ObjectID, project *models.Project) (*models.Project, error)
	AddMember(ctx context.Context, projectID, userID primitive.ObjectID) error
	RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) error
	DeleteProject(ctx context.Context, id primitive.ObjectID) error
}

// ErrandStore is the persistence contract for errands. Satisfied by
// repository.ErrandRepository.
type ErrandStore interface {
	CreateErrand(ctx context.Context, errand *models.Errand) (*models.Errand, error)
	GetErrandByID(ctx context.Context, id primitive.ObjectID) (*models.Errand, error)
	GetAllErrands(ctx context.Context) ([]models.Errand, error)
	GetErrandsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Errand, error)
	GetStandaloneErrandsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Errand, error)
	GetErrandsByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Errand, error)
	UpdateErrand(ctx context.Context, id primitive.ObjectID, errand *models.Errand) (*models.Errand, error)
	SetComplete(ctx context.Context, id primitive.ObjectID, complete bool) (*models.Errand, error)
	DeleteErrand(ctx context.Context, id primitive.ObjectID) error
	DeleteErrandsByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
}
