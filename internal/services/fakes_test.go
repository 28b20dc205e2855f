package services

import (
	"context"
	"sort"

	"github.com/tmcgann/errand-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory stand-in for the Mongo repositories. Update
// operations mirror the $addToSet/$pull semantics the real repositories use,
// and lookups of missing ids return (nil, nil) the same way.
type fakeStore struct {
	users    map[primitive.ObjectID]*models.User
	projects map[primitive.ObjectID]*models.Project
	errands  map[primitive.ObjectID]*models.Errand

	errandSweepErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[primitive.ObjectID]*models.User),
		projects: make(map[primitive.ObjectID]*models.Project),
		errands:  make(map[primitive.ObjectID]*models.Errand),
	}
}

func addToSet(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func pull(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// --- UserStore ---

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	copied := *user
	f.users[user.ID] = &copied
	return user, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAllUsers(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeStore) AddFriendRequest(_ context.Context, targetID, requesterID primitive.ObjectID) error {
	if user, ok := f.users[targetID]; ok {
		user.FriendRequests = addToSet(user.FriendRequests, requesterID)
	}
	return nil
}

func (f *fakeStore) AddPendingRequest(_ context.Context, requesterID, targetID primitive.ObjectID) error {
	if user, ok := f.users[requesterID]; ok {
		user.PendingRequests = addToSet(user.PendingRequests, targetID)
	}
	return nil
}

func (f *fakeStore) ClearFriendRequest(_ context.Context, targetID, requesterID primitive.ObjectID) error {
	if user, ok := f.users[targetID]; ok {
		user.FriendRequests = pull(user.FriendRequests, requesterID)
	}
	if user, ok := f.users[requesterID]; ok {
		user.PendingRequests = pull(user.PendingRequests, targetID)
	}
	return nil
}

func (f *fakeStore) AddFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	if user, ok := f.users[userID]; ok {
		user.Friends = addToSet(user.Friends, friendID)
	}
	return nil
}

func (f *fakeStore) RemoveFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	if user, ok := f.users[userID]; ok {
		user.Friends = pull(user.Friends, friendID)
	}
	if user, ok := f.users[friendID]; ok {
		user.Friends = pull(user.Friends, userID)
	}
	return nil
}

// --- ProjectStore ---

func (f *fakeStore) CreateProject(_ context.Context, project *models.Project) (*models.Project, error) {
	project.ID = primitive.NewObjectID()
	copied := *project
	f.projects[project.ID] = &copied
	return project, nil
}

func (f *fakeStore) GetProjectByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	copied := *project
	return &copied, nil
}

func (f *fakeStore) GetAllProjects(_ context.Context) ([]models.Project, error) {
	return f.findProjects(func(*models.Project) bool { return true }), nil
}

func (f *fakeStore) GetProjectsByAuthor(_ context.Context, authorID primitive.ObjectID) ([]models.Project, error) {
	return f.findProjects(func(p *models.Project) bool { return p.Author == authorID }), nil
}

func (f *fakeStore) GetProjectsByMember(_ context.Context, memberID primitive.ObjectID) ([]models.Project, error) {
	return f.findProjects(func(p *models.Project) bool { return p.HasMember(memberID) }), nil
}

func (f *fakeStore) GetProjectsByParticipant(_ context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	return f.findProjects(func(p *models.Project) bool {
		return p.Author == userID || p.HasMember(userID)
	}), nil
}

func (f *fakeStore) findProjects(match func(*models.Project) bool) []models.Project {
	var out []models.Project
	for _, project := range f.projects {
		if match(project) {
			out = append(out, *project)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) UpdateProject(_ context.Context, id primitive.ObjectID, project *models.Project) (*models.Project, error) {
	stored, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	stored.Title = project.Title
	stored.Description = project.Description
	stored.Members = append([]primitive.ObjectID(nil), project.Members...)
	copied := *stored
	return &copied, nil
}

func (f *fakeStore) AddMember(_ context.Context, projectID, userID primitive.ObjectID) error {
	if project, ok := f.projects[projectID]; ok {
		project.Members = addToSet(project.Members, userID)
	}
	return nil
}

func (f *fakeStore) RemoveMember(_ context.Context, projectID, userID primitive.ObjectID) error {
	if project, ok := f.projects[projectID]; ok {
		project.Members = pull(project.Members, userID)
	}
	return nil
}

func (f *fakeStore) DeleteProject(_ context.Context, id primitive.ObjectID) error {
	delete(f.projects, id)
	return nil
}

// --- ErrandStore ---

func (f *fakeStore) CreateErrand(_ context.Context, errand *models.Errand) (*models.Errand, error) {
	errand.ID = primitive.NewObjectID()
	copied := *errand
	f.errands[errand.ID] = &copied
	return errand, nil
}

func (f *fakeStore) GetErrandByID(_ context.Context, id primitive.ObjectID) (*models.Errand, error) {
	errand, ok := f.errands[id]
	if !ok {
		return nil, nil
	}
	copied := *errand
	return &copied, nil
}

func (f *fakeStore) GetAllErrands(_ context.Context) ([]models.Errand, error) {
	return f.findErrands(func(*models.Errand) bool { return true }), nil
}

func (f *fakeStore) GetErrandsByAuthor(_ context.Context, authorID primitive.ObjectID) ([]models.Errand, error) {
	return f.findErrands(func(e *models.Errand) bool { return e.Author == authorID }), nil
}

func (f *fakeStore) GetStandaloneErrandsByAuthor(_ context.Context, authorID primitive.ObjectID) ([]models.Errand, error) {
	return f.findErrands(func(e *models.Errand) bool {
		return e.Author == authorID && e.Project == nil
	}), nil
}

func (f *fakeStore) GetErrandsByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Errand, error) {
	return f.findErrands(func(e *models.Errand) bool {
		return e.Project != nil && *e.Project == projectID
	}), nil
}

func (f *fakeStore) findErrands(match func(*models.Errand) bool) []models.Errand {
	var out []models.Errand
	for _, errand := range f.errands {
		if match(errand) {
			out = append(out, *errand)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) UpdateErrand(_ context.Context, id primitive.ObjectID, errand *models.Errand) (*models.Errand, error) {
	stored, ok := f.errands[id]
	if !ok {
		return nil, nil
	}
	stored.Title = errand.Title
	stored.Description = errand.Description
	stored.DueDate = errand.DueDate
	stored.Priority = errand.Priority
	stored.Project = errand.Project
	copied := *stored
	return &copied, nil
}

func (f *fakeStore) SetComplete(_ context.Context, id primitive.ObjectID, complete bool) (*models.Errand, error) {
	stored, ok := f.errands[id]
	if !ok {
		return nil, nil
	}
	stored.IsComplete = complete
	copied := *stored
	return &copied, nil
}

func (f *fakeStore) DeleteErrand(_ context.Context, id primitive.ObjectID) error {
	delete(f.errands, id)
	return nil
}

func (f *fakeStore) DeleteErrandsByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	if f.errandSweepErr != nil {
		return 0, f.errandSweepErr
	}
	var count int64
	for id, errand := range f.errands {
		if errand.Project != nil && *errand.Project == projectID {
			delete(f.errands, id)
			count++
		}
	}
	return count, nil
}

// seedUser inserts a user directly into the fake store.
func (f *fakeStore) seedUser(username string) *models.User {
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Username: username,
		Email:    username + "@example.com",
	}
	f.users[user.ID] = user
	return user
}
