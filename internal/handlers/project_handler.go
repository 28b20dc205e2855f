package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tmcgann/errand-manager/internal/services"
	"github.com/tmcgann/errand-manager/pkg/validator"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectHandler handles HTTP requests related to projects.
type ProjectHandler struct {
	Service *services.ProjectService
}

// NewProjectHandler creates a new instance of ProjectHandler.
func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

type projectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

func (req *projectRequest) toInput(w http.ResponseWriter) (services.ProjectInput, bool) {
	v := validator.New()
	v.Require("title", req.Title, "Title is required")
	if !v.Valid() {
		writeValidationErrors(w, v.Errors())
		return services.ProjectInput{}, false
	}

	members := make([]primitive.ObjectID, 0, len(req.Members))
	for _, raw := range req.Members {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "One or more member ids invalid")
			return services.ProjectInput{}, false
		}
		members = append(members, id)
	}

	return services.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Members:     members,
	}, true
}

// CreateProjectHandler creates a project authored by the logged-in user.
func (h *ProjectHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid request payload during project creation")
		writeErrorMsg(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	input, ok := req.toInput(w)
	if !ok {
		return
	}

	project, err := h.Service.CreateProject(r.Context(), actor, input)
	if err != nil {
		log.WithError(err).Warn("Failed to create project")
		writeDomainError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":    actor.Hex(),
		"projectID": project.ID.Hex(),
	}).Info("Project successfully created")
	writeJSON(w, http.StatusOK, project)
}

// GetAllProjectsHandler returns every project.
func (h *ProjectHandler) GetAllProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.GetAllProjects(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to fetch all projects")
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProjectHandler returns a project by id.
func (h *ProjectHandler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, mux.Vars(r)["id"], "Invalid project id")
	if !ok {
		return
	}

	project, err := h.Service.GetProject(r.Context(), id)
	if err != nil {
		log.WithField("projectID", id.Hex()).WithError(err).Warn("Project not found")
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// GetAuthorProjectsHandler returns the projects authored by the user in the
// path.
func (h *ProjectHandler) GetAuthorProjectsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, mux.Vars(r)["userid"], "Invalid user id")
	if !ok {
		return
	}

	projects, err := h.Service.GetAuthorProjects(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetMemberProjectsHandler returns the projects the user in the path belongs
// to.
func (h *ProjectHandler) GetMemberProjectsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, mux.Vars(r)["userid"], "Invalid user id")
	if !ok {
		return
	}

	projects, err := h.Service.GetMemberProjects(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// UpdateProjectHandler replaces a project's title, description and members.
func (h *ProjectHandler) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	projectID, ok := pathID(w, mux.Vars(r)["id"], "Invalid project id")
	if !ok {
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid update payload")
		writeErrorMsg(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	input, ok := req.toInput(w)
	if !ok {
		return
	}

	project, err := h.Service.UpdateProject(r.Context(), actor, projectID, input)
	if err != nil {
		log.WithField("projectID", projectID.Hex()).WithError(err).Warn("Failed to update project")
		writeDomainError(w, err)
		return
	}

	log.WithField("projectID", projectID.Hex()).Info("Project successfully updated")
	writeJSON(w, http.StatusOK, project)
}

type memberRequest struct {
	UserID string `json:"userid"`
}

// AddMemberHandler adds a member to the project.
func (h *ProjectHandler) AddMemberHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	projectID, ok := pathID(w, mux.Vars(r)["id"], "Invalid project id")
	if !ok {
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	userID, ok := pathID(w, req.UserID, "Invalid user id")
	if !ok {
		return
	}

	project, err := h.Service.AddMember(r.Context(), actor, projectID, userID)
	if err != nil {
		log.WithField("projectID", projectID.Hex()).WithError(err).Warn("Failed to add member")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// RemoveMemberHandler removes a member from the project.
func (h *ProjectHandler) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	projectID, ok := pathID(w, mux.Vars(r)["id"], "Invalid project id")
	if !ok {
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	userID, ok := pathID(w, req.UserID, "Invalid user id")
	if !ok {
		return
	}

	project, err := h.Service.RemoveMember(r.Context(), actor, projectID, userID)
	if err != nil {
		log.WithField("projectID", projectID.Hex()).WithError(err).Warn("Failed to remove member")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// RemoveSelfHandler lets the logged-in user leave the project.
func (h *ProjectHandler) RemoveSelfHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	projectID, ok := pathID(w, mux.Vars(r)["id"], "Invalid project id")
	if !ok {
		return
	}

	if err := h.Service.RemoveSelf(r.Context(), actor, projectID); err != nil {
		log.WithField("projectID", projectID.Hex()).WithError(err).Warn("Failed to leave project")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "Removed from project"})
}

// DeleteProjectHandler deletes a project and all errands attached to it.
func (h *ProjectHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	projectID, ok := pathID(w, mux.Vars(r)["id"], "Invalid project id")
	if !ok {
		return
	}

	if err := h.Service.DeleteProject(r.Context(), actor, projectID); err != nil {
		log.WithField("projectID", projectID.Hex()).WithError(err).Warn("Failed to delete project")
		writeDomainError(w, err)
		return
	}

	log.WithField("projectID", projectID.Hex()).Info("Project deleted successfully")
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Project deleted"})
}
