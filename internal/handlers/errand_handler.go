package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tmcgann/errand-manager/internal/models"
	"github.com/tmcgann/errand-manager/internal/services"
	"github.com/tmcgann/errand-manager/pkg/validator"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrandHandler handles HTTP requests related to errands.
type ErrandHandler struct {
	Service *services.ErrandService
}

// NewErrandHandler creates a new instance of ErrandHandler.
func NewErrandHandler(service *services.ErrandService) *ErrandHandler {
	return &ErrandHandler{Service: service}
}

type errandRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Project     string     `json:"project"`
}

func (req *errandRequest) toInput(w http.ResponseWriter) (services.ErrandInput, bool) {
	v := validator.New()
	v.Require("title", req.Title, "Title is required")
	if !v.Valid() {
		writeValidationErrors(w, v.Errors())
		return services.ErrandInput{}, false
	}

	var project *primitive.ObjectID
	if req.Project != "" {
		id, err := primitive.ObjectIDFromHex(req.Project)
		if err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "Invalid project id")
			return services.ErrandInput{}, false
		}
		project = &id
	}

	return services.ErrandInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    models.Priority(req.Priority),
		Project:     project,
	}, true
}

// CreateErrandHandler creates an errand authored by the logged-in user.
func (h *ErrandHandler) CreateErrandHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req errandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid request payload during errand creation")
		writeErrorMsg(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	input, ok := req.toInput(w)
	if !ok {
		return
	}

	errand, err := h.Service.CreateErrand(r.Context(), actor, input)
	if err != nil {
		log.WithError(err).Warn("Failed to create errand")
		writeDomainError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":   actor.Hex(),
		"errandID": errand.ID.Hex(),
	}).Info("Errand successfully created")
	writeJSON(w, http.StatusOK, errand)
}

// GetAllErrandsHandler returns every errand.
func (h *ErrandHandler) GetAllErrandsHandler(w http.ResponseWriter, r *http.Request) {
	errands, err := h.Service.GetAllErrands(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to fetch all errands")
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, errands)
}

// GetErrandHandler returns an errand by id.
func (h *ErrandHandler) GetErrandHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, mux.Vars(r)["id"], "Invalid errand id")
	if !ok {
		return
	}

	errand, err := h.Service.GetErrand(r.Context(), id)
	if err != nil {
		log.WithField("errandID", id.Hex()).WithError(err).Warn("Errand not found")
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, errand)
}

// GetUserErrandsHandler returns the errands authored by the user in the
// path.
func (h *ErrandHandler) GetUserErrandsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, mux.Vars(r)["userid"], "Invalid user id")
	if !ok {
		return
	}

	errands, err := h.Service.GetUserErrands(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, errands)
}

// GetAllUserErrandsHandler returns the user's standalone errands plus the
// errands of every project they participate in.
func (h *ErrandHandler) GetAllUserErrandsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, mux.Vars(r)["userid"], "Invalid user id")
	if !ok {
		return
	}

	errands, err := h.Service.GetAllUserErrands(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, errands)
}

// GetProjectErrandsHandler returns the errands attached to the project in
// the path.
func (h *ErrandHandler) GetProjectErrandsHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, mux.Vars(r)["projectid"], "Invalid project id")
	if !ok {
		return
	}

	errands, err := h.Service.GetProjectErrands(r.Context(), projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, errands)
}

// UpdateErrandHandler replaces the mutable fields of an errand.
func (h *ErrandHandler) UpdateErrandHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	errandID, ok := pathID(w, mux.Vars(r)["id"], "Invalid errand id")
	if !ok {
		return
	}

	var req errandRequest
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

	errand, err := h.Service.UpdateErrand(r.Context(), actor, errandID, input)
	if err != nil {
		log.WithField("errandID", errandID.Hex()).WithError(err).Warn("Failed to update errand")
		writeDomainError(w, err)
		return
	}

	log.WithField("errandID", errandID.Hex()).Info("Errand successfully updated")
	writeJSON(w, http.StatusOK, errand)
}

// ToggleErrandHandler flips an errand's completion flag.
func (h *ErrandHandler) ToggleErrandHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	errandID, ok := pathID(w, mux.Vars(r)["id"], "Invalid errand id")
	if !ok {
		return
	}

	errand, err := h.Service.ToggleErrand(r.Context(), actor, errandID)
	if err != nil {
		log.WithField("errandID", errandID.Hex()).WithError(err).Warn("Failed to toggle errand")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, errand)
}

// DeleteErrandHandler deletes an errand.
func (h *ErrandHandler) DeleteErrandHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	errandID, ok := pathID(w, mux.Vars(r)["id"], "Invalid errand id")
	if !ok {
		return
	}

	if err := h.Service.DeleteErrand(r.Context(), actor, errandID); err != nil {
		log.WithField("errandID", errandID.Hex()).WithError(err).Warn("Failed to delete errand")
		writeDomainError(w, err)
		return
	}

	log.WithField("errandID", errandID.Hex()).Info("Errand deleted successfully")
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Errand deleted"})
}
