package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tmcgann/errand-manager/internal/apperrors"
	"github.com/tmcgann/errand-manager/pkg/middleware"
	"github.com/tmcgann/errand-manager/pkg/validator"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// apiError is one entry of the uniform error body {"errors":[{"msg":...}]}.
type apiError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

type errorResponse struct {
	Errors []apiError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Errors: []apiError{{Msg: msg}}})
}

// writeDomainError translates a service error into the API error shape.
// Internal errors are logged and surfaced opaquely.
func writeDomainError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Unexpected error handling request")
		writeErrorMsg(w, status, "Server error")
		return
	}
	writeErrorMsg(w, status, err.Error())
}

func writeValidationErrors(w http.ResponseWriter, errs []validator.FieldError) {
	out := make([]apiError, 0, len(errs))
	for _, e := range errs {
		out = append(out, apiError{Msg: e.Msg, Param: e.Param})
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Errors: out})
}

// actorID extracts the authenticated user's id from the request context.
// Returns false (after writing a 401) when the request carries no valid
// claims.
func actorID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		log.Warn("Request reached handler without auth claims")
		writeErrorMsg(w, http.StatusUnauthorized, "Invalid credentials")
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		log.WithError(err).Warn("Malformed user id in token claims")
		writeErrorMsg(w, http.StatusUnauthorized, "Invalid credentials")
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathID parses a hex ObjectID from a route variable, writing the given
// not-found style message on failure.
func pathID(w http.ResponseWriter, raw, msg string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, msg)
		return primitive.NilObjectID, false
	}
	return id, true
}
