package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rsharma/socialnet/internal/domain"
	"github.com/sirupsen/logrus"
)

// Envelope is the uniform response body. StatusCode mirrors the HTTP status
// so clients reading the body alone see the same outcome.
type Envelope struct {
	Error              bool        `json:"error"`
	Message            string      `json:"message"`
	ErrorCodeForClient string      `json:"errorCodeForClient"`
	StatusCode         int         `json:"statusCode"`
	Data               interface{} `json:"data"`
}

func writeEnvelope(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode)
	json.NewEncoder(w).Encode(env)
}

func writeSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeEnvelope(w, Envelope{
		Error:      false,
		Message:    message,
		StatusCode: http.StatusOK,
		Data:       data,
	})
}

func writeFailure(w http.ResponseWriter, statusCode int, message, errorCode string, data interface{}) {
	writeEnvelope(w, Envelope{
		Error:              true,
		Message:            message,
		ErrorCodeForClient: errorCode,
		StatusCode:         statusCode,
		Data:               data,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeFailure(w, http.StatusBadRequest, message, "inputParamsValidationFailed", nil)
}

// writeServiceError translates domain sentinel errors into envelopes.
// Anything unrecognized becomes an opaque 500; stack traces never leave the
// process.
func writeServiceError(w http.ResponseWriter, err error, operation string) {
	var validationErr *domain.ValidationError
	var duplicateErr *domain.DuplicateKeyError

	switch {
	case errors.As(err, &validationErr):
		writeFailure(w, http.StatusBadRequest, validationErr.Reason, validationErr.Code, nil)
	case errors.As(err, &duplicateErr):
		writeFailure(w, http.StatusBadRequest, duplicateErr.Error(), duplicateErr.Field+"AlreadyExists", nil)
	case errors.Is(err, domain.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "User does not exists", "userNotFound", nil)
	case errors.Is(err, domain.ErrSectionNotFound):
		writeFailure(w, http.StatusNotFound, "Section does not exists", "sectionNotFound", nil)
	case errors.Is(err, domain.ErrInvalidUser):
		writeFailure(w, http.StatusForbidden, "Something went wrong. Please try again", "invalidUser", nil)
	case errors.Is(err, domain.ErrUnauthenticated):
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
	default:
		logrus.WithError(err).WithField("operation", operation).Error("unhandled service error")
		writeFailure(w, http.StatusInternalServerError, "Something went wrong. We're working on it", operation+"Error", nil)
	}
}
