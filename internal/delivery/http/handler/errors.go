package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/gorilla/mux"
)

// ViolationResponse is one entry of a 400 validation body
type ViolationResponse struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func violationsToResponse(verr *scheduling.ValidationError) []ViolationResponse {
	out := make([]ViolationResponse, len(verr.Violations))
	for i, v := range verr.Violations {
		message := v.Kind.Error()
		if v.Detail != "" {
			message = v.Detail
		}
		out[i] = ViolationResponse{
			Field:   v.Field,
			Code:    v.Code(),
			Message: message,
			Value:   v.Value,
		}
	}
	return out
}

// onlyOverlaps reports whether every violation is a scheduling conflict
func onlyOverlaps(verr *scheduling.ValidationError) bool {
	for _, v := range verr.Violations {
		if !errors.Is(v.Kind, scheduling.ErrOverlap) {
			return false
		}
	}
	return len(verr.Violations) > 0
}

// writeError maps usecase and domain errors to the HTTP envelope.
// fallback is the message used for unexpected errors.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var verr *scheduling.ValidationError

	switch {
	case errors.Is(err, scheduling.ErrAlreadyCancelled):
		response.Conflict(w, "Appointment is already cancelled", nil)
	case errors.As(err, &verr):
		if onlyOverlaps(verr) {
			response.Conflict(w, "Professional already has an appointment in this window", violationsToResponse(verr))
			return
		}
		response.ValidationError(w, violationsToResponse(verr))
	case errors.Is(err, scheduling.ErrDuplicateAssignment):
		response.Conflict(w, "Professional is already assigned to the service", nil)
	case errors.Is(err, usecase.ErrDocumentExists),
		errors.Is(err, usecase.ErrEmailExists),
		errors.Is(err, usecase.ErrHandleExists):
		response.Conflict(w, err.Error(), nil)
	case errors.Is(err, service.ErrLockNotAcquired):
		response.Conflict(w, "Professional calendar is busy, retry shortly", nil)
	case errors.Is(err, scheduling.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrApiKeyNotFound),
		errors.Is(err, usecase.ErrAuditLogNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrInvalidDateRange),
		errors.Is(err, usecase.ErrNameRequired):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidApiKey):
		response.Unauthorized(w, "Invalid api key")
	default:
		response.InternalServerError(w, fallback)
	}
}

// decodeAndValidate reads a JSON body into req and runs struct validation.
// It writes the 400 response itself and reports false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}

// queryID parses an optional positive id from the query string
func queryID(r *http.Request, name string) (*uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, errors.New("invalid " + name)
	}
	v := uint(id)
	return &v, nil
}
