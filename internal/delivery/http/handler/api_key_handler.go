package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ApiKeyHandler struct {
	apiKeyUsecase usecase.ApiKeyUsecase
	validator     *validator.CustomValidator
}

func NewApiKeyHandler(apiKeyUsecase usecase.ApiKeyUsecase, validator *validator.CustomValidator) *ApiKeyHandler {
	return &ApiKeyHandler{
		apiKeyUsecase: apiKeyUsecase,
		validator:     validator,
	}
}

func (h *ApiKeyHandler) IssueKey(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateApiKeyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	key, err := h.apiKeyUsecase.Issue(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to issue api key")
		return
	}

	response.Success(w, http.StatusCreated, "Api key issued, store it now: it will not be shown again", key)
}

func (h *ApiKeyHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.apiKeyUsecase.List(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get api keys")
		return
	}

	response.Success(w, http.StatusOK, "Api keys retrieved successfully", keys)
}

func (h *ApiKeyHandler) RevokeKey(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid api key ID")
		return
	}

	if err := h.apiKeyUsecase.Revoke(r.Context(), id); err != nil {
		writeError(w, err, "Failed to revoke api key")
		return
	}

	response.Success(w, http.StatusOK, "Api key revoked successfully", nil)
}
