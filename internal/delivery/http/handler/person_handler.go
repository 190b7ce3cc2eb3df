package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/gorilla/mux"
)

type PersonHandler struct {
	identityUsecase usecase.IdentityUsecase
	validator       *validator.CustomValidator
}

func NewPersonHandler(identityUsecase usecase.IdentityUsecase, validator *validator.CustomValidator) *PersonHandler {
	return &PersonHandler{
		identityUsecase: identityUsecase,
		validator:       validator,
	}
}

func (h *PersonHandler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterClientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	person, err := h.identityUsecase.RegisterClient(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to register client")
		return
	}

	response.Success(w, http.StatusCreated, "Client registered successfully", person)
}

func (h *PersonHandler) RegisterProfessional(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterProfessionalRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	person, err := h.identityUsecase.RegisterProfessional(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to register professional")
		return
	}

	response.Success(w, http.StatusCreated, "Professional registered successfully", person)
}

func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid person ID")
		return
	}

	person, err := h.identityUsecase.GetPerson(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get person")
		return
	}

	response.Success(w, http.StatusOK, "Person retrieved successfully", person)
}

func (h *PersonHandler) GetPersonByDocument(w http.ResponseWriter, r *http.Request) {
	person, err := h.identityUsecase.GetPersonByDocument(r.Context(), mux.Vars(r)["document"])
	if err != nil {
		writeError(w, err, "Failed to get person")
		return
	}

	response.Success(w, http.StatusOK, "Person retrieved successfully", person)
}

// ListPersons filters by the optional ?role= query parameter
func (h *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	role := entity.Role(r.URL.Query().Get("role"))

	persons, err := h.identityUsecase.ListPersons(r.Context(), role)
	if err != nil {
		writeError(w, err, "Failed to get persons")
		return
	}

	response.Success(w, http.StatusOK, "Persons retrieved successfully", persons)
}

func (h *PersonHandler) UpdateClientProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid client ID")
		return
	}

	var req dto.UpdateClientProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	person, err := h.identityUsecase.UpdateClientProfile(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update client")
		return
	}

	response.Success(w, http.StatusOK, "Client updated successfully", person)
}
