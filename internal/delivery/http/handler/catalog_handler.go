package handler

import (
	"net/http"
	"strconv"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
	validator      *validator.CustomValidator
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase, validator *validator.CustomValidator) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
		validator:      validator,
	}
}

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateServiceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	svc, err := h.catalogUsecase.CreateService(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create service")
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", svc)
}

func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	var req dto.UpdateServiceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	svc, err := h.catalogUsecase.UpdateService(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update service")
		return
	}

	response.Success(w, http.StatusOK, "Service updated successfully", svc)
}

func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	svc, err := h.catalogUsecase.GetService(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get service")
		return
	}

	response.Success(w, http.StatusOK, "Service retrieved successfully", svc)
}

// ListServices returns only bot-bookable services when ?bot_bookable=true
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	botBookableOnly := false
	if raw := r.URL.Query().Get("bot_bookable"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "Invalid bot_bookable flag")
			return
		}
		botBookableOnly = parsed
	}

	services, err := h.catalogUsecase.ListServices(r.Context(), botBookableOnly)
	if err != nil {
		writeError(w, err, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

func (h *CatalogHandler) AssignProvider(w http.ResponseWriter, r *http.Request) {
	serviceID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	var req dto.AssignProviderRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	edge, err := h.catalogUsecase.Assign(r.Context(), serviceID, req.ProfessionalID)
	if err != nil {
		writeError(w, err, "Failed to assign professional")
		return
	}

	response.Success(w, http.StatusCreated, "Professional assigned successfully", edge)
}

func (h *CatalogHandler) UnassignProvider(w http.ResponseWriter, r *http.Request) {
	serviceID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}
	professionalID, err := pathID(r, "professionalId")
	if err != nil {
		response.BadRequest(w, "Invalid professional ID")
		return
	}

	if err := h.catalogUsecase.Unassign(r.Context(), serviceID, professionalID); err != nil {
		writeError(w, err, "Failed to unassign professional")
		return
	}

	response.Success(w, http.StatusOK, "Professional unassigned successfully", nil)
}

func (h *CatalogHandler) ListProfessionalsForService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	professionals, err := h.catalogUsecase.ListProfessionalsFor(r.Context(), serviceID)
	if err != nil {
		writeError(w, err, "Failed to get professionals")
		return
	}

	response.Success(w, http.StatusOK, "Professionals retrieved successfully", professionals)
}

func (h *CatalogHandler) ListServicesForProfessional(w http.ResponseWriter, r *http.Request) {
	professionalID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid professional ID")
		return
	}

	services, err := h.catalogUsecase.ListServicesFor(r.Context(), professionalID)
	if err != nil {
		writeError(w, err, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}
