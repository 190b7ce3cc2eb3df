package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/gorilla/mux"
)

type ConversationStateHandler struct {
	conversationUsecase usecase.ConversationStateUsecase
	validator           *validator.CustomValidator
}

func NewConversationStateHandler(conversationUsecase usecase.ConversationStateUsecase, validator *validator.CustomValidator) *ConversationStateHandler {
	return &ConversationStateHandler{
		conversationUsecase: conversationUsecase,
		validator:           validator,
	}
}

func (h *ConversationStateHandler) UpsertState(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertConversationStateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	state, err := h.conversationUsecase.Upsert(r.Context(), mux.Vars(r)["handle"], &req)
	if err != nil {
		writeError(w, err, "Failed to save conversation state")
		return
	}

	response.Success(w, http.StatusOK, "Conversation state saved successfully", state)
}

func (h *ConversationStateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.conversationUsecase.GetByHandle(r.Context(), mux.Vars(r)["handle"])
	if err != nil {
		writeError(w, err, "Failed to get conversation state")
		return
	}

	response.Success(w, http.StatusOK, "Conversation state retrieved successfully", state)
}

func (h *ConversationStateHandler) DeleteState(w http.ResponseWriter, r *http.Request) {
	if err := h.conversationUsecase.Delete(r.Context(), mux.Vars(r)["handle"]); err != nil {
		writeError(w, err, "Failed to delete conversation state")
		return
	}

	response.Success(w, http.StatusOK, "Conversation state deleted successfully", nil)
}
