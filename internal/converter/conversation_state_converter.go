package converter

import (
	"encoding/json"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

func ConversationStateToResponse(state *entity.ConversationState) *dto.ConversationStateResponse {
	if state == nil {
		return nil
	}
	return &dto.ConversationStateResponse{
		ID:        state.ID,
		Handle:    state.Handle,
		Payload:   json.RawMessage(state.Payload),
		CreatedAt: state.CreatedAt,
		UpdatedAt: state.UpdatedAt,
	}
}
