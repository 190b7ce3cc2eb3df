package dto

import (
	"encoding/json"
	"time"
)

// Request DTOs

type UpsertConversationStateRequest struct {
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// Response DTOs

type ConversationStateResponse struct {
	ID        uint            `json:"id"`
	Handle    string          `json:"handle"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
