package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateApiKeyRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty"`
}

// Response DTOs

type ApiKeyResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Prefix      string     `json:"prefix"`
	IsActive    bool       `json:"is_active"`
	Description string     `json:"description,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	UsageCount  int64      `json:"usage_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IssuedApiKeyResponse carries the plaintext key. It is returned once, at creation.
type IssuedApiKeyResponse struct {
	ApiKeyResponse
	Key string `json:"key"`
}

type ApiKeyListResponse struct {
	Keys  []ApiKeyResponse `json:"keys"`
	Total int              `json:"total"`
}
