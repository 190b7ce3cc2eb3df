package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// ApiKeyToResponse never exposes the key hash
func ApiKeyToResponse(key *entity.ApiKey) *dto.ApiKeyResponse {
	if key == nil {
		return nil
	}
	return &dto.ApiKeyResponse{
		ID:          key.ID,
		Name:        key.Name,
		Prefix:      key.Prefix,
		IsActive:    key.IsActive,
		Description: key.Description,
		LastUsedAt:  key.LastUsedAt,
		UsageCount:  key.UsageCount,
		CreatedAt:   key.CreatedAt,
	}
}

func ApiKeysToResponses(keys []entity.ApiKey) []dto.ApiKeyResponse {
	responses := make([]dto.ApiKeyResponse, len(keys))
	for i := range keys {
		responses[i] = *ApiKeyToResponse(&keys[i])
	}
	return responses
}
