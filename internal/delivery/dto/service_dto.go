package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateServiceRequest struct {
	Name            string              `json:"name" validate:"required,max=255"`
	Description     *string             `json:"description" validate:"omitempty"`
	BotBookable     *bool               `json:"bot_bookable"`
	DurationMinutes int                 `json:"duration_minutes" validate:"required,gt=0"`
	Price           decimal.NullDecimal `json:"price"`
}

type UpdateServiceRequest struct {
	Name            *string              `json:"name" validate:"omitempty,max=255"`
	Description     *string              `json:"description" validate:"omitempty"`
	BotBookable     *bool                `json:"bot_bookable"`
	DurationMinutes *int                 `json:"duration_minutes" validate:"omitempty,gt=0"`
	Price           *decimal.NullDecimal `json:"price"`
}

type AssignProviderRequest struct {
	ProfessionalID uint `json:"professional_id" validate:"required,min=1"`
}

// Response DTOs

type ServiceResponse struct {
	ID              uint                `json:"id"`
	Name            string              `json:"name"`
	Description     *string             `json:"description,omitempty"`
	BotBookable     bool                `json:"bot_bookable"`
	DurationMinutes int                 `json:"duration_minutes"`
	Price           decimal.NullDecimal `json:"price"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}

type ServiceProviderResponse struct {
	ID             uint      `json:"id"`
	ServiceID      uint      `json:"service_id"`
	ProfessionalID uint      `json:"professional_id"`
	CreatedAt      time.Time `json:"created_at"`
}
