package dto

import "time"

// Request DTOs

type PersonFields struct {
	GivenNames     string  `json:"given_names" validate:"required,max=255"`
	FamilyNames    string  `json:"family_names" validate:"required,max=255"`
	DocumentType   string  `json:"document_type" validate:"required,oneof=CC TI NIT"`
	DocumentNumber string  `json:"document_number" validate:"required,max=100"`
	Email          *string `json:"email" validate:"omitempty,email,max=255"`
	Phone          string  `json:"phone" validate:"required,phone,max=20"`
}

type RegisterClientRequest struct {
	PersonFields
	Age                 *int    `json:"age" validate:"omitempty,gte=0,lte=120"`
	GuardianName        *string `json:"guardian_name" validate:"omitempty,max=255"`
	Neighborhood        *string `json:"neighborhood" validate:"omitempty,max=255"`
	Address             *string `json:"address" validate:"omitempty,max=255"`
	ReferredBySchool    bool    `json:"referred_by_school"`
	SchoolName          *string `json:"school_name" validate:"omitempty,max=255"`
	ConversationStateID *uint   `json:"conversation_state_id" validate:"omitempty,min=1"`
}

type RegisterProfessionalRequest struct {
	PersonFields
	MessagingHandle string  `json:"messaging_handle" validate:"required,phone,max=20"`
	Title           *string `json:"title" validate:"omitempty,max=150"`
}

// UpdateClientProfileRequest edits only the fields present in the body
type UpdateClientProfileRequest struct {
	Phone               *string `json:"phone" validate:"omitempty,phone,max=20"`
	Email               *string `json:"email" validate:"omitempty,email,max=255"`
	Age                 *int    `json:"age" validate:"omitempty,gte=0,lte=120"`
	GuardianName        *string `json:"guardian_name" validate:"omitempty,max=255"`
	Neighborhood        *string `json:"neighborhood" validate:"omitempty,max=255"`
	Address             *string `json:"address" validate:"omitempty,max=255"`
	ReferredBySchool    *bool   `json:"referred_by_school"`
	SchoolName          *string `json:"school_name" validate:"omitempty,max=255"`
	ConversationStateID *uint   `json:"conversation_state_id" validate:"omitempty,min=1"`
}

// Response DTOs

type ClientProfileResponse struct {
	Age                 *int    `json:"age,omitempty"`
	GuardianName        *string `json:"guardian_name,omitempty"`
	Neighborhood        *string `json:"neighborhood,omitempty"`
	Address             *string `json:"address,omitempty"`
	ReferredBySchool    bool    `json:"referred_by_school"`
	SchoolName          *string `json:"school_name,omitempty"`
	ConversationStateID *uint   `json:"conversation_state_id,omitempty"`
}

type ProfessionalProfileResponse struct {
	MessagingHandle string  `json:"messaging_handle"`
	Title           *string `json:"title,omitempty"`
}

type PersonResponse struct {
	ID                  uint                         `json:"id"`
	GivenNames          string                       `json:"given_names"`
	FamilyNames         string                       `json:"family_names"`
	FullName            string                       `json:"full_name"`
	DocumentType        string                       `json:"document_type"`
	DocumentNumber      string                       `json:"document_number"`
	Email               *string                      `json:"email,omitempty"`
	Phone               string                       `json:"phone"`
	Role                string                       `json:"role"`
	ClientProfile       *ClientProfileResponse       `json:"client_profile,omitempty"`
	ProfessionalProfile *ProfessionalProfileResponse `json:"professional_profile,omitempty"`
	CreatedAt           time.Time                    `json:"created_at"`
	UpdatedAt           time.Time                    `json:"updated_at"`
}

type PersonListResponse struct {
	Persons []PersonResponse `json:"persons"`
	Total   int              `json:"total"`
}
