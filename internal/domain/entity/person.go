package entity

import "time"

// DocumentType identifies the kind of identity document a person registered with
type DocumentType string

const (
	DocumentNationalID DocumentType = "CC"
	DocumentMinorID    DocumentType = "TI"
	DocumentTaxID      DocumentType = "NIT"
)

// IsValid reports whether the document type is one of the supported values
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentNationalID, DocumentMinorID, DocumentTaxID:
		return true
	}
	return false
}

// Role tags a person as a client or a professional
type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
)

// IsValid reports whether the role is one of the supported values
func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleProfessional
}

// RoleProfile is the role-specific side of a Person: either a *ClientProfile or a
// *ProfessionalProfile.
type RoleProfile interface {
	Role() Role
}

// Person is shared by clients and professionals. The role is fixed at registration.
type Person struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	GivenNames     string       `gorm:"type:varchar(255);not null;index:idx_persons_full_name,priority:1" json:"given_names"`
	FamilyNames    string       `gorm:"type:varchar(255);not null;index:idx_persons_full_name,priority:2" json:"family_names"`
	DocumentType   DocumentType `gorm:"type:varchar(30);not null;index" json:"document_type"`
	DocumentNumber string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"document_number"`
	Email          *string      `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Phone          string       `gorm:"type:varchar(20);not null;index" json:"phone"`
	Role           Role         `gorm:"type:varchar(20);not null;index" json:"role"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	ClientProfile       *ClientProfile       `gorm:"foreignKey:PersonID" json:"client_profile,omitempty"`
	ProfessionalProfile *ProfessionalProfile `gorm:"foreignKey:PersonID" json:"professional_profile,omitempty"`
}

func (Person) TableName() string {
	return "persons"
}

// Profile resolves the role variant. It returns nil when the side row matching the
// role tag has not been loaded or does not exist.
func (p *Person) Profile() RoleProfile {
	switch p.Role {
	case RoleClient:
		if p.ClientProfile != nil {
			return p.ClientProfile
		}
	case RoleProfessional:
		if p.ProfessionalProfile != nil {
			return p.ProfessionalProfile
		}
	}
	return nil
}

// FullName joins given and family names
func (p *Person) FullName() string {
	if p.FamilyNames == "" {
		return p.GivenNames
	}
	return p.GivenNames + " " + p.FamilyNames
}
