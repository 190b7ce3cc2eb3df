package entity

// ProfessionalProfile holds professional-specific data for a Person with RoleProfessional
type ProfessionalProfile struct {
	PersonID        uint    `gorm:"primaryKey;autoIncrement:false" json:"person_id"`
	MessagingHandle string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"messaging_handle"`
	Title           *string `gorm:"type:varchar(150);index" json:"title,omitempty"`
}

func (ProfessionalProfile) TableName() string {
	return "professional_profiles"
}

func (*ProfessionalProfile) Role() Role {
	return RoleProfessional
}
