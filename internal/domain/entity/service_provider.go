package entity

import "time"

// ServiceProvider authorizes a professional to be assigned to appointments of a service
type ServiceProvider struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ServiceID      uint      `gorm:"not null;uniqueIndex:idx_service_providers_pair,priority:1" json:"service_id"`
	ProfessionalID uint      `gorm:"not null;uniqueIndex:idx_service_providers_pair,priority:2;index" json:"professional_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Service      Service `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"service,omitempty"`
	Professional Person  `gorm:"foreignKey:ProfessionalID;constraint:OnDelete:CASCADE" json:"professional,omitempty"`
}

func (ServiceProvider) TableName() string {
	return "service_providers"
}
