package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type ServiceProviderRepository interface {
	Create(db *gorm.DB, edge *entity.ServiceProvider) error
	Exists(db *gorm.DB, serviceID, professionalID uint) (bool, error)
	Delete(db *gorm.DB, serviceID, professionalID uint) (int64, error)
	FindByProfessional(db *gorm.DB, professionalID uint) ([]entity.ServiceProvider, error)
	FindServicesByProfessional(db *gorm.DB, professionalID uint) ([]entity.Service, error)
	FindProfessionalsByService(db *gorm.DB, serviceID uint) ([]entity.Person, error)
}
