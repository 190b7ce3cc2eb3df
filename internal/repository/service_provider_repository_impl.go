package repository

import (
	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type serviceProviderRepository struct{}

func NewServiceProviderRepository() domainRepo.ServiceProviderRepository {
	return &serviceProviderRepository{}
}

func (r *serviceProviderRepository) Create(db *gorm.DB, edge *entity.ServiceProvider) error {
	return db.Omit(clause.Associations).Create(edge).Error
}

func (r *serviceProviderRepository) Exists(db *gorm.DB, serviceID, professionalID uint) (bool, error) {
	var count int64
	err := db.Model(&entity.ServiceProvider{}).
		Where("service_id = ? AND professional_id = ?", serviceID, professionalID).
		Count(&count).Error
	return count > 0, err
}

func (r *serviceProviderRepository) Delete(db *gorm.DB, serviceID, professionalID uint) (int64, error) {
	result := db.Where("service_id = ? AND professional_id = ?", serviceID, professionalID).
		Delete(&entity.ServiceProvider{})
	return result.RowsAffected, result.Error
}

func (r *serviceProviderRepository) FindByProfessional(db *gorm.DB, professionalID uint) ([]entity.ServiceProvider, error) {
	var edges []entity.ServiceProvider
	err := db.Where("professional_id = ?", professionalID).Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}

func (r *serviceProviderRepository) FindServicesByProfessional(db *gorm.DB, professionalID uint) ([]entity.Service, error) {
	var services []entity.Service
	err := db.
		Joins("JOIN service_providers ON service_providers.service_id = services.id").
		Where("service_providers.professional_id = ?", professionalID).
		Order("services.name ASC, services.id ASC").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceProviderRepository) FindProfessionalsByService(db *gorm.DB, serviceID uint) ([]entity.Person, error) {
	var persons []entity.Person
	err := db.
		Joins("JOIN service_providers ON service_providers.professional_id = persons.id").
		Where("service_providers.service_id = ?", serviceID).
		Preload("ProfessionalProfile").
		Order("persons.given_names ASC, persons.family_names ASC, persons.id ASC").
		Find(&persons).Error
	if err != nil {
		return nil, err
	}
	return persons, nil
}
