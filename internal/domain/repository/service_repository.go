package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type ServiceRepository interface {
	Create(db *gorm.DB, service *entity.Service) error
	FindByID(db *gorm.DB, id uint) (*entity.Service, error)
	FindAll(db *gorm.DB, botBookableOnly bool) ([]entity.Service, error)
	Update(db *gorm.DB, service *entity.Service) error
}
