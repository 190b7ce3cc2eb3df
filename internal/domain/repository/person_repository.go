package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type PersonRepository interface {
	Create(db *gorm.DB, person *entity.Person) error
	FindByID(db *gorm.DB, id uint) (*entity.Person, error)
	FindByDocumentNumber(db *gorm.DB, documentNumber string) (*entity.Person, error)
	FindByEmail(db *gorm.DB, email string) (*entity.Person, error)
	FindAll(db *gorm.DB, role entity.Role) ([]entity.Person, error)
	Update(db *gorm.DB, person *entity.Person) error
}
