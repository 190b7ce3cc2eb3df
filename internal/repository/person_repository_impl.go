package repository

import (
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type personRepository struct{}

func NewPersonRepository() domainRepo.PersonRepository {
	return &personRepository{}
}

// Create inserts the person row only; profiles are written by their own repositories
func (r *personRepository) Create(db *gorm.DB, person *entity.Person) error {
	return db.Omit(clause.Associations).Create(person).Error
}

func (r *personRepository) FindByID(db *gorm.DB, id uint) (*entity.Person, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *personRepository) FindByDocumentNumber(db *gorm.DB, documentNumber string) (*entity.Person, error) {
	return r.findOne(db.Where("document_number = ?", documentNumber))
}

func (r *personRepository) FindByEmail(db *gorm.DB, email string) (*entity.Person, error) {
	return r.findOne(db.Where("email = ?", email))
}

func (r *personRepository) FindAll(db *gorm.DB, role entity.Role) ([]entity.Person, error) {
	var persons []entity.Person
	query := db.Preload("ClientProfile").Preload("ProfessionalProfile")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	err := query.Order("given_names ASC, family_names ASC, id ASC").Find(&persons).Error
	if err != nil {
		return nil, err
	}
	return persons, nil
}

func (r *personRepository) Update(db *gorm.DB, person *entity.Person) error {
	return db.Omit(clause.Associations, "Role").Save(person).Error
}

func (r *personRepository) findOne(query *gorm.DB) (*entity.Person, error) {
	var person entity.Person
	err := query.Preload("ClientProfile").Preload("ProfessionalProfile").First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &person, nil
}
