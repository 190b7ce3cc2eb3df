package repository

import (
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type clientProfileRepository struct{}

func NewClientProfileRepository() domainRepo.ClientProfileRepository {
	return &clientProfileRepository{}
}

func (r *clientProfileRepository) Create(db *gorm.DB, profile *entity.ClientProfile) error {
	return db.Omit(clause.Associations).Create(profile).Error
}

func (r *clientProfileRepository) FindByPersonID(db *gorm.DB, personID uint) (*entity.ClientProfile, error) {
	var profile entity.ClientProfile
	err := db.Where("person_id = ?", personID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *clientProfileRepository) Update(db *gorm.DB, profile *entity.ClientProfile) error {
	return db.Omit(clause.Associations).Save(profile).Error
}

// ClearConversationState detaches every client linked to the given state
func (r *clientProfileRepository) ClearConversationState(db *gorm.DB, conversationStateID uint) error {
	return db.Model(&entity.ClientProfile{}).
		Where("conversation_state_id = ?", conversationStateID).
		Update("conversation_state_id", nil).Error
}
