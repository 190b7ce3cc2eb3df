package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type ClientProfileRepository interface {
	Create(db *gorm.DB, profile *entity.ClientProfile) error
	FindByPersonID(db *gorm.DB, personID uint) (*entity.ClientProfile, error)
	Update(db *gorm.DB, profile *entity.ClientProfile) error
	ClearConversationState(db *gorm.DB, conversationStateID uint) error
}
