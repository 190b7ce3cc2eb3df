package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type ConversationStateRepository interface {
	Upsert(db *gorm.DB, state *entity.ConversationState) error
	FindByID(db *gorm.DB, id uint) (*entity.ConversationState, error)
	FindByHandle(db *gorm.DB, handle string) (*entity.ConversationState, error)
	Delete(db *gorm.DB, id uint) error
}
