package repository

import (
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type conversationStateRepository struct{}

func NewConversationStateRepository() domainRepo.ConversationStateRepository {
	return &conversationStateRepository{}
}

// Upsert inserts or replaces the payload for the state's handle and reloads the stored row
func (r *conversationStateRepository) Upsert(db *gorm.DB, state *entity.ConversationState) error {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "handle"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(state).Error
	if err != nil {
		return err
	}
	var stored entity.ConversationState
	if err := db.Where("handle = ?", state.Handle).First(&stored).Error; err != nil {
		return err
	}
	*state = stored
	return nil
}

func (r *conversationStateRepository) FindByID(db *gorm.DB, id uint) (*entity.ConversationState, error) {
	var state entity.ConversationState
	err := db.Where("id = ?", id).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *conversationStateRepository) FindByHandle(db *gorm.DB, handle string) (*entity.ConversationState, error) {
	var state entity.ConversationState
	err := db.Where("handle = ?", handle).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *conversationStateRepository) Delete(db *gorm.DB, id uint) error {
	return db.Where("id = ?", id).Delete(&entity.ConversationState{}).Error
}
