package repository

import (
	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
)

type statusEventRepository struct{}

func NewStatusEventRepository() domainRepo.StatusEventRepository {
	return &statusEventRepository{}
}

func (r *statusEventRepository) Create(db *gorm.DB, event *entity.StatusEvent) error {
	return db.Create(event).Error
}

// FindByAppointment returns the full history in append order. Appends are serialized by
// the appointment row lock, so the id sequence is commit order; created_at comes from
// the writer's clock and is not trusted for ordering.
func (r *statusEventRepository) FindByAppointment(db *gorm.DB, appointmentID uint) ([]entity.StatusEvent, error) {
	var events []entity.StatusEvent
	err := db.Where("appointment_id = ?", appointmentID).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
