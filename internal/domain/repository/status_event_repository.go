package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type StatusEventRepository interface {
	Create(db *gorm.DB, event *entity.StatusEvent) error
	FindByAppointment(db *gorm.DB, appointmentID uint) ([]entity.StatusEvent, error)
}
