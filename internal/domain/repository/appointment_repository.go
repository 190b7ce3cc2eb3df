package repository

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uint) (*entity.Appointment, error)
	FindByIDForUpdate(db *gorm.DB, id uint) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	FindOverlapping(db *gorm.DB, professionalID uint, start, end time.Time, excludeID uint) ([]entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	UpdateCurrentStatus(db *gorm.DB, id, statusEventID uint, notes string) error
}
