package repository

import (
	"errors"
	"time"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uint) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := withDetails(db).Where("appointments.id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindByIDForUpdate locks the appointment row until the surrounding transaction ends.
// Only the current status event is attached; it is read after the lock is held.
func (r *appointmentRepository) FindByIDForUpdate(db *gorm.DB, id uint) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if appointment.CurrentStatusEventID != nil {
		var event entity.StatusEvent
		if err := db.Where("id = ?", *appointment.CurrentStatusEventID).First(&event).Error; err != nil {
			return nil, err
		}
		appointment.CurrentStatus = &event
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := withDetails(db)

	if filter.StartFrom != nil {
		query = query.Where("appointments.start_at >= ?", *filter.StartFrom)
	}
	if filter.StartBefore != nil {
		query = query.Where("appointments.start_at < ?", *filter.StartBefore)
	}
	if filter.ClientID != nil {
		query = query.Where("appointments.client_id = ?", *filter.ClientID)
	}
	if filter.ProfessionalID != nil {
		query = query.Where("appointments.professional_id = ?", *filter.ProfessionalID)
	}
	if filter.ServiceID != nil {
		query = query.Where("appointments.service_id = ?", *filter.ServiceID)
	}
	switch filter.Status {
	case "":
	case entity.StatusUnset:
		query = query.Where("appointments.current_status_event_id IS NULL")
	default:
		query = query.
			Joins("JOIN status_events AS current_event ON current_event.id = appointments.current_status_event_id").
			Where("current_event.status = ?", filter.Status)
	}

	err := query.Order("appointments.start_at ASC, appointments.id ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindOverlapping returns the professional's appointments intersecting [start, end),
// cancelled ones included. excludeID skips the appointment being edited.
func (r *appointmentRepository) FindOverlapping(db *gorm.DB, professionalID uint, start, end time.Time, excludeID uint) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("CurrentStatus").
		Where("professional_id = ? AND start_at < ? AND end_at > ? AND id <> ?", professionalID, end, start, excludeID).
		Order("start_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Update persists the editable scheduling fields. Notes and the status pointer are
// owned by the transition path and are never written here.
func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Model(appointment).
		Select("ClientID", "ServiceID", "ProfessionalID", "StartAt", "EndAt", "CalendarEventID", "CalendarEventURL").
		Updates(appointment).Error
}

func (r *appointmentRepository) UpdateCurrentStatus(db *gorm.DB, id, statusEventID uint, notes string) error {
	return db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_status_event_id": statusEventID,
			"notes":                   notes,
		}).Error
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Client.ClientProfile").
		Preload("Service").
		Preload("Professional.ProfessionalProfile").
		Preload("CurrentStatus")
}
